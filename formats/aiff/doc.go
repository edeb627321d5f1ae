// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// Signed PCM at 8, 16, 24 and 32 bits is supported in any channel count and
// sample rate. Samples are delivered as interleaved float32 in [-1.0, 1.0].
//
//	reg := audio.NewRegistry()
//	reg.Register("aiff", aiff.Decoder{})
//	buf, err := audio.DecodeAll(ctx, reg, data)
//
// Decoder.Sniff recognises FORM containers of type AIFF or AIFC, so the
// decoder takes part in content detection. Compressed AIFC payloads are
// rejected by go-audio and surface as ErrNotAiffFile or ErrUnsupportedBitDepth.
package aiff
