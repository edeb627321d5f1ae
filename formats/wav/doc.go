// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files on top of github.com/go-audio/wav.
//
// Decoding handles integer PCM at 8 (unsigned), 16, 24 and 32 bits. Writing
// produces 16-bit PCM through Encoder, which implements encode.Encoder so a
// rendered buffer can be exported as a lossless fallback:
//
//	enc, _ := wav.NewEncoder(44100, 2)
//	data, err := encode.EncodeBuffer(enc, rendered)
//
// EncodeBlock buffers the PCM and returns no bytes; the complete file,
// header included, is returned by Flush.
package wav
