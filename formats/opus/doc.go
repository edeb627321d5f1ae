// SPDX-License-Identifier: EPL-2.0

// Package opus exports audio as a stream of Opus packets and reads it back.
//
// The container is a 20 byte header followed by length-prefixed 20 ms
// packets at 48 kHz.
//
//	offset  size  field
//	0       4     magic "AFXO"
//	4       1     version (1)
//	5       1     channels
//	6       2     pre-skip in 48 kHz frames, little endian
//	8       4     source sample rate, little endian
//	12      8     source frame count, little endian, 0 if streamed
//	20      ...   packets: uint16 length + payload
//
// The encoder emits packets as input arrives, before the length is known,
// so its header carries a zero frame count and the stream ends with a
// trailer: the length 0xffff followed by the uint64 source frame count.
// Decoders trim the padding of the last packet using whichever count is
// present.
//
// The codec itself needs libopus through cgo and is only compiled with the
// opus build tag. Without it Register is a no-op, so encoder lookups fail
// with encode.ErrEncoderUnavailable and callers fall back to another format.
package opus
