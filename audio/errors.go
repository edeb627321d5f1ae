// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrDecode is wrapped by every failure to turn file bytes into PCM.
	ErrDecode = errors.New("unable to decode audio")

	// ErrUnknownFormat means no registered decoder recognised the data.
	ErrUnknownFormat = errors.New("unknown audio format")

	// ErrEmptyTrack is returned when a stream decodes to zero frames.
	ErrEmptyTrack = errors.New("audio contains no samples")

	// ErrInvalidLayout is returned for buffers with ragged or missing channels.
	ErrInvalidLayout = errors.New("invalid channel layout")

	ErrSeekOutOfRange = errors.New("seek position out of range")
)
