// SPDX-License-Identifier: EPL-2.0

package opus

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

const (
	magic      = "AFXO"
	version    = 1
	headerSize = 20

	// CodecRate is the only rate the packets are encoded at.
	CodecRate = 48000
	// FrameSize is 20 ms at CodecRate.
	FrameSize = CodecRate / 50

	// maxPacket bounds a single encoded packet; libopus never exceeds it.
	maxPacket = 1275 * 3

	// preSkip is the libopus encoder lookahead at 48 kHz.
	preSkip = 312

	// trailerMark replaces a packet length to introduce the frame count
	// of a streamed encode. It is larger than any packet.
	trailerMark = 0xffff

	// Name is the key used in the encoder and decoder registries.
	Name = "opus"
)

var (
	// ErrNotOpusStream indicates data without the container magic.
	ErrNotOpusStream = errors.New("not an opus packet stream")

	// ErrUnsupportedVersion is returned for a header version other than 1.
	ErrUnsupportedVersion = errors.New("unsupported opus stream version")

	// ErrTruncated indicates a packet running past the end of the data.
	ErrTruncated = errors.New("truncated opus stream")

	// ErrUnsupportedChannels is returned for channel counts other than 1 or 2.
	ErrUnsupportedChannels = errors.New("opus streams carry one or two channels")

	// ErrCodecUnavailable is returned when decoding in a build without libopus.
	ErrCodecUnavailable = errors.New("opus codec not compiled in")
)

type header struct {
	Channels   int
	PreSkip    int
	SourceRate int
	Frames     int64
}

func (h header) append(dst []byte) []byte {
	dst = append(dst, magic...)
	dst = append(dst, version, byte(h.Channels))
	dst = binary.LittleEndian.AppendUint16(dst, uint16(h.PreSkip))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(h.SourceRate))
	dst = binary.LittleEndian.AppendUint64(dst, uint64(h.Frames))

	return dst
}

func parseHeader(data []byte) (header, error) {
	if len(data) < headerSize || !bytes.Equal(data[:4], []byte(magic)) {
		return header{}, ErrNotOpusStream
	}
	if data[4] != version {
		return header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[4])
	}

	h := header{
		Channels:   int(data[5]),
		PreSkip:    int(binary.LittleEndian.Uint16(data[6:])),
		SourceRate: int(binary.LittleEndian.Uint32(data[8:])),
	}
	frames := binary.LittleEndian.Uint64(data[12:])
	if frames > math.MaxInt64 {
		return header{}, fmt.Errorf("%w: frame count overflow", ErrTruncated)
	}
	h.Frames = int64(frames)

	if h.Channels != 1 && h.Channels != 2 {
		return header{}, fmt.Errorf("%w: %d", ErrUnsupportedChannels, h.Channels)
	}

	return h, nil
}

func appendPacket(dst, packet []byte) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, uint16(len(packet)))
	return append(dst, packet...)
}

// appendTrailer closes a stream whose header was written before the
// frame count was known.
func appendTrailer(dst []byte, frames int64) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, trailerMark)
	return binary.LittleEndian.AppendUint64(dst, uint64(frames))
}

// packets splits the body following the header into its payloads. frames
// is the source frame count from the trailer, or -1 when there is none.
func packets(body []byte) (out [][]byte, frames int64, err error) {
	frames = -1
	for len(body) > 0 {
		if len(body) < 2 {
			return nil, 0, ErrTruncated
		}
		size := int(binary.LittleEndian.Uint16(body))
		body = body[2:]
		if size == trailerMark {
			if len(body) != 8 {
				return nil, 0, fmt.Errorf("%w: trailer of %d bytes", ErrTruncated, len(body))
			}
			n := binary.LittleEndian.Uint64(body)
			if n > math.MaxInt64 {
				return nil, 0, fmt.Errorf("%w: frame count overflow", ErrTruncated)
			}
			return out, int64(n), nil
		}
		if size > len(body) {
			return nil, 0, fmt.Errorf("%w: packet of %d bytes, %d left", ErrTruncated, size, len(body))
		}
		out = append(out, body[:size])
		body = body[size:]
	}

	return out, frames, nil
}

// Sniffer recognises the container without needing the codec, so detection
// works in every build.
type Sniffer struct{}

func (Sniffer) Sniff(header []byte) bool {
	return bytes.HasPrefix(header, []byte(magic))
}
