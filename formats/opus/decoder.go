// SPDX-License-Identifier: EPL-2.0

//go:build opus

package opus

import (
	"fmt"
	"io"

	libopus "github.com/hraban/opus"

	"github.com/ik5/audfx/audio"
)

type Decoder struct{ Sniffer }

// Decode reads the whole stream and returns 48 kHz PCM with the encoder
// lookahead removed and the padding of the last packet trimmed.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading opus data: %w", err)
	}

	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	pkts, frames, err := packets(data[headerSize:])
	if err != nil {
		return nil, err
	}
	if frames < 0 && h.Frames > 0 {
		frames = h.Frames
	}

	dec, err := libopus.NewDecoder(CodecRate, h.Channels)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	pcm := make([]int16, 0, len(pkts)*FrameSize*h.Channels)
	frame := make([]int16, FrameSize*h.Channels)
	for i, p := range pkts {
		n, err := dec.Decode(p, frame)
		if err != nil {
			return nil, fmt.Errorf("decoding packet %d: %w", i, err)
		}
		pcm = append(pcm, frame[:n*h.Channels]...)
	}

	skip := min(h.PreSkip*h.Channels, len(pcm))
	pcm = pcm[skip:]

	if h.SourceRate > 0 && frames >= 0 {
		want := int((frames*CodecRate + int64(h.SourceRate) - 1) / int64(h.SourceRate))
		if want*h.Channels < len(pcm) {
			pcm = pcm[:want*h.Channels]
		}
	}

	return audio.Int16Source(pcm, CodecRate, h.Channels), nil
}
