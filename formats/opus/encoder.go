// SPDX-License-Identifier: EPL-2.0

//go:build opus

package opus

import (
	"fmt"

	libopus "github.com/hraban/opus"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/encode"
)

const bitrate = 160000

// Encoder turns 16-bit PCM blocks into packets as they arrive. Input at
// another rate goes through a ChunkResampler first, since libopus only
// accepts a handful of rates. The header is part of the first non-empty
// chunk; Flush pads the last packet and appends the frame count trailer.
type Encoder struct {
	sampleRate int
	channels   int
	frames     int64

	enc       *libopus.Encoder
	resampler *audio.ChunkResampler
	pending   []int16
	packet    []byte
	started   bool
}

func NewEncoder(sampleRate, channels int) (*Encoder, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	enc, err := libopus.NewEncoder(CodecRate, channels, libopus.AppAudio)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	if err := enc.SetBitrate(bitrate); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	e := &Encoder{
		sampleRate: sampleRate,
		channels:   channels,
		enc:        enc,
		// The lookahead goes in as silence so the decoder can drop it.
		pending: make([]int16, preSkip*channels),
		packet:  make([]byte, maxPacket),
	}
	if sampleRate != CodecRate {
		e.resampler = audio.NewChunkResampler(sampleRate, CodecRate, channels)
	}

	return e, nil
}

func (e *Encoder) EncodeBlock(left, right []int16) ([]byte, error) {
	if len(left) != len(right) {
		return nil, fmt.Errorf("%w: %d != %d", encode.ErrChannelLength, len(left), len(right))
	}
	e.frames += int64(len(left))

	var pcm []int16
	if e.channels == 1 {
		pcm = left
	} else {
		pcm = make([]int16, 0, 2*len(left))
		for i := range left {
			pcm = append(pcm, left[i], right[i])
		}
	}

	if e.resampler != nil {
		var err error
		pcm, err = e.resampler.Push(pcm)
		if err != nil {
			return nil, fmt.Errorf("resampling to %d Hz: %w", CodecRate, err)
		}
	}
	e.pending = append(e.pending, pcm...)

	return e.drain(nil, false)
}

func (e *Encoder) Flush() ([]byte, error) {
	if e.resampler != nil {
		tail, err := e.resampler.Flush()
		if err != nil {
			return nil, fmt.Errorf("resampling to %d Hz: %w", CodecRate, err)
		}
		e.pending = append(e.pending, tail...)
	}

	out, err := e.drain(nil, true)
	if err != nil {
		return nil, err
	}
	out = e.start(out)

	return appendTrailer(out, e.frames), nil
}

// start prepends the header the first time anything is written.
func (e *Encoder) start(out []byte) []byte {
	if e.started {
		return out
	}
	e.started = true

	return append(header{
		Channels:   e.channels,
		PreSkip:    preSkip,
		SourceRate: e.sampleRate,
	}.append(nil), out...)
}

// drain encodes every whole frame in pending, and the zero padded
// remainder when last is set.
func (e *Encoder) drain(out []byte, last bool) ([]byte, error) {
	step := FrameSize * e.channels
	for len(e.pending) >= step || (last && len(e.pending) > 0) {
		chunk := e.pending
		if len(chunk) < step {
			chunk = append(chunk, make([]int16, step-len(chunk))...)
		}

		size, err := e.enc.Encode(chunk[:step], e.packet)
		if err != nil {
			return nil, fmt.Errorf("encoding packet: %w", err)
		}
		out = appendPacket(out, e.packet[:size])
		e.pending = e.pending[min(step, len(e.pending)):]
	}
	if len(out) > 0 {
		out = e.start(out)
	}

	return out, nil
}

type EncoderFactory struct{}

func (EncoderFactory) New(sampleRate, channels int) (encode.Encoder, error) {
	return NewEncoder(sampleRate, channels)
}

func (EncoderFactory) Extension() string { return ".opx" }
func (EncoderFactory) MIMEType() string  { return "audio/x-opus-packets" }
