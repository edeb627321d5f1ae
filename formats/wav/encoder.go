// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audfx/encode"
)

const bitDepth = 16

// Encoder writes 16-bit PCM WAV in memory. The RIFF sizes are only known
// once all blocks are in, so EncodeBlock never returns bytes and Flush
// returns the whole file.
type Encoder struct {
	out      *writeSeeker
	enc      *gowav.Encoder
	channels int
	frames   int
	buf      *goaudio.IntBuffer
}

// NewEncoder returns an Encoder for mono or stereo output.
func NewEncoder(sampleRate, channels int) (*Encoder, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedWavLayout, channels)
	}

	out := &writeSeeker{}
	return &Encoder{
		out:      out,
		enc:      gowav.NewEncoder(out, sampleRate, bitDepth, channels, pcmFormat),
		channels: channels,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// EncodeBlock appends one block of frames. right is ignored for mono output.
func (e *Encoder) EncodeBlock(left, right []int16) ([]byte, error) {
	if e.channels == 2 && len(left) != len(right) {
		return nil, ErrChannelMismatch
	}
	if len(left) == 0 {
		return nil, nil
	}

	need := len(left) * e.channels
	if cap(e.buf.Data) < need {
		e.buf.Data = make([]int, need)
	}
	e.buf.Data = e.buf.Data[:need]

	for i, l := range left {
		if e.channels == 1 {
			e.buf.Data[i] = int(l)
			continue
		}
		e.buf.Data[2*i] = int(l)
		e.buf.Data[2*i+1] = int(right[i])
	}

	if err := e.enc.Write(e.buf); err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	e.frames += len(left)

	return nil, nil
}

// Flush finalises the RIFF headers and returns the complete file.
func (e *Encoder) Flush() ([]byte, error) {
	if e.frames == 0 {
		// Emit the headers and an empty data chunk.
		e.buf.Data = e.buf.Data[:0]
		if err := e.enc.Write(e.buf); err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}
	if err := e.enc.Close(); err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return e.out.Bytes(), nil
}

// EncoderFactory registers WAV as an export format.
type EncoderFactory struct{}

func (EncoderFactory) New(sampleRate, channels int) (encode.Encoder, error) {
	return NewEncoder(sampleRate, channels)
}

func (EncoderFactory) Extension() string { return ".wav" }
func (EncoderFactory) MIMEType() string  { return "audio/wav" }

// writeSeeker implements io.WriteSeeker over a growing byte slice.
type writeSeeker struct {
	data   []byte
	offset int64
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	end := w.offset + int64(len(p))
	if end > int64(len(w.data)) {
		w.data = append(w.data, make([]byte, end-int64(len(w.data)))...)
	}
	copy(w.data[w.offset:], p)
	w.offset = end

	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case io.SeekStart:
		next = offset
	case io.SeekCurrent:
		next = w.offset + offset
	case io.SeekEnd:
		next = int64(len(w.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if next < 0 {
		return 0, fmt.Errorf("negative position")
	}
	w.offset = next

	return next, nil
}

func (w *writeSeeker) Bytes() []byte {
	return w.data
}
