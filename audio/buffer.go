// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Buffer is a fully decoded PCM track stored as one slice per channel.
// A Buffer is never modified once handed to a caller; operations that
// change samples return a new Buffer.
type Buffer struct {
	rate int
	data [][]float32
}

// NewBuffer allocates a silent buffer.
func NewBuffer(sampleRate, channels, frames int) *Buffer {
	data := make([][]float32, channels)
	for c := range data {
		data[c] = make([]float32, frames)
	}

	return &Buffer{rate: sampleRate, data: data}
}

// FromChannels wraps per-channel sample slices. All channels must have the
// same length and there must be at least one channel.
func FromChannels(sampleRate int, channels [][]float32) (*Buffer, error) {
	if len(channels) == 0 || sampleRate <= 0 {
		return nil, ErrInvalidLayout
	}
	for _, ch := range channels[1:] {
		if len(ch) != len(channels[0]) {
			return nil, ErrInvalidLayout
		}
	}

	return &Buffer{rate: sampleRate, data: channels}, nil
}

// ReadAll drains src into a Buffer, de-interleaving as it goes.
func ReadAll(src Source) (*Buffer, error) {
	channels := src.Channels()
	if channels <= 0 {
		return nil, ErrInvalidLayout
	}

	size := src.BufSize()
	if size < channels {
		size = 4096
	}
	size -= size % channels
	tmp := make([]float32, size)

	b := &Buffer{rate: src.SampleRate(), data: make([][]float32, channels)}
	for {
		n, err := src.ReadSamples(tmp)
		n -= n % channels
		for i := 0; i < n; i += channels {
			for c := range channels {
				b.data[c] = append(b.data[c], tmp[i+c])
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		if n == 0 {
			// Source returned neither data nor EOF; treat as finished.
			break
		}
	}

	return b, nil
}

func (b *Buffer) SampleRate() int { return b.rate }
func (b *Buffer) Channels() int   { return len(b.data) }

// Frames is the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.data) == 0 {
		return 0
	}
	return len(b.data[0])
}

// Duration in seconds.
func (b *Buffer) Duration() float64 {
	if b.rate == 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.rate)
}

// Length is Duration as a time.Duration.
func (b *Buffer) Length() time.Duration {
	return time.Duration(b.Duration() * float64(time.Second))
}

// Channel returns the samples of channel c. The slice must not be modified.
func (b *Buffer) Channel(c int) []float32 {
	return b.data[c]
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	data := make([][]float32, len(b.data))
	for c, ch := range b.data {
		data[c] = append([]float32(nil), ch...)
	}

	return &Buffer{rate: b.rate, data: data}
}

// Reversed returns a copy with every channel read backwards.
func (b *Buffer) Reversed() *Buffer {
	data := make([][]float32, len(b.data))
	for c, ch := range b.data {
		dst := make([]float32, len(ch))
		for i, j := 0, len(ch)-1; i < len(ch); i, j = i+1, j-1 {
			dst[i] = ch[j]
		}
		data[c] = dst
	}

	return &Buffer{rate: b.rate, data: data}
}

// Source returns a streaming view of the buffer with interleaved samples.
func (b *Buffer) Source() Source {
	return &bufferSource{buf: b}
}

type bufferSource struct {
	buf *Buffer
	pos int
}

func (s *bufferSource) SampleRate() int { return s.buf.rate }
func (s *bufferSource) Channels() int   { return s.buf.Channels() }
func (s *bufferSource) BufSize() int    { return 4096 }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	channels := s.buf.Channels()
	if len(dst)%channels != 0 {
		return 0, ErrInvalidDstSize
	}

	remaining := s.buf.Frames() - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}

	frames := min(len(dst)/channels, remaining)
	for f := range frames {
		for c := range channels {
			dst[f*channels+c] = s.buf.data[c][s.pos+f]
		}
	}
	s.pos += frames

	if s.pos >= s.buf.Frames() {
		return frames * channels, io.EOF
	}

	return frames * channels, nil
}
