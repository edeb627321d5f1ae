// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audfx/utils"
)

// ResampleInt16 resamples src to targetRate and collects the result as
// interleaved 16-bit PCM with the same channel count.
//
// bufferSize is rounded down to a multiple of the channel count.
func ResampleInt16(src Source, targetRate, bufferSize int) ([]int16, error) {
	channels := src.Channels()
	if bufferSize < channels {
		bufferSize = 4096
	}
	bufferSize -= bufferSize % channels

	var in Source = src
	if src.SampleRate() != targetRate {
		in = NewResampler(src, targetRate)
	}

	buf := make([]float32, bufferSize)
	pcm := make([]int16, 0, bufferSize)

	for {
		n, err := in.ReadSamples(buf)
		if n > 0 {
			start := len(pcm)
			pcm = append(pcm, make([]int16, n)...)
			utils.Float32SliceToInt16(pcm[start:], buf[:n])
		}

		if errors.Is(err, io.EOF) {
			return pcm, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		if n == 0 {
			return pcm, nil
		}
	}
}

// Int16Source exposes interleaved 16-bit PCM as a Source.
func Int16Source(pcm []int16, sampleRate, channels int) Source {
	return &int16Source{pcm: pcm, rate: sampleRate, channels: channels}
}

type int16Source struct {
	pcm      []int16
	rate     int
	channels int
	pos      int
}

func (s *int16Source) SampleRate() int { return s.rate }
func (s *int16Source) Channels() int   { return s.channels }
func (s *int16Source) BufSize() int    { return 4096 }
func (s *int16Source) Close() error    { return nil }

func (s *int16Source) ReadSamples(dst []float32) (int, error) {
	if s.pos >= len(s.pcm) {
		return 0, io.EOF
	}

	n := copyInt16(dst, s.pcm[s.pos:])
	n -= n % s.channels
	s.pos += n
	if s.pos >= len(s.pcm) {
		return n, io.EOF
	}

	return n, nil
}

func copyInt16(dst []float32, src []int16) int {
	n := min(len(dst), len(src))
	for i := range n {
		if src[i] < 0 {
			dst[i] = float32(src[i]) / utils.NegativeScale
		} else {
			dst[i] = float32(src[i]) / utils.PositiveScale
		}
	}

	return n
}
