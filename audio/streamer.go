// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/faiface/beep"
)

// Streamer plays the buffer from the start as a beep.StreamSeeker. Mono
// buffers fill both slots of every frame; channels past the second are
// ignored.
func (b *Buffer) Streamer() beep.StreamSeeker {
	return &bufferStreamer{buf: b}
}

type bufferStreamer struct {
	buf *Buffer
	pos int
}

func (s *bufferStreamer) Stream(samples [][2]float64) (int, bool) {
	frames := s.buf.Frames()
	if s.pos >= frames {
		return 0, false
	}

	left := s.buf.data[0]
	right := left
	if len(s.buf.data) > 1 {
		right = s.buf.data[1]
	}

	n := min(len(samples), frames-s.pos)
	for i := range n {
		samples[i] = [2]float64{float64(left[s.pos+i]), float64(right[s.pos+i])}
	}
	s.pos += n

	return n, true
}

func (s *bufferStreamer) Err() error    { return nil }
func (s *bufferStreamer) Len() int      { return s.buf.Frames() }
func (s *bufferStreamer) Position() int { return s.pos }

func (s *bufferStreamer) Seek(p int) error {
	if p < 0 || p > s.buf.Frames() {
		return fmt.Errorf("%w: %d of %d frames", ErrSeekOutOfRange, p, s.buf.Frames())
	}
	s.pos = p
	return nil
}
