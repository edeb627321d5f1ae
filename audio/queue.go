// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audfx/utils"
)

// Queue is a Source fed incrementally with 16-bit PCM. Reads drain what has
// been pushed so far; io.EOF is only reported once the queue is closed and
// empty. A read from an open, empty queue returns 0 samples and no error, so
// consumers that cannot tolerate starvation should check Frames first.
type Queue struct {
	rate     int
	channels int
	buf      []float32
	closed   bool
}

func NewQueue(sampleRate, channels int) *Queue {
	return &Queue{rate: sampleRate, channels: channels}
}

func (q *Queue) SampleRate() int { return q.rate }
func (q *Queue) Channels() int   { return q.channels }
func (q *Queue) BufSize() int    { return 4096 }

// Close marks the end of input. Later reads report io.EOF once drained.
func (q *Queue) Close() error {
	q.closed = true
	return nil
}

// Frames is the number of whole frames waiting to be read.
func (q *Queue) Frames() int { return len(q.buf) / q.channels }

// Push appends interleaved samples.
func (q *Queue) Push(pcm []int16) {
	start := len(q.buf)
	q.buf = append(q.buf, make([]float32, len(pcm))...)
	copyInt16(q.buf[start:], pcm)
}

func (q *Queue) ReadSamples(dst []float32) (int, error) {
	n := min(len(dst), len(q.buf))
	n -= n % q.channels
	copy(dst, q.buf[:n])
	q.buf = q.buf[n:]

	if q.closed && len(q.buf) < q.channels {
		q.buf = nil
		return n, io.EOF
	}

	return n, nil
}

// ChunkResampler converts PCM pushed in arbitrary pieces to another rate,
// returning as much output as the input so far allows. It produces the
// same samples as resampling the concatenated input in one pass.
type ChunkResampler struct {
	q        *Queue
	r        *Resampler
	channels int
	primed   bool
	buf      []float32
}

func NewChunkResampler(srcRate, dstRate, channels int) *ChunkResampler {
	q := NewQueue(srcRate, channels)
	return &ChunkResampler{q: q, r: NewResampler(q, dstRate), channels: channels}
}

// Push queues pcm and returns the resampled frames that no longer depend
// on future input.
func (c *ChunkResampler) Push(pcm []int16) ([]int16, error) {
	c.q.Push(pcm)

	avail := c.q.Frames() - 3
	if !c.primed {
		avail -= 4
	}
	frames := int(float64(avail)/c.r.Ratio()) - 1
	if frames <= 0 {
		return nil, nil
	}
	c.primed = true

	return c.read(frames)
}

// Flush resamples everything still queued.
func (c *ChunkResampler) Flush() ([]int16, error) {
	_ = c.q.Close()

	var out []int16
	for {
		pcm, err := c.read(2048)
		out = append(out, pcm...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		if len(pcm) == 0 {
			return out, nil
		}
	}
}

func (c *ChunkResampler) read(frames int) ([]int16, error) {
	if cap(c.buf) < frames*c.channels {
		c.buf = make([]float32, frames*c.channels)
	}
	buf := c.buf[:frames*c.channels]

	n, err := c.r.ReadSamples(buf)
	pcm := make([]int16, n)
	utils.Float32SliceToInt16(pcm, buf[:n])
	if err != nil && !errors.Is(err, io.EOF) {
		return pcm, fmt.Errorf("%w", err)
	}

	return pcm, err
}
