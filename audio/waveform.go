// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// Waveform reduces a track to points RMS values of its mono downmix,
// suitable for drawing an overview. Values are in [0, 1].
func Waveform(b *Buffer, points int) ([]float32, error) {
	if points <= 0 {
		return nil, nil
	}

	frames := b.Frames()
	out := make([]float32, points)
	if frames == 0 {
		return out, nil
	}

	mono := NewMonoMixer(b.Source())
	window := max(1, frames/points)
	buf := make([]float32, window)

	for p := range points {
		n, err := mono.ReadSamples(buf)
		if n > 0 {
			var sum float64
			for _, v := range buf[:n] {
				sum += float64(v) * float64(v)
			}
			out[p] = float32(math.Min(1, math.Sqrt(sum/float64(n))))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
	}

	return out, nil
}
