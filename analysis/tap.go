// SPDX-License-Identifier: EPL-2.0

package analysis

import (
	"math"
	"sync"

	"github.com/faiface/beep"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

const (
	FFTSize  = 2048
	BinCount = FFTSize / 2

	MinDecibels = -100.0
	MaxDecibels = -30.0

	// Smoothing is the weight of the previous snapshot in every new one.
	Smoothing = 0.8
)

// Tap passes audio through unchanged while keeping the most recent FFTSize
// mono samples for visualisation.
type Tap struct {
	s beep.Streamer

	mu   sync.Mutex
	ring []float64
	pos  int

	specMu   sync.Mutex
	smoothed []float64
	window   []float64
}

// NewTap wraps s. A nil streamer produces silence forever.
func NewTap(s beep.Streamer) *Tap {
	if s == nil {
		s = beep.Silence(-1)
	}
	return &Tap{
		s:        s,
		ring:     make([]float64, FFTSize),
		smoothed: make([]float64, BinCount),
		window:   window.Blackman(FFTSize),
	}
}

// Stream implements beep.Streamer.
func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)

	t.mu.Lock()
	for i := range n {
		t.ring[t.pos] = (samples[i][0] + samples[i][1]) / 2
		t.pos = (t.pos + 1) % FFTSize
	}
	t.mu.Unlock()

	return n, ok
}

func (t *Tap) Err() error { return t.s.Err() }

// Samples returns the last n captured samples, oldest first.
func (t *Tap) Samples(n int) []float64 {
	n = max(min(n, FFTSize), 0)
	out := make([]float64, n)

	t.mu.Lock()
	start := (t.pos - n + FFTSize) % FFTSize
	for i := range n {
		out[i] = t.ring[(start+i)%FFTSize]
	}
	t.mu.Unlock()

	return out
}

// TimeDomainData writes the most recent len(dst) samples (at most FFTSize)
// as bytes centred on 128 and returns how many were written.
func (t *Tap) TimeDomainData(dst []byte) int {
	samples := t.Samples(len(dst))
	for i, x := range samples {
		dst[i] = toByte(128 * (1 + x))
	}
	return len(samples)
}

// FrequencyData writes up to BinCount magnitude bins scaled between
// MinDecibels and MaxDecibels and returns how many were written. Every call
// advances the smoothing state.
func (t *Tap) FrequencyData(dst []byte) int {
	frame := t.Samples(FFTSize)
	for i := range frame {
		frame[i] *= t.window[i]
	}
	spectrum := fft.FFTReal(frame)

	n := min(len(dst), BinCount)
	scale := 255 / (MaxDecibels - MinDecibels)

	t.specMu.Lock()
	defer t.specMu.Unlock()

	for k := range BinCount {
		re, im := real(spectrum[k]), imag(spectrum[k])
		mag := math.Sqrt(re*re+im*im) / FFTSize
		t.smoothed[k] = Smoothing*t.smoothed[k] + (1-Smoothing)*mag
	}

	for k := range n {
		v := t.smoothed[k]
		if v <= 0 {
			dst[k] = 0
			continue
		}
		db := 20 * math.Log10(v)
		dst[k] = toByte(scale * (db - MinDecibels))
	}

	return n
}

func toByte(v float64) byte {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return byte(v)
	}
}
