// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"math"
	"sync/atomic"
)

// Oscillator is a free-running sine LFO. It starts on creation; after Stop
// it outputs 0, leaving any parameter it modulates at its base value.
type Oscillator struct {
	step    float64
	phase   float64
	stopped atomic.Bool
}

func NewOscillator(freq, sampleRate float64) *Oscillator {
	return &Oscillator{step: freq / sampleRate}
}

// Next returns the current value and advances one sample.
func (o *Oscillator) Next() float64 {
	if o.stopped.Load() {
		return 0
	}

	v := math.Sin(2 * math.Pi * o.phase)
	o.phase += o.step
	if o.phase >= 1 {
		o.phase -= math.Floor(o.phase)
	}

	return v
}

// Frequency returns the rate in Hz for the given sample rate.
func (o *Oscillator) Frequency(sampleRate float64) float64 {
	return o.step * sampleRate
}

func (o *Oscillator) Stop() error {
	if o.stopped.Swap(true) {
		return ErrAlreadyStopped
	}
	return nil
}

func (o *Oscillator) Stopped() bool { return o.stopped.Load() }
