// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"math/rand/v2"
	"sync/atomic"
)

// Noise is a looping mono buffer of sparse clicks. It is mixed straight
// into the output, next to the processed chain rather than through it.
type Noise struct {
	data    []float64
	gain    float64
	pos     int
	stopped atomic.Bool
}

// NewNoise fills frames samples with impulses of amplitude (2r-1)·(0.2+0.5i)
// spaced floor(200 + r·4000) samples apart, played at 0.05+0.15d.
func NewNoise(frames int, p Params, rng *rand.Rand) *Noise {
	data := make([]float64, max(frames, 1))
	amp := crackleAmplitude.At(p.Intensity)
	for i := 0; i < len(data); i += int(200 + rng.Float64()*4000) {
		data[i] = (rng.Float64()*2 - 1) * amp
	}

	return &Noise{data: data, gain: crackleGain.At(p.Depth)}
}

var (
	crackleAmplitude = Curve{Base: 0.2, Span: 0.5}
	crackleGain      = Curve{Base: 0.05, Span: 0.15}
)

// Read overwrites buf with the next frames of the loop and reports whether
// the source is still running. A stopped source leaves buf untouched.
func (n *Noise) Read(buf [][2]float64) bool {
	if n.stopped.Load() {
		return false
	}

	for i := range buf {
		v := n.data[n.pos] * n.gain
		buf[i] = [2]float64{v, v}
		n.pos++
		if n.pos == len(n.data) {
			n.pos = 0
		}
	}

	return true
}

func (n *Noise) Stop() error {
	if n.stopped.Swap(true) {
		return ErrAlreadyStopped
	}
	return nil
}

func (n *Noise) Stopped() bool { return n.stopped.Load() }

// Gain is the level the loop is mixed at.
func (n *Noise) Gain() float64 { return n.gain }

// Len is the loop length in frames.
func (n *Noise) Len() int { return len(n.data) }
