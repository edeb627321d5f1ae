// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"math"
	"math/rand/v2"
)

const (
	// impulseGainCalibration is -58 dB, the level a browser convolver
	// normalises its response to.
	impulseGainCalibration = 0.00125
	impulseMinPower        = 0.000125
	impulseReferenceRate   = 44100
)

// Impulse generates a two channel decaying noise burst of the given length.
// sample(i) = (2r-1)·(1-i/len)^decay with r uniform in [0, 1).
func Impulse(sampleRate, seconds, decay float64, rng *rand.Rand) [2][]float64 {
	n := max(int(sampleRate*seconds), 1)

	var ir [2][]float64
	for c := range ir {
		ir[c] = make([]float64, n)
		for i := range ir[c] {
			ir[c][i] = (rng.Float64()*2 - 1) * math.Pow(1-float64(i)/float64(n), decay)
		}
	}

	return ir
}

// ImpulseScale is the normalisation applied to a response before use:
// 0.00125 / max(rms, 0.000125), further scaled by 44100/sampleRate.
func ImpulseScale(ir [2][]float64, sampleRate float64) float64 {
	var sum float64
	var count int
	for _, ch := range ir {
		for _, v := range ch {
			sum += v * v
		}
		count += len(ch)
	}

	power := 0.0
	if count > 0 {
		power = math.Sqrt(sum / float64(count))
	}
	power = max(power, impulseMinPower)

	return impulseGainCalibration / power * impulseReferenceRate / sampleRate
}
