// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/effects/reverb"
)

// convolverBlockOrder sets the partition size, and so the latency, to 128 frames.
const convolverBlockOrder = 7

// convolverStage runs one partitioned convolution per output channel. A
// mono input is spread through both channels of the response.
type convolverStage struct {
	seconds float64
	decay   float64
	engines [2]*reverb.ConvolutionReverb
	scratch [2][]float64
}

// NewConvolver normalises ir and prepares it for streaming convolution.
func NewConvolver(ir [2][]float64, sampleRate float64) (Stage, error) {
	return newConvolver(ir, sampleRate)
}

func newConvolver(ir [2][]float64, sampleRate float64) (*convolverStage, error) {
	scale := ImpulseScale(ir, sampleRate)

	s := &convolverStage{seconds: float64(len(ir[0])) / sampleRate}
	for c := range ir {
		kernel := make([]float64, len(ir[c]))
		for i, v := range ir[c] {
			kernel[i] = v * scale
		}

		eng, err := reverb.NewConvolutionReverb(kernel, convolverBlockOrder)
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		eng.SetWetDry(1, 0)
		s.engines[c] = eng
	}

	return s, nil
}

func newImpulseConvolver(seconds, decay float64, o Options) (Stage, error) {
	s, err := newConvolver(Impulse(o.SampleRate, seconds, decay, o.rng()), o.SampleRate)
	if err != nil {
		return nil, err
	}
	s.decay = decay
	return s, nil
}

func (s *convolverStage) Process(buf [][2]float64, channels int) {
	for c := range s.scratch {
		if cap(s.scratch[c]) < len(buf) {
			s.scratch[c] = make([]float64, len(buf))
		}
		s.scratch[c] = s.scratch[c][:len(buf)]
		for i := range buf {
			if channels == 1 {
				s.scratch[c][i] = buf[i][0]
			} else {
				s.scratch[c][i] = buf[i][c]
			}
		}
		// Only fails on empty kernels, which the constructor rejects.
		_ = s.engines[c].ProcessInPlace(s.scratch[c])
	}

	for i := range buf {
		buf[i] = [2]float64{s.scratch[0][i], s.scratch[1][i]}
	}
}

func (s *convolverStage) OutChannels(int) int { return 2 }

func (s *convolverStage) Latency() int { return s.engines[0].Latency() }

func (s *convolverStage) Describe() string {
	return fmt.Sprintf("convolver %.1f s impulse, decay %.1f", s.seconds, s.decay)
}
