// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/effects"
)

// crusherStage quantises a mono downmix to a step of 2^-bits and holds
// each value for round(1/normFreq) samples.
type crusherStage struct {
	bits     float64
	normFreq float64
	bc       *effects.BitCrusher
}

func NewCrusher(bits, normFreq, sampleRate float64) (Stage, error) {
	hold := max(int(math.Round(1/normFreq)), 1)

	// The library quantises to 2^(depth-1) levels per unit.
	bc, err := effects.NewBitCrusher(sampleRate,
		effects.WithBitCrusherBitDepth(bits+1),
		effects.WithBitCrusherDownsample(hold),
	)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &crusherStage{bits: bits, normFreq: normFreq, bc: bc}, nil
}

func (s *crusherStage) Process(buf [][2]float64, channels int) {
	for i := range buf {
		y := s.bc.ProcessSample(downmix(buf[i], channels))
		buf[i] = [2]float64{y, y}
	}
}

func (s *crusherStage) OutChannels(int) int { return 1 }

func (s *crusherStage) Describe() string {
	return fmt.Sprintf("crusher %.0f bits, hold %d", s.bits, s.bc.Downsample())
}
