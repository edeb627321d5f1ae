// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/effects/dynamics"
)

// CompressorConfig uses dB for levels and seconds for times.
type CompressorConfig struct {
	Threshold float64
	Knee      float64
	Ratio     float64
	Attack    float64
	Release   float64
}

type compressorStage struct {
	cfg  CompressorConfig
	comp [2]*dynamics.Compressor
}

func NewCompressor(cfg CompressorConfig, sampleRate float64) (Stage, error) {
	s := &compressorStage{cfg: cfg}
	for c := range s.comp {
		comp, err := dynamics.NewCompressor(sampleRate)
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		err = errors.Join(
			comp.SetThreshold(cfg.Threshold),
			comp.SetKnee(cfg.Knee),
			comp.SetRatio(cfg.Ratio),
			comp.SetAttack(cfg.Attack*1000),
			comp.SetRelease(cfg.Release*1000),
		)
		if err != nil {
			return nil, fmt.Errorf("configuring compressor: %w", err)
		}
		s.comp[c] = comp
	}

	return s, nil
}

func (s *compressorStage) Process(buf [][2]float64, channels int) {
	perChannel(buf, channels, func(c int, x float64) float64 {
		return s.comp[c].ProcessSample(x)
	})
}

func (s *compressorStage) OutChannels(in int) int { return in }

func (s *compressorStage) Describe() string {
	return fmt.Sprintf("compressor thr %.0f dB, knee %.0f dB, ratio %.0f, attack %.0f ms, release %.0f ms",
		s.cfg.Threshold, s.cfg.Knee, s.cfg.Ratio, s.cfg.Attack*1000, s.cfg.Release*1000)
}
