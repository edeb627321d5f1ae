// SPDX-License-Identifier: EPL-2.0

package fx

import "fmt"

type gainStage struct {
	gain float64
}

func NewGain(gain float64) Stage { return &gainStage{gain: gain} }

func (g *gainStage) Process(buf [][2]float64, channels int) {
	if g.gain == 1 {
		return
	}
	for i := range buf {
		buf[i][0] *= g.gain
		buf[i][1] *= g.gain
	}
}

func (g *gainStage) OutChannels(in int) int { return in }
func (g *gainStage) Describe() string       { return fmt.Sprintf("gain %.2f", g.gain) }

// tremoloStage is a gain of 1 whose value is pushed around by an LFO.
type tremoloStage struct {
	lfo   *Oscillator
	rate  float64
	depth float64
}

// NewTremolo modulates the gain by ±depth at rate Hz.
func NewTremolo(rate, depth, sampleRate float64) Stage {
	return &tremoloStage{lfo: NewOscillator(rate, sampleRate), rate: rate, depth: depth}
}

func (t *tremoloStage) Process(buf [][2]float64, _ int) {
	for i := range buf {
		g := 1 + t.lfo.Next()*t.depth
		buf[i][0] *= g
		buf[i][1] *= g
	}
}

func (t *tremoloStage) OutChannels(in int) int { return in }
func (t *tremoloStage) Sources() []Stoppable   { return []Stoppable{t.lfo} }

func (t *tremoloStage) Describe() string {
	return fmt.Sprintf("gain 1 ± %.2f, sine lfo %.1f Hz", t.depth, t.rate)
}
