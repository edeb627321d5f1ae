// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/delay"
)

// minTap keeps interpolated reads two samples behind the write head so the
// Hermite kernel never reaches into unwritten history.
const minTap = 2

// DelayConfig describes a delay line. Times are in seconds. A zero ModRate
// keeps the delay time fixed.
type DelayConfig struct {
	Time     float64
	MaxTime  float64
	Feedback float64
	ModRate  float64
	ModDepth float64
}

// feedbackDelayStage outputs only the delayed signal; the input is mixed
// with the scaled output before it enters the line.
type feedbackDelayStage struct {
	cfg   DelayConfig
	sr    float64
	lines [2]*delay.Line
	lfo   *Oscillator
}

func NewFeedbackDelay(cfg DelayConfig, sampleRate float64) (Stage, error) {
	if cfg.MaxTime <= 0 || cfg.Time > cfg.MaxTime {
		return nil, fmt.Errorf("delay time %.4f s outside (0, %.4f]", cfg.Time, cfg.MaxTime)
	}

	size := int(math.Ceil(cfg.MaxTime*sampleRate)) + 4
	s := &feedbackDelayStage{cfg: cfg, sr: sampleRate}
	for c := range s.lines {
		l, err := delay.New(size)
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		s.lines[c] = l
	}
	if cfg.ModRate > 0 {
		s.lfo = NewOscillator(cfg.ModRate, sampleRate)
	}

	return s, nil
}

func (s *feedbackDelayStage) delaySamples() float64 {
	d := s.cfg.Time
	if s.lfo != nil {
		d += s.lfo.Next() * s.cfg.ModDepth
	}
	d = min(max(d, 0), s.cfg.MaxTime)

	return max(d*s.sr, minTap)
}

func (s *feedbackDelayStage) Process(buf [][2]float64, channels int) {
	fb := s.cfg.Feedback
	for i := range buf {
		d := s.delaySamples()

		y := s.lines[0].ReadFractional(d)
		s.lines[0].Write(buf[i][0] + fb*y)
		if channels == 1 {
			buf[i] = [2]float64{y, y}
			continue
		}
		buf[i][0] = y

		y = s.lines[1].ReadFractional(d)
		s.lines[1].Write(buf[i][1] + fb*y)
		buf[i][1] = y
	}
}

func (s *feedbackDelayStage) OutChannels(in int) int { return in }

func (s *feedbackDelayStage) Sources() []Stoppable {
	if s.lfo == nil {
		return nil
	}
	return []Stoppable{s.lfo}
}

func (s *feedbackDelayStage) Describe() string {
	d := fmt.Sprintf("delay %.3f s (max %.3f), feedback %.2f", s.cfg.Time, s.cfg.MaxTime, s.cfg.Feedback)
	if s.lfo != nil {
		d += fmt.Sprintf(", lfo %.2f Hz ± %.4f s", s.cfg.ModRate, s.cfg.ModDepth)
	}
	return d
}

// Tap is one branch of a chorus. A zero Rate keeps the delay at Time.
type Tap struct {
	Time  float64
	Rate  float64
	Depth float64
}

// chorusStage feeds a mono downmix to two taps of one line and merges them
// into left and right.
type chorusStage struct {
	taps    [2]Tap
	maxTime float64
	sr      float64
	line    *delay.Line
	lfos    [2]*Oscillator
}

func NewChorus(left, right Tap, maxTime, sampleRate float64) (Stage, error) {
	line, err := delay.New(int(math.Ceil(maxTime*sampleRate)) + 4)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	s := &chorusStage{taps: [2]Tap{left, right}, maxTime: maxTime, sr: sampleRate, line: line}
	for k, t := range s.taps {
		if t.Rate > 0 {
			s.lfos[k] = NewOscillator(t.Rate, sampleRate)
		}
	}

	return s, nil
}

func (s *chorusStage) Process(buf [][2]float64, channels int) {
	for i := range buf {
		s.line.Write(downmix(buf[i], channels))

		var out [2]float64
		for k, t := range s.taps {
			d := t.Time
			if s.lfos[k] != nil {
				d += s.lfos[k].Next() * t.Depth
			}
			d = min(max(d, 0), s.maxTime)
			out[k] = s.line.ReadFractional(max(d*s.sr+1, minTap))
		}
		buf[i] = out
	}
}

func (s *chorusStage) OutChannels(int) int { return 2 }

func (s *chorusStage) Sources() []Stoppable {
	var out []Stoppable
	for _, l := range s.lfos {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (s *chorusStage) Describe() string {
	l, r := s.taps[0], s.taps[1]
	if s.lfos[0] == nil && s.lfos[1] == nil {
		return fmt.Sprintf("merge delays %.3f s / %.3f s", l.Time, r.Time)
	}
	return fmt.Sprintf("merge delays lfo %.2f Hz / %.2f Hz ± %.4f s", l.Rate, r.Rate, l.Depth)
}
