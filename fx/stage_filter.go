// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

const (
	// passQ is a resonance of 1 dB, the default of a browser biquad.
	passQ = 1.1220184543019633
	// shelfQ gives a shelf slope of 1.
	shelfQ = 0.7071067811865476

	nyquistGuard = 0.999
)

// FilterType is the response family of a biquad stage.
type FilterType string

const (
	Lowpass  FilterType = "lowpass"
	Highpass FilterType = "highpass"
	LowShelf FilterType = "lowshelf"
)

type filterStage struct {
	kind   FilterType
	freq   float64
	gainDB float64
	coeffs biquad.Coefficients
	sec    [2]*biquad.Section
}

// NewFilter designs one of the supported biquads at sampleRate. gainDB is
// only used by shelves.
// The frequency is held just below Nyquist.
func NewFilter(kind FilterType, freq, gainDB, sampleRate float64) (Stage, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %.0f", ErrInvalidOptions, sampleRate)
	}
	fc := min(freq, sampleRate/2*nyquistGuard)

	var c biquad.Coefficients
	switch kind {
	case Lowpass:
		c = design.Lowpass(fc, passQ, sampleRate)
	case Highpass:
		c = design.Highpass(fc, passQ, sampleRate)
	case LowShelf:
		c = design.LowShelf(fc, gainDB, shelfQ, sampleRate)
	default:
		return nil, fmt.Errorf("unknown filter type %q", kind)
	}

	return &filterStage{
		kind:   kind,
		freq:   freq,
		gainDB: gainDB,
		coeffs: c,
		sec:    [2]*biquad.Section{biquad.NewSection(c), biquad.NewSection(c)},
	}, nil
}

func (f *filterStage) Process(buf [][2]float64, channels int) {
	perChannel(buf, channels, func(c int, x float64) float64 {
		return f.sec[c].ProcessSample(x)
	})
}

func (f *filterStage) OutChannels(in int) int { return in }

func (f *filterStage) Describe() string {
	if f.kind == LowShelf {
		return fmt.Sprintf("%s %.0f Hz %+.1f dB", f.kind, f.freq, f.gainDB)
	}
	return fmt.Sprintf("%s %.0f Hz", f.kind, f.freq)
}

// MagnitudeDB is the steady-state response of the filter at freq.
func (f *filterStage) MagnitudeDB(freq, sampleRate float64) float64 {
	return f.coeffs.MagnitudeDB(freq, sampleRate)
}
