// SPDX-License-Identifier: EPL-2.0

package fx

import "math"

// Shape selects how a Curve bends between its endpoints.
type Shape int

const (
	Linear Shape = iota
	Quadratic
)

// Curve maps a control value x in [0, 1] to Base + Span·f(x), where f is
// x for Linear and x² for Quadratic. Span may be negative.
type Curve struct {
	Base  float64
	Span  float64
	Shape Shape
}

// At evaluates the curve. x is not clamped; callers pass clamped Params or
// an expression of them.
func (c Curve) At(x float64) float64 {
	if c.Shape == Quadratic {
		x *= x
	}
	return c.Base + c.Span*x
}

// Range returns the smallest and largest value the curve takes on [0, 1].
func (c Curve) Range() (lo, hi float64) {
	lo, hi = c.At(0), c.At(1)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

var (
	// ToneCurve spans roughly the audible range, denser at the low end.
	ToneCurve = Curve{Base: 100, Span: 10000, Shape: Quadratic}
	// SpeedCurve spans half to double speed.
	SpeedCurve = Curve{Base: 0.5, Span: 1.5}
)

// ToneFrequency maps tone to a frequency in [100, 10100] Hz.
func ToneFrequency(t float64) float64 { return ToneCurve.At(t) }

// SpeedFactor maps speed to a playback rate in [0.5, 2.0].
func SpeedFactor(s float64) float64 { return SpeedCurve.At(s) }

// bitsFor rounds a crusher bit depth the way the control panel shows it.
func bitsFor(base, span, x float64) float64 {
	return base + math.Round(x*span)
}
