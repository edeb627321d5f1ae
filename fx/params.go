// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"
	"math"
)

// Params are the four user controls shared by every preset. Each field is
// meaningful in [0, 1]; use Clamp before handing values to a graph.
type Params struct {
	Intensity float64 `json:"intensity"`
	Depth     float64 `json:"depth"`
	Speed     float64 `json:"speed"`
	Tone      float64 `json:"tone"`
}

// DefaultParams returns the starting position of the controls.
func DefaultParams() Params {
	return Params{Intensity: 0.6, Depth: 0.5, Speed: 0.5, Tone: 0.5}
}

// Clamp limits every field of p to [0, 1]. NaN becomes 0.
func Clamp(p Params) Params {
	return Params{
		Intensity: clamp01(p.Intensity),
		Depth:     clamp01(p.Depth),
		Speed:     clamp01(p.Speed),
		Tone:      clamp01(p.Tone),
	}
}

// Partial carries an update for some of the fields. Nil fields are left alone.
type Partial struct {
	Intensity *float64 `json:"intensity,omitempty"`
	Depth     *float64 `json:"depth,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Tone      *float64 `json:"tone,omitempty"`
}

// Merge returns p with the fields supplied in u replaced. The result is clamped.
func (p Params) Merge(u Partial) Params {
	if u.Intensity != nil {
		p.Intensity = *u.Intensity
	}
	if u.Depth != nil {
		p.Depth = *u.Depth
	}
	if u.Speed != nil {
		p.Speed = *u.Speed
	}
	if u.Tone != nil {
		p.Tone = *u.Tone
	}

	return Clamp(p)
}

// Empty reports whether u carries no field at all.
func (u Partial) Empty() bool {
	return u.Intensity == nil && u.Depth == nil && u.Speed == nil && u.Tone == nil
}

func (p Params) String() string {
	return fmt.Sprintf("intensity=%.2f depth=%.2f speed=%.2f tone=%.2f",
		p.Intensity, p.Depth, p.Speed, p.Tone)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
