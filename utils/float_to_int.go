// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Per-sign scale factors for 16-bit PCM. Two's complement has one more
// negative step than positive, so -1.0 maps to -32768 and 1.0 to 32767.
const (
	NegativeScale = 0x8000
	PositiveScale = 0x7fff
)

// Float32ToInt16 clamps x to [-1, 1] and scales it with the per-sign factor,
// rounding half away from zero. NaN converts to 0.
func Float32ToInt16(x float32) int16 {
	v := float64(x)
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		v = 1
	case v < -1:
		v = -1
	}

	if v < 0 {
		return int16(math.Round(v * NegativeScale))
	}

	return int16(math.Round(v * PositiveScale))
}

// Float32SliceToInt16 converts src into dst and returns the number of samples
// written, which is min(len(dst), len(src)).
func Float32SliceToInt16(dst []int16, src []float32) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = Float32ToInt16(src[i])
	}

	return n
}
