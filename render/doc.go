// SPDX-License-Identifier: EPL-2.0

// Package render runs a whole track through the offline variant of a preset
// and returns the result as a new buffer, ready for encoding.
//
// Output is always 44.1 kHz and as long as the input track, whatever the
// preset's playback rate. Stereo stays stereo; mono output is the average
// of the chain's two channels. Rendering is deterministic for a given
// random source, which WithRand fixes:
//
//	r := render.New(render.WithRand(func() *rand.Rand {
//		return rand.New(rand.NewPCG(1, 2))
//	}))
//	out, err := r.Render(ctx, track, fx.SlowReverb, fx.DefaultParams())
package render
