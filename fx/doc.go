// SPDX-License-Identifier: EPL-2.0

// Package fx describes and builds the effect presets.
//
// A preset is a Recipe: a playback rate, an optional reversal and an ordered
// list of stages. Every stage has a Live variant used for preview and an
// Offline variant used for export; some Offline variants are nil and the
// stage is skipped there. The catalog is plain data, so adding a preset
// means adding a table entry.
//
//	recipe, _ := fx.Lookup(fx.BassBoost)
//	chain, _ := fx.Build(recipe, fx.DefaultParams(), fx.Options{
//		SampleRate: 44100,
//		Channels:   2,
//		Fidelity:   fx.Offline,
//	})
//	chain.Process(frames)
//
// Frames are [][2]float64 so chains drop straight into beep streamers. A
// mono signal carries the same value in both slots; Chain.Channels tells
// whether the output is mono or stereo.
//
// Filtering, delay lines, bit crushing, compression and convolution come
// from github.com/cwbudde/algo-dsp. The parameter curves, the impulse
// normalisation and the panner follow the behaviour of browser audio
// nodes so previews sound the way users expect.
package fx
