// SPDX-License-Identifier: EPL-2.0

// Package audfx applies creative audio effects to music tracks.
//
// A track is decoded from WAV, AIFF, MP3, Ogg Vorbis or Opus, run through
// one of the presets in package fx, and either previewed live or rendered
// offline and encoded for download.
//
// # Quick Start
//
// The simplest way to process a file is Process:
//
//	data, _ := os.ReadFile("song.mp3")
//	a, err := audfx.Process(ctx, data, "song.mp3", fx.Nightcore, fx.DefaultParams())
//	if err != nil {
//		log.Fatal(engine.ExportMessage(err))
//	}
//	os.WriteFile(a.Filename, a.Data, 0o644)
//
// # Packages
//
//   - fx: parameters, mapping curves, the preset catalog and the DSP stages
//   - live: the preview graph played through a beep speaker
//   - render: offline rendering at 44.1 kHz
//   - encode, formats/...: decoders and encoders
//   - analysis: frequency and waveform snapshots of the playing graph
//   - history: the last exports, persisted as JSON
//   - fetch: downloading tracks by URL, optionally over HTTP/3
//   - engine: the state machine tying them together
//
// # Build Tags
//
// The Opus codec needs libopus and cgo. Build with -tags opus to enable
// it. Without the tag Opus files are recognised but not decoded, and
// Process exports WAV instead.
package audfx
