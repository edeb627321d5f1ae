// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with github.com/jfreymuth/oggvorbis.
//
// Samples come out interleaved as float32 in [-1.0, 1.0]:
//
//	[L0, R0, L1, R1, L2, R2, ...]
//
// ReadSamples only returns whole frames; a destination shorter than one
// frame yields zero samples.
package vorbis
