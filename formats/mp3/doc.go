// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer III audio with github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, so Channels reports 2 for mono files
// as well. Use audio.NewMonoMixer when a single channel is needed.
//
// Decoder.Sniff accepts data starting with an ID3v2 tag or an MPEG frame
// sync word. Sync detection is loose, but none of the container magics
// (RIFF, FORM, OggS) begin with 0xFF so they never collide.
//
// MP3 encoding is not provided.
package mp3
