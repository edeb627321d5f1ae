// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM building blocks the effect engine works on.
//
// # Source Interface
//
// Every decoder and stream processor implements Source:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSamples fills dst with interleaved samples and returns io.EOF once the
// stream is finished, possibly together with the last samples.
//
// # Decoding
//
// Decoders are registered by format key. DecodeAll sniffs the container from
// the first bytes, picks the matching decoder and drains it into a Buffer:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	reg.Register("mp3", mp3.Decoder{})
//	track, err := audio.DecodeAll(ctx, reg, data)
//	if errors.Is(err, audio.ErrDecode) {
//	    // malformed or unsupported bytes
//	}
//
// # Buffers
//
// A Buffer holds a whole decoded track, one float32 slice per channel.
// Buffers are treated as immutable: Reversed and Clone return new buffers,
// and Source returns an independent streaming view.
//
// # Resampling
//
// The Resampler changes the sample rate with Catmull-Rom interpolation. With
// WithSpeed it also changes playback speed, pitch included:
//
//	r := audio.NewResampler(track.Source(), 48000)
//	fast := audio.NewResampler(track.Source(), 44100, audio.WithSpeed(2))
//
// # Channel Mixing
//
// MonoMixer averages all channels into one. Waveform builds an RMS overview
// of a track on top of it.
//
// # Sample Format
//
// Samples are float32 in [-1.0, 1.0]. Conversion to 16-bit PCM uses distinct
// scale factors for the negative and positive halves, see utils.Float32ToInt16.
package audio
