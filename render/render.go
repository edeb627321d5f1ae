// SPDX-License-Identifier: EPL-2.0

package render

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/faiface/beep"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/fx"
)

const (
	// SampleRate of every rendered buffer.
	SampleRate = 44100

	defaultQuality = 4
	blockFrames    = 512
)

// Renderer runs tracks through the offline variant of a preset.
type Renderer struct {
	rate    int
	quality int
	rand    func() *rand.Rand
	log     *logrus.Logger
}

type Option func(*Renderer)

// WithSampleRate overrides the output rate.
func WithSampleRate(rate int) Option {
	return func(r *Renderer) {
		if rate > 0 {
			r.rate = rate
		}
	}
}

// WithQuality sets the resampling quality, 1 to 64.
func WithQuality(q int) Option {
	return func(r *Renderer) {
		if q >= 1 && q <= 64 {
			r.quality = q
		}
	}
}

// WithRand supplies the generator used for reverb impulses.
func WithRand(fn func() *rand.Rand) Option {
	return func(r *Renderer) { r.rand = fn }
}

func WithLogger(l *logrus.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		rate:    SampleRate,
		quality: defaultQuality,
		log:     logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Render is New().Render.
func Render(ctx context.Context, track *audio.Buffer, preset fx.PresetID, p fx.Params) (*audio.Buffer, error) {
	return New().Render(ctx, track, preset, p)
}

// Render produces min(2, channels) channels lasting as long as track. The
// track plays at the preset's offline rate and is followed by silence, so
// echoes and reverb tails fill the remaining length. ctx is only checked
// before work starts.
func (r *Renderer) Render(ctx context.Context, track *audio.Buffer, preset fx.PresetID, p fx.Params) (*audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rendering: %w", err)
	}
	if track == nil || track.Frames() == 0 {
		return nil, fmt.Errorf("rendering: %w", audio.ErrEmptyTrack)
	}

	recipe, err := fx.Lookup(preset)
	if err != nil {
		return nil, err
	}

	channels := min(2, track.Channels())
	frames := int(math.Ceil(track.Duration() * float64(r.rate)))

	o := fx.Options{
		SampleRate: float64(r.rate),
		Channels:   channels,
		Fidelity:   fx.Offline,
	}
	if r.rand != nil {
		o.Rand = r.rand()
	}

	chain, err := fx.Build(recipe, p, o)
	if err != nil {
		return nil, err
	}
	defer func() { _ = chain.StopSources() }()

	if recipe.Reverse {
		track = track.Reversed()
	}

	rs := beep.Resample(r.quality, beep.SampleRate(track.SampleRate()), beep.SampleRate(r.rate), track.Streamer())
	rs.SetRatio(rs.Ratio() * chain.Rate())
	s := chain.Wrap(beep.Seq(rs, beep.Silence(-1)))

	if err := skip(s, chain.Latency()); err != nil {
		return nil, err
	}

	out := make([][]float32, channels)
	for c := range out {
		out[c] = make([]float32, frames)
	}

	block := make([][2]float64, blockFrames)
	for pos := 0; pos < frames; {
		n, _ := s.Stream(block[:min(blockFrames, frames-pos)])
		if n == 0 {
			return nil, fmt.Errorf("rendering %s at frame %d: %w", preset, pos, ErrSourceStalled)
		}
		for i, f := range block[:n] {
			if channels == 1 {
				out[0][pos+i] = float32(0.5 * (f[0] + f[1]))
				continue
			}
			out[0][pos+i] = float32(f[0])
			out[1][pos+i] = float32(f[1])
		}
		pos += n
	}

	r.log.WithFields(logrus.Fields{
		"preset":   preset,
		"frames":   frames,
		"channels": channels,
		"rate":     chain.Rate(),
		"latency":  chain.Latency(),
	}).Debug("offline render done")

	return audio.FromChannels(r.rate, out)
}

// skip discards the first n frames of s.
func skip(s beep.Streamer, n int) error {
	block := make([][2]float64, blockFrames)
	for n > 0 {
		got, _ := s.Stream(block[:min(blockFrames, n)])
		if got == 0 {
			return fmt.Errorf("compensating latency: %w", ErrSourceStalled)
		}
		n -= got
	}
	return nil
}
