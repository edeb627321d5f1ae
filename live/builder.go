// SPDX-License-Identifier: EPL-2.0

package live

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audfx/analysis"
	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/fx"
)

const (
	// OutputGain is applied after the analysis tap.
	OutputGain = 0.95

	defaultQuality = 4
)

// Builder owns the preview graph connected to a Destination. Only one
// graph is connected at a time. A Builder is not safe for concurrent use.
type Builder struct {
	dest    *Destination
	log     *logrus.Logger
	quality int
	rand    func() *rand.Rand

	current *Source
}

type Option func(*Builder)

func WithLogger(l *logrus.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithQuality sets the resampling quality, 1 to 64.
func WithQuality(q int) Option {
	return func(b *Builder) {
		if q >= 1 && q <= 64 {
			b.quality = q
		}
	}
}

// WithRand supplies the generator used for impulses and noise of every
// graph built from now on.
func WithRand(fn func() *rand.Rand) Option {
	return func(b *Builder) { b.rand = fn }
}

func NewBuilder(dest *Destination, opts ...Option) *Builder {
	b := &Builder{
		dest:    dest,
		log:     logrus.StandardLogger(),
		quality: defaultQuality,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build replaces the current graph with a new, paused one that plays track
// through preset. Call Start on the result to hear it. The arguments are
// checked before the current graph is torn down, so an invalid request
// leaves it playing.
//
// A reversing preset only reverses the exported render; the preview plays
// the track forward.
func (b *Builder) Build(ctx context.Context, track *audio.Buffer, preset fx.PresetID, p fx.Params) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("building live graph: %w", err)
	}
	if track == nil || track.Frames() == 0 {
		return nil, fmt.Errorf("building live graph: %w", audio.ErrEmptyTrack)
	}

	recipe, err := fx.Lookup(preset)
	if err != nil {
		return nil, err
	}

	b.Teardown()

	ctxRate := float64(b.dest.SampleRate())
	o := fx.Options{
		SampleRate:  ctxRate,
		Channels:    track.Channels(),
		Fidelity:    fx.Live,
		NoiseFrames: int(math.Ceil(track.Duration() * ctxRate)),
	}
	if b.rand != nil {
		o.Rand = b.rand()
	}

	chain, err := fx.Build(recipe, p, o)
	if err != nil {
		return nil, err
	}

	src := &Source{
		dest:  b.dest,
		chain: chain,
		rate:  chain.Rate(),
		done:  make(chan struct{}),
	}

	ratio := chain.Rate() * float64(track.SampleRate()) / ctxRate
	var s beep.Streamer = beep.ResampleRatio(b.quality, ratio, track.Streamer())
	s = chain.Wrap(s)
	src.tap = analysis.NewTap(s)
	s = &effects.Volume{Streamer: src.tap, Base: 2, Volume: math.Log2(OutputGain)}
	s = beep.Seq(s, beep.Callback(src.ended))

	b.dest.Lock()
	src.out = b.dest.attach(s)
	if n := chain.Noise(); n != nil {
		src.noise = b.dest.mix(fx.NoiseStreamer(n))
	}
	b.dest.Unlock()

	b.current = src

	b.log.WithFields(logrus.Fields{
		"preset":  preset,
		"params":  fx.Clamp(p).String(),
		"rate":    chain.Rate(),
		"latency": chain.Latency(),
	}).Debug("live graph built")

	return src, nil
}

// Teardown disconnects the current graph and stops its sources. Stop
// errors are only logged.
func (b *Builder) Teardown() {
	src := b.current
	if src == nil {
		return
	}
	b.current = nil

	if err := src.Stop(); err != nil {
		b.log.WithError(err).WithField("preset", src.chain.Preset()).Debug("stopping graph sources")
	}
}

// Current is the connected graph, or nil.
func (b *Builder) Current() *Source { return b.current }

// Tap is the analysis tap of the connected graph, or nil.
func (b *Builder) Tap() *analysis.Tap {
	if b.current == nil {
		return nil
	}
	return b.current.tap
}

func (b *Builder) Destination() *Destination { return b.dest }
