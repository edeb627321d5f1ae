// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Fidelity selects which variant of each stage a graph is built from.
type Fidelity int

const (
	// Live is the preview graph with every modulation source running.
	Live Fidelity = iota
	// Offline is the reduced graph used for export.
	Offline
)

func (f Fidelity) String() string {
	if f == Offline {
		return "offline"
	}
	return "live"
}

// Options fixes the context a chain runs in.
type Options struct {
	SampleRate float64
	// Channels entering the chain, 1 or 2.
	Channels int
	Fidelity Fidelity
	// NoiseFrames is the loop length of the crackle source, usually the
	// track length at SampleRate.
	NoiseFrames int
	// Rand drives impulse and noise generation. Nil uses a randomly seeded source.
	Rand *rand.Rand
}

func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Chain is a built recipe: the stages in order plus the sources they own.
type Chain struct {
	id       PresetID
	fidelity Fidelity
	rate     float64
	in       []int
	out      int
	stages   []Stage
	sources  []Stoppable
	noise    *Noise
	latency  int
}

// Build wires recipe for p. Params are clamped first. Stages without a
// variant for o.Fidelity are skipped.
func Build(recipe Recipe, p Params, o Options) (*Chain, error) {
	if o.SampleRate <= 0 || o.Channels < 1 {
		return nil, fmt.Errorf("%w: rate %.0f, %d channels", ErrInvalidOptions, o.SampleRate, o.Channels)
	}
	o.Channels = min(o.Channels, 2)
	if o.Rand == nil {
		o.Rand = o.rng()
	}
	p = Clamp(p)

	c := &Chain{
		id:       recipe.ID,
		fidelity: o.Fidelity,
		rate:     recipe.PlaybackRate(p, o.Fidelity),
		out:      o.Channels,
	}

	for _, spec := range recipe.Stages {
		fn := spec.Live
		if o.Fidelity == Offline {
			fn = spec.Offline
		}
		if fn == nil {
			continue
		}

		s, err := fn(p, o)
		if err != nil {
			// Oscillators of the stages built so far are already running.
			_ = c.StopSources()
			return nil, fmt.Errorf("building %s %s stage: %w", recipe.ID, spec.Kind, err)
		}

		c.in = append(c.in, c.out)
		c.out = s.OutChannels(c.out)
		c.stages = append(c.stages, s)

		if l, ok := s.(latencyReporter); ok {
			c.latency += l.Latency()
		}
		if so, ok := s.(sourceOwner); ok {
			c.sources = append(c.sources, so.Sources()...)
		}
	}

	if recipe.Noise && o.Fidelity == Live {
		frames := o.NoiseFrames
		if frames <= 0 {
			frames = int(o.SampleRate)
		}
		c.noise = NewNoise(frames, p, o.Rand)
		c.sources = append(c.sources, c.noise)
	}

	return c, nil
}

// Process runs buf through every stage in place. Mono chains leave
// identical values in both slots.
func (c *Chain) Process(buf [][2]float64) {
	for i, s := range c.stages {
		s.Process(buf, c.in[i])
	}
}

// Channels is the number of channels the chain emits.
func (c *Chain) Channels() int { return c.out }

// Latency is the total delay, in frames, added by the stages.
func (c *Chain) Latency() int { return c.latency }

// Rate is the playback rate the source must run at.
func (c *Chain) Rate() float64 { return c.rate }

func (c *Chain) Preset() PresetID   { return c.id }
func (c *Chain) Fidelity() Fidelity { return c.fidelity }

// Sources lists the oscillators and noise loops owned by the chain.
func (c *Chain) Sources() []Stoppable {
	out := make([]Stoppable, len(c.sources))
	copy(out, c.sources)
	return out
}

// Noise is the crackle loop to mix next to the chain, or nil.
func (c *Chain) Noise() *Noise { return c.noise }

// StopSources stops every owned source. Sources stopped earlier report
// ErrAlreadyStopped; all errors are joined.
func (c *Chain) StopSources() error {
	var errs []error
	for _, s := range c.sources {
		if err := s.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Describe lists the stages in order, led by the playback rate when it
// differs from 1.
func (c *Chain) Describe() []string {
	var out []string
	if c.rate != 1 {
		out = append(out, fmt.Sprintf("rate %.3f", c.rate))
	}
	for _, s := range c.stages {
		out = append(out, s.Describe())
	}
	if c.noise != nil {
		out = append(out, fmt.Sprintf("noise loop %d frames at %.2f", c.noise.Len(), c.noise.Gain()))
	}
	if len(out) == 0 {
		out = append(out, "pass-through")
	}
	return out
}
