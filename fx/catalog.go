// SPDX-License-Identifier: EPL-2.0

package fx

import "fmt"

// Kind names the processing a stage performs.
type Kind string

const (
	KindFilter     Kind = "filter"
	KindGain       Kind = "gain"
	KindDelay      Kind = "delay"
	KindConvolver  Kind = "convolver"
	KindCompressor Kind = "compressor"
	KindPanner     Kind = "panner"
	KindCrusher    Kind = "crusher"
	KindMerge      Kind = "merge"
)

// Topology describes how a stage is wired around its input.
type Topology int

const (
	// Serial stages feed their output straight to the next stage.
	Serial Topology = iota
	// Feedback stages route part of their output back to their input.
	Feedback
	// ParallelMerge stages split the input and merge the branches into channels.
	ParallelMerge
)

// RateFunc yields the playback rate of the source.
type RateFunc func(Params) float64

// StageFunc builds a stage for the given controls.
type StageFunc func(p Params, o Options) (Stage, error)

// StageSpec is one step of a recipe. A nil Offline means the stage is left
// out of the export render.
type StageSpec struct {
	Kind     Kind
	Topology Topology
	Live     StageFunc
	Offline  StageFunc
}

// Rates holds the playback rate for each fidelity. Nil means 1.
type Rates struct {
	Live    RateFunc
	Offline RateFunc
}

// Recipe is the declarative description of a preset.
type Recipe struct {
	ID          PresetID
	Name        string
	Description string

	Rate Rates
	// Reverse plays the source backwards in the export render.
	Reverse bool
	// Noise adds the crackle loop to the live preview.
	Noise bool

	Stages []StageSpec
}

// PlaybackRate resolves the source rate for p at fidelity f.
func (r Recipe) PlaybackRate(p Params, f Fidelity) float64 {
	fn := r.Rate.Live
	if f == Offline {
		fn = r.Rate.Offline
	}
	if fn == nil {
		return 1
	}
	return fn(p)
}

// Catalog lists every preset in display order.
func Catalog() []Recipe {
	out := make([]Recipe, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the recipe for id.
func Lookup(id PresetID) (Recipe, error) {
	i, ok := catalogIndex[id]
	if !ok {
		return Recipe{}, fmt.Errorf("%w: %q", ErrInvalidPreset, id)
	}
	return catalog[i], nil
}

var catalogIndex = func() map[PresetID]int {
	m := make(map[PresetID]int, len(catalog))
	for i, r := range catalog {
		m[r.ID] = i
	}
	return m
}()

func filter(kind FilterType, freq func(Params) float64) StageFunc {
	return func(p Params, o Options) (Stage, error) {
		return NewFilter(kind, freq(p), 0, o.SampleRate)
	}
}

func shelf(freq float64, gain Curve) StageFunc {
	return func(p Params, o Options) (Stage, error) {
		return NewFilter(LowShelf, freq, gain.At(p.Intensity), o.SampleRate)
	}
}

func crusher(bitsBase, bitsSpan float64, normFreq func(Params) float64) StageFunc {
	return func(p Params, o Options) (Stage, error) {
		return NewCrusher(bitsFor(bitsBase, bitsSpan, p.Intensity), normFreq(p), o.SampleRate)
	}
}

func convolver(seconds func(Params) float64, decay float64) StageFunc {
	return func(p Params, o Options) (Stage, error) {
		return newImpulseConvolver(seconds(p), decay, o)
	}
}

func panner(pan func(Params) float64) StageFunc {
	return func(p Params, _ Options) (Stage, error) {
		return NewPanner(pan(p)), nil
	}
}

func fixed(v float64) func(Params) float64 { return func(Params) float64 { return v } }

func stage(kind Kind, topo Topology, live, offline StageFunc) StageSpec {
	return StageSpec{Kind: kind, Topology: topo, Live: live, Offline: offline}
}

func serial(kind Kind, live, offline StageFunc) StageSpec {
	return stage(kind, Serial, live, offline)
}

// shared is a serial stage built the same way at both fidelities.
func shared(kind Kind, fn StageFunc) StageSpec {
	return stage(kind, Serial, fn, fn)
}

var catalog = []Recipe{
	{
		ID: Clean, Name: "Clean", Description: "No effect",
	},
	{
		ID: BassBoost, Name: "Bass Booster", Description: "+low shelf",
		Stages: []StageSpec{
			shared(KindFilter, shelf(200, Curve{Base: 5, Span: 18})),
		},
	},
	{
		ID: Nightcore, Name: "Nightcore", Description: "+speed +pitch",
		Rate: Rates{
			Live:    func(p Params) float64 { return SpeedFactor(0.7 + 0.3*p.Speed) },
			Offline: func(p Params) float64 { return 1.2 + 0.8*p.Speed },
		},
		Stages: []StageSpec{
			shared(KindFilter, filter(Highpass, func(p Params) float64 { return 150 + 1000*p.Tone })),
		},
	},
	{
		ID: Lofi, Name: "Lo‑Fi", Description: "bitcrush + lowpass",
		Stages: []StageSpec{
			serial(KindCrusher, crusher(6, 4, func(p Params) float64 { return 0.05 + 0.15*p.Depth }), nil),
			shared(KindFilter, filter(Lowpass, func(p Params) float64 { return 2000 - 1500*p.Tone })),
		},
	},
	{
		ID: EchoChamber, Name: "Echo Chamber", Description: "feedback delay",
		Stages: []StageSpec{
			stage(KindDelay, Feedback,
				func(p Params, o Options) (Stage, error) {
					return NewFeedbackDelay(DelayConfig{
						Time: 0.25 + 0.7*p.Speed, MaxTime: 1.2, Feedback: 0.2 + 0.75*p.Intensity,
					}, o.SampleRate)
				},
				func(p Params, o Options) (Stage, error) {
					return NewFeedbackDelay(DelayConfig{
						Time: 0.25 + 0.7*p.Speed, MaxTime: 1.2, Feedback: 0.25 + 0.6*p.Intensity,
					}, o.SampleRate)
				}),
		},
	},
	{
		ID: Reverb, Name: "HTRK‑style Reverb", Description: "lush space",
		Stages: []StageSpec{
			shared(KindConvolver, convolver(func(p Params) float64 { return 4 + 4*p.Depth }, 2.5)),
		},
	},
	{
		ID: Surround, Name: "Surround", Description: "stereo pan",
		Stages: []StageSpec{
			shared(KindPanner, panner(func(p Params) float64 { return -1 + 2*p.Depth })),
		},
	},
	{
		ID: VinylCrackle, Name: "Vinyl Crackle", Description: "nostalgic noise",
		Noise: true,
		Stages: []StageSpec{
			shared(KindFilter, filter(Lowpass, func(p Params) float64 { return 8000 - 5000*p.Tone })),
		},
	},
	{
		ID: PitchShift, Name: "Pitch Shift", Description: "approx rate",
		Rate: Rates{
			Live:    func(p Params) float64 { return 0.8 + 1.4*p.Intensity },
			Offline: func(p Params) float64 { return SpeedFactor(p.Intensity) },
		},
	},
	{
		ID: SlowReverb, Name: "Slow Reverb", Description: "dreamy tail",
		Rate: Rates{
			Live:    func(p Params) float64 { return 0.7 + 0.2*p.Speed },
			Offline: func(p Params) float64 { return 0.7 + 0.2*p.Speed },
		},
		Stages: []StageSpec{
			shared(KindConvolver, convolver(func(p Params) float64 { return 6 + 6*p.Depth }, 3)),
		},
	},
	{
		ID: Crystalizer, Name: "Crystalizer", Description: "bright crunch",
		Stages: []StageSpec{
			serial(KindCrusher, crusher(4, 4, fixed(0.2)), nil),
			shared(KindFilter, filter(Highpass, func(p Params) float64 { return 1000 + 4000*p.Tone })),
		},
	},
	{
		ID: TrapBass, Name: "Trap Bass", Description: "boost + comp",
		Stages: []StageSpec{
			shared(KindFilter, shelf(90, Curve{Base: 8, Span: 18})),
			shared(KindCompressor, func(_ Params, o Options) (Stage, error) {
				return NewCompressor(CompressorConfig{
					Threshold: -30, Knee: 20, Ratio: 8, Attack: 0.003, Release: 0.25,
				}, o.SampleRate)
			}),
		},
	},
	{
		ID: Reverse, Name: "Reverse", Description: "export reversed",
		Reverse: true,
	},
	{
		ID: Vaporwave, Name: "Vaporwave", Description: "slow + reverb",
		Rate: Rates{
			Live:    func(p Params) float64 { return 0.8 - 0.2*p.Speed },
			Offline: func(p Params) float64 { return 0.7 + 0.1*p.Speed },
		},
		Stages: []StageSpec{
			shared(KindConvolver, convolver(fixed(5), 2.2)),
		},
	},
	{
		ID: Chiptune, Name: "Chip‑Tune", Description: "retro grit",
		Stages: []StageSpec{
			serial(KindCrusher, crusher(3, 3, func(p Params) float64 { return 0.25 + 0.3*p.Depth }), nil),
			shared(KindFilter, filter(Highpass, func(p Params) float64 { return 1200 + 4000*p.Tone })),
		},
	},
	{
		ID: Tremolo, Name: "Tremolo", Description: "AM wobble",
		Stages: []StageSpec{
			serial(KindGain,
				func(p Params, o Options) (Stage, error) {
					return NewTremolo(2+10*p.Speed, 0.8*p.Intensity, o.SampleRate), nil
				},
				func(Params, Options) (Stage, error) { return NewGain(1), nil }),
		},
	},
	{
		ID: Flanger, Name: "Flanger", Description: "whoosh mod",
		Stages: []StageSpec{
			stage(KindDelay, Feedback,
				func(p Params, o Options) (Stage, error) {
					return NewFeedbackDelay(DelayConfig{
						Time: 0.003, MaxTime: 0.02, Feedback: 0.2 + 0.6*p.Intensity,
						ModRate: 0.1 + 1.2*p.Speed, ModDepth: 0.0005 + 0.004*p.Depth,
					}, o.SampleRate)
				},
				func(_ Params, o Options) (Stage, error) {
					return NewFeedbackDelay(DelayConfig{Time: 0.004, MaxTime: 0.02, Feedback: 0.3}, o.SampleRate)
				}),
		},
	},
	{
		ID: Chorus, Name: "Chorus", Description: "wide swirl",
		Stages: []StageSpec{
			stage(KindMerge, ParallelMerge,
				func(p Params, o Options) (Stage, error) {
					depth := 0.002 + 0.004*p.Depth
					return NewChorus(
						Tap{Rate: 0.15 + 0.6*p.Speed, Depth: depth},
						Tap{Rate: 0.25 + 0.7*p.Speed, Depth: depth},
						0.03, o.SampleRate)
				},
				func(_ Params, o Options) (Stage, error) {
					return NewChorus(Tap{Time: 0.008}, Tap{Time: 0.012}, 0.03, o.SampleRate)
				}),
		},
	},
	{
		ID: StereoWiden, Name: "Stereo Widen", Description: "pan widen",
		Stages: []StageSpec{
			serial(KindPanner,
				panner(func(p Params) float64 { return -0.2 + 0.8*p.Intensity }),
				panner(func(p Params) float64 { return 0.4 + 0.4*p.Intensity })),
		},
	},
}
