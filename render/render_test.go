// SPDX-License-Identifier: EPL-2.0

package render

import (
	"context"
	"errors"
	"io"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/fx"
	"github.com/ik5/audfx/internal/audiotest"
)

const testRate = 8000

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newRenderer(opts ...Option) *Renderer {
	base := []Option{
		WithLogger(quietLogger()),
		WithRand(func() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }),
	}
	return New(append(base, opts...)...)
}

func track(t *testing.T, channels, frames int, w audiotest.Waveform) *audio.Buffer {
	t.Helper()
	buf, err := audio.FromChannels(testRate, audiotest.Channels(channels, frames, w))
	if err != nil {
		t.Fatalf("FromChannels() error = %v", err)
	}
	return buf
}

func TestRender_Layout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		channels     int
		frames       int
		preset       fx.PresetID
		wantChannels int
		wantFrames   int
	}{
		{"mono clean", 1, testRate, fx.Clean, 1, 44100},
		{"stereo bass", 2, testRate / 2, fx.BassBoost, 2, 22050},
		{"three channels", 3, testRate / 2, fx.Clean, 2, 22050},
		{"mono surround", 1, testRate / 4, fx.Surround, 1, 11025},
		{"mono reverb", 1, testRate / 4, fx.Reverb, 1, 11025},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tr := track(t, tt.channels, tt.frames, audiotest.Sine(testRate, 440, 0.5))
			out, err := newRenderer().Render(context.Background(), tr, tt.preset, fx.DefaultParams())
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}

			if out.SampleRate() != SampleRate {
				t.Errorf("SampleRate() = %d, want %d", out.SampleRate(), SampleRate)
			}
			if out.Channels() != tt.wantChannels {
				t.Errorf("Channels() = %d, want %d", out.Channels(), tt.wantChannels)
			}
			if out.Frames() != tt.wantFrames {
				t.Errorf("Frames() = %d, want %d", out.Frames(), tt.wantFrames)
			}
		})
	}
}

func TestRender_CleanIsIdentity(t *testing.T) {
	t.Parallel()

	tr := track(t, 2, 2000, func(i, ch int) float32 {
		return float32(0.5*math.Sin(float64(i)/7)) * float32(1-2*ch)
	})

	out, err := newRenderer(WithSampleRate(testRate)).Render(context.Background(), tr, fx.Clean, fx.DefaultParams())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for c := range 2 {
		want := tr.Channel(c)
		got := out.Channel(c)
		for i := range len(want) - 16 {
			if math.Abs(float64(got[i]-want[i])) > 1e-5 {
				t.Fatalf("channel %d frame %d = %v, want %v", c, i, got[i], want[i])
			}
		}
	}
}

func TestRender_ReverseMatchesReversedTrack(t *testing.T) {
	t.Parallel()

	tr := track(t, 1, 1500, func(i, _ int) float32 { return float32(i%100) / 100 })
	r := newRenderer(WithSampleRate(testRate))
	ctx := context.Background()

	reversed, err := r.Render(ctx, tr, fx.Reverse, fx.DefaultParams())
	if err != nil {
		t.Fatalf("Render(reverse) error = %v", err)
	}
	want, err := r.Render(ctx, tr.Reversed(), fx.Clean, fx.DefaultParams())
	if err != nil {
		t.Fatalf("Render(clean) error = %v", err)
	}

	got := reversed.Channel(0)
	for i, w := range want.Channel(0) {
		if got[i] != w {
			t.Fatalf("frame %d = %v, want %v", i, got[i], w)
		}
	}

	twice := tr.Reversed().Reversed()
	for i, v := range tr.Channel(0) {
		if twice.Channel(0)[i] != v {
			t.Fatalf("reversing twice changed frame %d", i)
		}
	}
}

func TestRender_LatencyCompensated(t *testing.T) {
	t.Parallel()

	tr := track(t, 2, testRate, func(i, _ int) float32 {
		if i == 0 {
			return 1
		}
		return 0
	})

	out, err := newRenderer(WithSampleRate(testRate)).Render(context.Background(), tr, fx.Reverb, fx.DefaultParams())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if out.Channel(0)[0] == 0 && out.Channel(1)[0] == 0 {
		t.Error("impulse response does not start at frame 0")
	}
}

func TestRender_OfflineRateLeavesSilentTail(t *testing.T) {
	t.Parallel()

	tr := track(t, 1, testRate, audiotest.Sine(testRate, 200, 0.5))
	p := fx.DefaultParams()
	p.Speed = 1

	out, err := newRenderer(WithSampleRate(testRate)).Render(context.Background(), tr, fx.Nightcore, p)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if out.Frames() != testRate {
		t.Fatalf("Frames() = %d, want %d", out.Frames(), testRate)
	}

	samples := out.Channel(0)

	var peak float64
	for _, v := range samples[1000:3000] {
		peak = max(peak, math.Abs(float64(v)))
	}
	if peak < 0.01 {
		t.Errorf("peak while playing = %v, want audible signal", peak)
	}

	for i, v := range samples[testRate-1000:] {
		if math.Abs(float64(v)) > 1e-3 {
			t.Fatalf("frame %d = %v, want silence after the sped-up track", testRate-1000+i, v)
		}
	}
}

func TestRender_EchoFillsLength(t *testing.T) {
	t.Parallel()

	tr := track(t, 1, testRate, func(i, _ int) float32 {
		if i < 100 {
			return 0.5
		}
		return 0
	})
	p := fx.DefaultParams()
	p.Speed = 0

	out, err := newRenderer(WithSampleRate(testRate)).Render(context.Background(), tr, fx.EchoChamber, p)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// 0.25 s delay: the first echo lands at frame 2000.
	if v := out.Channel(0)[2050]; v == 0 {
		t.Error("no echo at 0.25 s")
	}
}

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	tr := track(t, 1, 100, audiotest.Sine(testRate, 440, 0.5))
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		track   *audio.Buffer
		preset  fx.PresetID
		wantErr error
	}{
		{"unknown preset", context.Background(), tr, "karaoke", fx.ErrInvalidPreset},
		{"no track", context.Background(), nil, fx.Clean, audio.ErrEmptyTrack},
		{"cancelled", cancelled, tr, fx.Clean, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := newRenderer().Render(tt.ctx, tt.track, tt.preset, fx.DefaultParams())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Render() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
