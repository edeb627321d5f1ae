// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func impulse(n int) [][2]float64 {
	buf := make([][2]float64, n)
	buf[0] = [2]float64{1, 1}
	return buf
}

func TestFeedbackDelay_Echoes(t *testing.T) {
	t.Parallel()

	s, err := NewFeedbackDelay(DelayConfig{Time: 0.01, MaxTime: 0.1, Feedback: 0.5}, 1000)
	if err != nil {
		t.Fatalf("NewFeedbackDelay() error = %v", err)
	}

	buf := impulse(40)
	s.Process(buf, 1)

	want := map[int]float64{0: 0, 10: 1, 20: 0.5, 30: 0.25}
	for i, w := range want {
		if math.Abs(buf[i][0]-w) > eps {
			t.Errorf("y[%d] = %v, want %v", i, buf[i][0], w)
		}
	}
	if buf[15] != [2]float64{0, 0} {
		t.Errorf("y[15] = %v, want silence between echoes", buf[15])
	}
}

func TestFeedbackDelay_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := NewFeedbackDelay(DelayConfig{Time: 2, MaxTime: 1.2}, 44100); err == nil {
		t.Error("NewFeedbackDelay(time > max) error = nil")
	}
}

func TestChorus_FixedTaps(t *testing.T) {
	t.Parallel()

	s, err := NewChorus(Tap{Time: 0.008}, Tap{Time: 0.012}, 0.03, 1000)
	if err != nil {
		t.Fatalf("NewChorus() error = %v", err)
	}

	buf := impulse(20)
	s.Process(buf, 1)

	for i, f := range buf {
		wantL, wantR := 0.0, 0.0
		if i == 8 {
			wantL = 1
		}
		if i == 12 {
			wantR = 1
		}
		if math.Abs(f[0]-wantL) > eps || math.Abs(f[1]-wantR) > eps {
			t.Errorf("frame %d = %v, want [%v %v]", i, f, wantL, wantR)
		}
	}
	if s.OutChannels(1) != 2 {
		t.Errorf("OutChannels(1) = %d, want 2", s.OutChannels(1))
	}
}

func TestPanner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pan      float64
		channels int
		in, want [2]float64
	}{
		{name: "mono hard left", pan: -1, channels: 1, in: [2]float64{1, 1}, want: [2]float64{1, 0}},
		{name: "mono hard right", pan: 1, channels: 1, in: [2]float64{1, 1}, want: [2]float64{0, 1}},
		{name: "mono centre", pan: 0, channels: 1, in: [2]float64{1, 1}, want: [2]float64{math.Sqrt2 / 2, math.Sqrt2 / 2}},
		{name: "stereo centre", pan: 0, channels: 2, in: [2]float64{0.3, 0.7}, want: [2]float64{0.3, 0.7}},
		{name: "stereo hard left", pan: -1, channels: 2, in: [2]float64{0.3, 0.7}, want: [2]float64{1, 0}},
		{name: "stereo hard right", pan: 1, channels: 2, in: [2]float64{0.3, 0.7}, want: [2]float64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := [][2]float64{tt.in}
			NewPanner(tt.pan).Process(buf, tt.channels)
			if math.Abs(buf[0][0]-tt.want[0]) > eps || math.Abs(buf[0][1]-tt.want[1]) > eps {
				t.Errorf("Process(%v) = %v, want %v", tt.in, buf[0], tt.want)
			}
		})
	}
}

func TestCrusher_QuantiseAndHold(t *testing.T) {
	t.Parallel()

	s, err := NewCrusher(3, 0.25, 8000)
	if err != nil {
		t.Fatalf("NewCrusher() error = %v", err)
	}

	buf := make([][2]float64, 12)
	for i := range buf {
		buf[i] = [2]float64{0.2, 0.4}
	}
	s.Process(buf, 2)

	// 0.3 on a 1/8 grid is 0.25, first taken on the fourth sample.
	for i, f := range buf {
		want := 0.25
		if i < 3 {
			want = 0
		}
		if f[0] != want || f[1] != want {
			t.Errorf("frame %d = %v, want %v in both slots", i, f, want)
		}
	}
}

func TestImpulseScale(t *testing.T) {
	t.Parallel()

	flat := [2][]float64{{0.5, -0.5, 0.5, -0.5}, {0.5, 0.5, -0.5, -0.5}}
	if got := ImpulseScale(flat, 44100); math.Abs(got-0.0025) > eps {
		t.Errorf("ImpulseScale(44100) = %v, want 0.0025", got)
	}
	if got := ImpulseScale(flat, 88200); math.Abs(got-0.00125) > eps {
		t.Errorf("ImpulseScale(88200) = %v, want 0.00125", got)
	}

	silent := [2][]float64{make([]float64, 8), make([]float64, 8)}
	if got := ImpulseScale(silent, 44100); math.Abs(got-10) > eps {
		t.Errorf("ImpulseScale(silent) = %v, want 10", got)
	}
}

func TestImpulse_Envelope(t *testing.T) {
	t.Parallel()

	ir := Impulse(1000, 2, 2.5, newRand())
	for c := range ir {
		if len(ir[c]) != 2000 {
			t.Fatalf("len(ir[%d]) = %d, want 2000", c, len(ir[c]))
		}
		for i, v := range ir[c] {
			limit := math.Pow(1-float64(i)/2000, 2.5)
			if math.Abs(v) > limit {
				t.Fatalf("ir[%d][%d] = %v exceeds envelope %v", c, i, v, limit)
			}
		}
	}
}

func TestConvolver_LatencyAndDelay(t *testing.T) {
	t.Parallel()

	// A unit response makes the stage a pure delay by its latency.
	ir := [2][]float64{{1}, {1}}
	s, err := NewConvolver(ir, 44100)
	if err != nil {
		t.Fatalf("NewConvolver() error = %v", err)
	}
	lat := s.(*convolverStage).Latency()
	if lat != 128 {
		t.Fatalf("Latency() = %d, want 128", lat)
	}

	buf := impulse(512)
	s.Process(buf, 1)

	scale := ImpulseScale(ir, 44100)
	for i, f := range buf {
		want := 0.0
		if i == lat {
			want = scale
		}
		if math.Abs(f[0]-want) > 1e-9 || math.Abs(f[1]-want) > 1e-9 {
			t.Fatalf("frame %d = %v, want %v", i, f, want)
		}
	}
}

func TestTremolo_StopsAtUnityGain(t *testing.T) {
	t.Parallel()

	s := NewTremolo(5, 0.8, 1000)
	owner := s.(sourceOwner)
	if err := owner.Sources()[0].Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}

	buf := [][2]float64{{0.5, -0.5}, {0.25, 0.25}}
	s.Process(buf, 2)
	if buf[0] != [2]float64{0.5, -0.5} || buf[1] != [2]float64{0.25, 0.25} {
		t.Errorf("stopped tremolo changed the signal: %v", buf)
	}
}

func TestOscillator(t *testing.T) {
	t.Parallel()

	o := NewOscillator(250, 1000)
	want := []float64{0, 1, 0, -1, 0}
	for i, w := range want {
		if got := o.Next(); math.Abs(got-w) > 1e-12 {
			t.Errorf("Next() #%d = %v, want %v", i, got, w)
		}
	}
	if f := o.Frequency(1000); f != 250 {
		t.Errorf("Frequency() = %v, want 250", f)
	}

	if err := o.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := o.Stop(); !errors.Is(err, ErrAlreadyStopped) {
		t.Errorf("second Stop() error = %v, want %v", err, ErrAlreadyStopped)
	}
	if o.Next() != 0 {
		t.Error("stopped oscillator is not silent")
	}
}

func TestNoise(t *testing.T) {
	t.Parallel()

	p := Params{Intensity: 1, Depth: 1}
	n := NewNoise(20000, p, newRand())
	if n.Len() != 20000 || math.Abs(n.Gain()-0.2) > eps {
		t.Fatalf("Len() = %d, Gain() = %v", n.Len(), n.Gain())
	}

	buf := make([][2]float64, 20000)
	if !n.Read(buf) {
		t.Fatal("Read() = false on a running source")
	}

	last := -1
	for i, f := range buf {
		if f[0] == 0 {
			continue
		}
		if math.Abs(f[0]) > 0.7*0.2+eps {
			t.Errorf("sample %d = %v exceeds amplitude", i, f[0])
		}
		if last >= 0 && i-last < 200 {
			t.Errorf("clicks at %d and %d closer than 200 samples", last, i)
		}
		last = i
	}
	if last < 0 {
		t.Fatal("no clicks generated")
	}

	if err := n.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if n.Read(buf) {
		t.Error("Read() = true after Stop")
	}
}
