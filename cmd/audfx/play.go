// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audfx/analysis"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/internal/config"
	"github.com/ik5/audfx/live"
)

const meterWidth = 40

// openSpeaker starts the output device and returns a builder whose graphs
// play through it.
func openSpeaker(cfg config.Config, log *logrus.Logger) (*live.Builder, error) {
	sr := beep.SampleRate(cfg.SampleRate)
	if err := speaker.Init(sr, sr.N(time.Duration(cfg.BufferMS)*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("opening speaker: %w", err)
	}

	dest := live.NewDestination(sr, live.LockFunc(speaker.Lock, speaker.Unlock))
	speaker.Play(dest)

	return live.NewBuilder(dest, live.WithLogger(log)), nil
}

func runPlay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("audfx play", flag.ContinueOnError)
	var (
		effect effectFlags
		in     = fs.String("in", "", "input file or http(s) URL")
		meter  = fs.Bool("meter", true, "draw a level meter while playing")
	)
	effect.register(fs)

	cfg, err := config.Parse(fs, args)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	out, err := openSpeaker(cfg, a.log)
	if err != nil {
		return err
	}
	defer speaker.Clear()

	e := a.engine(engine.WithLive(out))
	defer e.Close()

	if err := effect.apply(ctx, e); err != nil {
		return err
	}
	if err := load(ctx, e, *in); err != nil {
		return err
	}
	if err := e.Play(ctx); err != nil {
		return err
	}

	done := e.Done()
	if !*meter {
		select {
		case <-done:
		case <-ctx.Done():
		}
		return nil
	}

	t := time.NewTicker(100 * time.Millisecond)
	defer t.Stop()
	defer fmt.Fprintln(os.Stdout)

	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return nil
		case <-t.C:
			drawMeter(os.Stdout, e.Analyser())
		}
	}
}

// drawMeter prints the peak level and a coarse spectrum on one line.
func drawMeter(w io.Writer, tap *analysis.Tap) {
	if tap == nil {
		return
	}

	wave := make([]byte, 1024)
	n := tap.TimeDomainData(wave)
	var peak int
	for _, v := range wave[:n] {
		peak = max(peak, abs(int(v)-128))
	}
	bars := peak * meterWidth / 128

	spectrum := make([]byte, analysis.BinCount)
	tap.FrequencyData(spectrum)

	fmt.Fprintf(w, "\r[%-*s] %s", meterWidth, strings.Repeat("#", bars), sparkline(spectrum, 16))
}

var sparks = []rune(" ▁▂▃▄▅▆▇█")

// sparkline folds bins into width bands on a logarithmic frequency axis.
func sparkline(bins []byte, width int) string {
	var sb strings.Builder
	lo := 1
	for i := range width {
		hi := max(lo+1, int(float64(len(bins))*math.Exp2(float64(i+1-width)*0.6)))
		hi = min(hi, len(bins))

		var top byte
		for _, v := range bins[lo:hi] {
			top = max(top, v)
		}
		sb.WriteRune(sparks[int(top)*(len(sparks)-1)/255])
		lo = min(hi, len(bins)-1)
	}
	return sb.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
