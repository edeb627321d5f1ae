// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"
	"math"
)

// pannerStage is an equal-power stereo panner. pan runs from -1 (left)
// to 1 (right).
type pannerStage struct {
	pan float64

	monoL, monoR float64
	// cosX and sinX split the channel on the side being moved.
	cosX, sinX float64
}

func NewPanner(pan float64) Stage {
	pan = min(max(pan, -1), 1)

	s := &pannerStage{pan: pan}

	x := (pan + 1) / 2
	s.monoL = math.Cos(x * math.Pi / 2)
	s.monoR = math.Sin(x * math.Pi / 2)

	if pan <= 0 {
		x = pan + 1
	} else {
		x = pan
	}
	s.cosX = math.Cos(x * math.Pi / 2)
	s.sinX = math.Sin(x * math.Pi / 2)

	return s
}

func (s *pannerStage) Process(buf [][2]float64, channels int) {
	if channels == 1 {
		for i := range buf {
			in := buf[i][0]
			buf[i] = [2]float64{in * s.monoL, in * s.monoR}
		}
		return
	}

	for i := range buf {
		l, r := buf[i][0], buf[i][1]
		if s.pan <= 0 {
			buf[i] = [2]float64{l + r*s.cosX, r * s.sinX}
		} else {
			buf[i] = [2]float64{l * s.cosX, r + l*s.sinX}
		}
	}
}

func (s *pannerStage) OutChannels(int) int { return 2 }
func (s *pannerStage) Describe() string    { return fmt.Sprintf("pan %+.2f", s.pan) }
