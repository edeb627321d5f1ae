// SPDX-License-Identifier: EPL-2.0

package live

import (
	"sync"

	"github.com/faiface/beep"

	"github.com/ik5/audfx/analysis"
	"github.com/ik5/audfx/fx"
)

// Source is one connected preview graph. It is created paused by
// Builder.Build and plays the track once from the beginning.
type Source struct {
	dest  *Destination
	chain *fx.Chain
	tap   *analysis.Tap
	rate  float64

	out   *beep.Ctrl
	noise *beep.Ctrl

	done     chan struct{}
	doneOnce sync.Once
}

// Start begins playback. Starting a stopped or finished source does
// nothing.
func (s *Source) Start() {
	s.dest.Lock()
	defer s.dest.Unlock()

	if s.out != nil {
		s.out.Paused = false
	}
	if s.noise != nil {
		s.noise.Paused = false
	}
}

// Stop disconnects the graph from the destination and stops its
// oscillators and noise. Done is not closed by Stop.
func (s *Source) Stop() error {
	s.dest.Lock()
	s.disconnect()
	s.dest.Unlock()

	return s.chain.StopSources()
}

// disconnect requires the destination lock.
func (s *Source) disconnect() {
	s.dest.detach(s.out)
	s.dest.detach(s.noise)
	s.out, s.noise = nil, nil
}

// PlaybackRate is the rate the track is played at, 1 being unchanged.
func (s *Source) PlaybackRate() float64 { return s.rate }

// Done is closed when the track has played to its end.
func (s *Source) Done() <-chan struct{} { return s.done }

func (s *Source) Chain() *fx.Chain { return s.chain }

func (s *Source) Tap() *analysis.Tap { return s.tap }

// ended runs on the audio thread with the device lock held. It must not
// block.
func (s *Source) ended() {
	s.doneOnce.Do(func() {
		if n := s.chain.Noise(); n != nil {
			_ = n.Stop()
		}
		close(s.done)
	})
}
