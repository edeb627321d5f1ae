// SPDX-License-Identifier: EPL-2.0

package fx

import "github.com/faiface/beep"

// Wrap returns a streamer that runs every block read from s through the
// chain. The chain keeps state between blocks, so one chain must wrap
// exactly one streamer.
func (c *Chain) Wrap(s beep.Streamer) beep.Streamer {
	return &chainStreamer{s: s, chain: c}
}

type chainStreamer struct {
	s     beep.Streamer
	chain *Chain
}

func (cs *chainStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := cs.s.Stream(samples)
	cs.chain.Process(samples[:n])
	return n, ok
}

func (cs *chainStreamer) Err() error { return cs.s.Err() }

// NoiseStreamer plays n until it is stopped.
func NoiseStreamer(n *Noise) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if !n.Read(samples) {
			return 0, false
		}
		return len(samples), true
	})
}
