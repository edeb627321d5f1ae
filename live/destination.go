// SPDX-License-Identifier: EPL-2.0

package live

import (
	"sync"

	"github.com/faiface/beep"
)

// Destination is the single streamer handed to the output device. Graph
// outputs and noise loops are mixed into it.
//
// The locker must be the one held while the device pulls samples (for
// the speaker package, speaker.Lock and speaker.Unlock). Stream itself
// takes no lock.
type Destination struct {
	locker  sync.Locker
	rate    beep.SampleRate
	mixer   beep.Mixer
	outputs map[*beep.Ctrl]struct{}
}

// NewDestination returns a destination running at rate. A nil locker uses
// a private mutex, which suits callers that pull samples themselves.
func NewDestination(rate beep.SampleRate, locker sync.Locker) *Destination {
	if locker == nil {
		locker = &sync.Mutex{}
	}
	return &Destination{
		locker:  locker,
		rate:    rate,
		outputs: make(map[*beep.Ctrl]struct{}),
	}
}

// LockFunc adapts a pair of functions such as speaker.Lock and
// speaker.Unlock to a sync.Locker.
func LockFunc(lock, unlock func()) sync.Locker {
	return lockFuncs{lock: lock, unlock: unlock}
}

type lockFuncs struct{ lock, unlock func() }

func (l lockFuncs) Lock()   { l.lock() }
func (l lockFuncs) Unlock() { l.unlock() }

func (d *Destination) Lock()   { d.locker.Lock() }
func (d *Destination) Unlock() { d.locker.Unlock() }

func (d *Destination) SampleRate() beep.SampleRate { return d.rate }

// Stream implements beep.Streamer. It always fills samples, with silence
// when nothing is attached.
func (d *Destination) Stream(samples [][2]float64) (int, bool) {
	return d.mixer.Stream(samples)
}

func (d *Destination) Err() error { return nil }

// Connected reports how many graph outputs are attached.
func (d *Destination) Connected() int {
	d.Lock()
	defer d.Unlock()
	return len(d.outputs)
}

// attach adds a paused output. The caller holds the lock.
func (d *Destination) attach(s beep.Streamer) *beep.Ctrl {
	ctrl := &beep.Ctrl{Streamer: s, Paused: true}
	d.outputs[ctrl] = struct{}{}
	d.mixer.Add(ctrl)
	return ctrl
}

// mix adds a paused streamer that does not count as a graph output. The
// caller holds the lock.
func (d *Destination) mix(s beep.Streamer) *beep.Ctrl {
	ctrl := &beep.Ctrl{Streamer: s, Paused: true}
	d.mixer.Add(ctrl)
	return ctrl
}

// detach cuts ctrl off. The mixer drops it on its next pass. The caller
// holds the lock.
func (d *Destination) detach(ctrl *beep.Ctrl) {
	if ctrl == nil {
		return
	}
	ctrl.Streamer = nil
	delete(d.outputs, ctrl)
}
