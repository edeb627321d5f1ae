// SPDX-License-Identifier: EPL-2.0

// Package live builds the preview graph that plays a track through a preset
// on the output device.
//
// The graph is a chain of beep streamers:
//
//	track buffer -> ResampleRatio -> fx chain -> analysis.Tap -> gain 0.95 -> Destination
//
// Crackle noise is mixed into the Destination next to the chain. Every
// Build first disconnects the previous graph and stops its oscillators, so
// at most one graph output is ever attached. Graphs are swapped with the
// destination's locker held; when playing through the speaker package,
// pass speaker.Lock and speaker.Unlock:
//
//	speaker.Init(sr, sr.N(100*time.Millisecond))
//	dest := live.NewDestination(sr, live.LockFunc(speaker.Lock, speaker.Unlock))
//	speaker.Play(dest)
//
//	b := live.NewBuilder(dest)
//	src, err := b.Build(ctx, track, fx.Tremolo, fx.DefaultParams())
//	if err != nil {
//		return err
//	}
//	src.Start()
//	<-src.Done()
package live
