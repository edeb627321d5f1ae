// SPDX-License-Identifier: EPL-2.0

// Package engine ties tracks, presets, live preview, offline export and
// history together behind one object.
//
// An Engine starts Idle. Loading a track moves it to Loaded, Play to
// Playing, and Stop or the end of the track back to Loaded. Changing the
// preset or the parameters while playing rebuilds the live graph and
// restarts the track.
//
//	e := engine.New(
//		engine.WithLive(live.NewBuilder(dest)),
//		engine.WithFetcher(fetch.New()),
//	)
//	defer e.Close()
//
//	if err := e.LoadFile(ctx, "song.mp3", data); err != nil {
//		return err
//	}
//	_ = e.SetPreset(ctx, fx.Lofi)
//	a, err := e.Export(ctx)
//	if err != nil {
//		fmt.Println(engine.ExportMessage(err))
//	}
package engine
