// SPDX-License-Identifier: EPL-2.0

package fx_test

import (
	"fmt"

	"github.com/ik5/audfx/fx"
)

func ExampleCatalog() {
	for _, r := range fx.Catalog()[:4] {
		fmt.Printf("%-12s %-14s %s\n", r.ID, r.Name, r.Description)
	}
	// Output:
	// clean        Clean          No effect
	// bass_boost   Bass Booster   +low shelf
	// nightcore    Nightcore      +speed +pitch
	// lofi         Lo‑Fi          bitcrush + lowpass
}

func ExampleBuild() {
	recipe, err := fx.Lookup(fx.TrapBass)
	if err != nil {
		fmt.Println(err)
		return
	}

	chain, err := fx.Build(recipe, fx.Params{Intensity: 1}, fx.Options{
		SampleRate: 44100,
		Channels:   2,
		Fidelity:   fx.Offline,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, s := range chain.Describe() {
		fmt.Println(s)
	}
	// Output:
	// lowshelf 90 Hz +26.0 dB
	// compressor thr -30 dB, knee 20 dB, ratio 8, attack 3 ms, release 250 ms
}

func ExampleParams_Merge() {
	speed := 1.4
	p := fx.DefaultParams().Merge(fx.Partial{Speed: &speed})
	fmt.Println(p)
	// Output: intensity=0.60 depth=0.50 speed=1.00 tone=0.50
}
