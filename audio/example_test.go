// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/internal/audiotest"
)

// Example_readAll decodes a stream into a Buffer and inspects its layout.
func Example_readAll() {
	src := audiotest.NewSineSource(44100, 2, 44100*3, 440)

	track, err := audio.ReadAll(src)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("%d ch, %d Hz, %.1f s\n", track.Channels(), track.SampleRate(), track.Duration())
	// Output:
	// 2 ch, 44100 Hz, 3.0 s
}

// Example_reversed shows that reversing is its own inverse.
func Example_reversed() {
	track, _ := audio.FromChannels(8000, [][]float32{{1, 2, 3, 4}})

	fmt.Println(track.Reversed().Channel(0))
	fmt.Println(track.Reversed().Reversed().Channel(0))
	// Output:
	// [4 3 2 1]
	// [1 2 3 4]
}

// Example_resampler converts a track to 48 kHz.
func Example_resampler() {
	src := audiotest.NewSineSource(44100, 1, 44100, 440)
	r := audio.NewResampler(src, 48000)

	fmt.Printf("Output sample rate: %d Hz\n", r.SampleRate())
	fmt.Printf("Channels: %d\n", r.Channels())
	// Output:
	// Output sample rate: 48000 Hz
	// Channels: 1
}
