// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"
)

func TestQueue_ReadsWhatWasPushed(t *testing.T) {
	t.Parallel()

	q := NewQueue(8000, 2)
	q.Push([]int16{100, -100, 200, -200, 300})

	if got := q.Frames(); got != 2 {
		t.Fatalf("Frames() = %d, want 2", got)
	}

	buf := make([]float32, 8)
	n, err := q.ReadSamples(buf)
	if err != nil || n != 4 {
		t.Fatalf("ReadSamples() = %d, %v, want 4, nil", n, err)
	}

	n, err = q.ReadSamples(buf)
	if err != nil || n != 0 {
		t.Fatalf("ReadSamples(open, partial frame) = %d, %v, want 0, nil", n, err)
	}

	q.Push([]int16{-300})
	_ = q.Close()
	n, err = q.ReadSamples(buf)
	if !errors.Is(err, io.EOF) || n != 2 {
		t.Fatalf("ReadSamples(closed) = %d, %v, want 2, EOF", n, err)
	}
}

func TestChunkResampler_MatchesOnePass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		from, to int
		channels int
	}{
		{name: "up", from: 44100, to: 48000, channels: 2},
		{name: "down", from: 96000, to: 48000, channels: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pcm := make([]int16, 5000*tt.channels)
			for i := range pcm {
				pcm[i] = int16(8000 * math.Sin(float64(i/tt.channels)*0.05))
			}

			want, err := ResampleInt16(Int16Source(pcm, tt.from, tt.channels), tt.to, 4096)
			if err != nil {
				t.Fatalf("ResampleInt16() error = %v", err)
			}

			c := NewChunkResampler(tt.from, tt.to, tt.channels)
			var got []int16
			for i, size := 0, 7; i < len(pcm); size = size*3 + 1 {
				end := min(i+size*tt.channels, len(pcm))
				out, err := c.Push(pcm[i:end])
				if err != nil {
					t.Fatalf("Push() error = %v", err)
				}
				got = append(got, out...)
				i = end
			}
			tail, err := c.Flush()
			if err != nil {
				t.Fatalf("Flush() error = %v", err)
			}
			got = append(got, tail...)

			if len(got) != len(want) {
				t.Fatalf("len = %d, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("sample %d = %d, want %d", i, got[i], want[i])
				}
			}
		})
	}
}
