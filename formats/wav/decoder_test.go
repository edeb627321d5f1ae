// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audfx/audio"
)

// mockWavReader feeds fixed integer samples to source.
type mockWavReader struct {
	channels int
	data     []int
	offset   int
}

func (m *mockWavReader) Format() *goaudio.Format {
	return &goaudio.Format{NumChannels: m.channels, SampleRate: 8000}
}

func (m *mockWavReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	n := copy(buf.Data, m.data[m.offset:])
	m.offset += n
	return n, nil
}

func TestSource_Scaling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		in       []int
		want     []float32
	}{
		{name: "16-bit", bitDepth: 16, in: []int{-32768, 0, 16384}, want: []float32{-1, 0, 0.5}},
		{name: "8-bit unsigned", bitDepth: 8, in: []int{0, 128, 192}, want: []float32{-1, 0, 0.5}},
		{name: "24-bit", bitDepth: 24, in: []int{-8388608, 4194304}, want: []float32{-1, 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &source{
				dec:        &mockWavReader{channels: 1, data: tt.in},
				sampleRate: 8000,
				channels:   1,
				bitDepth:   tt.bitDepth,
			}

			dst := make([]float32, 16)
			n, err := s.ReadSamples(dst)
			if err != nil {
				t.Fatalf("ReadSamples() error = %v", err)
			}
			if n != len(tt.want) {
				t.Fatalf("n = %d, want %d", n, len(tt.want))
			}
			for i, w := range tt.want {
				if dst[i] != w {
					t.Errorf("dst[%d] = %v, want %v", i, dst[i], w)
				}
			}

			if n, err := s.ReadSamples(dst); n != 0 || !errors.Is(err, io.EOF) {
				t.Errorf("second ReadSamples() = %d, %v; want 0, EOF", n, err)
			}
		})
	}
}

func encodeFixture(t *testing.T, channels int, left, right []int16) []byte {
	t.Helper()

	enc, err := NewEncoder(44100, channels)
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	if _, err := enc.EncodeBlock(left, right); err != nil {
		t.Fatalf("EncodeBlock() error = %v", err)
	}
	data, err := enc.Flush()
	if err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	return data
}

func TestDecoder_RoundTrip(t *testing.T) {
	t.Parallel()

	const frames = 3000
	left := make([]int16, frames)
	right := make([]int16, frames)
	for i := range frames {
		left[i] = int16(10000 * math.Sin(float64(i)*0.05))
		right[i] = -left[i]
	}

	tests := []struct {
		name     string
		channels int
	}{
		{name: "stereo", channels: 2},
		{name: "mono", channels: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := encodeFixture(t, tt.channels, left, right)
			if !(Decoder{}).Sniff(data) {
				t.Fatal("Sniff() = false for encoded WAV")
			}

			src, err := Decoder{}.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if src.SampleRate() != 44100 || src.Channels() != tt.channels {
				t.Fatalf("layout = %d Hz x %d, want 44100 x %d", src.SampleRate(), src.Channels(), tt.channels)
			}

			buf, err := audio.ReadAll(src)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if buf.Frames() != frames {
				t.Fatalf("Frames() = %d, want %d", buf.Frames(), frames)
			}
			for i := 0; i < frames; i += 97 {
				if got, want := buf.Channel(0)[i], float32(left[i])/32768; got != want {
					t.Fatalf("left[%d] = %v, want %v", i, got, want)
				}
				if tt.channels == 2 {
					if got, want := buf.Channel(1)[i], float32(right[i])/32768; got != want {
						t.Fatalf("right[%d] = %v, want %v", i, got, want)
					}
				}
			}
		})
	}
}

func TestDecoder_NotWav(t *testing.T) {
	t.Parallel()

	data := []byte("this is not a RIFF container at all, just text")
	if (Decoder{}).Sniff(data) {
		t.Error("Sniff() = true for plain text")
	}
	if _, err := (Decoder{}).Decode(bytes.NewReader(data)); !errors.Is(err, ErrNotWavFile) {
		t.Errorf("Decode() error = %v, want ErrNotWavFile", err)
	}
}

func TestEncoder_Layout(t *testing.T) {
	t.Parallel()

	if _, err := NewEncoder(44100, 3); !errors.Is(err, ErrUnsupportedWavLayout) {
		t.Errorf("NewEncoder(3 ch) error = %v, want ErrUnsupportedWavLayout", err)
	}

	enc, _ := NewEncoder(44100, 2)
	if _, err := enc.EncodeBlock(make([]int16, 4), make([]int16, 3)); !errors.Is(err, ErrChannelMismatch) {
		t.Errorf("EncodeBlock() error = %v, want ErrChannelMismatch", err)
	}
}

func TestEncoder_HeaderSizes(t *testing.T) {
	t.Parallel()

	data := encodeFixture(t, 2, make([]int16, 1152), make([]int16, 1152))

	const header = 44
	if len(data) != header+1152*4 {
		t.Fatalf("len = %d, want %d", len(data), header+1152*4)
	}
	if string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		t.Errorf("bad container magic % x", data[:12])
	}
}
