// SPDX-License-Identifier: EPL-2.0

package encode

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/internal/audiotest"
)

type stubFactory struct{}

func (stubFactory) New(int, int) (Encoder, error) { return &audiotest.FakeEncoder{}, nil }
func (stubFactory) Extension() string             { return ".bin" }
func (stubFactory) MIMEType() string              { return "application/octet-stream" }

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register("stub", stubFactory{})

	if _, err := reg.Lookup("stub"); err != nil {
		t.Errorf("Lookup(stub) error = %v", err)
	}

	_, err := reg.Lookup("mp3")
	if !errors.Is(err, ErrEncoderUnavailable) {
		t.Errorf("Lookup(mp3) error = %v, want ErrEncoderUnavailable", err)
	}

	if names := reg.Names(); len(names) != 1 || names[0] != "stub" {
		t.Errorf("Names() = %v, want [stub]", names)
	}
}

func TestEncode_Blocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		samples    int
		wantBlocks []int
	}{
		{name: "empty", samples: 0, wantBlocks: nil},
		{name: "shorter than a block", samples: 100, wantBlocks: []int{100}},
		{name: "exact block", samples: BlockSize, wantBlocks: []int{BlockSize}},
		{name: "partial tail", samples: 2*BlockSize + 7, wantBlocks: []int{BlockSize, BlockSize, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			enc := &audiotest.FakeEncoder{}
			left := make([]float32, tt.samples)
			right := make([]float32, tt.samples)

			if _, err := Encode(enc, left, right); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if len(enc.Blocks) != len(tt.wantBlocks) {
				t.Fatalf("got %d blocks, want %d", len(enc.Blocks), len(tt.wantBlocks))
			}
			for i, want := range tt.wantBlocks {
				if got := len(enc.Blocks[i][0]); got != want {
					t.Errorf("block %d has %d samples, want %d", i, got, want)
				}
			}
			if !enc.Flushed {
				t.Error("encoder was not flushed")
			}
		})
	}
}

func TestEncode_CollectsNonEmptyChunksAndTail(t *testing.T) {
	t.Parallel()

	enc := &audiotest.FakeEncoder{EmitEvery: 2}
	n := 5 * BlockSize
	out, err := Encode(enc, make([]float32, n), make([]float32, n))
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	// Blocks 2 and 4 emit two blocks' worth each; flush emits block 5.
	if len(out) != 12 {
		t.Fatalf("len(out) = %d, want 12", len(out))
	}
	want := []uint32{2 * BlockSize, 2 * BlockSize, BlockSize}
	for i, w := range want {
		if got := binary.LittleEndian.Uint32(out[4*i:]); got != w {
			t.Errorf("chunk %d = %d, want %d", i, got, w)
		}
	}
}

func TestEncode_ConvertsWithPerSignScale(t *testing.T) {
	t.Parallel()

	enc := &audiotest.FakeEncoder{}
	left := []float32{-1, 1, 0.5, -2}
	right := []float32{1, -1, -0.5, 2}

	if _, err := Encode(enc, left, right); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	gotL, gotR := enc.Blocks[0][0], enc.Blocks[0][1]
	wantL := []int16{math.MinInt16, math.MaxInt16, 16384, math.MinInt16}
	wantR := []int16{math.MaxInt16, math.MinInt16, -16384, math.MaxInt16}
	for i := range wantL {
		if gotL[i] != wantL[i] || gotR[i] != wantR[i] {
			t.Errorf("sample %d = (%d, %d), want (%d, %d)", i, gotL[i], gotR[i], wantL[i], wantR[i])
		}
	}
}

func TestEncode_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Encode(&audiotest.FakeEncoder{}, make([]float32, 3), make([]float32, 2)); !errors.Is(err, ErrChannelLength) {
		t.Errorf("mismatched lengths error = %v, want ErrChannelLength", err)
	}

	enc := &audiotest.FakeEncoder{FailAt: 2}
	_, err := Encode(enc, make([]float32, 3*BlockSize), make([]float32, 3*BlockSize))
	if !errors.Is(err, audiotest.ErrEncoderFailed) {
		t.Errorf("encoder failure error = %v, want ErrEncoderFailed", err)
	}
	if enc.Flushed {
		t.Error("encoder flushed after a failed block")
	}
}

func TestEncodeBuffer_MonoDuplicatesLeft(t *testing.T) {
	t.Parallel()

	buf, err := audio.FromChannels(44100, [][]float32{{0.25, -0.25, 0}})
	if err != nil {
		t.Fatal(err)
	}

	enc := &audiotest.FakeEncoder{}
	if _, err := EncodeBuffer(enc, buf); err != nil {
		t.Fatalf("EncodeBuffer() error = %v", err)
	}

	l, r := enc.Blocks[0][0], enc.Blocks[0][1]
	for i := range l {
		if l[i] != r[i] {
			t.Errorf("sample %d: left %d != right %d", i, l[i], r[i])
		}
	}
}
