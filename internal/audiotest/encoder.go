// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"errors"
)

// ErrEncoderFailed is returned by a FakeEncoder configured to fail.
var ErrEncoderFailed = errors.New("fake encoder failure")

// FakeEncoder records the blocks it receives. Every EmitEvery-th block
// produces a chunk holding the little-endian sample count of the blocks
// seen since the previous chunk; Flush emits the remainder.
type FakeEncoder struct {
	EmitEvery int
	FailAt    int // 1-based block index that fails; 0 never fails

	Blocks  [][2][]int16
	Flushed bool
	pending int
}

func (e *FakeEncoder) EncodeBlock(left, right []int16) ([]byte, error) {
	e.Blocks = append(e.Blocks, [2][]int16{
		append([]int16(nil), left...),
		append([]int16(nil), right...),
	})
	if e.FailAt > 0 && len(e.Blocks) == e.FailAt {
		return nil, ErrEncoderFailed
	}

	e.pending += len(left)
	if e.EmitEvery <= 0 || len(e.Blocks)%e.EmitEvery != 0 {
		return nil, nil
	}

	return e.take(), nil
}

func (e *FakeEncoder) Flush() ([]byte, error) {
	e.Flushed = true
	if e.pending == 0 {
		return nil, nil
	}

	return e.take(), nil
}

func (e *FakeEncoder) take() []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(e.pending))
	e.pending = 0

	return out
}

// Samples returns the total samples per channel received so far.
func (e *FakeEncoder) Samples() int {
	n := 0
	for _, b := range e.Blocks {
		n += len(b[0])
	}

	return n
}
