// SPDX-License-Identifier: EPL-2.0

package encode

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/utils"
)

// BlockSize is the number of samples per channel handed to an Encoder per
// call, one MPEG-1 Layer III frame.
const BlockSize = 1152

// Encoder turns 16-bit PCM blocks into a compressed byte stream.
// Either call may return an empty chunk.
type Encoder interface {
	EncodeBlock(left, right []int16) ([]byte, error)
	Flush() ([]byte, error)
}

// Factory creates encoders for one output format.
type Factory interface {
	New(sampleRate, channels int) (Encoder, error)
	// Extension includes the leading dot.
	Extension() string
	MIMEType() string
}

// Registry maps format names to factories.
type Registry struct {
	factories map[string]Factory

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		mtx:       &sync.Mutex{},
	}
}

func (r *Registry) Register(name string, f Factory) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.factories[name] = f
}

// Lookup returns the factory registered as name, or ErrEncoderUnavailable.
func (r *Registry) Lookup(name string) (Factory, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEncoderUnavailable, name)
	}

	return f, nil
}

// Names lists the registered formats in sorted order.
func (r *Registry) Names() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Encode converts left and right to 16-bit PCM, feeds them to enc in
// BlockSize pieces, flushes it and returns every non-empty chunk joined
// in order.
func Encode(enc Encoder, left, right []float32) ([]byte, error) {
	if len(left) != len(right) {
		return nil, fmt.Errorf("%w: %d != %d", ErrChannelLength, len(left), len(right))
	}

	l16 := make([]int16, len(left))
	r16 := make([]int16, len(right))
	utils.Float32SliceToInt16(l16, left)
	utils.Float32SliceToInt16(r16, right)

	var out []byte
	for i := 0; i < len(l16); i += BlockSize {
		end := min(i+BlockSize, len(l16))

		chunk, err := enc.EncodeBlock(l16[i:end], r16[i:end])
		if err != nil {
			return nil, fmt.Errorf("encoding block at sample %d: %w", i, err)
		}
		if len(chunk) > 0 {
			out = append(out, chunk...)
		}
	}

	tail, err := enc.Flush()
	if err != nil {
		return nil, fmt.Errorf("flushing encoder: %w", err)
	}
	if len(tail) > 0 {
		out = append(out, tail...)
	}

	return out, nil
}

// EncodeBuffer encodes the first two channels of buf. A mono buffer is
// sent as identical left and right channels.
func EncodeBuffer(enc Encoder, buf *audio.Buffer) ([]byte, error) {
	left := buf.Channel(0)
	right := left
	if buf.Channels() > 1 {
		right = buf.Channel(1)
	}

	return Encode(enc, left, right)
}
