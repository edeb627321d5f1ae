// SPDX-License-Identifier: EPL-2.0

//go:build !opus

package opus

import (
	"io"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/encode"
)

func Available() bool { return false }

// Register leaves the encoder registry untouched and installs a decoder
// that recognises the container but refuses to decode it.
func Register(_ *encode.Registry, dec *audio.Registry) {
	if dec != nil {
		dec.Register(Name, stubDecoder{})
	}
}

type stubDecoder struct{ Sniffer }

func (stubDecoder) Decode(io.Reader) (audio.Source, error) {
	return nil, ErrCodecUnavailable
}
