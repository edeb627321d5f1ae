// SPDX-License-Identifier: EPL-2.0

//go:build opus

package opus

import (
	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/encode"
)

// Available reports whether the codec was compiled in.
func Available() bool { return true }

// Register adds the opus encoder and decoder to the given registries.
// Either registry may be nil.
func Register(enc *encode.Registry, dec *audio.Registry) {
	if enc != nil {
		enc.Register(Name, EncoderFactory{})
	}
	if dec != nil {
		dec.Register(Name, Decoder{})
	}
}
