// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/encode"
	"github.com/ik5/audfx/formats/aiff"
	"github.com/ik5/audfx/formats/mp3"
	"github.com/ik5/audfx/formats/opus"
	"github.com/ik5/audfx/formats/vorbis"
	"github.com/ik5/audfx/formats/wav"
)

// DefaultDecoders registers every container the module can read.
func DefaultDecoders() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("vorbis", vorbis.Decoder{})
	opus.Register(nil, reg)
	return reg
}

// DefaultEncoders registers wav and, when compiled with the opus tag, opus.
func DefaultEncoders() *encode.Registry {
	reg := encode.NewRegistry()
	reg.Register("wav", wav.EncoderFactory{})
	opus.Register(reg, nil)
	return reg
}
