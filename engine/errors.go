// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/encode"
	"github.com/ik5/audfx/fetch"
	"github.com/ik5/audfx/fx"
)

var (
	// ErrNoTrack is returned by operations that need a loaded track.
	ErrNoTrack = errors.New("no track loaded")

	// ErrNoOutput means the engine was built without a live destination.
	ErrNoOutput = errors.New("no audio output configured")

	// ErrNoFetcher means URL loading was not configured.
	ErrNoFetcher = errors.New("no fetcher configured")
)

// ExportMessage turns an error from Export, or any other operation, into
// a short message for the user. A nil error gives "".
func ExportMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoTrack):
		return "Load an audio file first"
	case errors.Is(err, encode.ErrEncoderUnavailable):
		return "This export format is not available in this build"
	case errors.Is(err, fx.ErrInvalidPreset):
		return "Unknown effect"
	case errors.Is(err, audio.ErrDecode):
		return "Could not decode this audio file"
	case errors.Is(err, fetch.ErrNetwork):
		return "Could not download the track"
	case errors.Is(err, ErrNoOutput):
		return "No audio output available"
	default:
		return err.Error()
	}
}
