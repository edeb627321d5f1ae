// SPDX-License-Identifier: EPL-2.0

package audfx

import (
	"context"
	"errors"

	"github.com/ik5/audfx/encode"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/fx"
)

// FallbackFormat is used by Process when the configured encoder is not
// compiled in.
const FallbackFormat = "wav"

// Process decodes data, runs it through preset with p and returns the
// encoded result. It is a one-shot convenience over engine.Engine: the
// options configure the engine, so WithExportFormat picks the encoder and
// WithLogger the logger.
//
// When the selected encoder is unavailable the track is exported as WAV
// instead. Any other failure is returned as is; engine.ExportMessage turns
// it into text for the user.
//
// Example:
//
//	data, _ := os.ReadFile("song.mp3")
//	a, err := audfx.Process(ctx, data, "song.mp3", fx.Lofi, fx.DefaultParams())
//	if err != nil {
//		return err
//	}
//	os.WriteFile(a.Filename, a.Data, 0o644)
func Process(ctx context.Context, data []byte, name string, preset fx.PresetID, p fx.Params, opts ...engine.Option) (*engine.Artifact, error) {
	e := engine.New(opts...)
	defer e.Close()

	if err := e.SetPreset(ctx, preset); err != nil {
		return nil, err
	}
	if _, err := e.SetParams(ctx, p); err != nil {
		return nil, err
	}
	if err := e.LoadFile(ctx, name, data); err != nil {
		return nil, err
	}

	a, err := e.Export(ctx)
	if errors.Is(err, encode.ErrEncoderUnavailable) {
		return e.ExportAs(ctx, FallbackFormat)
	}
	return a, err
}
