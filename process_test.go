// SPDX-License-Identifier: EPL-2.0

package audfx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/encode"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/formats/wav"
	"github.com/ik5/audfx/fx"
	"github.com/ik5/audfx/internal/audiotest"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func wavTrack(t *testing.T, rate, channels, frames int) []byte {
	t.Helper()

	buf, err := audio.FromChannels(rate, audiotest.Channels(channels, frames, audiotest.Sine(rate, 440, 0.5)))
	if err != nil {
		t.Fatalf("FromChannels() error = %v", err)
	}
	enc, err := wav.NewEncoder(rate, channels)
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	data, err := encode.EncodeBuffer(enc, buf)
	if err != nil {
		t.Fatalf("EncodeBuffer() error = %v", err)
	}
	return data
}

func TestProcess(t *testing.T) {
	t.Parallel()

	data := wavTrack(t, 16000, 2, 8000)

	tests := []struct {
		name     string
		preset   fx.PresetID
		format   string
		wantFile string
	}{
		{"clean wav", fx.Clean, "wav", "take.wav"},
		{"lofi wav", fx.Lofi, "wav", "take.wav"},
		{"unknown format falls back", fx.Tremolo, "flac", "take.wav"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, err := Process(context.Background(), data, "take.mp3", tt.preset, fx.DefaultParams(),
				engine.WithLogger(quietLogger()),
				engine.WithExportFormat(tt.format),
			)
			if err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if a.Filename != tt.wantFile || a.Preset != tt.preset {
				t.Errorf("artifact = %s via %s", a.Filename, a.Preset)
			}
			if !bytes.HasPrefix(a.Data, []byte("RIFF")) {
				t.Error("result is not a WAV file")
			}
		})
	}
}

func TestProcess_Errors(t *testing.T) {
	t.Parallel()

	data := wavTrack(t, 8000, 1, 800)

	tests := []struct {
		name    string
		data    []byte
		preset  fx.PresetID
		wantErr error
	}{
		{"unknown preset", data, "karaoke", fx.ErrInvalidPreset},
		{"not audio", []byte("hello"), fx.Clean, audio.ErrDecode},
		{"empty", nil, fx.Clean, audio.ErrDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Process(context.Background(), tt.data, "x.wav", tt.preset, fx.DefaultParams(),
				engine.WithLogger(quietLogger()))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Process() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
