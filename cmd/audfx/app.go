// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audfx/encode"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/fetch"
	"github.com/ik5/audfx/fx"
	"github.com/ik5/audfx/history"
	"github.com/ik5/audfx/internal/config"
)

// app holds what every subcommand builds from the configuration.
type app struct {
	cfg     config.Config
	log     *logrus.Logger
	history *history.Cache
	fetcher *fetch.Client
}

func newApp(cfg config.Config) (*app, error) {
	log := cfg.Logger(os.Stderr)

	cache := history.New(history.NewFileStore(cfg.History.Path),
		history.WithLogger(log),
		history.WithPayloadWindow(cfg.History.PayloadWindow),
	)
	if _, err := cache.Load(); err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	opts := []fetch.Option{
		fetch.WithTimeout(cfg.Fetch.Timeout.Duration),
		fetch.WithMaxBytes(cfg.Fetch.MaxBytes),
		fetch.WithLogger(log),
	}
	if cfg.Fetch.HTTP3 {
		opts = append(opts, fetch.WithHTTP3(&tls.Config{MinVersion: tls.VersionTLS13}))
	}

	log.WithField("history", cfg.History.Path).Debug("settings loaded")

	return &app{
		cfg:     cfg,
		log:     log,
		history: cache,
		fetcher: fetch.New(opts...),
	}, nil
}

func (a *app) engine(extra ...engine.Option) *engine.Engine {
	opts := []engine.Option{
		engine.WithLogger(a.log),
		engine.WithHistory(a.history),
		engine.WithFetcher(a.fetcher),
		engine.WithExportFormat(a.cfg.Export.Format),
	}
	return engine.New(append(opts, extra...)...)
}

// effectFlags are the preset and parameter flags shared by several
// subcommands.
type effectFlags struct {
	preset string
	params fx.Params
}

func (f *effectFlags) register(fs *flag.FlagSet) {
	def := fx.DefaultParams()
	fs.StringVar(&f.preset, "preset", string(fx.Clean), "effect preset, see \"audfx presets\"")
	fs.Float64Var(&f.params.Intensity, "intensity", def.Intensity, "effect intensity 0..1")
	fs.Float64Var(&f.params.Depth, "depth", def.Depth, "effect depth 0..1")
	fs.Float64Var(&f.params.Speed, "speed", def.Speed, "modulation speed 0..1")
	fs.Float64Var(&f.params.Tone, "tone", def.Tone, "tone 0..1")
}

func (f *effectFlags) apply(ctx context.Context, e *engine.Engine) error {
	id, err := fx.ParsePreset(f.preset)
	if err != nil {
		return err
	}
	_, err = e.SetEffect(ctx, id, f.params)
	return err
}

func isURL(in string) bool {
	return strings.HasPrefix(in, "http://") || strings.HasPrefix(in, "https://")
}

// load reads in, a path or an http(s) URL, into e.
func load(ctx context.Context, e *engine.Engine, in string) error {
	if in == "" {
		return errors.New("missing -in")
	}
	if isURL(in) {
		return e.LoadURL(ctx, in)
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	return e.LoadFile(ctx, filepath.Base(in), data)
}

// export encodes with the configured format, falling back to WAV when the
// encoder is not compiled in.
func (a *app) export(ctx context.Context, e *engine.Engine) (*engine.Artifact, error) {
	art, err := e.Export(ctx)
	if errors.Is(err, encode.ErrEncoderUnavailable) {
		a.log.WithField("format", a.cfg.Export.Format).Warn("encoder unavailable, writing wav")
		return e.ExportAs(ctx, "wav")
	}
	return art, err
}

// write stores art under out. An empty out or an existing directory
// receives art.Filename.
func write(art *engine.Artifact, out string) (string, error) {
	path := out
	if out == "" {
		path = art.Filename
	} else if st, err := os.Stat(out); err == nil && st.IsDir() {
		path = filepath.Join(out, art.Filename)
	}

	if err := os.WriteFile(path, art.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// message is the text shown for err.
func message(err error) string {
	msg := engine.ExportMessage(err)
	if msg == err.Error() {
		return msg
	}
	return msg + " (" + err.Error() + ")"
}
