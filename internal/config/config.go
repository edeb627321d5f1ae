// SPDX-License-Identifier: EPL-2.0

// Package config loads the settings of the audfx command from an optional
// JSON file and command-line flags, flags winning.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	// SampleRate of the live output device.
	SampleRate int `json:"sample_rate"`
	// BufferMS is the device buffer length.
	BufferMS int           `json:"buffer_ms"`
	Export   ExportConfig  `json:"export"`
	History  HistoryConfig `json:"history"`
	Fetch    FetchConfig   `json:"fetch"`
	Log      LogConfig     `json:"log"`
}

type ExportConfig struct {
	// Format is the encoder name, "opus" or "wav".
	Format string `json:"format"`
}

type HistoryConfig struct {
	Path          string `json:"path"`
	PayloadWindow int    `json:"payload_window"`
}

type FetchConfig struct {
	Timeout  Duration `json:"timeout"`
	HTTP3    bool     `json:"http3"`
	MaxBytes int64    `json:"max_bytes"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// Duration reads either a Go duration string ("30s") or a number of
// seconds from JSON.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch x := v.(type) {
	case float64:
		d.Duration = time.Duration(x * float64(time.Second))
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("%w: duration %s", ErrInvalid, b)
	}
	return nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SampleRate: 44100,
		BufferMS:   100,
		Export:     ExportConfig{Format: "opus"},
		History: HistoryConfig{
			Path:          DefaultHistoryDir(),
			PayloadWindow: 3,
		},
		Fetch: FetchConfig{
			Timeout:  Duration{30 * time.Second},
			MaxBytes: 100 << 20,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// DefaultHistoryDir is $XDG_CONFIG_HOME/audfx, falling back to
// ~/.config/audfx.
func DefaultHistoryDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".audfx"
	}
	return filepath.Join(dir, "audfx")
}

// Load reads path over the defaults. Unknown fields are rejected.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads JSON from r over the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return cfg, nil
}

// RegisterFlags binds every setting to a flag on fs, using the current
// values as defaults.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.SampleRate, "rate", c.SampleRate, "output sample rate in Hz")
	fs.IntVar(&c.BufferMS, "buffer-ms", c.BufferMS, "output buffer length in milliseconds")
	fs.StringVar(&c.Export.Format, "format", c.Export.Format, "export format: opus or wav")
	fs.StringVar(&c.History.Path, "history-dir", c.History.Path, "directory holding the export history")
	fs.IntVar(&c.History.PayloadWindow, "payload-window", c.History.PayloadWindow, "recent history items that keep their audio")
	fs.DurationVar(&c.Fetch.Timeout.Duration, "fetch-timeout", c.Fetch.Timeout.Duration, "timeout for downloading a URL")
	fs.BoolVar(&c.Fetch.HTTP3, "http3", c.Fetch.HTTP3, "download over HTTP/3")
	fs.Int64Var(&c.Fetch.MaxBytes, "max-bytes", c.Fetch.MaxBytes, "largest download accepted")
	fs.StringVar(&c.Log.Level, "log-level", c.Log.Level, "log level: trace, debug, info, warn, error")
	fs.StringVar(&c.Log.Format, "log-format", c.Log.Format, "log format: text or json")
}

// Parse registers the settings and a -config flag on fs and parses args.
// The file named by -config is read first, then every flag given in args
// is applied on top of it. The result is validated.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()
	path := fs.String("config", "", "JSON configuration file")
	cfg.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *path != "" {
		fileCfg, err := Load(*path)
		if err != nil {
			return Config{}, err
		}

		replay := flag.NewFlagSet("replay", flag.ContinueOnError)
		replay.SetOutput(io.Discard)
		fileCfg.RegisterFlags(replay)

		var errs []error
		fs.Visit(func(f *flag.Flag) {
			if replay.Lookup(f.Name) == nil {
				return
			}
			if err := replay.Set(f.Name, f.Value.String()); err != nil {
				errs = append(errs, err)
			}
		})
		if err := errors.Join(errs...); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		cfg = fileCfg
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.SampleRate < 8000 || c.SampleRate > 192000 {
		add("sample_rate %d outside 8000..192000", c.SampleRate)
	}
	if c.BufferMS < 1 || c.BufferMS > 2000 {
		add("buffer_ms %d outside 1..2000", c.BufferMS)
	}
	switch c.Export.Format {
	case "opus", "wav":
	default:
		add("export.format %q, want opus or wav", c.Export.Format)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		add("history.path is empty")
	}
	if c.History.PayloadWindow < 0 || c.History.PayloadWindow > 8 {
		add("history.payload_window %d outside 0..8", c.History.PayloadWindow)
	}
	if c.Fetch.Timeout.Duration <= 0 {
		add("fetch.timeout %s must be positive", c.Fetch.Timeout)
	}
	if c.Fetch.MaxBytes <= 0 {
		add("fetch.max_bytes %d must be positive", c.Fetch.MaxBytes)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		add("log.level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		add("log.format %q, want text or json", c.Log.Format)
	}

	return errors.Join(errs...)
}

// Logger builds a logger writing to w with the configured level and
// format. Invalid values fall back to info and text.
func (c Config) Logger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if c.Log.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// String renders the configuration as indented JSON.
func (c Config) String() string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	_ = enc.Encode(c)
	return strings.TrimSpace(buf.String())
}
