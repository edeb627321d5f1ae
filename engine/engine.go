// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audfx/analysis"
	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/encode"
	"github.com/ik5/audfx/fetch"
	"github.com/ik5/audfx/fx"
	"github.com/ik5/audfx/history"
	"github.com/ik5/audfx/live"
	"github.com/ik5/audfx/render"
)

const (
	// DefaultExportFormat is the encoder used by Export.
	DefaultExportFormat = "opus"

	// DefaultFilename replaces an empty track name in export filenames.
	DefaultFilename = "audfx-output"

	// DefaultHistoryName names history items of unnamed tracks.
	DefaultHistoryName = "Processed Track"
)

// State of the engine.
type State int

const (
	Idle State = iota
	Loaded
	Playing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loaded:
		return "loaded"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Fetcher downloads the bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Artifact is one exported file.
type Artifact struct {
	Filename string
	MIMEType string
	Format   string
	Data     []byte
	Preset   fx.PresetID
	Params   fx.Params
	Duration time.Duration
}

// Engine holds one track, one preset and its parameters, and drives the
// live preview and exports. All methods are safe for concurrent use; they
// are serialised internally.
type Engine struct {
	mu sync.Mutex

	log      *logrus.Logger
	decoders *audio.Registry
	encoders *encode.Registry
	fetcher  Fetcher
	builder  *live.Builder
	renderer *render.Renderer
	history  *history.Cache
	format   string
	now      func() time.Time

	track  *audio.Buffer
	name   string
	preset fx.PresetID
	params fx.Params
	state  State

	source *live.Source
	quit   chan struct{}
}

type Option func(*Engine)

func WithLogger(l *logrus.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

func WithDecoders(r *audio.Registry) Option { return func(e *Engine) { e.decoders = r } }
func WithEncoders(r *encode.Registry) Option { return func(e *Engine) { e.encoders = r } }
func WithFetcher(f Fetcher) Option           { return func(e *Engine) { e.fetcher = f } }

// WithLive enables preview playback through b.
func WithLive(b *live.Builder) Option { return func(e *Engine) { e.builder = b } }

func WithRenderer(r *render.Renderer) Option { return func(e *Engine) { e.renderer = r } }
func WithHistory(c *history.Cache) Option    { return func(e *Engine) { e.history = c } }

// WithExportFormat picks the encoder Export uses.
func WithExportFormat(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.format = name
		}
	}
}

// WithClock replaces time.Now for history timestamps.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// New returns an idle engine with the clean preset and default parameters.
// Without options it decodes and encodes every built-in format and keeps
// history in memory. Preview needs WithLive and URL loading WithFetcher.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:    logrus.StandardLogger(),
		format: DefaultExportFormat,
		now:    time.Now,
		preset: fx.Clean,
		params: fx.DefaultParams(),
	}
	for _, o := range opts {
		o(e)
	}

	if e.decoders == nil {
		e.decoders = DefaultDecoders()
	}
	if e.encoders == nil {
		e.encoders = DefaultEncoders()
	}
	if e.renderer == nil {
		e.renderer = render.New(render.WithLogger(e.log))
	}
	if e.history == nil {
		e.history = history.New(history.NewMemoryStore(), history.WithLogger(e.log))
	}

	return e
}

// RestoreHistory reloads the persisted history.
func (e *Engine) RestoreHistory() ([]history.Item, error) {
	return e.history.Load()
}

// LoadFile decodes data and makes it the current track. Playback of the
// previous track stops. On failure the engine is unchanged.
func (e *Engine) LoadFile(ctx context.Context, name string, data []byte) error {
	track, err := audio.DecodeAll(ctx, e.decoders, data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.setTrack(track, name)
	return nil
}

// LoadURL fetches url and loads it, naming the track after the last path
// segment.
func (e *Engine) LoadURL(ctx context.Context, url string) error {
	if e.fetcher == nil {
		return ErrNoFetcher
	}

	data, err := e.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	track, err := audio.DecodeAll(ctx, e.decoders, data)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.setTrack(track, fetch.NameFromURL(url))
	return nil
}

func (e *Engine) setTrack(track *audio.Buffer, name string) {
	e.stopLocked()
	e.track = track
	e.name = name
	e.state = Loaded

	e.log.WithFields(logrus.Fields{
		"track":    name,
		"rate":     track.SampleRate(),
		"channels": track.Channels(),
		"duration": track.Length().Round(time.Millisecond),
	}).Info("track loaded")
}

// Play builds the live graph for the current preset and starts it from
// the beginning. Playing again restarts.
func (e *Engine) Play(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.playLocked(ctx)
}

func (e *Engine) playLocked(ctx context.Context) error {
	if e.track == nil {
		return ErrNoTrack
	}
	if e.builder == nil {
		return ErrNoOutput
	}

	e.detachWatcher()

	src, err := e.builder.Build(ctx, e.track, e.preset, e.params)
	if err != nil {
		e.builder.Teardown()
		e.source = nil
		e.state = Loaded
		return err
	}

	e.source = src
	e.quit = make(chan struct{})
	e.state = Playing
	src.Start()

	go e.watch(src, e.quit)

	e.log.WithFields(logrus.Fields{
		"track":  e.name,
		"preset": e.preset,
		"rate":   src.PlaybackRate(),
	}).Debug("playing")

	return nil
}

// watch moves the engine back to Loaded when src plays to its end. It
// gives up when quit closes because src was replaced or stopped.
func (e *Engine) watch(src *live.Source, quit <-chan struct{}) {
	select {
	case <-src.Done():
	case <-quit:
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.source != src {
		return
	}
	e.detachWatcher()
	e.builder.Teardown()
	e.source = nil
	e.state = Loaded
	e.log.WithField("track", e.name).Debug("playback ended")
}

func (e *Engine) detachWatcher() {
	if e.quit != nil {
		close(e.quit)
		e.quit = nil
	}
}

// Stop silences the preview. It is a no-op unless playing.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopLocked()
}

func (e *Engine) stopLocked() {
	e.detachWatcher()
	if e.builder != nil {
		e.builder.Teardown()
	}
	e.source = nil
	if e.state == Playing {
		e.state = Loaded
	}
}

// UpdateParams merges u into the current parameters. While playing, the
// graph is rebuilt and restarts from the beginning; only that rebuild can
// fail.
func (e *Engine) UpdateParams(ctx context.Context, u fx.Partial) (fx.Params, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.params = e.params.Merge(u)
	return e.params, e.rebuildLocked(ctx)
}

// SetParams replaces all four parameters, clamped.
func (e *Engine) SetParams(ctx context.Context, p fx.Params) (fx.Params, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.params = fx.Clamp(p)
	return e.params, e.rebuildLocked(ctx)
}

// SetPreset selects the active preset. Unknown ids fail with
// fx.ErrInvalidPreset and change nothing.
func (e *Engine) SetPreset(ctx context.Context, id fx.PresetID) error {
	if _, err := fx.Lookup(id); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.preset = id
	return e.rebuildLocked(ctx)
}

// SetEffect selects a preset and its parameters together, rebuilding a
// playing graph once. Unknown ids fail with fx.ErrInvalidPreset and change
// nothing.
func (e *Engine) SetEffect(ctx context.Context, id fx.PresetID, p fx.Params) (fx.Params, error) {
	if _, err := fx.Lookup(id); err != nil {
		return fx.Params{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.preset = id
	e.params = fx.Clamp(p)
	return e.params, e.rebuildLocked(ctx)
}

// ApplyHistory restores the preset and parameters an export was made with.
func (e *Engine) ApplyHistory(ctx context.Context, item history.Item) error {
	_, err := e.SetEffect(ctx, item.Preset, item.Params)
	if err != nil {
		return fmt.Errorf("applying history item %s: %w", item.ID, err)
	}

	e.log.WithFields(logrus.Fields{
		"id":     item.ID,
		"preset": item.Preset,
	}).Debug("history item applied")

	return nil
}

func (e *Engine) rebuildLocked(ctx context.Context) error {
	if e.state != Playing {
		return nil
	}
	e.log.WithFields(logrus.Fields{
		"preset": e.preset,
		"params": e.params.String(),
	}).Debug("rebuilding live graph")

	return e.playLocked(ctx)
}

// Export renders the track through the current preset and encodes it with
// the configured format.
func (e *Engine) Export(ctx context.Context) (*Artifact, error) {
	return e.ExportAs(ctx, e.format)
}

// ExportAs is Export with an explicit encoder name. It fails with ErrNoTrack
// before looking at the encoder, and with encode.ErrEncoderUnavailable
// before rendering.
func (e *Engine) ExportAs(ctx context.Context, format string) (*Artifact, error) {
	e.mu.Lock()
	track, name, preset, params := e.track, e.name, e.preset, e.params
	e.mu.Unlock()

	if track == nil {
		return nil, ErrNoTrack
	}

	factory, err := e.encoders.Lookup(format)
	if err != nil {
		return nil, err
	}

	rendered, err := e.renderer.Render(ctx, track, preset, params)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", preset, err)
	}

	enc, err := factory.New(rendered.SampleRate(), rendered.Channels())
	if err != nil {
		return nil, fmt.Errorf("creating %s encoder: %w", format, err)
	}
	data, err := encode.EncodeBuffer(enc, rendered)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}

	a := &Artifact{
		Filename: Filename(name, factory.Extension()),
		MIMEType: factory.MIMEType(),
		Format:   format,
		Data:     data,
		Preset:   preset,
		Params:   params,
		Duration: rendered.Length(),
	}

	e.log.WithFields(logrus.Fields{
		"track":  name,
		"preset": preset,
		"format": format,
		"bytes":  len(data),
	}).Info("exported")

	return a, nil
}

// Filename strips any extension from name and appends ext. An empty name
// becomes DefaultFilename.
func Filename(name, ext string) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = DefaultFilename
	}
	return base + ext
}

// AddToHistory records a as the newest history item.
func (e *Engine) AddToHistory(a *Artifact) (history.Item, error) {
	e.mu.Lock()
	name := e.name
	e.mu.Unlock()

	if strings.TrimSpace(name) == "" {
		name = DefaultHistoryName
	}

	now := e.now()
	item := history.Item{
		ID:      history.NewID(now),
		Name:    name,
		Preset:  a.Preset,
		Params:  a.Params,
		Date:    now.UTC(),
		Format:  a.Format,
		Payload: history.DataURL(a.MIMEType, a.Data),
	}

	if err := e.history.Record(item); err != nil {
		return item, err
	}
	return item, nil
}

// History lists recorded exports, newest first.
func (e *Engine) History() []history.Item {
	return e.history.Items()
}

// Analyser is the tap of the playing graph, or nil.
func (e *Engine) Analyser() *analysis.Tap {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.source == nil {
		return nil
	}
	return e.source.Tap()
}

// Waveform summarises the loaded track in points RMS values.
func (e *Engine) Waveform(points int) ([]float32, error) {
	e.mu.Lock()
	track := e.track
	e.mu.Unlock()

	if track == nil {
		return nil, ErrNoTrack
	}
	return audio.Waveform(track, points)
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Preset() fx.PresetID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.preset
}

func (e *Engine) Params() fx.Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// TrackName is the display name of the loaded track.
func (e *Engine) TrackName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

// Track is the loaded track, or nil.
func (e *Engine) Track() *audio.Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.track
}

// Done is closed when the current playback reaches the end of the track.
// It is nil when nothing plays.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.source == nil {
		return nil
	}
	return e.source.Done()
}

// Close stops playback and releases the fetcher when it holds resources.
func (e *Engine) Close() error {
	e.Stop()

	if c, ok := e.fetcher.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
