// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/ik5/audfx"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/fx"
	"github.com/ik5/audfx/internal/config"
)

// settle is how long a file must stay unchanged before it is rendered.
const settle = 500 * time.Millisecond

var audioExts = map[string]bool{
	".wav": true, ".wave": true,
	".aif": true, ".aiff": true,
	".mp3": true,
	".ogg": true, ".oga": true,
	".opx": true,
}

func runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("audfx watch", flag.ContinueOnError)
	var (
		effect effectFlags
		dir    = fs.String("dir", ".", "folder to watch")
		out    = fs.String("out", "", "folder receiving the rendered files")
	)
	effect.register(fs)

	cfg, err := config.Parse(fs, args)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	id, err := fx.ParsePreset(effect.preset)
	if err != nil {
		return err
	}
	if *out == "" {
		return errors.New("missing -out")
	}
	if same, _ := sameDir(*dir, *out); same {
		return errors.New("-out must differ from -dir")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(*dir); err != nil {
		return fmt.Errorf("watching %s: %w", *dir, err)
	}

	a.log.WithFields(logrus.Fields{"dir": *dir, "out": *out, "preset": id}).Info("watching")

	ready := make(chan string, 16)
	d := newDebouncer(settle, ready)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if audioExts[strings.ToLower(filepath.Ext(ev.Name))] {
				d.touch(ev.Name)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.log.WithError(err).Warn("watch error")

		case path := <-ready:
			if err := a.renderFile(ctx, path, *out, id, effect.params); err != nil {
				a.log.WithError(err).WithField("file", path).Error(engine.ExportMessage(err))
			}
		}
	}
}

func (a *app) renderFile(ctx context.Context, path, outDir string, id fx.PresetID, p fx.Params) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	art, err := audfx.Process(ctx, data, filepath.Base(path), id, p,
		engine.WithLogger(a.log),
		engine.WithExportFormat(a.cfg.Export.Format),
	)
	if err != nil {
		return err
	}

	dst, err := write(art, outDir)
	if err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{"file": path, "out": dst}).Info("rendered")
	return nil
}

// debouncer delivers a path on out once it has not been touched for delay.
// After stop, pending paths are dropped and no delivery blocks.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	out     chan<- string
	timers  map[string]*time.Timer
	done    chan struct{}
	stopped bool
	fires   sync.WaitGroup
}

func newDebouncer(delay time.Duration, out chan<- string) *debouncer {
	return &debouncer{
		delay:  delay,
		out:    out,
		timers: make(map[string]*time.Timer),
		done:   make(chan struct{}),
	}
}

func (d *debouncer) touch(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.timers[path]; ok && t.Stop() {
		d.fires.Done()
	}

	var t *time.Timer
	d.fires.Add(1)
	t = time.AfterFunc(d.delay, func() {
		defer d.fires.Done()

		d.mu.Lock()
		if d.timers[path] == t {
			delete(d.timers, path)
		}
		d.mu.Unlock()

		select {
		case d.out <- path:
		case <-d.done:
		}
	})
	d.timers[path] = t
}

// stop cancels pending paths and waits for deliveries already under way
// to finish or give up.
func (d *debouncer) stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.done)
		for path, t := range d.timers {
			if t.Stop() {
				d.fires.Done()
			}
			delete(d.timers, path)
		}
	}
	d.mu.Unlock()

	d.fires.Wait()
}

func sameDir(a, b string) (bool, error) {
	sa, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	sb, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(sa, sb), nil
}
