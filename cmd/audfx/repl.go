// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/faiface/beep/speaker"

	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/fx"
	"github.com/ik5/audfx/internal/config"
)

var errQuit = errors.New("quit")

const replHelp = `commands:
  load PATH            load an audio file
  url URL              download and load a track
  play | stop          start or stop the preview
  preset [ID]          show or select the preset
  presets              list presets
  set NAME VALUE       set intensity, depth, speed or tone (0..1)
  export [FORMAT] [OUT] render and save the track
  history              list recent exports
  apply N              restore the effect of history entry N
  state                show the engine state
  quit`

func runREPL(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("audfx repl", flag.ContinueOnError)
	cfg, err := config.Parse(fs, args)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	var opts []engine.Option
	if out, err := openSpeaker(cfg, a.log); err != nil {
		a.log.WithError(err).Warn("preview disabled")
	} else {
		defer speaker.Clear()
		opts = append(opts, engine.WithLive(out))
	}

	e := a.engine(opts...)
	defer e.Close()

	if err := os.MkdirAll(cfg.History.Path, 0o755); err != nil {
		return err
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "audfx> ",
		HistoryFile:     filepath.Join(cfg.History.Path, "repl_history"),
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	s := &session{app: a, e: e, out: rl.Stdout()}
	fmt.Fprintln(s.out, `type "help" for commands`)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		err = s.exec(ctx, strings.Fields(line))
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(s.out, "error:", message(err))
		}
		rl.SetPrompt(fmt.Sprintf("audfx [%s %s]> ", e.State(), e.Preset()))
	}
}

func completer() *readline.PrefixCompleter {
	ids := make([]readline.PrefixCompleterInterface, 0, len(fx.Catalog()))
	for _, r := range fx.Catalog() {
		ids = append(ids, readline.PcItem(string(r.ID)))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("load"),
		readline.PcItem("url"),
		readline.PcItem("play"),
		readline.PcItem("stop"),
		readline.PcItem("preset", ids...),
		readline.PcItem("presets"),
		readline.PcItem("set",
			readline.PcItem("intensity"),
			readline.PcItem("depth"),
			readline.PcItem("speed"),
			readline.PcItem("tone"),
		),
		readline.PcItem("export", readline.PcItem("opus"), readline.PcItem("wav")),
		readline.PcItem("history"),
		readline.PcItem("apply"),
		readline.PcItem("state"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

type session struct {
	app *app
	e   *engine.Engine
	out io.Writer
}

func (s *session) exec(ctx context.Context, words []string) error {
	if len(words) == 0 {
		return nil
	}
	cmd, args := words[0], words[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprintln(s.out, replHelp)
	case "quit", "exit":
		return errQuit
	case "load":
		if len(args) != 1 {
			return errors.New("usage: load PATH")
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := s.e.LoadFile(ctx, filepath.Base(args[0]), data); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "loaded %s (%s)\n", s.e.TrackName(), s.e.Track().Length().Round(time.Millisecond))
	case "url":
		if len(args) != 1 {
			return errors.New("usage: url URL")
		}
		if err := s.e.LoadURL(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "loaded %s\n", s.e.TrackName())
	case "play":
		return s.e.Play(ctx)
	case "stop":
		s.e.Stop()
	case "preset":
		if len(args) == 0 {
			fmt.Fprintln(s.out, s.e.Preset())
			return nil
		}
		id, err := fx.ParsePreset(args[0])
		if err != nil {
			return err
		}
		return s.e.SetPreset(ctx, id)
	case "presets":
		return printPresets(s.out)
	case "set":
		return s.set(ctx, args)
	case "export":
		return s.export(ctx, args)
	case "history":
		printHistory(s.out, s.e.History())
	case "apply":
		return s.apply(ctx, args)
	case "state":
		fmt.Fprintf(s.out, "%s  track=%q  preset=%s  %s\n", s.e.State(), s.e.TrackName(), s.e.Preset(), s.e.Params())
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
	return nil
}

func (s *session) set(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: set NAME VALUE")
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("value %q: %w", args[1], err)
	}

	var u fx.Partial
	switch args[0] {
	case "intensity":
		u.Intensity = &v
	case "depth":
		u.Depth = &v
	case "speed":
		u.Speed = &v
	case "tone":
		u.Tone = &v
	default:
		return fmt.Errorf("unknown parameter %q", args[0])
	}

	p, err := s.e.UpdateParams(ctx, u)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, p)
	return nil
}

func (s *session) apply(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: apply N")
	}
	items := s.e.History()
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(items) {
		return fmt.Errorf("no history entry %q, %d recorded", args[0], len(items))
	}

	it := items[n-1]
	if err := s.e.ApplyHistory(ctx, it); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s %s\n", it.Preset, s.e.Params())
	return nil
}

func (s *session) export(ctx context.Context, args []string) error {
	var (
		art *engine.Artifact
		err error
		out string
	)
	switch len(args) {
	case 0:
		art, err = s.app.export(ctx, s.e)
	case 1, 2:
		art, err = s.e.ExportAs(ctx, args[0])
		if len(args) == 2 {
			out = args[1]
		}
	default:
		return errors.New("usage: export [FORMAT] [OUT]")
	}
	if err != nil {
		return err
	}

	path, err := write(art, out)
	if err != nil {
		return err
	}
	if _, err := s.e.AddToHistory(art); err != nil {
		s.app.log.WithError(err).Warn("history not saved")
	}
	fmt.Fprintf(s.out, "wrote %s (%d bytes)\n", path, len(art.Data))
	return nil
}
