// SPDX-License-Identifier: EPL-2.0

// Command audfx applies effect presets to audio files.
//
//	audfx presets
//	audfx render -in song.mp3 -preset lofi -intensity 0.8
//	audfx play -in https://example.com/song.ogg -preset nightcore
//	audfx repl
//	audfx watch -dir ~/Music/in -out ~/Music/out -preset vaporwave
//	audfx history
//
// Every subcommand accepts the shared settings (-config, -format,
// -history-dir, -log-level ...); run "audfx <command> -h" for the list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, args []string) error
}

var commands = []command{
	{"presets", "list the available presets", runPresets},
	{"render", "apply a preset to a file or URL and write the result", runRender},
	{"play", "preview a preset through the speaker", runPlay},
	{"repl", "interactive session", runREPL},
	{"watch", "render every audio file that appears in a folder", runWatch},
	{"history", "show or clear the export history", runHistory},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stderr))
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		usage(stderr)
		return 2
	}

	for _, c := range commands {
		if c.name != args[0] {
			continue
		}

		err := c.run(ctx, args[1:])
		switch {
		case err == nil, errors.Is(err, context.Canceled):
			return 0
		case errors.Is(err, flag.ErrHelp):
			return 2
		default:
			fmt.Fprintf(stderr, "audfx %s: %s\n", c.name, message(err))
			return 1
		}
	}

	fmt.Fprintf(stderr, "audfx: unknown command %q\n\n", args[0])
	usage(stderr)
	return 2
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: audfx <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.usage)
	}
}
