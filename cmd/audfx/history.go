// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ik5/audfx/history"
	"github.com/ik5/audfx/internal/config"
)

func runHistory(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("audfx history", flag.ContinueOnError)
	wipe := fs.Bool("clear", false, "delete every history entry")

	cfg, err := config.Parse(fs, args)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	if *wipe {
		return a.history.Clear()
	}

	printHistory(os.Stdout, a.history.Items())
	return nil
}

func printHistory(w io.Writer, items []history.Item) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no exports yet")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tPRESET\tFORMAT\tAUDIO\tNAME")
	for i, it := range items {
		audio := "-"
		if _, data, err := history.ParseDataURL(it.Payload); err == nil {
			audio = fmt.Sprintf("%d KiB", (len(data)+1023)/1024)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1,
			it.Date.Local().Format(time.DateTime), it.Preset, it.Format, audio, it.Name)
	}
	_ = tw.Flush()
}
