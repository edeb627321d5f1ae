// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audfx/internal/config"
)

func runRender(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("audfx render", flag.ContinueOnError)
	var (
		effect effectFlags
		in     = fs.String("in", "", "input file or http(s) URL")
		out    = fs.String("out", "", "output file or directory (default: derived from the input name)")
		record = fs.Bool("record", true, "add the export to the history")
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

	e := a.engine()
	defer e.Close()

	if err := effect.apply(ctx, e); err != nil {
		return err
	}
	if err := load(ctx, e, *in); err != nil {
		return err
	}

	art, err := a.export(ctx, e)
	if err != nil {
		return err
	}
	path, err := write(art, *out)
	if err != nil {
		return err
	}

	if *record {
		if _, err := e.AddToHistory(art); err != nil {
			a.log.WithError(err).Warn("history not saved")
		}
	}

	a.log.WithFields(logrus.Fields{
		"path":     path,
		"preset":   art.Preset,
		"duration": art.Duration,
	}).Info("written")
	fmt.Println(path)

	return nil
}
