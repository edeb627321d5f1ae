// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/ik5/audfx/fx"
)

func runPresets(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("audfx presets", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	return printPresets(os.Stdout)
}

func printPresets(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, r := range fx.Catalog() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Name, r.Description)
	}
	return tw.Flush()
}
