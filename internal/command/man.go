// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/manpage"
	"github.com/staranto/docgen/internal/meta"
	"github.com/staranto/docgen/internal/output"
)

// ManCommandAction writes a man page, and optionally a tldr page, for every
// command. With --examples it prints the sample invocations instead.
func ManCommandAction(ctx context.Context, cmd *cli.Command) error {
	app := cmd.Root()

	if cmd.Bool("examples") {
		for _, c := range app.Commands {
			if exs := manpage.Examples(c); len(exs) > 0 {
				output.DumpExamples(stdout(cmd), exs)
			}
		}
		return nil
	}

	dir := cmd.String("out")
	tldrDir := cmd.String("tldr-dir")
	for _, d := range []string{dir, tldrDir} {
		if d == "" {
			continue
		}
		if err := os.MkdirAll(d, 0o755); err != nil { //nolint:mnd
			return fmt.Errorf("failed to create %s: %w", d, err)
		}
	}

	pages := manpage.Pages(app)
	n, err := manpage.Write(app.Name, pages, dir, tldrDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout(cmd), "%d of %d pages written to %s\n", n, len(pages), dir)
	return nil
}

// ManCommandBuilder constructs the hidden cli.Command for "man". It is a
// build tool, not a user command.
func ManCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "man",
		Usage:     "write man pages",
		UsageText: `docgen man [--out DIR] [--tldr-dir DIR]`,
		Hidden:    true,
		Metadata: map[string]any{
			"meta": meta,
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      "out",
				Usage:     "man page folder",
				TakesFile: true,
				Value:     "man",
			},
			&cli.StringFlag{
				Name:      "tldr-dir",
				Usage:     "tldr page folder",
				TakesFile: true,
			},
			&cli.BoolFlag{
				Name:  "examples",
				Usage: "print the sample invocations of every command",
			},
		},
		Action: ManCommandAction,
	}
}
