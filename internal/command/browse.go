// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/staranto/docgen/internal/browse"
	"github.com/staranto/docgen/internal/config"
	"github.com/staranto/docgen/internal/manpage"
	"github.com/staranto/docgen/internal/meta"
)

// BrowseCommandAction opens the interactive example browser.
func BrowseCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "browse") {
		return nil
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("browse needs a terminal; use docgen examples instead")
	}

	d, err := LoadRepo(ctx, cmd, cmd.Bool("no-snippets"))
	if err != nil {
		return err
	}
	return browse.Run(ctx, d)
}

// BrowseCommandBuilder constructs the cli.Command for "browse".
func BrowseCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "browse",
		Usage:     "browse examples interactively",
		UsageText: `docgen browse [options]`,
		Metadata: map[string]any{
			"meta": meta,
			manpage.ExamplesKey: [][2]string{
				{"docgen browse", "browse the examples of the current directory"},
				{"docgen browse --no-snippets", "start faster, without snippet code"},
			},
		},
		Flags: append([]cli.Flag{
			&cli.BoolFlag{
				Name:  "no-snippets",
				Usage: "skip the source scan",
			},
			newTldrFlag(),
		}, NewRepoFlags("browse", meta.Config.Source, meta.StartingDir)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			config.SetNamespace("browse")
			return ctx, nil
		},
		Action: BrowseCommandAction,
	}
}
