// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"os"
	"sort"
	"strings"

	"github.com/apex/log"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/config"
	"github.com/staranto/docgen/internal/meta"
)

// InitApp builds the docgen command tree for args.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	sd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	// args[1] is the subcommand and also the config namespace. It could be
	// -h/--help, so ignore it if it looks like a flag.
	var ns string
	if len(args) > 1 && !strings.HasPrefix(args[1], "-") {
		ns = args[1]
	}
	config.SetNamespace(ns)

	cfg, err := config.Load()
	if err != nil {
		log.Debugf("no config: %v", err)
	}
	meta := meta.Meta{
		Args:        args,
		Config:      cfg,
		Context:     ctx,
		StartingDir: sd,
	}

	app := &cli.Command{
		Name:  "docgen",
		Usage: "Code example documentation generator",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "docgen version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		ValidateCommandBuilder(app, meta),
		RenderCommandBuilder(app, meta),
		SnippetsCommandBuilder(app, meta),
		ExamplesCommandBuilder(app, meta),
		ServicesCommandBuilder(app, meta),
		SdksCommandBuilder(app, meta),
		SnapshotCommandBuilder(app, meta),
		DiffCommandBuilder(app, meta),
		PublishCommandBuilder(app, meta),
		BrowseCommandBuilder(app, meta),
		ManCommandBuilder(app, meta),
		CompletionCommandBuilder(app, meta),
	)

	// Make sure flags are sorted for the --help text.
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}

	return app, nil
}
