// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/docgen"
	"github.com/staranto/docgen/internal/meta"
	"github.com/staranto/docgen/internal/snippets"
)

// SnippetsCommandAction writes every tagged snippet and every snippet file
// to the snippet folder, or lists them with --list.
func SnippetsCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "snippets") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(snippets.Snippet{})) {
		return nil
	}

	d, err := LoadRepo(ctx, cmd, false)
	if err != nil {
		return err
	}

	all := make(map[string]snippets.Snippet, len(d.Snippets)+len(d.SnippetFiles))
	for tag, s := range d.SnippetFiles {
		all[tag] = s
	}
	for tag, s := range d.Snippets {
		all[tag] = s
	}

	if cmd.Bool("list") {
		al, err := BuildAttrs(cmd, ".id", "file", "line-start")
		if err != nil {
			return err
		}
		return EmitJSONAPISlice(snippetRows(all), al, cmd)
	}

	dir := cmd.String("out")
	if dir == "" {
		dir = filepath.Join(d.Root, filepath.FromSlash(docgen.SnippetsDir))
	}

	stats, err := snippets.Write(dir, all)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout(cmd), "%s written, %s unchanged, %s removed in %s\n",
		humanize.Comma(int64(stats.Written)),
		humanize.Comma(int64(stats.Unchanged)),
		humanize.Comma(int64(stats.Removed)),
		dir)
	return nil
}

func snippetRows(all map[string]snippets.Snippet) []*snippets.Snippet {
	tags := make([]string, 0, len(all))
	for tag := range all {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	rows := make([]*snippets.Snippet, 0, len(tags))
	for _, tag := range tags {
		s := all[tag]
		s.ID = tag
		rows = append(rows, &s)
	}
	return rows
}

// SnippetsCommandBuilder constructs the cli.Command for "snippets".
func SnippetsCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "snippets",
		Usage:     "extract snippets",
		UsageText: `docgen snippets [options]`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:      "out",
				Usage:     "snippet folder",
				TakesFile: true,
				Validator: func(value string) error {
					return FlagValidators(value, JammedFlagValidator)
				},
				DefaultText: "<root>/" + docgen.SnippetsDir,
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "list the snippets instead of writing them",
			},
		},
		Examples: [][2]string{
			{"docgen snippets", "refresh the .snippets folder"},
			{"docgen snippets --list --filter file^gov2/", "list the Go v2 snippets"},
			{"docgen snippets --list --attrs line-end,code::40 --output yaml", "snippets with the start of their code"},
		},
		Action: SnippetsCommandAction,
		Meta:   meta,
	}).Build()
}
