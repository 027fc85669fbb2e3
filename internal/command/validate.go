// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/config"
	"github.com/staranto/docgen/internal/docgen"
	"github.com/staranto/docgen/internal/meta"
	"github.com/staranto/docgen/internal/validation"
)

// ValidateCommandAction loads the repository with snippets, runs the
// repository file checks and prints every problem. Any problem fails the
// command.
func ValidateCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "validate") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(problemRow{})) {
		return nil
	}

	al, err := BuildAttrs(cmd, "kind", "location", "example", "detail")
	if err != nil {
		return err
	}

	d, err := LoadRepo(ctx, cmd, false)
	if err != nil {
		return err
	}

	if !cmd.Bool("no-file-checks") {
		deny, _ := config.GetStringSlice("deny_list")
		allow, _ := config.GetStringSlice("allow_list")
		rules, err := validation.LoadRules(filepath.Join(d.Root, filepath.FromSlash(docgen.ValidationFile)), deny, allow)
		if err != nil {
			return err
		}

		ps, err := validation.Check(ctx, d.Root, d.Files, rules, cmd.Int("jobs"))
		if err != nil {
			return err
		}
		d.Problems.Extend(ps)
	}

	problems := d.Problems.Sorted()
	stats := d.Stats()
	log.Debugf("validate: %d problems in %+v", len(problems), stats)

	if len(problems) == 0 {
		if cmd.String("output") == "text" {
			fmt.Fprintf(stdout(cmd), "No problems in %s examples, %s snippets and %s files.\n",
				humanize.Comma(int64(stats.Examples)),
				humanize.Comma(int64(stats.Snippets)),
				humanize.Comma(int64(stats.Files)))
		}
		return nil
	}

	rows := problemRows(problems)
	if err := EmitJSONAPISlice(rows, al, cmd); err != nil {
		return err
	}

	found := humanize.Comma(int64(len(problems))) + " problems found"
	if cmd.String("filter") != "" && cmd.String("output") != "raw" {
		shown, err := FilteredLen(rows, al, cmd)
		if err != nil {
			return err
		}
		if shown < len(rows) {
			// The filter never hides problems from the exit status.
			return fmt.Errorf("%s, %s shown after --filter", found, humanize.Comma(int64(shown)))
		}
	}
	return errors.New(found)
}

// ValidateCommandBuilder constructs the cli.Command for "validate".
func ValidateCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "validate",
		Usage:     "check metadata, snippets and repository files",
		UsageText: `docgen validate [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "no-file-checks",
				Usage: "skip the deny list and secret checks",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("validate.no-file-checks", altsrc.StringSourcer(meta.Config.Source)),
				),
			},
		},
		Examples: [][2]string{
			{"docgen validate", "check the repository in the current directory"},
			{"docgen validate --root ~/aws-doc-sdk-examples --jobs 8", "check another checkout with 8 workers"},
			{"docgen validate --filter kind^unknown --output json", "only unknown tag and entity problems, as JSON"},
		},
		Action: ValidateCommandAction,
		Meta:   meta,
	}).Build()
}
