// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/meta"
	"github.com/staranto/docgen/internal/readme"
)

// RenderCommandAction renders the READMEs selected by --language,
// --sdk-version and --service and reports one row per README. With --check
// nothing is written and stale READMEs fail the command.
func RenderCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "render") {
		return nil
	}
	if DumpSchemaIfRequested(cmd, reflect.TypeOf(readmeRow{})) {
		return nil
	}

	if cmd.Bool("check") && cmd.Bool("dry-run") {
		return errors.New("--check and --dry-run are mutually exclusive")
	}

	al, err := BuildAttrs(cmd, ".id", "status")
	if err != nil {
		return err
	}

	d, err := LoadRepo(ctx, cmd, false)
	if err != nil {
		return err
	}
	if n := d.Problems.Len(); n > 0 {
		log.Warnf("repository has %d problems; run docgen validate", n)
	}

	r, err := readme.New(d)
	if err != nil {
		return err
	}

	opts := readme.Options{
		Language:   cmd.String("language"),
		SDKVersion: cmd.Int("sdk-version"),
		Service:    cmd.String("service"),
		Jobs:       cmd.Int("jobs"),
	}
	switch {
	case cmd.Bool("check"):
		opts.Mode = readme.ModeCheck
	case cmd.Bool("dry-run"):
		opts.Mode = readme.ModeDryRun
	}

	results, ps, err := r.Run(ctx, opts)
	if err != nil {
		return err
	}

	if err := EmitJSONAPISlice(readmeRows(results), al, cmd); err != nil {
		return err
	}

	problems := ps.Sorted()
	for _, p := range problems {
		fmt.Fprintln(cmd.Root().ErrWriter, p.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("%s problems rendering %s READMEs",
			humanize.Comma(int64(len(problems))), humanize.Comma(int64(len(results))))
	}
	return nil
}

// RenderCommandBuilder constructs the cli.Command for "render".
func RenderCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "render",
		Usage:     "render service READMEs",
		UsageText: `docgen render [options]`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "check",
				Usage: "report READMEs that are out of date and write nothing",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "render in memory and list the READMEs",
			},
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "only render this language",
			},
			&cli.IntFlag{
				Name:  "sdk-version",
				Usage: "only render this SDK version",
				Validator: func(value int) error {
					return FlagValidators(value, NonNegativeValidator)
				},
			},
			&cli.StringFlag{
				Name:  "service",
				Usage: "only render this service",
			},
		},
		Examples: [][2]string{
			{"docgen render", "write every README that changed"},
			{"docgen render --check", "fail if a README is out of date"},
			{"docgen render --language Go --sdk-version 2 --service s3 --dry-run", "show the Go v2 Amazon S3 README target"},
			{"docgen render --filter status=written", "only list the READMEs that were rewritten"},
		},
		Action: RenderCommandAction,
		Meta:   meta,
	}).Build()
}
