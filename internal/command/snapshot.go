// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/config"
	"github.com/staranto/docgen/internal/differ"
	"github.com/staranto/docgen/internal/fsutil"
	"github.com/staranto/docgen/internal/manpage"
	"github.com/staranto/docgen/internal/meta"
	"github.com/staranto/docgen/internal/output"
)

// ErrSnapshotsDiffer is returned by diff --exit-code when the snapshots
// differ.
var ErrSnapshotsDiffer = errors.New("snapshots differ")

// SnapshotCommandAction writes the JSON snapshot of the repository to --out
// or stdout.
func SnapshotCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "snapshot") {
		return nil
	}

	d, err := LoadRepo(ctx, cmd, false)
	if err != nil {
		return err
	}

	b, err := d.MarshalSnapshot()
	if err != nil {
		return err
	}

	out := cmd.String("out")
	if out == "" || out == "-" {
		_, err = stdout(cmd).Write(b)
		return err
	}

	changed, err := fsutil.WriteFileIfChanged(out, b)
	if err != nil {
		return err
	}
	log.Debugf("snapshot %s changed=%v", out, changed)
	return nil
}

// SnapshotCommandBuilder constructs the cli.Command for "snapshot".
func SnapshotCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "snapshot",
		Usage:     "write the repository snapshot",
		UsageText: `docgen snapshot [options]`,
		Metadata: map[string]any{
			"meta": meta,
			manpage.ExamplesKey: [][2]string{
				{"docgen snapshot --out docgen.json", "save the snapshot of the current directory"},
				{"docgen snapshot | jq '.stats'", "count what the repository holds"},
			},
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:      "out",
				Usage:     "snapshot file, - for stdout",
				TakesFile: true,
				Value:     "-",
			},
			newTldrFlag(),
		}, NewRepoFlags("snapshot", meta.Config.Source, meta.StartingDir)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			config.SetNamespace("snapshot")
			return ctx, nil
		},
		Action: SnapshotCommandAction,
	}
}

// DiffCommandAction compares two snapshot files, or one snapshot file with
// the repository at --root.
func DiffCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "diff") {
		return nil
	}

	args := cmd.Args().Slice()
	if len(args) < 1 || len(args) > 2 {
		return errors.New("diff needs one or two snapshot files")
	}

	left, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var right []byte
	if len(args) == 2 {
		if right, err = os.ReadFile(args[1]); err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
	} else {
		d, err := LoadRepo(ctx, cmd, false)
		if err != nil {
			return err
		}
		if right, err = d.MarshalSnapshot(); err != nil {
			return err
		}
	}

	ignore := differ.DefaultIgnore
	if extra, err := config.GetStringSlice("diff.ignore"); err == nil {
		ignore = append(append([]string{}, ignore...), extra...)
	}

	res, err := differ.Diff(left, right, differ.Options{
		Format: cmd.String("format"),
		Ignore: ignore,
		Color:  output.ColorEnabled(cmd),
	})
	if err != nil {
		return err
	}

	if _, err := fmt.Fprint(stdout(cmd), res.Text); err != nil {
		return err
	}
	if res.Modified && cmd.Bool("exit-code") {
		return ErrSnapshotsDiffer
	}
	return nil
}

// DiffCommandBuilder constructs the cli.Command for "diff".
func DiffCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "diff",
		Usage:     "compare snapshots",
		UsageText: `docgen diff OLD [NEW] [options]`,
		Metadata: map[string]any{
			"meta": meta,
			manpage.ExamplesKey: [][2]string{
				{"docgen diff main.json", "what changed since the main branch snapshot"},
				{"docgen diff old.json new.json --format ascii", "full delta between two snapshots"},
				{"docgen diff main.json --exit-code", "fail when anything changed"},
			},
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "summary, ascii or delta",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("diff.format", altsrc.StringSourcer(meta.Config.Source)),
				),
				Value: "summary",
				Validator: func(value string) error {
					return FlagValidators(value, OneOfValidator(differ.Formats...))
				},
			},
			&cli.BoolFlag{
				Name:  "exit-code",
				Usage: "fail when the snapshots differ",
			},
			&cli.BoolWithInverseFlag{
				Name:    "color",
				Aliases: []string{"c"},
				Usage:   "enable colored ascii output",
			},
			newTldrFlag(),
		}, NewRepoFlags("diff", meta.Config.Source, meta.StartingDir)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			config.SetNamespace("diff")
			return ctx, nil
		},
		Action: DiffCommandAction,
	}
}
