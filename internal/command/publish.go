// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/apex/log"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/aws"
	"github.com/staranto/docgen/internal/config"
	"github.com/staranto/docgen/internal/manpage"
	"github.com/staranto/docgen/internal/meta"
	"github.com/staranto/docgen/internal/publish"
	"github.com/staranto/docgen/internal/readme"
)

// newS3 builds the upload client. Tests replace it.
var newS3 = func(ctx context.Context, cmd *cli.Command) (publish.PutObjectAPI, error) {
	opts := []aws.Option{
		aws.WithProfile(cmd.String("profile")),
		aws.WithRegion(cmd.String("region")),
		aws.WithEndpoint(cmd.String("endpoint")),
	}
	cfg, err := aws.LoadAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return aws.NewS3(cfg, opts...), nil
}

// PublishCommandAction renders every README in memory and uploads them with
// the snapshot to S3.
func PublishCommandAction(ctx context.Context, cmd *cli.Command) error {
	if ShortCircuitTLDR(ctx, cmd, "publish") {
		return nil
	}

	bucket := cmd.String("bucket")
	if bucket == "" {
		return errors.New("--bucket is required")
	}

	d, err := LoadRepo(ctx, cmd, false)
	if err != nil {
		return err
	}
	if n := d.Problems.Len(); n > 0 && !cmd.Bool("force") {
		return fmt.Errorf("repository has %d problems; run docgen validate or use --force", n)
	}

	r, err := readme.New(d)
	if err != nil {
		return err
	}
	results, ps, err := r.Run(ctx, readme.Options{Mode: readme.ModeDryRun, Jobs: cmd.Int("jobs")})
	if err != nil {
		return err
	}
	if err := ps.Err(); err != nil && !cmd.Bool("force") {
		return err
	}

	snapshot, err := d.MarshalSnapshot()
	if err != nil {
		return err
	}
	objs := publish.Objects(cmd.String("prefix"), results, snapshot)

	opts := publish.Options{
		Bucket: bucket,
		DryRun: cmd.Bool("dry-run"),
		Jobs:   cmd.Int("jobs"),
	}

	var client publish.PutObjectAPI
	if !opts.DryRun {
		if client, err = newS3(ctx, cmd); err != nil {
			return err
		}
	}

	stats, err := publish.Upload(ctx, client, objs, opts)
	if err != nil {
		return err
	}

	verb := "uploaded"
	if opts.DryRun {
		verb = "would upload"
	}
	log.Debugf("publish: %s %s", verb, stats)
	fmt.Fprintf(stdout(cmd), "%s %s to s3://%s/%s\n", verb, stats, bucket, cmd.String("prefix"))
	return nil
}

// PublishCommandBuilder constructs the cli.Command for "publish".
func PublishCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	src := meta.Config.Source
	return &cli.Command{
		Name:      "publish",
		Usage:     "upload READMEs and the snapshot to S3",
		UsageText: `docgen publish --bucket BUCKET [options]`,
		Metadata: map[string]any{
			"meta": meta,
			manpage.ExamplesKey: [][2]string{
				{"docgen publish --bucket docs-preview --prefix pr-123", "upload a preview of the READMEs"},
				{"docgen publish --bucket docs-preview --dry-run", "list what would be uploaded"},
			},
		},
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "bucket",
				Aliases: []string{"b"},
				Usage:   "destination bucket",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("DOCGEN_BUCKET"),
					yaml.YAML("publish.bucket", altsrc.StringSourcer(src)),
				),
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "key prefix inside the bucket",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("publish.prefix", altsrc.StringSourcer(src)),
				),
			},
			&cli.StringFlag{
				Name:  "profile",
				Usage: "AWS shared config profile",
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("AWS_PROFILE"),
					yaml.YAML("publish.profile", altsrc.StringSourcer(src)),
				),
			},
			&cli.StringFlag{
				Name:  "region",
				Usage: "AWS region",
				Sources: cli.NewValueSourceChain(
					yaml.YAML("publish.region", altsrc.StringSourcer(src)),
				),
			},
			&cli.StringFlag{
				Name:   "endpoint",
				Usage:  "S3 endpoint URL, for S3 compatible stores",
				Hidden: true,
				Sources: cli.NewValueSourceChain(
					cli.EnvVar("DOCGEN_S3_ENDPOINT"),
					yaml.YAML("publish.endpoint", altsrc.StringSourcer(src)),
				),
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "log the uploads without making them",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "publish even if the repository has problems",
			},
			newTldrFlag(),
		}, NewRepoFlags("publish", src, meta.StartingDir)...),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			config.SetNamespace("publish")
			return ctx, nil
		},
		Action: PublishCommandAction,
	}
}
