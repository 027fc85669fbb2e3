// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/meta"
)

// ExamplesCommandAction lists the examples of the repository. Snippets are
// not scanned.
func ExamplesCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*exampleRow]{
		CommandName:  "examples",
		SchemaType:   reflect.TypeOf(exampleRow{}),
		DefaultAttrs: []string{".id", "category", "title"},
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]*exampleRow, error) {
			d, err := LoadRepo(ctx, cmd, true)
			if err != nil {
				return nil, err
			}
			return exampleRows(d), nil
		},
	}
	return runner.Run(ctx, cmd)
}

// ExamplesCommandBuilder constructs the cli.Command for "examples".
func ExamplesCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "examples",
		Usage:     "example query",
		UsageText: `docgen examples [options]`,
		Examples: [][2]string{
			{"docgen examples --filter services@s3", "list the examples that use Amazon S3"},
			{"docgen examples --attrs sdks --filter category=Actions --sort -id", "list actions with their SDK versions, newest id first"},
			{"docgen examples --output json --filter languages!=Go", "examples without a Go version, as JSON"},
		},
		Action: ExamplesCommandAction,
		Meta:   meta,
	}).Build()
}

// ServicesCommandAction lists the services of services.yaml with the number
// of examples that use each.
func ServicesCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*serviceRow]{
		CommandName:  "services",
		SchemaType:   reflect.TypeOf(serviceRow{}),
		DefaultAttrs: []string{".id", "short", "examples"},
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]*serviceRow, error) {
			d, err := LoadRepo(ctx, cmd, true)
			if err != nil {
				return nil, err
			}
			return serviceRows(d), nil
		},
	}
	return runner.Run(ctx, cmd)
}

// ServicesCommandBuilder constructs the cli.Command for "services".
func ServicesCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "services",
		Usage:     "service query",
		UsageText: `docgen services [options]`,
		Examples: [][2]string{
			{"docgen services --filter examples=0", "services no example uses yet"},
			{"docgen services --attrs long,guide --titles", "long names and guide links"},
		},
		Action: ServicesCommandAction,
		Meta:   meta,
	}).Build()
}

// SdksCommandAction lists the SDKs of sdks.yaml.
func SdksCommandAction(ctx context.Context, cmd *cli.Command) error {
	runner := &QueryActionRunner[*sdkRow]{
		CommandName:  "sdks",
		SchemaType:   reflect.TypeOf(sdkRow{}),
		DefaultAttrs: []string{".id", "versions", "short"},
		FetchFn: func(ctx context.Context, cmd *cli.Command) ([]*sdkRow, error) {
			d, err := LoadRepo(ctx, cmd, true)
			if err != nil {
				return nil, err
			}
			return sdkRows(d), nil
		},
	}
	return runner.Run(ctx, cmd)
}

// SdksCommandBuilder constructs the cli.Command for "sdks".
func SdksCommandBuilder(cmd *cli.Command, meta meta.Meta) *cli.Command {
	return (&QueryCommandBuilder{
		Name:      "sdks",
		Usage:     "SDK query",
		UsageText: `docgen sdks [options]`,
		Examples: [][2]string{
			{"docgen sdks --attrs property,services", "SDKs with their folder and service count"},
		},
		Action: SdksCommandAction,
		Meta:   meta,
	}).Build()
}
