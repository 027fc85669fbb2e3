// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"reflect"

	"github.com/apex/log"
	"github.com/hashicorp/jsonapi"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/attrs"
	"github.com/staranto/docgen/internal/config"
	"github.com/staranto/docgen/internal/docgen"
	"github.com/staranto/docgen/internal/filters"
	"github.com/staranto/docgen/internal/manpage"
	"github.com/staranto/docgen/internal/meta"
	"github.com/staranto/docgen/internal/output"
	"github.com/staranto/docgen/internal/snippets"
	"github.com/staranto/docgen/internal/walker"
)

// ShortCircuitTLDR handles --tldr. It runs `tldr docgen-<subcmd>` when the
// tldr client is installed and prints the built in page otherwise. It returns
// true so the caller can exit early.
func ShortCircuitTLDR(ctx context.Context, cmd *cli.Command, subcmd string) bool {
	if !cmd.Bool("tldr") {
		return false
	}

	w := stdout(cmd)
	if pathHas("tldr") {
		c := exec.CommandContext(ctx, "tldr", cmd.Root().Name+"-"+subcmd)
		c.Stdout = w
		c.Stderr = cmd.Root().ErrWriter
		if err := c.Run(); err == nil {
			return true
		}
		log.Debugf("tldr has no page for %s, using the built in one", subcmd)
	}

	for _, p := range manpage.Pages(cmd.Root()) {
		if p.Name == subcmd {
			_, _ = w.Write(p.TLDR)
		}
	}
	return true
}

// DumpSchemaIfRequested prints the attributes of the row type t when
// --schema is set, and returns true if it handled the request.
func DumpSchemaIfRequested(cmd *cli.Command, t reflect.Type) bool {
	if cmd.Bool("schema") {
		output.DumpSchema(stdout(cmd), t)
		return true
	}
	return false
}

// BuildAttrs constructs an AttrList with defaults and optional extras from
// --attrs, then applies the global transform spec.
func BuildAttrs(cmd *cli.Command, defaults ...string) (attrs.AttrList, error) {
	var al attrs.AttrList
	for _, d := range defaults {
		if err := al.Set(d); err != nil {
			return nil, fmt.Errorf("default attrs %q: %w", d, err)
		}
	}
	if extras := cmd.String("attrs"); extras != "" {
		if err := al.Set(extras); err != nil {
			return nil, fmt.Errorf("--attrs: %w", err)
		}
	}
	al.SetGlobalTransformSpec()
	return al, nil
}

// EmitJSONAPISlice marshals a slice as JSONAPI and passes it to the common
// output routine.
func EmitJSONAPISlice(results any, al attrs.AttrList, cmd *cli.Command) error {
	var raw bytes.Buffer
	if err := jsonapi.MarshalPayload(&raw, results); err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return output.SliceDiceSpit(raw, al, cmd, "data", stdout(cmd))
}

// FilteredLen returns how many of results EmitJSONAPISlice would show after
// --filter.
func FilteredLen(results any, al attrs.AttrList, cmd *cli.Command) (int, error) {
	var raw bytes.Buffer
	if err := jsonapi.MarshalPayload(&raw, results); err != nil {
		return 0, fmt.Errorf("failed to marshal payload: %w", err)
	}
	fs, err := filters.BuildFilters(cmd.String("filter"))
	if err != nil {
		return 0, err
	}
	return len(filters.FilterDataset(gjson.Parse(raw.String()).Get("data"), al, fs)), nil
}

// GetMeta returns the meta.Meta stored in the command's Metadata. If missing
// or of an unexpected type, it returns the zero value.
func GetMeta(cmd *cli.Command) meta.Meta {
	if cmd == nil || cmd.Metadata == nil {
		return meta.Meta{}
	}
	if m, ok := cmd.Metadata["meta"].(meta.Meta); ok {
		return m
	}
	return meta.Meta{}
}

// stdout is where command output goes. Tests replace the root writer.
func stdout(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

// LoadOptions reads the repository flags and the tool config into
// docgen.Options.
func LoadOptions(cmd *cli.Command) docgen.Options {
	opts := docgen.Options{
		Snippets: snippets.Options{
			Jobs:    cmd.Int("jobs"),
			NoCache: cmd.Bool("no-cache"),
			Walk: walker.Options{
				NoGitignore: cmd.Bool("no-gitignore"),
			},
		},
	}

	if skip, err := config.GetStringSlice("skip"); err == nil {
		opts.Snippets.Walk.Skip = append(append([]string{}, walker.DefaultSkip...), skip...)
	}
	if exts, err := config.GetStringSlice("extensions"); err == nil {
		opts.Snippets.Walk.Extensions = exts
	}
	if ents, err := config.GetStringMap("entities"); err == nil {
		opts.Entities = ents
	}
	return opts
}

// LoadRepo loads the repository named by --root.
func LoadRepo(ctx context.Context, cmd *cli.Command, noSnippets bool) (*docgen.DocGen, error) {
	opts := LoadOptions(cmd)
	opts.NoSnippets = noSnippets

	root := cmd.String("root")
	log.Debugf("loading %s (snippets=%v)", root, !noSnippets)

	d, err := docgen.Load(ctx, root, opts)
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded %+v", d.Stats())
	return d, nil
}

// QueryCommandBuilder is a helper that constructs a cli.Command for the
// query subcommands using a consistent pattern. The builder wires metadata,
// adds the repository, tldr and schema flags, applies global flags, and sets
// up validators.
type QueryCommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	Flags     []cli.Flag
	Examples  [][2]string
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (qcb *QueryCommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{}, qcb.Flags...)
	flags = append(flags, NewRepoFlags(qcb.Name, qcb.Meta.Config.Source, qcb.Meta.StartingDir)...)
	flags = append(flags, newTldrFlag(), newSchemaFlag())
	flags = append(flags, NewGlobalFlags(qcb.Name, qcb.Meta.Config.Source)...)

	return &cli.Command{
		Name:      qcb.Name,
		Usage:     qcb.Usage,
		UsageText: qcb.UsageText,
		Metadata: map[string]any{
			"meta":               qcb.Meta,
			manpage.ExamplesKey: qcb.Examples,
		},
		Flags: flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			config.SetNamespace(qcb.Name)
			return ctx, GlobalFlagsValidator(ctx, c)
		},
		Action: qcb.Action,
	}
}

// QueryActionRunner[T] encapsulates the common query action pattern:
// short-circuit checks, attrs, fetching and output. FetchFn supplies the
// rows.
type QueryActionRunner[T any] struct {
	CommandName  string
	SchemaType   reflect.Type
	DefaultAttrs []string
	FetchFn      func(context.Context, *cli.Command) ([]T, error)
}

// Run executes the query action with the provided context and command.
func (qar *QueryActionRunner[T]) Run(
	ctx context.Context,
	cmd *cli.Command,
) error {
	m := GetMeta(cmd)
	if len(m.Args) > 1 {
		log.Debugf("Executing action for %v", m.Args[1:])
	}

	if ShortCircuitTLDR(ctx, cmd, qar.CommandName) {
		return nil
	}
	if DumpSchemaIfRequested(cmd, qar.SchemaType) {
		return nil
	}

	al, err := BuildAttrs(cmd, qar.DefaultAttrs...)
	if err != nil {
		return err
	}
	log.Debugf("attrs: %v", al)

	results, err := qar.FetchFn(ctx, cmd)
	if err != nil {
		return err
	}

	return EmitJSONAPISlice(results, al, cmd)
}
