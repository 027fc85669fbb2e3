// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package manpage builds man pages and tldr pages for the CLI commands from
// the command definitions themselves.
package manpage

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"
	md2man "github.com/cpuguy83/go-md2man/v2/md2man"
	"github.com/urfave/cli/v3"

	"github.com/staranto/docgen/internal/fsutil"
)

// ExamplesKey is the cli.Command Metadata key holding [][2]string pairs of
// command line and description.
const ExamplesKey = "examples"

// Page is the documentation of one command.
type Page struct {
	Name     string
	Markdown []byte
	TLDR     []byte
}

// Roff converts the page markdown to a man page.
func (p Page) Roff() []byte {
	return md2man.Render(p.Markdown)
}

// Pages documents every visible subcommand of app.
func Pages(app *cli.Command) []Page {
	var pages []Page
	for _, cmd := range app.Commands {
		if cmd.Hidden {
			continue
		}
		pages = append(pages, Page{
			Name:     cmd.Name,
			Markdown: markdown(app.Name, cmd),
			TLDR:     tldr(app.Name, cmd),
		})
	}
	return pages
}

// Examples returns the sample invocations stored on cmd.
func Examples(cmd *cli.Command) [][2]string {
	if cmd.Metadata == nil {
		return nil
	}
	exs, _ := cmd.Metadata[ExamplesKey].([][2]string)
	return exs
}

func markdown(app string, cmd *cli.Command) []byte {
	var b strings.Builder
	name := app + "-" + cmd.Name

	fmt.Fprintf(&b, "%s 1 \"\" \"%s\" \"%s Manual\"\n", strings.ToUpper(name), app, app)
	b.WriteString("=======\n\n")

	b.WriteString("# NAME\n\n")
	fmt.Fprintf(&b, "%s - %s\n\n", name, cmd.Usage)

	b.WriteString("# SYNOPSIS\n\n")
	if cmd.UsageText != "" {
		fmt.Fprintf(&b, "`%s`\n\n", cmd.UsageText)
	} else {
		fmt.Fprintf(&b, "`%s %s [options]`\n\n", app, cmd.Name)
	}

	if cmd.Description != "" {
		b.WriteString("# DESCRIPTION\n\n")
		b.WriteString(strings.TrimSpace(cmd.Description) + "\n\n")
	}

	if flags := visibleFlags(cmd); len(flags) > 0 {
		b.WriteString("# OPTIONS\n\n")
		for _, f := range flags {
			b.WriteString(flagEntry(f))
		}
	}

	if exs := Examples(cmd); len(exs) > 0 {
		b.WriteString("# EXAMPLES\n\n")
		for _, ex := range exs {
			fmt.Fprintf(&b, "%s:\n\n    %s\n\n", ex[1], ex[0])
		}
	}

	b.WriteString("# SEE ALSO\n\n")
	fmt.Fprintf(&b, "%s(1)\n", app)
	return []byte(b.String())
}

func visibleFlags(cmd *cli.Command) []cli.Flag {
	var flags []cli.Flag
	for _, f := range cmd.Flags {
		if v, ok := f.(interface{ IsVisible() bool }); ok && !v.IsVisible() {
			continue
		}
		flags = append(flags, f)
	}
	sort.SliceStable(flags, func(i, j int) bool {
		return flags[i].Names()[0] < flags[j].Names()[0]
	})
	return flags
}

func flagEntry(f cli.Flag) string {
	var names []string
	for _, n := range f.Names() {
		if len(n) == 1 {
			names = append(names, "-"+n)
		} else {
			names = append(names, "--"+n)
		}
	}
	head := strings.Join(names, ", ")
	if v, ok := f.(interface{ TakesValue() bool }); ok && v.TakesValue() {
		head += "=VALUE"
	}

	usage := ""
	if u, ok := f.(interface{ GetUsage() string }); ok {
		usage = u.GetUsage()
	}
	if e, ok := f.(interface{ GetEnvVars() []string }); ok && len(e.GetEnvVars()) > 0 {
		usage += fmt.Sprintf(" (env: %s)", strings.Join(e.GetEnvVars(), ", "))
	}
	return fmt.Sprintf("**%s**\n  %s\n\n", head, strings.TrimSpace(usage))
}

func tldr(app string, cmd *cli.Command) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s %s\n\n", app, cmd.Name)
	fmt.Fprintf(&b, "> %s.\n\n", strings.TrimSuffix(cmd.Usage, "."))

	exs := Examples(cmd)
	if len(exs) == 0 {
		exs = [][2]string{{app + " " + cmd.Name + " --help", "Show help for the command"}}
	}
	for i, ex := range exs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s:\n\n`%s`\n", strings.TrimSpace(ex[1]), strings.Join(strings.Fields(ex[0]), " "))
	}
	return []byte(b.String())
}

// Write stores <app>-<cmd>.1 man pages in dir and, when tldrDir is set,
// tldr pages there. Unchanged files are left alone. It returns the number
// of files written.
func Write(app string, pages []Page, dir, tldrDir string) (int, error) {
	written := 0
	for _, p := range pages {
		name := app + "-" + p.Name

		changed, err := fsutil.WriteFileIfChanged(filepath.Join(dir, name+".1"), p.Roff())
		if err != nil {
			return written, fmt.Errorf("writing man page for %s: %w", p.Name, err)
		}
		if changed {
			written++
		}

		if tldrDir == "" {
			continue
		}
		changed, err = fsutil.WriteFileIfChanged(filepath.Join(tldrDir, name+".md"), p.TLDR)
		if err != nil {
			return written, fmt.Errorf("writing tldr page for %s: %w", p.Name, err)
		}
		if changed {
			written++
		}
	}
	log.Debugf("manpage: %d of %d pages written", written, len(pages))
	return written, nil
}
