// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package manpage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func testApp() *cli.Command {
	return &cli.Command{
		Name: "docgen",
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "render READMEs",
				UsageText: "docgen render [options]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "check", Usage: "report stale READMEs"},
					&cli.StringFlag{Name: "root", Usage: "repository root", Sources: cli.EnvVars("DOCGEN_ROOT")},
					&cli.StringFlag{Name: "secret", Hidden: true},
				},
				Metadata: map[string]any{
					ExamplesKey: [][2]string{{"docgen render --check", "Fail when a README is stale"}},
				},
			},
			{Name: "snapshot", Usage: "write the snapshot"},
			{Name: "internal", Hidden: true},
		},
	}
}

func TestPages(t *testing.T) {
	pages := Pages(testApp())
	require.Len(t, pages, 2)
	assert.Equal(t, "render", pages[0].Name)
	assert.Equal(t, "snapshot", pages[1].Name)

	md := string(pages[0].Markdown)
	assert.Contains(t, md, "docgen-render - render READMEs")
	assert.Contains(t, md, "`docgen render [options]`")
	assert.Contains(t, md, "**--check**\n  report stale READMEs")
	assert.Contains(t, md, "**--root=VALUE**\n  repository root (env: DOCGEN_ROOT)")
	assert.NotContains(t, md, "secret")
	assert.Contains(t, md, "Fail when a README is stale:\n\n    docgen render --check")

	assert.Contains(t, string(pages[1].Markdown), "`docgen snapshot [options]`")
	assert.NotContains(t, string(pages[1].Markdown), "# OPTIONS")

	roff := string(pages[0].Roff())
	assert.Contains(t, roff, ".SH NAME")
	assert.Contains(t, roff, "docgen-render")
}

func TestTLDR(t *testing.T) {
	pages := Pages(testApp())
	assert.Equal(t, "# docgen render\n\n> render READMEs.\n\n- Fail when a README is stale:\n\n`docgen render --check`\n", string(pages[0].TLDR))
	assert.Contains(t, string(pages[1].TLDR), "`docgen snapshot --help`")
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	man := filepath.Join(dir, "man1")
	tl := filepath.Join(dir, "tldr")
	pages := Pages(testApp())

	n, err := Write("docgen", pages, man, tl)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.FileExists(t, filepath.Join(man, "docgen-render.1"))
	assert.FileExists(t, filepath.Join(tl, "docgen-snapshot.md"))

	n, err = Write("docgen", pages, man, tl)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, os.WriteFile(filepath.Join(man, "docgen-render.1"), []byte("old"), 0o644))
	n, err = Write("docgen", pages, man, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
