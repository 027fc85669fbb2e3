// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/docgen/internal/config"
)

func setupConfig(t *testing.T) {
	t.Helper()

	cfg := filepath.Join(t.TempDir(), "docgen.yaml")
	body := `
examples:
  defaults:
    - -o json
  wide:
    - --attrs .id,title,services
    - --sort title
`
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o600))
	t.Setenv("DOCGEN_CFG", cfg)
	config.Config = config.Type{}
	t.Cleanup(func() { config.Config = config.Type{} })
}

func TestMangleArguments(t *testing.T) {
	setupConfig(t)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults inserted",
			args: []string{"docgen", "examples", "-s", "title"},
			want: []string{"docgen", "examples", "-o", "json", "-s", "title"},
		},
		{
			name: "named set",
			args: []string{"docgen", "examples", "@wide", "-o", "yaml"},
			want: []string{"docgen", "examples", "--attrs", ".id,title,services", "--sort", "title", "-o", "yaml"},
		},
		{
			name: "unknown set",
			args: []string{"docgen", "examples", "@nope"},
			want: []string{"docgen", "examples"},
		},
		{
			name: "no defaults for command",
			args: []string{"docgen", "services", "-o", "json"},
			want: []string{"docgen", "services", "-o", "json"},
		},
		{
			name: "help",
			args: []string{"docgen", "examples", "-o", "json", "--help"},
			want: []string{"docgen", "examples", "--help"},
		},
		{
			name: "flag first",
			args: []string{"docgen", "--version"},
			want: []string{"docgen", "--version"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mangleArguments(tt.args))
		})
	}
}
