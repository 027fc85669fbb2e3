// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package docgen

import (
	"encoding/json"
	"fmt"

	"github.com/staranto/docgen/internal/diag"
	"github.com/staranto/docgen/internal/metadata"
	"github.com/staranto/docgen/internal/snippets"
	"github.com/staranto/docgen/internal/version"
)

// Snapshot is the serialisable view of a DocGen. It holds no absolute paths
// so snapshots of two checkouts can be diffed.
type Snapshot struct {
	Version  string                      `json:"version"`
	Services map[string]metadata.Service `json:"services"`
	SDKs     map[string]metadata.SDK     `json:"sdks"`
	Examples map[string]metadata.Example `json:"examples"`
	Snippets map[string]snippets.Snippet `json:"snippets"`
	Files    map[string]snippets.Snippet `json:"snippet_files"`
	Problems []diag.Problem              `json:"problems"`
	Stats    Stats                       `json:"stats"`
}

// Stats counts the contents of a DocGen.
type Stats struct {
	Services int `json:"services"`
	SDKs     int `json:"sdks"`
	Examples int `json:"examples"`
	Snippets int `json:"snippets"`
	Files    int `json:"files"`
	Problems int `json:"problems"`
}

// Stats counts what was loaded.
func (d *DocGen) Stats() Stats {
	return Stats{
		Services: len(d.Services),
		SDKs:     len(d.SDKs),
		Examples: len(d.Examples),
		Snippets: len(d.Snippets),
		Files:    len(d.Files),
		Problems: d.Problems.Len(),
	}
}

// Snapshot returns the serialisable view of d.
func (d *DocGen) Snapshot() Snapshot {
	problems := d.Problems.Sorted()
	if problems == nil {
		problems = []diag.Problem{}
	}
	return Snapshot{
		Version:  version.Version,
		Services: d.Services,
		SDKs:     d.SDKs,
		Examples: d.Examples,
		Snippets: d.Snippets,
		Files:    d.SnippetFiles,
		Problems: problems,
		Stats:    d.Stats(),
	}
}

// MarshalSnapshot renders the snapshot as indented JSON.
func (d *DocGen) MarshalSnapshot() ([]byte, error) {
	b, err := json.MarshalIndent(d.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("docgen: snapshot: %w", err)
	}
	return append(b, '\n'), nil
}
