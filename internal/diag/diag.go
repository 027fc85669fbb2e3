// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package diag

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Kind classifies a Problem. The values are stable; they appear in JSON
// output and are matched by --filter.
type Kind string

const (
	KindYAMLParse              Kind = "yaml-parse"
	KindMissingField           Kind = "missing-field"
	KindUnknownField           Kind = "unknown-field"
	KindInvalidFormat          Kind = "invalid-format"
	KindUnknownService         Kind = "unknown-service"
	KindUnknownLanguage        Kind = "unknown-language"
	KindUnknownSDKVersion      Kind = "unknown-sdk-version"
	KindInvalidExampleID       Kind = "invalid-example-id"
	KindDuplicateExample       Kind = "duplicate-example"
	KindExampleMergeMismatch   Kind = "example-merge-mismatch"
	KindBlockContentConflict   Kind = "block-content-conflict"
	KindMissingBodyContent     Kind = "missing-block-content-and-excerpts"
	KindMissingBlockContent    Kind = "missing-block-content"
	KindMissingGitHubPath      Kind = "missing-github-path"
	KindUnknownSnippetTag      Kind = "unknown-snippet-tag"
	KindMissingSnippetFile     Kind = "missing-snippet-file"
	KindDuplicateSnippetStart  Kind = "duplicate-snippet-start"
	KindDuplicateSnippetTag    Kind = "duplicate-snippet-tag"
	KindSnippetNotClosed       Kind = "snippet-not-closed"
	KindMissingSnippetStart    Kind = "missing-snippet-start"
	KindInvalidSnippetTag      Kind = "invalid-snippet-tag"
	KindUnknownEntity          Kind = "unknown-entity"
	KindAWSNotEntity           Kind = "aws-not-entity"
	KindDeniedWord             Kind = "denied-word"
	KindPossibleSecret         Kind = "possible-secret"
	KindFileRead               Kind = "file-read"
	KindStaleReadme            Kind = "stale-readme"
)

// Problem is one metadata, snippet or repository fault. Only Kind is always
// set; the location fields are filled in as far as they are known.
type Problem struct {
	Kind       Kind   `json:"kind" yaml:"kind"`
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	Line       int    `json:"line,omitempty" yaml:"line,omitempty"`
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	Language   string `json:"language,omitempty" yaml:"language,omitempty"`
	SDKVersion int    `json:"sdk_version,omitempty" yaml:"sdk_version,omitempty"`
	Detail     string `json:"detail" yaml:"detail"`
}

// Location renders file:line, or just the file when the line is unknown.
func (p Problem) Location() string {
	switch {
	case p.File == "":
		return ""
	case p.Line > 0:
		return fmt.Sprintf("%s:%d", p.File, p.Line)
	default:
		return p.File
	}
}

func (p Problem) Error() string {
	var b strings.Builder
	if loc := p.Location(); loc != "" {
		b.WriteString(loc)
		b.WriteString(": ")
	}
	if p.ID != "" {
		b.WriteString(p.ID)
		if p.Language != "" {
			fmt.Fprintf(&b, " (%s", p.Language)
			if p.SDKVersion != 0 {
				fmt.Fprintf(&b, " v%d", p.SDKVersion)
			}
			b.WriteString(")")
		}
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%s: %s", p.Kind, p.Detail)
	return b.String()
}

// Problems accumulates faults instead of stopping at the first one. The zero
// value is ready to use and safe for concurrent Add calls.
type Problems struct {
	mu    sync.Mutex
	items []Problem
}

// Add appends a problem.
func (ps *Problems) Add(p Problem) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.items = append(ps.items, p)
}

// Addf is shorthand for a problem that only carries a kind, file and detail.
func (ps *Problems) Addf(kind Kind, file string, format string, args ...any) {
	ps.Add(Problem{Kind: kind, File: file, Detail: fmt.Sprintf(format, args...)})
}

// Extend appends every problem of other.
func (ps *Problems) Extend(other *Problems) {
	if other == nil || other == ps {
		return
	}
	items := other.Items()
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.items = append(ps.items, items...)
}

// Len reports the number of problems.
func (ps *Problems) Len() int {
	if ps == nil {
		return 0
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.items)
}

// Items returns a copy of the problems in insertion order.
func (ps *Problems) Items() []Problem {
	if ps == nil {
		return nil
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	out := make([]Problem, len(ps.items))
	copy(out, ps.items)
	return out
}

// Sorted returns a copy ordered by file, line, kind and detail. Parallel
// scans add problems in arbitrary order; reports use this order.
func (ps *Problems) Sorted() []Problem {
	out := ps.Items()
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Detail < b.Detail
	})
	return out
}

// Rebase rewrites absolute file paths under root to root relative, slash
// separated paths.
func (ps *Problems) Rebase(root string) {
	if ps == nil {
		return
	}
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for i, p := range ps.items {
		ps.items[i].File = RelPath(root, p.File)
	}
}

// RelPath returns file relative to root when file is absolute and below
// root, otherwise file unchanged.
func RelPath(root, file string) string {
	if !filepath.IsAbs(file) {
		return file
	}
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}
	return filepath.ToSlash(rel)
}

// Count returns the number of problems of the given kind.
func (ps *Problems) Count(kind Kind) int {
	n := 0
	for _, p := range ps.Items() {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

// Err returns nil when there are no problems, otherwise an error joining all
// of them in sorted order.
func (ps *Problems) Err() error {
	items := ps.Sorted()
	if len(items) == 0 {
		return nil
	}
	errs := make([]error, 0, len(items))
	for _, p := range items {
		errs = append(errs, p)
	}
	return errors.Join(errs...)
}
