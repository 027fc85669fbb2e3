// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package snippets extracts the code regions delimited by snippet-start and
// snippet-end markers from example source files.
package snippets

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/staranto/docgen/internal/diag"
)

// Snippet is one tagged region of a source file, or a whole file listed
// under snippet_files. Lines are 1 based; for a tagged region they are the
// lines of the start and end markers.
type Snippet struct {
	ID        string `json:"id" jsonapi:"primary,snippets"`
	File      string `json:"file" jsonapi:"attr,file"`
	LineStart int    `json:"line_start" jsonapi:"attr,line-start"`
	LineEnd   int    `json:"line_end" jsonapi:"attr,line-end"`
	Code      string `json:"code" jsonapi:"attr,code"`
}

var (
	markerRegex = regexp.MustCompile(`snippet-(start|end):\[([^\]\n]*)(\])?`)
	tagRegex    = regexp.MustCompile(`^[A-Za-z0-9._:/+-]+$`)
)

type open struct {
	tag   string
	start int
	lines []string
}

// Parse extracts the snippets of one file. file is the repository relative
// path recorded on snippets and problems. Faulty markers become problems;
// the well formed snippets of the file are still returned, in start order.
func Parse(file string, content []byte) ([]Snippet, []diag.Problem) {
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var (
		snippets []Snippet
		problems []diag.Problem
		opened   []*open
		done     = make(map[string]int)
	)

	// Rejected starts; their end markers are consumed quietly.
	skipped := make(map[string]int)

	problem := func(kind diag.Kind, line int, format string, args ...any) {
		problems = append(problems, diag.Problem{
			Kind:   kind,
			File:   file,
			Line:   line,
			Detail: fmt.Sprintf(format, args...),
		})
	}

	find := func(tag string) int {
		for i, o := range opened {
			if o.tag == tag {
				return i
			}
		}
		return -1
	}

	for i, line := range lines {
		lineNo := i + 1
		markers := markerRegex.FindAllStringSubmatch(line, -1)
		if len(markers) == 0 {
			for _, o := range opened {
				o.lines = append(o.lines, line)
			}
			continue
		}

		for _, m := range markers {
			kind, tag, closed := m[1], m[2], m[3] != ""
			if !closed || !tagRegex.MatchString(tag) {
				problem(diag.KindInvalidSnippetTag, lineNo, "invalid snippet tag %q", tag)
				continue
			}

			if kind == "start" {
				if find(tag) >= 0 {
					problem(diag.KindDuplicateSnippetStart, lineNo, "snippet %q is already open", tag)
					skipped[tag]++
					continue
				}
				if prev, ok := done[tag]; ok {
					problem(diag.KindDuplicateSnippetTag, lineNo, "snippet %q already defined at line %d", tag, prev)
					skipped[tag]++
					continue
				}
				opened = append(opened, &open{tag: tag, start: lineNo})
				continue
			}

			idx := find(tag)
			if idx < 0 {
				if skipped[tag] > 0 {
					skipped[tag]--
					continue
				}
				problem(diag.KindMissingSnippetStart, lineNo, "snippet-end for %q without a matching snippet-start", tag)
				continue
			}
			o := opened[idx]
			opened = append(opened[:idx], opened[idx+1:]...)
			done[tag] = o.start
			snippets = append(snippets, Snippet{
				ID:        tag,
				File:      file,
				LineStart: o.start,
				LineEnd:   lineNo,
				Code:      Dedent(o.lines),
			})
		}
	}

	for _, o := range opened {
		problem(diag.KindSnippetNotClosed, o.start, "snippet %q is never closed", o.tag)
	}

	slices.SortStableFunc(snippets, func(a, b Snippet) int { return a.LineStart - b.LineStart })
	return snippets, problems
}

// Dedent removes the indentation common to every non blank line, trailing
// whitespace, and leading and trailing blank lines, then joins the lines.
func Dedent(lines []string) string {
	prefix, first := "", true
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent := l[:len(l)-len(strings.TrimLeft(l, " \t"))]
		if first {
			prefix, first = indent, false
			continue
		}
		prefix = commonPrefix(prefix, indent)
	}

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			out = append(out, "")
			continue
		}
		out = append(out, strings.TrimRight(l[len(prefix):], " \t"))
	}

	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// FromFile returns the whole of content as a snippet keyed by its path, the
// form snippet_files entries take.
func FromFile(file string, content []byte) Snippet {
	code := strings.TrimRight(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	return Snippet{
		ID:        file,
		File:      file,
		LineStart: 1,
		LineEnd:   strings.Count(code, "\n") + 1,
		Code:      code,
	}
}
