// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package differ compares two snapshots. It reports the records that were
// added, removed or modified per section and can render the full delta.
package differ

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"sort"

	"github.com/apex/log"
	gojsondiff "github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// Formats accepted by Options.Format.
var Formats = []string{"summary", "ascii", "delta"}

// DefaultIgnore are the top level keys that differ between any two runs.
var DefaultIgnore = []string{"version", "stats"}

// Sections are the keyed maps of a snapshot that the summary reports on.
var Sections = []string{"services", "sdks", "examples", "snippets", "snippet_files"}

// Change is one record that differs between the snapshots.
type Change struct {
	Section string `json:"section"`
	Key     string `json:"key"`
	Change  string `json:"change"`
}

func (c Change) String() string {
	marker := "~"
	switch c.Change {
	case "added":
		marker = "+"
	case "removed":
		marker = "-"
	}
	if c.Key == "" {
		return marker + " " + c.Section
	}
	return fmt.Sprintf("%s %s %s", marker, c.Section, c.Key)
}

// Options controls Diff.
type Options struct {
	// Format is one of Formats. Empty means summary.
	Format string
	// Ignore lists top level keys left out of the comparison.
	Ignore []string
	Color  bool
}

// Result is the outcome of Diff.
type Result struct {
	Modified bool
	Changes  []Change
	// Text is the rendering in the requested format.
	Text string
}

// Diff compares the snapshots left and right.
func Diff(left, right []byte, opts Options) (*Result, error) {
	var l, r map[string]any
	if err := json.Unmarshal(left, &l); err != nil {
		return nil, fmt.Errorf("failed to parse left snapshot: %w", err)
	}
	if err := json.Unmarshal(right, &r); err != nil {
		return nil, fmt.Errorf("failed to parse right snapshot: %w", err)
	}

	for _, k := range opts.Ignore {
		delete(l, k)
		delete(r, k)
	}

	d := gojsondiff.New().CompareObjects(l, r)
	res := &Result{
		Modified: d.Modified(),
		Changes:  Summary(l, r),
	}
	log.Debugf("differ: modified=%v, %d changes", res.Modified, len(res.Changes))

	if !res.Modified {
		return res, nil
	}

	switch opts.Format {
	case "", "summary":
		for _, c := range res.Changes {
			res.Text += c.String() + "\n"
		}
	case "ascii":
		f := formatter.NewAsciiFormatter(l, formatter.AsciiFormatterConfig{
			ShowArrayIndex: true,
			Coloring:       opts.Color,
		})
		text, err := f.Format(d)
		if err != nil {
			return nil, fmt.Errorf("failed to format diff: %w", err)
		}
		res.Text = text
	case "delta":
		text, err := formatter.NewDeltaFormatter().Format(d)
		if err != nil {
			return nil, fmt.Errorf("failed to format diff: %w", err)
		}
		res.Text = text + "\n"
	default:
		return nil, fmt.Errorf("unknown diff format %q, must be one of %v", opts.Format, Formats)
	}

	return res, nil
}

// Summary lists the records of each section that exist on one side only or
// whose content differs, ordered by section and key. Any other top level key
// that differs, such as problems, follows as one change of its own.
func Summary(left, right map[string]any) []Change {
	var changes []Change
	for _, section := range Sections {
		l, _ := left[section].(map[string]any)
		r, _ := right[section].(map[string]any)

		for _, k := range unionKeys(l, r) {
			lv, inLeft := l[k]
			rv, inRight := r[k]
			switch {
			case !inLeft:
				changes = append(changes, Change{Section: section, Key: k, Change: "added"})
			case !inRight:
				changes = append(changes, Change{Section: section, Key: k, Change: "removed"})
			case !reflect.DeepEqual(lv, rv):
				changes = append(changes, Change{Section: section, Key: k, Change: "modified"})
			}
		}
	}

	for _, k := range unionKeys(left, right) {
		if slices.Contains(Sections, k) {
			continue
		}
		lv, inLeft := left[k]
		rv, inRight := right[k]
		switch {
		case !inLeft:
			changes = append(changes, Change{Section: k, Change: "added"})
		case !inRight:
			changes = append(changes, Change{Section: k, Change: "removed"})
		case !reflect.DeepEqual(lv, rv):
			c := Change{Section: k, Change: "modified"}
			la, lok := lv.([]any)
			ra, rok := rv.([]any)
			if lok && rok {
				c.Key = fmt.Sprintf("%d -> %d", len(la), len(ra))
			}
			changes = append(changes, c)
		}
	}
	return changes
}

func unionKeys(l, r map[string]any) []string {
	keys := make(map[string]bool, len(l)+len(r))
	for k := range l {
		keys[k] = true
	}
	for k := range r {
		keys[k] = true
	}

	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)
	return sorted
}
