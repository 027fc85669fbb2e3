// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snippets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/apex/log"

	"github.com/staranto/docgen/internal/fsutil"
)

var unsafeRegex = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// WriteStats counts what Write did.
type WriteStats struct {
	Written   int `json:"written"`
	Unchanged int `json:"unchanged"`
	Removed   int `json:"removed"`
}

// FileName returns the file a snippet tag is written to.
func FileName(tag string) string {
	return unsafeRegex.ReplaceAllString(tag, "_") + ".txt"
}

// Write stores each snippet as <dir>/<tag>.txt and removes .txt files in dir
// that no longer belong to a snippet. Files that already hold the right code
// are left alone.
func Write(dir string, snippets map[string]Snippet) (WriteStats, error) {
	var stats WriteStats
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return stats, fmt.Errorf("snippets: %w", err)
	}

	tags := make([]string, 0, len(snippets))
	for tag := range snippets {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	keep := make(map[string]string, len(tags))
	for _, tag := range tags {
		name := FileName(tag)
		if other, ok := keep[name]; ok {
			log.Warnf("snippets: %q and %q both write %s; keeping %q", other, tag, name, other)
			continue
		}
		keep[name] = tag

		wrote, err := fsutil.WriteFileIfChanged(filepath.Join(dir, name), []byte(snippets[tag].Code+"\n"))
		if err != nil {
			return stats, fmt.Errorf("snippets: %w", err)
		}
		if wrote {
			stats.Written++
		} else {
			stats.Unchanged++
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return stats, fmt.Errorf("snippets: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		if _, ok := keep[e.Name()]; ok {
			continue
		}
		if err := os.Remove(filepath.Join(dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return stats, fmt.Errorf("snippets: %w", err)
		}
		stats.Removed++
	}

	log.Debugf("snippets: wrote %d, unchanged %d, removed %d in %s",
		stats.Written, stats.Unchanged, stats.Removed, dir)
	return stats, nil
}
