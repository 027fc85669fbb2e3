// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package walker lists the source files of an example repository, honoring
// .gitignore files and a skip list.
package walker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultSkip are directory names never descended into.
var DefaultSkip = []string{
	".git", "node_modules", ".venv", "venv", "target", "build", "dist",
	".snippets", ".doc_gen", "__pycache__",
}

// DefaultExtensions are the file types scanned for snippets and checked by
// validation.
var DefaultExtensions = []string{
	".c", ".cpp", ".cs", ".go", ".h", ".hpp", ".java", ".js", ".json", ".kt",
	".kts", ".md", ".mjs", ".php", ".ps1", ".py", ".rb", ".rs", ".scala",
	".sh", ".sql", ".swift", ".toml", ".ts", ".txt", ".xml", ".yaml", ".yml",
}

// Options controls which files Files returns. Zero values select the
// defaults.
type Options struct {
	Skip        []string
	Extensions  []string
	NoGitignore bool
}

// File is one file found under the root.
type File struct {
	// Path is relative to the root and uses forward slashes.
	Path    string
	Abs     string
	Size    int64
	ModTime time.Time
}

type ignoreFile struct {
	dir string
	gi  *ignore.GitIgnore
}

// Files walks root and returns the matching files sorted by path.
func Files(ctx context.Context, root string, opts Options) ([]File, error) {
	skip := opts.Skip
	if skip == nil {
		skip = DefaultSkip
	}
	exts := opts.Extensions
	if exts == nil {
		exts = DefaultExtensions
	}

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("walker: %w", err)
	}

	var ignores []ignoreFile
	var files []File

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				log.WithError(walkErr).Warnf("walker: skipping %s", p)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return walkErr
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				ignores = loadIgnore(ignores, p, "", opts.NoGitignore)
				return nil
			}
			if slices.Contains(skip, d.Name()) || ignored(ignores, rel, true) {
				return filepath.SkipDir
			}
			ignores = loadIgnore(ignores, p, rel, opts.NoGitignore)
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if len(exts) > 0 && !slices.Contains(exts, strings.ToLower(path.Ext(rel))) {
			return nil
		}
		if ignored(ignores, rel, false) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			log.WithError(err).Warnf("walker: stat %s", p)
			return nil
		}
		files = append(files, File{Path: rel, Abs: p, Size: info.Size(), ModTime: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	log.Debugf("walker: %d files under %s", len(files), root)
	return files, nil
}

func loadIgnore(ignores []ignoreFile, dir, rel string, disabled bool) []ignoreFile {
	if disabled {
		return ignores
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Warnf("walker: reading %s/.gitignore", dir)
		}
		return ignores
	}
	return append(ignores, ignoreFile{dir: rel, gi: gi})
}

// ignored checks rel against every .gitignore in an ancestor directory, using
// the path relative to that file.
func ignored(ignores []ignoreFile, rel string, isDir bool) bool {
	for _, ig := range ignores {
		sub := rel
		if ig.dir != "" {
			if !strings.HasPrefix(rel, ig.dir+"/") {
				continue
			}
			sub = strings.TrimPrefix(rel, ig.dir+"/")
		}
		if ig.gi.MatchesPath(sub) || (isDir && ig.gi.MatchesPath(sub+"/")) {
			return true
		}
	}
	return false
}

// ReadFile reads a file below root given its slash separated relative path.
func ReadFile(root, rel string) ([]byte, error) {
	return os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
}
