// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package snippets

import (
	"bytes"
	"context"
	"fmt"
	"runtime"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/docgen/internal/cacheutil"
	"github.com/staranto/docgen/internal/diag"
	"github.com/staranto/docgen/internal/walker"
)

// cacheVersion is part of every cache key. Bump it when Parse changes what
// it returns.
const cacheVersion = "1"

var cacheDir = []string{"snippets"}

// Options controls Scan.
type Options struct {
	Walk walker.Options
	// Jobs bounds the number of files read at once. <= 0 uses GOMAXPROCS.
	Jobs    int
	NoCache bool
}

// Result holds every snippet of a repository keyed by tag, and the files
// that were scanned.
type Result struct {
	Snippets map[string]Snippet
	Files    []walker.File
}

type cached struct {
	Snippets []Snippet      `json:"snippets"`
	Problems []diag.Problem `json:"problems"`
}

// Scan walks root and parses every matching file in parallel. Marker faults
// and tags defined twice across files are returned as problems; the error is
// only set when the walk itself fails or ctx is cancelled.
func Scan(ctx context.Context, root string, opts Options) (*Result, *diag.Problems, error) {
	files, err := walker.Files(ctx, root, opts.Walk)
	if err != nil {
		return nil, nil, err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]cached, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = scanFile(root, f, !opts.NoCache)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("snippets: %w", err)
	}

	res := &Result{Snippets: make(map[string]Snippet), Files: files}
	ps := &diag.Problems{}
	for _, r := range results {
		for _, p := range r.Problems {
			ps.Add(p)
		}
		for _, s := range r.Snippets {
			if prev, ok := res.Snippets[s.ID]; ok {
				ps.Add(diag.Problem{
					Kind:   diag.KindDuplicateSnippetTag,
					File:   s.File,
					Line:   s.LineStart,
					Detail: fmt.Sprintf("snippet %q already defined at %s:%d", s.ID, prev.File, prev.LineStart),
				})
				continue
			}
			res.Snippets[s.ID] = s
		}
	}

	log.Debugf("snippets: %s tags in %s files, %d problems",
		humanize.Comma(int64(len(res.Snippets))), humanize.Comma(int64(len(files))), ps.Len())
	return res, ps, nil
}

func scanFile(root string, f walker.File, useCache bool) cached {
	key := fmt.Sprintf("%s|%d|%d|%s", f.Abs, f.Size, f.ModTime.UnixNano(), cacheVersion)

	var c cached
	if useCache && cacheutil.ReadJSON(cacheDir, key, &c) {
		return c
	}

	content, err := walker.ReadFile(root, f.Path)
	if err != nil {
		return cached{Problems: []diag.Problem{{
			Kind:   diag.KindFileRead,
			File:   f.Path,
			Detail: err.Error(),
		}}}
	}

	if bytes.Contains(content, []byte("snippet-")) {
		c.Snippets, c.Problems = Parse(f.Path, content)
	}

	if useCache {
		if err := cacheutil.WriteJSON(cacheDir, key, c); err != nil {
			log.WithError(err).Debugf("snippets: caching %s", f.Path)
		}
	}
	return c
}

// LoadFile reads a snippet_files entry below root.
func LoadFile(root, rel string) (Snippet, error) {
	content, err := walker.ReadFile(root, rel)
	if err != nil {
		return Snippet{}, fmt.Errorf("snippets: %w", err)
	}
	return FromFile(rel, content), nil
}
