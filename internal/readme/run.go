// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package readme

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"

	"github.com/staranto/docgen/internal/diag"
	"github.com/staranto/docgen/internal/docgen"
	"github.com/staranto/docgen/internal/fsutil"
)

// Mode selects what Run does with rendered content.
type Mode int

const (
	// ModeWrite writes READMEs whose content changed.
	ModeWrite Mode = iota
	// ModeCheck reports changed READMEs as stale and writes nothing.
	ModeCheck
	// ModeDryRun renders in memory only.
	ModeDryRun
)

// Status is the outcome for one README.
type Status string

const (
	StatusWritten    Status = "written"
	StatusUnchanged  Status = "unchanged"
	StatusStale      Status = "stale"
	StatusWouldWrite Status = "would-write"
)

// Options filters the targets and sets the mode. Zero filters match all.
type Options struct {
	Language   string
	SDKVersion int
	Service    string
	Mode       Mode
	// Jobs bounds the renders in flight. <= 0 uses GOMAXPROCS.
	Jobs int
}

// Result is one rendered README.
type Result struct {
	Target  docgen.Target `json:"target"`
	Path    string        `json:"path"`
	Status  Status        `json:"status"`
	Content []byte        `json:"-"`
}

// Run renders every matching target in parallel. Results are in target
// order. Stale READMEs and unknown entities are returned as problems; the
// error is set for template, I/O and cancellation failures.
func (r *Renderer) Run(ctx context.Context, opts Options) ([]Result, *diag.Problems, error) {
	targets := r.d.Targets(opts.Language, opts.SDKVersion, opts.Service)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(targets))
	ps := &diag.Problems{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, problems, err := r.one(t, opts.Mode)
			if err != nil {
				return err
			}
			for _, p := range problems {
				ps.Add(p)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("readme: %w", err)
	}

	counts := make(map[Status]int)
	for _, res := range results {
		counts[res.Status]++
	}
	log.Debugf("readme: %d targets: %v", len(results), counts)
	return results, ps, nil
}

func (r *Renderer) one(t docgen.Target, mode Mode) (Result, []diag.Problem, error) {
	folder, err := r.d.ReadmeFolder(t)
	if err != nil {
		return Result{}, nil, err
	}
	rel := path.Join(folder, FileName)
	abs := filepath.Join(r.d.Root, filepath.FromSlash(rel))

	existing, err := os.ReadFile(abs)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Result{}, nil, fmt.Errorf("%s: %w", rel, err)
	}

	content, problems, err := r.Render(t, existing)
	if err != nil {
		return Result{}, nil, err
	}
	res := Result{Target: t, Path: rel, Content: content}

	changed, err := fsutil.Changed(abs, content)
	if err != nil {
		return Result{}, nil, fmt.Errorf("%s: %w", rel, err)
	}

	switch {
	case !changed:
		res.Status = StatusUnchanged
	case mode == ModeCheck:
		res.Status = StatusStale
		problems = append(problems, diag.Problem{
			Kind:       diag.KindStaleReadme,
			File:       rel,
			Language:   t.Language,
			SDKVersion: t.SDKVersion,
			Detail:     fmt.Sprintf("%s README is out of date", t),
		})
	case mode == ModeDryRun:
		res.Status = StatusWouldWrite
	default:
		if _, err := fsutil.WriteFileIfChanged(abs, content); err != nil {
			return Result{}, nil, err
		}
		res.Status = StatusWritten
		log.Debugf("readme: wrote %s", rel)
	}
	return res, problems, nil
}
