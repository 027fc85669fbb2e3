// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package docgen loads the metadata and snippets of an example repository
// into one aggregate and cross checks them.
package docgen

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/staranto/docgen/internal/diag"
	"github.com/staranto/docgen/internal/entities"
	"github.com/staranto/docgen/internal/metadata"
	"github.com/staranto/docgen/internal/schema"
	"github.com/staranto/docgen/internal/snippets"
	"github.com/staranto/docgen/internal/walker"
)

// Repository layout, relative to the root.
const (
	MetadataDir     = ".doc_gen/metadata"
	CrossContentDir = ".doc_gen/cross-content"
	EntitiesFile    = ".doc_gen/entities.yaml"
	ValidationFile  = ".doc_gen/validation.yaml"
	SnippetsDir     = ".snippets"
)

// Options controls Load.
type Options struct {
	// NoSnippets skips the source scan. Snippet tags are then not checked.
	NoSnippets bool
	Snippets   snippets.Options
	// Entities are added to the entity table before the repository's own.
	Entities map[string]string
}

// DocGen is everything known about one repository.
type DocGen struct {
	Root     string
	Services map[string]metadata.Service
	SDKs     map[string]metadata.SDK
	Examples map[string]metadata.Example
	// Snippets holds tagged snippets; SnippetFiles the whole files listed
	// under snippet_files, keyed by path.
	Snippets     map[string]snippets.Snippet
	SnippetFiles map[string]snippets.Snippet
	// Files are the source files the scan looked at. Empty with NoSnippets.
	Files    []walker.File
	Entities *entities.Table
	Problems *diag.Problems

	scanned bool
}

// Load reads the repository at root. Metadata and snippet faults are
// collected in Problems; the error is reserved for failures that leave
// nothing to report on, such as a missing root or a cancelled context.
func Load(ctx context.Context, root string, opts Options) (*DocGen, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("docgen: %w", err)
	}
	if info, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("docgen: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("docgen: %s is not a directory", root)
	}

	d := &DocGen{
		Root:         root,
		Examples:     make(map[string]metadata.Example),
		Snippets:     make(map[string]snippets.Snippet),
		SnippetFiles: make(map[string]snippets.Snippet),
		Problems:     &diag.Problems{},
	}

	metaDir := filepath.Join(root, filepath.FromSlash(MetadataDir))

	var ps *diag.Problems
	d.Services, ps = metadata.ParseServices(filepath.Join(metaDir, metadata.ServicesFile))
	d.Problems.Extend(ps)
	d.SDKs, ps = metadata.ParseSDKs(filepath.Join(metaDir, metadata.SDKsFile))
	d.Problems.Extend(ps)

	if err := d.loadExamples(ctx, metaDir, opts.Snippets.Jobs); err != nil {
		return nil, err
	}

	d.Entities = d.entityTable(opts.Entities)

	checker := schema.New(d.Services, d.SDKs, filepath.Join(root, filepath.FromSlash(CrossContentDir)))
	d.Problems.Extend(checker.All(
		filepath.Join(metaDir, metadata.ServicesFile),
		filepath.Join(metaDir, metadata.SDKsFile),
		d.Examples,
	))

	if !opts.NoSnippets {
		res, ps, err := snippets.Scan(ctx, root, opts.Snippets)
		if err != nil {
			return nil, fmt.Errorf("docgen: %w", err)
		}
		d.Snippets = res.Snippets
		d.Files = res.Files
		d.Problems.Extend(ps)
		d.scanned = true
	}

	d.crossCheck()

	d.Problems.Rebase(root)
	for id, ex := range d.Examples {
		ex.File = diag.RelPath(root, ex.File)
		for name, lang := range ex.Languages {
			if lang.File != "" {
				lang.File = diag.RelPath(root, lang.File)
				ex.Languages[name] = lang
			}
		}
		d.Examples[id] = ex
	}

	log.Debugf("docgen: %d services, %d sdks, %d examples, %d snippets, %d problems",
		len(d.Services), len(d.SDKs), len(d.Examples), len(d.Snippets), d.Problems.Len())
	return d, nil
}

// loadExamples parses the metadata files in parallel and merges them in name
// order so merge problems are reported against the later file.
func (d *DocGen) loadExamples(ctx context.Context, metaDir string, jobs int) error {
	files, err := metadata.ListMetadataFiles(metaDir)
	if err != nil {
		return fmt.Errorf("docgen: %w", err)
	}

	type parsed struct {
		examples map[string]metadata.Example
		problems *diag.Problems
	}
	results := make([]parsed, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(jobs)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			examples, ps := metadata.ParseExamples(file)
			results[i] = parsed{examples, ps}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("docgen: %w", err)
	}

	for _, r := range results {
		d.Problems.Extend(r.problems)
		metadata.MergeAll(d.Examples, r.examples, d.Problems)
	}
	return nil
}

// entityTable builds the entities from configuration, the repository's
// entities file and the expanded forms of services and SDK versions.
func (d *DocGen) entityTable(static map[string]string) *entities.Table {
	t := entities.New()
	t.AddAll(static)

	path := filepath.Join(d.Root, filepath.FromSlash(EntitiesFile))
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		d.Problems.Addf(diag.KindFileRead, path, "%v", err)
	default:
		var m map[string]string
		if err := yaml.Unmarshal(data, &m); err != nil {
			d.Problems.Add(diag.Problem{Kind: diag.KindYAMLParse, File: path, Detail: err.Error()})
		} else {
			t.AddAll(m)
		}
	}

	for _, svc := range d.Services {
		if svc.Expanded != nil {
			t.Define(svc.Long, svc.Expanded.Long)
			t.Define(svc.Short, svc.Expanded.Short)
		}
	}
	for _, sdk := range d.SDKs {
		for _, v := range sdk.Versions {
			if v.Expanded != nil {
				t.Define(v.Long, v.Expanded.Long)
				t.Define(v.Short, v.Expanded.Short)
			}
		}
	}
	return t
}

// Expand replaces the entities of text.
func (d *DocGen) Expand(text string) string {
	out, _ := d.Entities.Expand(text)
	return out
}

// Scanned reports whether snippets were scanned.
func (d *DocGen) Scanned() bool {
	return d.scanned
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
