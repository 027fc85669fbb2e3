// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package docgen

import (
	"fmt"
	"path"
	"slices"
	"sort"
	"strings"
	"text/template"

	"github.com/staranto/docgen/internal/metadata"
	"github.com/staranto/docgen/internal/snippets"
)

// Target is one README: a service as seen from one SDK version.
type Target struct {
	Language   string `json:"language"`
	SDKVersion int    `json:"sdk_version"`
	Service    string `json:"service"`
}

func (t Target) String() string {
	return fmt.Sprintf("%s v%d %s", t.Language, t.SDKVersion, t.Service)
}

// Languages returns the SDK names, sorted.
func (d *DocGen) Languages() []string {
	return sortedKeys(d.SDKs)
}

// Versions returns the SDK versions of lang, ascending.
func (d *DocGen) Versions(lang string) []int {
	sdk, ok := d.SDKs[lang]
	if !ok {
		return nil
	}
	versions := make([]int, 0, len(sdk.Versions))
	for v := range sdk.Versions {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	return versions
}

// SDKVersion returns one version of an SDK.
func (d *DocGen) SDKVersion(lang string, version int) (metadata.SDKVersion, bool) {
	v, ok := d.SDKs[lang].Versions[version]
	return v, ok
}

// ServicesFor returns the known services that have at least one example for
// lang and version, sorted.
func (d *DocGen) ServicesFor(lang string, version int) []string {
	seen := make(map[string]bool)
	for _, ex := range d.Examples {
		if _, ok := ex.Version(lang, version); !ok {
			continue
		}
		for _, svc := range ex.ServicesFor(lang, version) {
			if _, known := d.Services[svc]; known {
				seen[svc] = true
			}
		}
	}
	return sortedKeys(seen)
}

// ExamplesFor returns the examples listed under service for lang and
// version, sorted by id.
func (d *DocGen) ExamplesFor(lang string, version int, service string) []metadata.Example {
	var out []metadata.Example
	for _, id := range sortedKeys(d.Examples) {
		ex := d.Examples[id]
		if _, ok := ex.Version(lang, version); !ok {
			continue
		}
		if slices.Contains(ex.ServicesFor(lang, version), service) {
			out = append(out, ex)
		}
	}
	return out
}

// Snippet returns a tagged snippet, or a snippet_files entry by path.
func (d *DocGen) Snippet(tag string) (snippets.Snippet, bool) {
	if s, ok := d.Snippets[tag]; ok {
		return s, true
	}
	s, ok := d.SnippetFiles[tag]
	return s, ok
}

// Targets returns every README to render, filtered by the non zero
// arguments, in language, version, service order.
func (d *DocGen) Targets(lang string, version int, service string) []Target {
	var out []Target
	for _, l := range d.Languages() {
		if lang != "" && !strings.EqualFold(l, lang) {
			continue
		}
		for _, v := range d.Versions(l) {
			if version != 0 && v != version {
				continue
			}
			for _, svc := range d.ServicesFor(l, v) {
				if service != "" && svc != service {
					continue
				}
				out = append(out, Target{Language: l, SDKVersion: v, Service: svc})
			}
		}
	}
	return out
}

// ReadmeFolder returns the slash separated folder, relative to the root,
// that holds the README of t.
func (d *DocGen) ReadmeFolder(t Target) (string, error) {
	sdk := d.SDKs[t.Language]
	spec := sdk.Versions[t.SDKVersion].ReadmeFolder
	if spec == "" {
		spec = metadata.DefaultReadmeFolder
	}

	tmpl, err := template.New("readme_folder").Option("missingkey=error").Parse(spec)
	if err != nil {
		return "", fmt.Errorf("docgen: readme_folder for %s: %w", t, err)
	}

	var b strings.Builder
	data := map[string]any{
		"Property": sdk.Property,
		"Language": t.Language,
		"Version":  t.SDKVersion,
		"Service":  t.Service,
	}
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("docgen: readme_folder for %s: %w", t, err)
	}
	return path.Clean(b.String()), nil
}
