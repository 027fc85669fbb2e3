// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package readme renders one README per language, SDK version and service
// from the loaded metadata and snippets.
package readme

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"text/template"

	"github.com/staranto/docgen/internal/diag"
	"github.com/staranto/docgen/internal/docgen"
	"github.com/staranto/docgen/internal/metadata"
)

// FileName is the name of every rendered file.
const FileName = "README.md"

//go:embed templates/*.tmpl
var templates embed.FS

var sectionDescriptions = map[string]string{
	metadata.CategoryHello:     "These examples show you how to get started using the service.",
	metadata.CategoryBasics:    "Code examples that show you how to perform the essential operations within a service.",
	metadata.CategoryActions:   "Code excerpts that show you how to call individual service functions.",
	metadata.CategoryScenarios: "Code examples that show you how to accomplish a specific task by calling multiple functions within the same service.",
}

// Entry is one listed example.
type Entry struct {
	ID    string
	Title string
	Link  string
	Note  string
}

// Section is one category of examples.
type Section struct {
	Name        string
	Description string
	Entries     []Entry
}

// Scenario is the run section of a basics or scenario example.
type Scenario struct {
	ID           string
	Title        string
	Synopsis     string
	SynopsisList []string
	Custom       map[string]string
}

// Resource is one link of the additional resources list.
type Resource struct {
	Title string
	URL   string
}

// Page is the data the README template renders.
type Page struct {
	Target       docgen.Target
	Folder       string
	Title        string
	SDKLong      string
	SDKShort     string
	ServiceLong  string
	ServiceShort string
	Blurb        string
	Caveat       string
	Property     string
	PrereqLink   string
	Sections     []Section
	Scenarios    []Scenario
	Resources    []Resource
	Custom       map[string]string
}

// Renderer turns targets into README content. It is safe for concurrent use.
type Renderer struct {
	d    *docgen.DocGen
	tmpl *template.Template
}

// New parses the embedded templates.
func New(d *docgen.DocGen) (*Renderer, error) {
	tmpl, err := template.New("readme").
		Funcs(template.FuncMap{"custom": custom}).
		ParseFS(templates, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("readme: %w", err)
	}
	return &Renderer{d: d, tmpl: tmpl}, nil
}

// Render produces the README of t. existing is the current file content, if
// any, whose custom blocks are carried over. Unknown entities in the text
// are returned as problems against the README.
func (r *Renderer) Render(t docgen.Target, existing []byte) ([]byte, []diag.Problem, error) {
	folder, err := r.d.ReadmeFolder(t)
	if err != nil {
		return nil, nil, err
	}

	x := &expander{table: r.d.Entities}
	page, err := r.page(t, folder, CustomBlocks(existing), x)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "readme.md.tmpl", page); err != nil {
		return nil, nil, fmt.Errorf("readme: %s: %w", t, err)
	}

	var problems []diag.Problem
	file := path.Join(folder, FileName)
	for _, name := range x.unknown {
		problems = append(problems, diag.Problem{
			Kind:       diag.KindUnknownEntity,
			File:       file,
			Language:   t.Language,
			SDKVersion: t.SDKVersion,
			Detail:     fmt.Sprintf("unknown entity &%s;", name),
		})
	}
	return tidy(buf.Bytes()), problems, nil
}

func (r *Renderer) page(t docgen.Target, folder string, blocks map[string]string, x *expander) (*Page, error) {
	svc := r.d.Services[t.Service]
	sdk := r.d.SDKs[t.Language]
	ver, _ := r.d.SDKVersion(t.Language, t.SDKVersion)

	p := &Page{
		Target:       t,
		Folder:       folder,
		SDKLong:      x.expand(ver.Long),
		SDKShort:     x.expand(ver.Short),
		ServiceLong:  x.expand(svc.Long),
		ServiceShort: x.expand(svc.Short),
		Blurb:        x.expand(svc.Blurb),
		Caveat:       x.expand(ver.Caveat),
		Property:     sdk.Property,
		PrereqLink:   relLink(folder, path.Join(sdk.Property, FileName)) + "#prerequisites",
		Custom:       blocks,
	}

	p.Title = fmt.Sprintf("%s code examples for the %s", p.ServiceShort, p.SDKShort)
	if ver.TitleOverride != nil && ver.TitleOverride.Title != "" {
		title, err := r.titleOverride(ver.TitleOverride.Title, p)
		if err != nil {
			return nil, err
		}
		p.Title = x.expand(title)
	}

	r.sections(p, x)
	p.Resources = r.resources(t, svc, ver, p, x)
	return p, nil
}

func (r *Renderer) titleOverride(spec string, p *Page) (string, error) {
	tmpl, err := template.New("title_override").Parse(spec)
	if err != nil {
		return "", fmt.Errorf("readme: title_override for %s: %w", p.Target, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, p); err != nil {
		return "", fmt.Errorf("readme: title_override for %s: %w", p.Target, err)
	}
	return b.String(), nil
}

func (r *Renderer) sections(p *Page, x *expander) {
	t := p.Target
	byCategory := make(map[string][]Entry)

	for _, ex := range r.d.ExamplesFor(t.Language, t.SDKVersion, t.Service) {
		ver, _ := ex.Version(t.Language, t.SDKVersion)
		cat := ex.Category()

		title := ex.TitleAbbrev
		if title == "" {
			title = ex.Title
		}
		entry := Entry{ID: ex.ID, Title: x.expand(title), Link: r.link(p.Folder, ver)}
		if _, own := ex.Services[t.Service]; !own && len(ex.Services) > 0 {
			entry.Note = "from " + strings.Join(sortedServices(ex.Services), ", ")
		}
		byCategory[cat] = append(byCategory[cat], entry)

		if cat == metadata.CategoryBasics || cat == metadata.CategoryScenarios {
			p.Scenarios = append(p.Scenarios, Scenario{
				ID:           ex.ID,
				Title:        x.expand(ex.Title),
				Synopsis:     x.expand(ex.Synopsis),
				SynopsisList: x.expandAll(ex.SynopsisList),
				Custom:       p.Custom,
			})
		}
	}

	var extra []string
	for cat := range byCategory {
		if !slices.Contains(metadata.Categories, cat) {
			extra = append(extra, cat)
		}
	}
	sort.Strings(extra)

	for _, cat := range append(slices.Clone(metadata.Categories), extra...) {
		entries := byCategory[cat]
		if len(entries) == 0 {
			continue
		}
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := strings.ToLower(entries[i].Title), strings.ToLower(entries[j].Title)
			if a != b {
				return a < b
			}
			return entries[i].ID < entries[j].ID
		})
		p.Sections = append(p.Sections, Section{
			Name:        cat,
			Description: sectionDescriptions[cat],
			Entries:     entries,
		})
	}

	sort.SliceStable(p.Scenarios, func(i, j int) bool { return p.Scenarios[i].ID < p.Scenarios[j].ID })
}

// link points at the first tagged snippet of ver, else at its github folder.
func (r *Renderer) link(folder string, ver metadata.Version) string {
	for _, exc := range ver.Excerpts {
		for _, tag := range exc.SnippetTags {
			if s, ok := r.d.Snippets[tag]; ok {
				return fmt.Sprintf("%s#L%d", relLink(folder, s.File), s.LineStart)
			}
		}
	}
	if ver.GitHub != "" {
		return relLink(folder, strings.TrimPrefix(ver.GitHub, "/"))
	}
	for _, exc := range ver.Excerpts {
		for _, file := range exc.SnippetFiles {
			return relLink(folder, file)
		}
	}
	return ""
}

func (r *Renderer) resources(t docgen.Target, svc metadata.Service, ver metadata.SDKVersion, p *Page, x *expander) []Resource {
	var out []Resource
	if svc.Guide != nil && svc.Guide.URL != "" {
		out = append(out, Resource{Title: strings.TrimSpace(p.ServiceShort + " " + x.expand(svc.Guide.Subtitle)), URL: svc.Guide.URL})
	}
	if svc.APIRef != "" {
		out = append(out, Resource{Title: p.ServiceShort + " API Reference", URL: svc.APIRef})
	}
	if ver.Guide != "" {
		out = append(out, Resource{Title: p.SDKLong + " Developer Guide", URL: x.expand(ver.Guide)})
	}
	if ver.APIRef != nil && ver.APIRef.LinkTemplate != "" {
		var b strings.Builder
		tmpl, err := template.New("api_ref").Parse(ver.APIRef.LinkTemplate)
		if err == nil && tmpl.Execute(&b, map[string]string{"Service": t.Service}) == nil {
			name := x.expand(ver.APIRef.Name)
			if name == "" {
				name = p.SDKShort + " API Reference"
			}
			out = append(out, Resource{Title: name + " " + p.ServiceShort, URL: b.String()})
		}
	}
	return out
}

func sortedServices(m map[string]metadata.ActionSet) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// relLink returns to relative to the folder from, both slash separated and
// relative to the repository root.
func relLink(from, to string) string {
	rel, err := filepath.Rel(filepath.FromSlash(from), filepath.FromSlash(to))
	if err != nil {
		return to
	}
	return filepath.ToSlash(rel)
}

// tidy collapses runs of blank lines and ends the file with one newline.
// Lines inside custom blocks are kept as they are.
func tidy(b []byte) []byte {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	out := make([]string, 0, len(lines))
	blank, inCustom := false, false
	for _, l := range lines {
		if inCustom {
			out = append(out, l)
			inCustom = !strings.Contains(l, ".end-->")
			blank = false
			continue
		}
		if customStartRegex.MatchString(l) {
			inCustom = !strings.Contains(l[strings.LastIndex(l, ".start-->"):], ".end-->")
		}
		l = strings.TrimRight(l, " \t")
		if l == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, l)
	}
	return []byte(strings.Join(out, "\n") + "\n")
}
