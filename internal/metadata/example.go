// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/staranto/docgen/internal/diag"
)

// Well known categories, in README order.
const (
	CategoryHello     = "Hello"
	CategoryBasics    = "Basics"
	CategoryActions   = "Actions"
	CategoryScenarios = "Scenarios"
)

// Categories is the fixed section order. Custom categories follow, sorted.
var Categories = []string{CategoryHello, CategoryBasics, CategoryActions, CategoryScenarios}

// Category returns the README section the example belongs in.
func (e Example) Category() string {
	switch {
	case e.ExplicitCat != "":
		return e.ExplicitCat
	case strings.HasSuffix(e.ID, "_Hello"):
		return CategoryHello
	case len(e.Services) == 1:
		for _, actions := range e.Services {
			if len(actions) == 1 {
				return CategoryActions
			}
		}
	}
	return CategoryScenarios
}

// Version returns the version of the example written for language and SDK
// version.
func (e Example) Version(language string, sdkVersion int) (Version, bool) {
	lang, ok := e.Languages[language]
	if !ok {
		return Version{}, false
	}
	for _, v := range lang.Versions {
		if v.SDKVersion == sdkVersion {
			return v, true
		}
	}
	return Version{}, false
}

// ServicesFor returns the services the example is listed under for one SDK
// version: its own services plus any the version adds.
func (e Example) ServicesFor(language string, sdkVersion int) []string {
	seen := make(map[string]bool)
	for name := range e.Services {
		seen[name] = true
	}
	if v, ok := e.Version(language, sdkVersion); ok {
		for name := range v.AddServices {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FileFor returns the metadata file that defines language for the example.
func (e Example) FileFor(language string) string {
	if lang, ok := e.Languages[language]; ok && lang.File != "" {
		return lang.File
	}
	return e.File
}

// Actions returns the actions the example uses for service.
func (e Example) Actions(service string) ActionSet {
	return e.Services[service]
}

// Merge folds other, the same example id found in another metadata file,
// into e. Descriptive fields must agree when both sides set them; a language
// may only be defined once.
func (e *Example) Merge(other Example) []diag.Problem {
	var problems []diag.Problem

	mismatch := func(field, mine, theirs string) string {
		switch {
		case theirs == "" || mine == theirs:
			return mine
		case mine == "":
			return theirs
		}
		problems = append(problems, diag.Problem{
			Kind:   diag.KindExampleMergeMismatch,
			File:   other.File,
			Line:   other.Pos[""],
			ID:     e.ID,
			Detail: fmt.Sprintf("%s %q does not match %q in %s", field, theirs, mine, e.File),
		})
		return mine
	}

	e.Title = mismatch("title", e.Title, other.Title)
	e.TitleAbbrev = mismatch("title_abbrev", e.TitleAbbrev, other.TitleAbbrev)
	e.Synopsis = mismatch("synopsis", e.Synopsis, other.Synopsis)
	e.ExplicitCat = mismatch("category", e.ExplicitCat, other.ExplicitCat)

	if len(e.SynopsisList) == 0 {
		e.SynopsisList = other.SynopsisList
	}
	if e.GuideTopic == nil {
		e.GuideTopic = other.GuideTopic
	}

	if e.Languages == nil {
		e.Languages = make(map[string]Language)
	}
	for _, name := range sortedKeys(other.Languages) {
		if _, ok := e.Languages[name]; ok {
			problems = append(problems, diag.Problem{
				Kind:     diag.KindDuplicateExample,
				File:     other.File,
				Line:     other.Pos.Line("languages[" + name + "]"),
				ID:       e.ID,
				Language: name,
				Detail:   fmt.Sprintf("language already defined in %s", e.File),
			})
			continue
		}
		lang := other.Languages[name]
		lang.File = other.FileFor(name)
		e.Languages[name] = lang

		// Paths below the language keep the lines of the file it came from.
		prefix := "languages[" + name + "]"
		if e.Pos == nil {
			e.Pos = Positions{}
		}
		for at, line := range other.Pos {
			if at == prefix || strings.HasPrefix(at, prefix+".") {
				e.Pos[at] = line
			}
		}
	}

	if e.Services == nil {
		e.Services = make(map[string]ActionSet)
	}
	for name, actions := range other.Services {
		e.Services[name] = e.Services[name].Union(actions)
	}

	return problems
}

// MergeAll adds the examples of one file to all, merging ids seen before.
func MergeAll(all map[string]Example, file map[string]Example, ps *diag.Problems) {
	for _, id := range sortedKeys(file) {
		ex := file[id]
		existing, ok := all[id]
		if !ok {
			all[id] = ex
			continue
		}
		for _, p := range existing.Merge(ex) {
			ps.Add(p)
		}
		all[id] = existing
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
