// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package entities expands `&Name;` placeholders in metadata text.
package entities

import (
	"regexp"
	"sort"
	"strings"
)

var (
	entityRegex = regexp.MustCompile(`&(#?[A-Za-z0-9][\w.-]*);`)
	codeRegex   = regexp.MustCompile(`(?s)<code>.*?</code>`)

	// html entities are left for the Markdown renderer.
	html = map[string]bool{
		"lt": true, "gt": true, "amp": true, "quot": true, "apos": true, "nbsp": true,
	}

	defaults = map[string]string{
		"AWS":     "AWS",
		"AWSlong": "Amazon Web Services",
		"IAM":     "IAM",
		"IAMlong": "AWS Identity and Access Management (IAM)",
	}
)

// Table maps entity names to their text. The zero value is not usable; use
// New.
type Table struct {
	m map[string]string
}

// New returns a table holding the built in entities.
func New() *Table {
	t := &Table{m: make(map[string]string, len(defaults))}
	for k, v := range defaults {
		t.m[k] = v
	}
	return t
}

// Add defines or redefines an entity.
func (t *Table) Add(name, value string) {
	t.m[strings.Trim(name, "&;")] = value
}

// AddAll defines every entry of m.
func (t *Table) AddAll(m map[string]string) {
	for k, v := range m {
		t.Add(k, v)
	}
}

// Define records expansion as the text of text when text is exactly one
// entity. Metadata uses this shape for a service or SDK's long and short
// names together with their expanded forms.
func (t *Table) Define(text, expansion string) {
	if expansion == "" {
		return
	}
	if name, ok := Single(text); ok {
		t.Add(name, expansion)
	}
}

// Has reports whether name is defined.
func (t *Table) Has(name string) bool {
	_, ok := t.m[name]
	return ok
}

// Len returns the number of defined entities.
func (t *Table) Len() int {
	return len(t.m)
}

// Names returns the defined names, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.m))
	for k := range t.m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Expand replaces the known entities of text. Unknown entities are left in
// place and returned in order of first appearance. HTML and numeric
// character references are not entities and are left alone.
func (t *Table) Expand(text string) (string, []string) {
	var unknown []string
	seen := make(map[string]bool)

	out := entityRegex.ReplaceAllStringFunc(text, func(m string) string {
		name := m[1 : len(m)-1]
		if html[name] || strings.HasPrefix(name, "#") {
			return m
		}
		if v, ok := t.m[name]; ok {
			return v
		}
		if !seen[name] {
			seen[name] = true
			unknown = append(unknown, name)
		}
		return m
	})

	return out, unknown
}

// Unknown returns the entities of text that the table cannot expand.
func (t *Table) Unknown(text string) []string {
	_, unknown := t.Expand(text)
	return unknown
}

// Single reports whether text, trimmed, is exactly one entity and returns
// its name.
func Single(text string) (string, bool) {
	text = strings.TrimSpace(text)
	loc := entityRegex.FindStringSubmatchIndex(text)
	if loc == nil || loc[0] != 0 || loc[1] != len(text) {
		return "", false
	}
	return text[loc[2]:loc[3]], true
}

// CheckAWS returns the bare uses of AWS or Amazon in text. Product names
// must come from entities; uses inside an entity, a <code> span or a longer
// identifier such as AWS::S3::Bucket are fine.
func CheckAWS(text string) []string {
	text = codeRegex.ReplaceAllString(text, " ")
	text = entityRegex.ReplaceAllString(text, " ")

	var found []string
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,;:!?()[]\"'`")
		if word == "AWS" || word == "Amazon" {
			found = append(found, word)
		}
	}
	return found
}
