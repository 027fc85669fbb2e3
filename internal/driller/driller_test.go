// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// no-cloc
package driller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const row = `{
  "id": "s3_PutObject",
  "type": "examples",
  "attributes": {
    "title": "Upload an object to a bucket",
    "category": "Actions",
    "hidden": false,
    "versions": 2,
    "services": ["s3"],
    "languages": ["Go", "Python"],
    "file": null,
    "sdks": [
      {"language": "Go", "version": 2, "snippets": ["gov2.s3.PutObject"]},
      {"language": "Python", "version": 3, "snippets": []}
    ],
    "owner": [{"name": "docs", "contact": {"alias": "docs-team"}}]
  }
}`

func TestDriller(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    string
		isNil   bool
		isArray bool
	}{
		{name: "root key", path: "id", want: "s3_PutObject"},
		{name: "nested key", path: "attributes.title", want: "Upload an object to a bucket"},
		{name: "number", path: "attributes.versions", want: "2"},
		{name: "bool", path: "attributes.hidden", want: "false"},
		{name: "null", path: "attributes.file", isNil: true},
		{name: "one element array is unwrapped", path: "attributes.services", want: "s3"},
		{name: "one element array drills through", path: "attributes.owner.name", want: "docs"},
		{name: "drills through then deeper", path: "attributes.owner.contact.alias", want: "docs-team"},
		{name: "multi element array", path: "attributes.languages", isArray: true},
		{name: "index", path: "attributes.languages[1]", want: "Python"},
		{name: "index then key", path: "attributes.sdks[0].language", want: "Go"},
		{name: "index then nested index", path: "attributes.sdks[0].snippets[0]", want: "gov2.s3.PutObject"},
		{name: "index on one element array", path: "attributes.owner[0].name", want: "docs"},
		{name: "missing key", path: "attributes.missing", isNil: true},
		{name: "missing root", path: "nope.title", isNil: true},
		{name: "index out of range", path: "attributes.languages[5]", isNil: true},
		{name: "empty array index", path: "attributes.sdks[1].snippets[0]", isNil: true},
		{name: "key on a scalar", path: "id.more", isNil: true},
		{name: "index on an object", path: "attributes[0]", isNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Driller(row, tt.path)

			if tt.isNil {
				assert.True(t, !result.Exists() || result.Type.String() == "Null", "got %v", result.Value())
				return
			}

			assert.True(t, result.Exists(), "expected a value")
			if tt.isArray {
				assert.True(t, result.IsArray(), "got %v", result.Value())
				return
			}
			assert.Equal(t, tt.want, result.String())
		})
	}
}

func TestDriller_Keys(t *testing.T) {
	tests := []struct {
		json string
		path string
		want string
	}{
		{`{"my-key": "v"}`, "my-key", "v"},
		{`{"my_key": "v"}`, "my_key", "v"},
		{`{"key123": "v"}`, "key123", "v"},
		{`{"a": {"b": {"c": {"d": "found"}}}}`, "a.b.c.d", "found"},
		{`["only"]`, "", "only"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Driller(tt.json, tt.path).String())
		})
	}
}

func BenchmarkDriller(b *testing.B) {
	paths := []string{
		"id",
		"attributes.title",
		"attributes.sdks[0].snippets[0]",
		"attributes.owner.contact.alias",
	}

	for _, path := range paths {
		b.Run(path, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				Driller(row, path)
			}
		})
	}
}
