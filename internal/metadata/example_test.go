// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package metadata

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/docgen/internal/diag"
)

func TestExample_Category(t *testing.T) {
	tests := []struct {
		name    string
		example Example
		want    string
	}{
		{
			name:    "explicit category wins",
			example: Example{ID: "s3_Hello", ExplicitCat: "Basics"},
			want:    "Basics",
		},
		{
			name:    "hello suffix",
			example: Example{ID: "s3_Hello", Services: map[string]ActionSet{"s3": {"ListBuckets"}}},
			want:    CategoryHello,
		},
		{
			name:    "single service single action",
			example: Example{ID: "s3_PutObject", Services: map[string]ActionSet{"s3": {"PutObject"}}},
			want:    CategoryActions,
		},
		{
			name:    "single service many actions",
			example: Example{ID: "s3_Scenario", Services: map[string]ActionSet{"s3": {"CreateBucket", "PutObject"}}},
			want:    CategoryScenarios,
		},
		{
			name: "many services",
			example: Example{ID: "cross_Thing", Services: map[string]ActionSet{
				"s3": {"PutObject"}, "sqs": {"SendMessage"},
			}},
			want: CategoryScenarios,
		},
		{
			name:    "no services",
			example: Example{ID: "s3_Nothing"},
			want:    CategoryScenarios,
		},
		{
			name:    "custom category",
			example: Example{ID: "s3_Thing", ExplicitCat: "Serverless examples"},
			want:    "Serverless examples",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.example.Category())
		})
	}
}

func TestExample_ServicesFor(t *testing.T) {
	ex := Example{
		Services: map[string]ActionSet{"s3": {"PutObject"}},
		Languages: map[string]Language{
			"Go": {Versions: []Version{{
				SDKVersion:  2,
				AddServices: map[string]ActionSet{"sqs": {"SendMessage"}},
			}}},
			"Python": {Versions: []Version{{SDKVersion: 3}}},
		},
	}

	assert.Equal(t, []string{"s3", "sqs"}, ex.ServicesFor("Go", 2))
	assert.Equal(t, []string{"s3"}, ex.ServicesFor("Go", 1))
	assert.Equal(t, []string{"s3"}, ex.ServicesFor("Python", 3))

	_, ok := ex.Version("Rust", 1)
	assert.False(t, ok)
	assert.Equal(t, ActionSet{"PutObject"}, ex.Actions("s3"))
}

func TestMergeAll(t *testing.T) {
	all := make(map[string]Example)
	ps := &diag.Problems{}

	for _, f := range []string{"s3_metadata.yaml", "dynamodb_metadata.yaml"} {
		examples, fileProblems := ParseExamples(filepath.Join("testdata", f))
		ps.Extend(fileProblems)
		MergeAll(all, examples, ps)
	}

	require.Len(t, all, 4)
	put := all["s3_PutObject"]
	assert.Contains(t, put.Languages, "Rust")
	assert.Contains(t, put.Languages, "Go")
	assert.Equal(t, ActionSet{"GetObject", "PutObject"}, put.Services["s3"])
	assert.Equal(t, "Upload an object to a bucket", put.TitleAbbrev)

	assert.Equal(t, 1, ps.Count(diag.KindExampleMergeMismatch))
	assert.Equal(t, 1, ps.Count(diag.KindDuplicateExample))
	assert.Equal(t, 1, ps.Count(diag.KindUnknownField))

	for _, p := range ps.Items() {
		if p.Kind == diag.KindDuplicateExample {
			assert.Equal(t, "Python", p.Language)
			assert.Equal(t, "s3_PutObject", p.ID)
			assert.Equal(t, filepath.Join("testdata", "dynamodb_metadata.yaml"), p.File)
			assert.Equal(t, 5, p.Line)
		}
	}
}

func TestExample_MergeFillsEmptyFields(t *testing.T) {
	a := Example{ID: "s3_X", Title: "X"}
	b := Example{
		ID:           "s3_X",
		Synopsis:     "do x.",
		SynopsisList: []string{"One."},
		GuideTopic:   &Link{Title: "Guide"},
		Languages:    map[string]Language{"Go": {}},
	}

	problems := a.Merge(b)
	assert.Empty(t, problems)
	assert.Equal(t, "X", a.Title)
	assert.Equal(t, "do x.", a.Synopsis)
	assert.Equal(t, []string{"One."}, a.SynopsisList)
	assert.Equal(t, "Guide", a.GuideTopic.Title)
	assert.Contains(t, a.Languages, "Go")
}
