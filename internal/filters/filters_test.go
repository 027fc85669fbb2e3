// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/docgen/internal/attrs"
)

func TestBuildFilters(t *testing.T) {
	tests := []struct {
		name      string
		spec      string
		delimiter string
		want      []Filter
		wantErr   bool
	}{
		{
			name: "empty spec",
		},
		{
			name: "equal",
			spec: "category=Actions",
			want: []Filter{{Key: "category", Operand: "=", Target: "Actions"}},
		},
		{
			name: "prefix",
			spec: "id^s3_",
			want: []Filter{{Key: "id", Operand: "^", Target: "s3_"}},
		},
		{
			name: "fold",
			spec: "category~actions",
			want: []Filter{{Key: "category", Operand: "~", Target: "actions"}},
		},
		{
			name: "negated equal",
			spec: "language!=Go",
			want: []Filter{{Key: "language", Negate: true, Operand: "=", Target: "Go"}},
		},
		{
			name: "negated prefix",
			spec: "id!^cross_",
			want: []Filter{{Key: "id", Negate: true, Operand: "^", Target: "cross_"}},
		},
		{
			name: "greater",
			spec: "versions>1",
			want: []Filter{{Key: "versions", Operand: ">", Target: "1"}},
		},
		{
			name: "contains",
			spec: "services@sqs",
			want: []Filter{{Key: "services", Operand: "@", Target: "sqs"}},
		},
		{
			name: "regexp",
			spec: "id/^s3_(Get|Put)",
			want: []Filter{{Key: "id", Operand: "/", Target: "^s3_(Get|Put)"}},
		},
		{
			name: "several",
			spec: "category=Actions,id^s3_",
			want: []Filter{
				{Key: "category", Operand: "=", Target: "Actions"},
				{Key: "id", Operand: "^", Target: "s3_"},
			},
		},
		{
			name:      "custom delimiter",
			spec:      "title@a, b|id^s3_",
			delimiter: "|",
			want: []Filter{
				{Key: "title", Operand: "@", Target: "a, b"},
				{Key: "id", Operand: "^", Target: "s3_"},
			},
		},
		{
			name: "dotted key",
			spec: "languages.Go=2",
			want: []Filter{{Key: "languages.Go", Operand: "=", Target: "2"}},
		},
		{
			name: "empty target",
			spec: "synopsis=",
			want: []Filter{{Key: "synopsis", Operand: "=", Target: ""}},
		},
		{
			name:    "no operand",
			spec:    "category=Actions,nonsense",
			wantErr: true,
		},
		{
			name:    "no key",
			spec:    "=Actions",
			wantErr: true,
		},
		{
			name:    "bad regexp",
			spec:    "id/[s3",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.delimiter != "" {
				t.Setenv("DOCGEN_FILTER_DELIM", tt.delimiter)
			}

			got, err := BuildFilters(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_String(t *testing.T) {
	assert.Equal(t, "language!=Go", Filter{Key: "language", Negate: true, Operand: "=", Target: "Go"}.String())
	assert.Equal(t, "id^s3_", Filter{Key: "id", Operand: "^", Target: "s3_"}.String())
}

func TestCheckStringOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		filter Filter
		want   bool
	}{
		{"equal", "Actions", Filter{Operand: "=", Target: "Actions"}, true},
		{"not equal", "Actions", Filter{Operand: "=", Target: "Basics"}, false},
		{"negated equal", "Actions", Filter{Operand: "=", Target: "Basics", Negate: true}, true},
		{"negated equal fails", "Actions", Filter{Operand: "=", Target: "Actions", Negate: true}, false},
		{"prefix", "s3_PutObject", Filter{Operand: "^", Target: "s3_"}, true},
		{"no prefix", "sqs_SendMessage", Filter{Operand: "^", Target: "s3_"}, false},
		{"fold", "ACTIONS", Filter{Operand: "~", Target: "actions"}, true},
		{"fold is not substring", "Actions2", Filter{Operand: "~", Target: "actions"}, false},
		{"substring", "Upload an object", Filter{Operand: "@", Target: "object"}, true},
		{"no substring", "Upload a file", Filter{Operand: "@", Target: "object"}, false},
		{"negated substring", "Upload a file", Filter{Operand: "@", Target: "object", Negate: true}, true},
		{"regexp", "s3_GetObject", Filter{Operand: "/", Target: `^s3_(Get|Put)\w+$`}, true},
		{"regexp miss", "s3_Hello", Filter{Operand: "/", Target: `^s3_(Get|Put)`}, false},
		{"negated regexp", "s3_Hello", Filter{Operand: "/", Target: `^s3_(Get|Put)`, Negate: true}, true},
		{"greater", "sqs", Filter{Operand: ">", Target: "s3"}, true},
		{"less", "s3", Filter{Operand: "<", Target: "sqs"}, true},
		{"bad regexp", "s3", Filter{Operand: "/", Target: "[s3"}, false},
		{"unknown operand", "s3", Filter{Operand: "?", Target: "s3"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkStringOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckNumericOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		filter Filter
		want   bool
	}{
		{"equal", 2, Filter{Operand: "=", Target: "2"}, true},
		{"not equal", 2, Filter{Operand: "=", Target: "3"}, false},
		{"negated equal", 2, Filter{Operand: "=", Target: "3", Negate: true}, true},
		{"greater", 4, Filter{Operand: ">", Target: "3"}, true},
		{"not greater", 3, Filter{Operand: ">", Target: "3"}, false},
		{"less", 1, Filter{Operand: "<", Target: "3"}, true},
		{"fraction", 2.5, Filter{Operand: ">", Target: "2"}, true},
		{"prefix falls back to string", 21, Filter{Operand: "^", Target: "2"}, true},
		{"non numeric target falls back to string", 2, Filter{Operand: "=", Target: "v2"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkNumericOperand(tt.value, tt.filter))
		})
	}
}

func TestCheckContainsOperand(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		filter Filter
		want   bool
	}{
		{"list has", []any{"s3", "sqs"}, Filter{Operand: "@", Target: "sqs"}, true},
		{"list lacks", []any{"s3", "sqs"}, Filter{Operand: "@", Target: "sns"}, false},
		{"negated list lacks", []any{"s3", "sqs"}, Filter{Operand: "@", Target: "sns", Negate: true}, true},
		{"negated list has", []any{"s3", "sqs"}, Filter{Operand: "@", Target: "s3", Negate: true}, false},
		{"numbers", []any{float64(1), float64(2)}, Filter{Operand: "@", Target: "2"}, true},
		{"map key", map[string]any{"Go": 2.0}, Filter{Operand: "@", Target: "Go"}, true},
		{"map no key", map[string]any{"Go": 2.0}, Filter{Operand: "@", Target: "Rust"}, false},
		{"negated map no key", map[string]any{"Go": 2.0}, Filter{Operand: "@", Target: "Rust", Negate: true}, true},
		{"scalar", 3, Filter{Operand: "@", Target: "3"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkContainsOperand(tt.value, tt.filter))
		})
	}
}

const dataset = `[
  {"id": "s3_Hello", "attributes": {"title": "Hello Amazon S3", "category": "Hello", "versions": 2, "services": ["s3"], "languages": ["Go", "Python"]}},
  {"id": "s3_PutObject", "attributes": {"title": "Upload an object", "category": "Actions", "versions": 2, "services": ["s3"], "languages": ["Go", "Python"], "hidden": true}},
  {"id": "s3_GettingStarted", "attributes": {"title": "Get started with buckets", "category": "Basics", "versions": 1, "services": ["s3"], "languages": ["Go"]}},
  {"id": "cross_MessageToBucket", "attributes": {"title": "Send a message to a bucket", "category": "Scenarios", "versions": 1, "services": ["s3", "sqs"], "languages": ["Go"], "synopsis": null}}
]`

func exampleAttrs(t *testing.T) attrs.AttrList {
	t.Helper()
	list := attrs.AttrList{}
	require.NoError(t, list.Set(".id,title,category,!versions,!services,!languages"))
	return list
}

func TestFilterDataset(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		wantIDs []string
	}{
		{"no filters", "", []string{"s3_Hello", "s3_PutObject", "s3_GettingStarted", "cross_MessageToBucket"}},
		{"by attr", "category=Actions", []string{"s3_PutObject"}},
		{"by root attr", "id^cross_", []string{"cross_MessageToBucket"}},
		{"hidden attr", "versions>1", []string{"s3_Hello", "s3_PutObject"}},
		{"list contains", "services@sqs", []string{"cross_MessageToBucket"}},
		{"list any item", "languages=Python", []string{"s3_Hello", "s3_PutObject"}},
		{"negated list any item", "languages!=Python", []string{"s3_GettingStarted", "cross_MessageToBucket"}},
		{"all must match", "services@s3,category!=Hello,versions<2", []string{"s3_GettingStarted", "cross_MessageToBucket"}},
		{"not an attr", "hidden=true", []string{"s3_PutObject"}},
		{"missing value never matches", "synopsis=x", nil},
		{"regexp", "title/^(Hello|Upload)", []string{"s3_Hello", "s3_PutObject"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters, err := BuildFilters(tt.spec)
			require.NoError(t, err)

			rows := FilterDataset(gjson.Parse(dataset), exampleAttrs(t), filters)

			var ids []string
			for _, row := range rows {
				ids = append(ids, row["id"].(string))
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilterDataset_Row(t *testing.T) {
	rows := FilterDataset(gjson.Parse(dataset), exampleAttrs(t), []Filter{{Key: "id", Operand: "=", Target: "s3_Hello"}})
	require.Len(t, rows, 1)

	assert.Equal(t, map[string]any{
		"id":        "s3_Hello",
		"title":     "Hello Amazon S3",
		"category":  "Hello",
		"versions":  float64(2),
		"services":  "s3",
		"languages": []any{"Go", "Python"},
	}, rows[0])
}
