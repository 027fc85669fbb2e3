// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const left = `{
  "version": "1.0.0",
  "stats": {"examples": 2},
  "services": {"s3": {"short": "Amazon S3"}},
  "examples": {
    "s3_Hello": {"title": "Hello Amazon S3"},
    "s3_PutObject": {"title": "Upload an object"}
  },
  "snippets": {"gov2.s3.Hello": {"file": "gov2/s3/hello.go", "line_start": 3}}
}`

const right = `{
  "version": "1.1.0",
  "stats": {"examples": 2},
  "services": {"s3": {"short": "Amazon S3"}},
  "examples": {
    "s3_Hello": {"title": "Hello Amazon S3!"},
    "sqs_Hello": {"title": "Hello Amazon SQS"}
  },
  "snippets": {"gov2.s3.Hello": {"file": "gov2/s3/hello.go", "line_start": 3}}
}`

func TestDiff_Summary(t *testing.T) {
	res, err := Diff([]byte(left), []byte(right), Options{Ignore: DefaultIgnore})
	require.NoError(t, err)

	assert.True(t, res.Modified)
	assert.Equal(t, []Change{
		{Section: "examples", Key: "s3_Hello", Change: "modified"},
		{Section: "examples", Key: "s3_PutObject", Change: "removed"},
		{Section: "examples", Key: "sqs_Hello", Change: "added"},
	}, res.Changes)
	assert.Equal(t, "~ examples s3_Hello\n- examples s3_PutObject\n+ examples sqs_Hello\n", res.Text)
}

func TestDiff_Unchanged(t *testing.T) {
	res, err := Diff([]byte(left), []byte(left), Options{Format: "ascii"})
	require.NoError(t, err)
	assert.False(t, res.Modified)
	assert.Empty(t, res.Changes)
	assert.Empty(t, res.Text)
}

func TestDiff_IgnoredKeys(t *testing.T) {
	other := `{"version": "9.9.9", "stats": {"examples": 7}}`
	base := `{"version": "1.0.0", "stats": {"examples": 2}}`

	res, err := Diff([]byte(base), []byte(other), Options{Ignore: DefaultIgnore})
	require.NoError(t, err)
	assert.False(t, res.Modified)

	res, err = Diff([]byte(base), []byte(other), Options{})
	require.NoError(t, err)
	assert.True(t, res.Modified)
	assert.Equal(t, "~ stats\n~ version\n", res.Text)
}

func TestDiff_ProblemsOnly(t *testing.T) {
	base := `{"examples": {"s3_Hello": {"title": "Hello"}}, "problems": []}`
	other := `{"examples": {"s3_Hello": {"title": "Hello"}}, "problems": [
	  {"kind": "unknown-entity", "file": "s3_metadata.yaml", "line": 3, "id": "s3_Hello"}
	]}`

	tests := []struct {
		name        string
		left, right string
		text        string
	}{
		{"new problem", base, other, "~ problems 0 -> 1\n"},
		{"fixed problem", other, base, "~ problems 1 -> 0\n"},
		{"problems key added", `{"examples": {}}`, `{"examples": {}, "problems": []}`, "+ problems\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Diff([]byte(tt.left), []byte(tt.right), Options{Ignore: DefaultIgnore})
			require.NoError(t, err)
			assert.True(t, res.Modified)
			assert.NotEmpty(t, res.Changes)
			assert.Equal(t, tt.text, res.Text)
		})
	}
}

func TestDiff_Formats(t *testing.T) {
	res, err := Diff([]byte(left), []byte(right), Options{Format: "ascii", Ignore: DefaultIgnore})
	require.NoError(t, err)
	assert.Contains(t, res.Text, `-    "s3_PutObject": {`)
	assert.Contains(t, res.Text, `+    "sqs_Hello": {`)

	res, err = Diff([]byte(left), []byte(right), Options{Format: "delta", Ignore: DefaultIgnore})
	require.NoError(t, err)
	assert.Contains(t, res.Text, `"sqs_Hello"`)

	_, err = Diff([]byte(left), []byte(right), Options{Format: "html"})
	assert.ErrorContains(t, err, "unknown diff format")
}

func TestDiff_BadInput(t *testing.T) {
	_, err := Diff([]byte("{"), []byte(right), Options{})
	assert.ErrorContains(t, err, "left snapshot")

	_, err = Diff([]byte(left), []byte("[]"), Options{})
	assert.ErrorContains(t, err, "right snapshot")
}
