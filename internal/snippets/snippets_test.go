// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// no-cloc
package snippets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/docgen/internal/diag"
	"github.com/staranto/docgen/internal/walker"
)

func lines(l ...string) []byte {
	return []byte(strings.Join(l, "\n") + "\n")
}

func TestParse_Nested(t *testing.T) {
	content := lines(
		"package main",
		"",
		"// snippet-start:[go.s3.outer]",
		"func main() {",
		"\t// snippet-start:[go.s3.inner]",
		"\tfmt.Println(\"hi\")",
		"\t// snippet-end:[go.s3.inner]",
		"}",
		"// snippet-end:[go.s3.outer]",
	)

	got, problems := Parse("gov2/main.go", content)
	assert.Empty(t, problems)
	assert.Equal(t, []Snippet{
		{ID: "go.s3.outer", File: "gov2/main.go", LineStart: 3, LineEnd: 9, Code: "func main() {\n\tfmt.Println(\"hi\")\n}"},
		{ID: "go.s3.inner", File: "gov2/main.go", LineStart: 5, LineEnd: 7, Code: "fmt.Println(\"hi\")"},
	}, got)
}

func TestParse_Overlapping(t *testing.T) {
	content := lines(
		"# snippet-start:[a]",
		"x = 1",
		"# snippet-start:[b]",
		"y = 2",
		"# snippet-end:[a]",
		"z = 3",
		"# snippet-end:[b]",
	)

	got, problems := Parse("p.py", content)
	assert.Empty(t, problems)
	require.Len(t, got, 2)
	assert.Equal(t, "x = 1\ny = 2", got[0].Code)
	assert.Equal(t, "y = 2\nz = 3", got[1].Code)
}

func TestParse_Problems(t *testing.T) {
	type want struct {
		kind diag.Kind
		line int
	}

	tests := []struct {
		name     string
		content  []byte
		snippets []string
		problems []want
	}{
		{
			name:     "duplicate start",
			content:  lines("// snippet-start:[a]", "// snippet-start:[a]", "// snippet-end:[a]"),
			snippets: []string{"a"},
			problems: []want{{diag.KindDuplicateSnippetStart, 2}},
		},
		{
			name:     "end without start",
			content:  lines("x", "// snippet-end:[b]"),
			problems: []want{{diag.KindMissingSnippetStart, 2}},
		},
		{
			name:     "never closed",
			content:  lines("// snippet-start:[c]", "x"),
			problems: []want{{diag.KindSnippetNotClosed, 1}},
		},
		{
			name:     "invalid characters",
			content:  lines("// snippet-start:[bad tag]", "// snippet-end:[bad tag]"),
			problems: []want{{diag.KindInvalidSnippetTag, 1}, {diag.KindInvalidSnippetTag, 2}},
		},
		{
			name:     "empty tag",
			content:  lines("// snippet-start:[]"),
			problems: []want{{diag.KindInvalidSnippetTag, 1}},
		},
		{
			name:     "unterminated tag",
			content:  lines("// snippet-start:[open"),
			problems: []want{{diag.KindInvalidSnippetTag, 1}},
		},
		{
			name:     "tag reused in the same file",
			content:  lines("// snippet-start:[a]", "// snippet-end:[a]", "// snippet-start:[a]", "// snippet-end:[a]"),
			snippets: []string{"a"},
			problems: []want{{diag.KindDuplicateSnippetTag, 3}},
		},
		{
			name:     "allowed punctuation",
			content:  lines("// snippet-start:[cpp.example_code.s3:PutObject/v2+]", "// snippet-end:[cpp.example_code.s3:PutObject/v2+]"),
			snippets: []string{"cpp.example_code.s3:PutObject/v2+"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, problems := Parse("f.txt", tt.content)

			var ids []string
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.snippets, ids)

			var kinds []want
			for _, p := range problems {
				assert.Equal(t, "f.txt", p.File)
				kinds = append(kinds, want{p.Kind, p.Line})
			}
			assert.Equal(t, tt.problems, kinds)
		})
	}
}

func TestDedent(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{"common spaces", []string{"    a", "      b", "", "    c  "}, "a\n  b\n\nc"},
		{"tabs", []string{"\t\tif x {", "\t\t\ty()", "\t\t}"}, "if x {\n\ty()\n}"},
		{"blank edges", []string{"", "  x", "   "}, "x"},
		{"mixed indent", []string{"\t a", "\t\tb"}, " a\n\tb"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dedent(tt.lines))
		})
	}
}

func TestFromFile(t *testing.T) {
	s := FromFile("python/s3/put.py", []byte("a\r\nb\n\n"))
	assert.Equal(t, Snippet{ID: "python/s3/put.py", File: "python/s3/put.py", LineStart: 1, LineEnd: 2, Code: "a\nb"}, s)
}

func writeRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"gov2/s3/put.go":      "// snippet-start:[gov2.s3.PutObject]\nput()\n// snippet-end:[gov2.s3.PutObject]\n",
		"python/s3/put.py":    "# snippet-start:[python.s3.put]\nput()\n# snippet-end:[python.s3.put]\n",
		"python/s3/copy.py":   "# snippet-start:[gov2.s3.PutObject]\ncopy()\n# snippet-end:[gov2.s3.PutObject]\n",
		"python/s3/broken.py": "# snippet-start:[python.s3.broken]\n",
		"node_modules/x.js":   "// snippet-start:[js.ignored]\n// snippet-end:[js.ignored]\n",
	}
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	return root
}

func TestScan(t *testing.T) {
	cache := t.TempDir()
	t.Setenv("DOCGEN_CACHE_DIR", cache)
	t.Setenv("DOCGEN_CACHE", "")
	root := writeRepo(t)

	res, ps, err := Scan(context.Background(), root, Options{Jobs: 2})
	require.NoError(t, err)

	assert.Len(t, res.Files, 4)
	assert.ElementsMatch(t, []string{"gov2.s3.PutObject", "python.s3.put"}, keys(res.Snippets))
	assert.Equal(t, "gov2/s3/put.go", res.Snippets["gov2.s3.PutObject"].File)
	assert.Equal(t, 1, ps.Count(diag.KindDuplicateSnippetTag))
	assert.Equal(t, 1, ps.Count(diag.KindSnippetNotClosed))

	entries, err := os.ReadDir(filepath.Join(cache, "snippets"))
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	again, ps2, err := Scan(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, res.Snippets, again.Snippets)
	assert.Equal(t, ps.Sorted(), ps2.Sorted())
}

func TestScan_NoCache(t *testing.T) {
	cache := t.TempDir()
	t.Setenv("DOCGEN_CACHE_DIR", cache)
	root := writeRepo(t)

	_, _, err := Scan(context.Background(), root, Options{NoCache: true, Walk: walker.Options{Extensions: []string{".go"}}})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(cache, "snippets"))
	assert.True(t, os.IsNotExist(err))
}

func TestScan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Scan(ctx, writeRepo(t), Options{NoCache: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	root := writeRepo(t)

	s, err := LoadFile(root, "python/s3/put.py")
	require.NoError(t, err)
	assert.Equal(t, 3, s.LineEnd)

	_, err = LoadFile(root, "python/s3/missing.py")
	assert.Error(t, err)
}

func keys(m map[string]Snippet) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
