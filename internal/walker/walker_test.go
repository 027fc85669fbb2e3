// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package walker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func paths(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":                     "*.log\ngenerated/\n",
		"gov2/s3/actions/bucket.go":      "package actions\n",
		"gov2/s3/actions/bucket.log":     "noise\n",
		"gov2/s3/generated/mock.go":      "package generated\n",
		"gov2/s3/README.md":              "# S3\n",
		"python/s3/.gitignore":           "scratch.py\n",
		"python/s3/put.py":               "print()\n",
		"python/s3/scratch.py":           "print()\n",
		"python/s3/__pycache__/x.py":     "print()\n",
		"python/other/scratch.py":        "print()\n",
		"javav2/target/classes/App.java": "class App {}\n",
		"node_modules/lib/index.js":      "x\n",
		".doc_gen/metadata/s3.yaml":      "a: b\n",
		"image.png":                      "png",
	})

	files, err := Files(context.Background(), root, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"gov2/s3/README.md",
		"gov2/s3/actions/bucket.go",
		"python/other/scratch.py",
		"python/s3/put.py",
	}, paths(files))

	for _, f := range files {
		assert.Equal(t, filepath.Join(root, filepath.FromSlash(f.Path)), f.Abs)
		assert.Positive(t, f.Size)
		assert.False(t, f.ModTime.IsZero())
	}
}

func TestFiles_Options(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":        "*.log\n",
		"a/main.go":         "package main\n",
		"a/debug.log":       "x\n",
		"build/out.go":      "package out\n",
		"docs/notes.custom": "x\n",
	})

	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "defaults",
			want: []string{"a/main.go"},
		},
		{
			name: "no gitignore and every extension",
			opts: Options{NoGitignore: true, Extensions: []string{}},
			want: []string{".gitignore", "a/debug.log", "a/main.go", "docs/notes.custom"},
		},
		{
			name: "empty skip list",
			opts: Options{Skip: []string{}},
			want: []string{"a/main.go", "build/out.go"},
		},
		{
			name: "custom extension",
			opts: Options{Extensions: []string{".custom"}},
			want: []string{"docs/notes.custom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := Files(context.Background(), root, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, paths(files))
		})
	}
}

func TestFiles_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "package a\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Files(ctx, root, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a/b.go": "package b\n"})

	data, err := ReadFile(root, "a/b.go")
	require.NoError(t, err)
	assert.Equal(t, "package b\n", string(data))
}
