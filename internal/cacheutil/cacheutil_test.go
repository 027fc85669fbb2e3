// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package cacheutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DOCGEN_CACHE_DIR", dir)
	t.Setenv("DOCGEN_CACHE", "")
	return dir
}

func TestEnabled(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"1", true},
		{"true", true},
		{"0", false},
		{"false", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("DOCGEN_CACHE", tt.value)
			assert.Equal(t, tt.want, Enabled())
		})
	}
}

func TestEnsureBaseDir(t *testing.T) {
	base := filepath.Join(setup(t), "nested")
	t.Setenv("DOCGEN_CACHE_DIR", base)

	got, ok, err := EnsureBaseDir()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, base, got)
	assert.DirExists(t, base)

	t.Setenv("DOCGEN_CACHE", "0")
	_, ok, err = EnsureBaseDir()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReadWrite(t *testing.T) {
	base := setup(t)
	subdirs := []string{"snippets"}

	_, ok := Read(subdirs, "gov2/s3/hello.go")
	assert.False(t, ok)

	require.NoError(t, Write(subdirs, "gov2/s3/hello.go", []byte("data")))

	entry, ok := Read(subdirs, "gov2/s3/hello.go")
	require.True(t, ok)
	assert.Equal(t, []byte("data"), entry.Data)
	assert.Equal(t, "gov2/s3/hello.go", entry.Key)
	assert.Len(t, entry.EncodedKey, 64)
	assert.Equal(t, filepath.Join(base, "snippets", entry.EncodedKey), entry.Path)

	p, ok := EntryPath(subdirs, "gov2/s3/hello.go")
	assert.True(t, ok)
	assert.Equal(t, entry.Path, p)

	t.Setenv("DOCGEN_CACHE", "false")
	_, ok = Read(subdirs, "gov2/s3/hello.go")
	assert.False(t, ok)
}

func TestJSON(t *testing.T) {
	setup(t)

	type scan struct {
		Size int      `json:"size"`
		Tags []string `json:"tags"`
	}
	in := scan{Size: 42, Tags: []string{"gov2.s3.Hello"}}
	require.NoError(t, WriteJSON(nil, "k", in))

	var out scan
	require.True(t, ReadJSON(nil, "k", &out))
	assert.Equal(t, in, out)

	require.NoError(t, Write(nil, "bad", []byte("{")))
	assert.False(t, ReadJSON(nil, "bad", &out))
}

func TestPurge(t *testing.T) {
	setup(t)

	require.NoError(t, Write(nil, "old", []byte("x")))
	require.NoError(t, Write(nil, "new", []byte("y")))
	oldPath, _ := EntryPath(nil, "old")
	stale := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, stale, stale))

	require.NoError(t, Purge(0))
	assert.FileExists(t, oldPath)

	require.NoError(t, Purge(2))
	assert.NoFileExists(t, oldPath)
	_, ok := EntryPath(nil, "new")
	assert.True(t, ok)
}
