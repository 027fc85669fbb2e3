// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// no-cloc
package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileIfChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "README.md")

	wrote, err := WriteFileIfChanged(path, []byte("hello\n"))
	require.NoError(t, err)
	assert.True(t, wrote)

	wrote, err = WriteFileIfChanged(path, []byte("hello"))
	require.NoError(t, err)
	assert.False(t, wrote, "trailing whitespace is not a change")

	wrote, err = WriteFileIfChanged(path, []byte("goodbye\n"))
	require.NoError(t, err)
	assert.True(t, wrote)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "goodbye\n", string(got))
}

func TestChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")

	changed, err := Changed(path, []byte("x"))
	require.NoError(t, err)
	assert.True(t, changed, "missing file")

	require.NoError(t, os.WriteFile(path, []byte("x\n"), 0o600))
	changed, err = Changed(path, []byte("x"))
	require.NoError(t, err)
	assert.False(t, changed)
}
