// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// no-cloc
package snippets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".snippets")
	all := map[string]Snippet{
		"gov2.s3.Hello":       {File: "gov2/s3/hello.go", Code: "func main() {}"},
		"python.s3.PutObject": {File: "python/example_code/s3/put.py", Code: "s3.put_object()"},
	}

	stats, err := Write(dir, all)
	require.NoError(t, err)
	assert.Equal(t, WriteStats{Written: 2}, stats)

	b, err := os.ReadFile(filepath.Join(dir, FileName("gov2.s3.Hello")))
	require.NoError(t, err)
	assert.Equal(t, "func main() {}\n", string(b))

	stats, err = Write(dir, all)
	require.NoError(t, err)
	assert.Equal(t, WriteStats{Unchanged: 2}, stats)

	// Stale .txt files go, anything else stays.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gone.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o600))
	delete(all, "python.s3.PutObject")

	stats, err = Write(dir, all)
	require.NoError(t, err)
	assert.Equal(t, WriteStats{Unchanged: 1, Removed: 2}, stats)
	assert.NoFileExists(t, filepath.Join(dir, "gone.txt"))
	assert.NoFileExists(t, filepath.Join(dir, FileName("python.s3.PutObject")))
	assert.FileExists(t, filepath.Join(dir, "README.md"))
}
