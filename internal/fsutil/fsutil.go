// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package fsutil holds the file writing helpers shared by the generators.
package fsutil

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Changed reports whether path is missing or holds something other than
// data, ignoring surrounding whitespace.
func Changed(path string, data []byte) (bool, error) {
	old, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	return !bytes.Equal(bytes.TrimSpace(old), bytes.TrimSpace(data)), nil
}

// WriteFileIfChanged writes data to path, creating parent directories, unless
// the file already holds the same content. It reports whether it wrote.
func WriteFileIfChanged(path string, data []byte) (bool, error) {
	changed, err := Changed(path, data)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
	if !changed {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:mnd
		return false, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:mnd
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
