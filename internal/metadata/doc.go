// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package metadata holds the typed records of the example metadata files and
// the loaders that read them. Loaders collect problems instead of stopping at
// the first one, and remember the source line of every key so later passes
// can point at the offending line.
package metadata
