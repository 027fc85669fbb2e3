// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package version holds the build version, overridden at link time with
// -ldflags "-X github.com/staranto/docgen/internal/version.Version=...".
package version

var Version = "0.0.0-dev"
