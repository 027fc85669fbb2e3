// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package driller pulls values out of list rows by the dotted attr paths the
// --attrs, --filter and --sort flags use.
package driller
