// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package output filters, sorts and emits the rows of the list commands as
// a text table, JSON, YAML or the raw JSON:API payload.
package output
