// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package schema checks metadata records against the rules declared in their
// `validate` struct tags. Rules that need the loaded services, SDKs or the
// cross-content directory are registered as custom validators.
package schema
