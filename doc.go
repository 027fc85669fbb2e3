// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// docgen is the main package for the docgen command line tool. It loads the
// metadata and sources of a code example repository, validates them, renders
// the per SDK READMEs and publishes the results.
package main
