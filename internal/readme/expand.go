// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package readme

import "github.com/staranto/docgen/internal/entities"

// expander expands entities for one README and remembers the unknown ones.
type expander struct {
	table   *entities.Table
	seen    map[string]bool
	unknown []string
}

func (x *expander) expand(text string) string {
	out, unknown := x.table.Expand(text)
	for _, name := range unknown {
		if x.seen == nil {
			x.seen = make(map[string]bool)
		}
		if !x.seen[name] {
			x.seen[name] = true
			x.unknown = append(x.unknown, name)
		}
	}
	return out
}

func (x *expander) expandAll(texts []string) []string {
	if len(texts) == 0 {
		return nil
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = x.expand(t)
	}
	return out
}
