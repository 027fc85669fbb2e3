// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"fmt"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// ActionSet is the set of API actions an example uses for one service.
// Metadata writes it either as a flow mapping with null values
// (`{PutObject, GetObject}`) or as a sequence; both decode to a sorted,
// de-duplicated list.
type ActionSet []string

// UnmarshalYAML accepts the mapping, sequence and empty forms.
func (a *ActionSet) UnmarshalYAML(value *yaml.Node) error {
	var names []string

	switch value.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			key, val := value.Content[i], value.Content[i+1]
			if val.Tag != "!!null" && val.Value != "" {
				return fmt.Errorf("line %d: action %q must not have a value", key.Line, key.Value)
			}
			names = append(names, key.Value)
		}
	case yaml.SequenceNode:
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: action must be a scalar", item.Line)
			}
			names = append(names, item.Value)
		}
	case yaml.ScalarNode:
		if value.Tag != "!!null" && value.Value != "" {
			return fmt.Errorf("line %d: actions must be a mapping or a list", value.Line)
		}
	default:
		return fmt.Errorf("line %d: actions must be a mapping or a list", value.Line)
	}

	*a = normalizeActions(names)
	return nil
}

// MarshalYAML writes the sequence form.
func (a ActionSet) MarshalYAML() (interface{}, error) {
	return []string(a), nil
}

// Has reports whether the set contains action.
func (a ActionSet) Has(action string) bool {
	return slices.Contains(a, action)
}

// Union returns a new set holding the actions of both.
func (a ActionSet) Union(other ActionSet) ActionSet {
	return normalizeActions(append(slices.Clone(a), other...))
}

func normalizeActions(names []string) ActionSet {
	if len(names) == 0 {
		return ActionSet{}
	}
	sort.Strings(names)
	return ActionSet(slices.Compact(names))
}
