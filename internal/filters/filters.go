// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package filters implements the --filter flag of the list commands.
//
// A filter is key, operand and target, such as `category=Actions`. The
// operands are:
//
//	=  equal              ~  equal ignoring case
//	^  has prefix         @  contains (substring, list item or map key)
//	<  less than          >  greater than
//	/  matches regexp
//
// Any operand may be negated with a leading !, as in `language!=Go`. Several
// filters are joined with "," (or DOCGEN_FILTER_DELIM) and must all match.
package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/docgen/internal/attrs"
	"github.com/staranto/docgen/internal/driller"
)

var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter is one parsed --filter expression.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

func (f Filter) String() string {
	neg := ""
	if f.Negate {
		neg = "!"
	}
	return f.Key + neg + f.Operand + f.Target
}

// Delimiter returns the separator between filters in a spec.
func Delimiter() string {
	if d, ok := os.LookupEnv("DOCGEN_FILTER_DELIM"); ok && d != "" {
		return d
	}
	return ","
}

// BuildFilters parses a filter spec. An empty spec yields no filters.
func BuildFilters(spec string) ([]Filter, error) {
	if spec == "" {
		return nil, nil
	}

	var filters []Filter
	for _, part := range strings.Split(spec, Delimiter()) {
		parts := filterRegex.FindStringSubmatch(part)
		if parts == nil || strings.TrimSpace(parts[1]) == "" {
			return nil, fmt.Errorf("invalid filter %q", part)
		}

		operand, negate := strings.CutPrefix(parts[2], "!")
		f := Filter{
			Key:     strings.TrimSpace(parts[1]),
			Negate:  negate,
			Operand: operand,
			Target:  parts[3],
		}
		if f.Operand == "/" {
			if _, err := regexp.Compile(f.Target); err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", part, err)
			}
		}
		filters = append(filters, f)
	}

	return filters, nil
}

// FilterDataset returns the rows of candidates matching every filter, each
// reduced to the attrs keyed by their output key. Values are not transformed
// here; that happens on output.
func FilterDataset(candidates gjson.Result, list attrs.AttrList, filters []Filter) []map[string]any {
	resolved := resolve(list, filters)

	var rows []map[string]any
	for _, candidate := range candidates.Array() {
		if !Match(candidate, resolved) {
			continue
		}

		row := make(map[string]any, len(list))
		for _, attr := range list {
			if attr.Key == "*" {
				continue
			}
			row[attr.OutputKey] = driller.Driller(candidate.Raw, attr.Key).Value()
		}
		rows = append(rows, row)
	}

	return rows
}

// resolve rewrites filter keys naming an attr's output key to the attr's
// path. Other keys are taken as paths under the row attributes.
func resolve(list attrs.AttrList, filters []Filter) []Filter {
	out := make([]Filter, 0, len(filters))
	for _, f := range filters {
		key := ""
		for _, attr := range list {
			if attr.OutputKey == f.Key {
				key = attr.Key
				break
			}
		}
		switch {
		case key != "":
		case strings.HasPrefix(f.Key, "."):
			key = f.Key[1:]
		default:
			log.Debugf("filter key %s is not an attr, using attributes.%s", f.Key, f.Key)
			key = "attributes." + f.Key
		}
		f.Key = key
		out = append(out, f)
	}
	return out
}

// Match reports whether the row satisfies every filter. Filter keys are
// paths into the row. A missing value never matches.
func Match(row gjson.Result, filters []Filter) bool {
	for _, f := range filters {
		value := driller.Driller(row.Raw, f.Key).Value()
		if value == nil || !f.match(value) {
			return false
		}
	}
	return true
}

func (f Filter) match(value any) bool {
	switch v := value.(type) {
	case string:
		return checkStringOperand(v, f)
	case bool:
		return checkStringOperand(strconv.FormatBool(v), f)
	case float64:
		return checkNumericOperand(v, f)
	case []any:
		if f.Operand == "@" {
			return checkContainsOperand(v, f)
		}
		// Any item satisfying the operand matches the list.
		plain := f
		plain.Negate = false
		for _, item := range v {
			if item != nil && plain.match(item) {
				return !f.Negate
			}
		}
		return f.Negate
	case map[string]any:
		if f.Operand == "@" {
			return checkContainsOperand(v, f)
		}
		log.Debugf("operand %s unsupported for object at %s", f.Operand, f.Key)
		return false
	default:
		log.Errorf("unsupported type for filtering: %T", value)
		return false
	}
}

// checkContainsOperand tests list membership or map key presence.
func checkContainsOperand(value any, f Filter) bool {
	found := false
	switch val := value.(type) {
	case []any:
		for _, item := range val {
			if fmt.Sprint(item) == f.Target {
				found = true
				break
			}
		}
	case map[string]any:
		_, found = val[f.Target]
	default:
		log.Errorf("unsupported type for contains filtering: %T", value)
		return false
	}
	return found != f.Negate
}

// checkNumericOperand compares numerically. A target that is not a number
// falls back to comparing strings, so `version=2` and `version~v2` both work
// where sensible.
func checkNumericOperand(value float64, f Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(f.Target), 64)
	if err != nil {
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), f)
	}

	var result bool
	switch f.Operand {
	case "=":
		result = value == tgt
	case ">":
		result = value > tgt
	case "<":
		result = value < tgt
	default:
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), f)
	}
	return result != f.Negate
}

func checkStringOperand(value string, f Filter) bool {
	var result bool
	switch f.Operand {
	case "=":
		result = value == f.Target
	case "~":
		result = strings.EqualFold(value, f.Target)
	case "^":
		result = strings.HasPrefix(value, f.Target)
	case ">":
		result = value > f.Target
	case "<":
		result = value < f.Target
	case "@":
		result = strings.Contains(value, f.Target)
	case "/":
		re, err := regexp.Compile(f.Target)
		if err != nil {
			log.Errorf("invalid regex: %s", f.Target)
			return false
		}
		result = re.MatchString(value)
	default:
		log.Errorf("unsupported filtering operand: %s", f.Operand)
		return false
	}
	return result != f.Negate
}
