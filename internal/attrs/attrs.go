// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package attrs parses the --attrs flag of the list commands. Each attr names
// a value to pull out of a row, the column it lands in and how it is
// transformed on the way out.
package attrs

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/docgen/internal/config"
)

// Attr is one column of list output.
type Attr struct {
	// Key is the path into the row, relative to the row root. Keys given
	// without a leading "." are looked up under the row's attributes.
	Key string
	// Include is false for attrs that only feed --filter or --sort.
	Include bool
	// OutputKey is the column title and the key in json and yaml output.
	OutputKey string
	// TransformSpec holds the transformations applied to the value: l and u
	// for case, t for local time, and an integer for length.
	TransformSpec string
}

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Transform applies the TransformSpec to value. Only strings are changed.
func (a *Attr) Transform(value any) any {
	result, ok := value.(string)
	if !ok || a.TransformSpec == "" {
		return value
	}

	if strings.ContainsAny(a.TransformSpec, "tT") {
		result = a.localTime(result)
	}

	// The last case letter wins so an attr's own spec overrides the global
	// one prepended by SetGlobalTransformSpec.
	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")
	switch {
	case lastL > lastU:
		result = strings.ToLower(result)
	case lastU > lastL:
		result = strings.ToUpper(result)
	}

	if match := lengthRegex.FindAllString(a.TransformSpec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		result = truncate(result, l)
	}

	return result
}

// localTime converts an RFC3339 timestamp into the configured timezone. With
// no timezone configured the value is returned unchanged.
func (a *Attr) localTime(value string) string {
	tz, _ := config.GetString("timezone", "")
	if tz == "" {
		tz = os.Getenv("TZ")
	}
	if tz == "" {
		return value
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.WithError(err).Debugf("unknown timezone %s", tz)
		return value
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		// Not a timestamp, stop trying for the rest of the rows.
		log.Debugf("not a timestamp: %s", value)
		a.TransformSpec = strings.NewReplacer("t", "", "T", "").Replace(a.TransformSpec)
		return value
	}
	return t.In(loc).Format("2006-01-02T15:04:05MST")
}

// truncate shortens s to n runes. A negative n keeps both ends and joins them
// with "..".
func truncate(s string, n int) string {
	r := []rune(s)
	limit := n
	if limit < 0 {
		limit = -limit
	}
	if len(r) <= limit {
		return s
	}
	if n >= 0 {
		return string(r[:n])
	}
	keep := limit/2 - 1
	if keep < 1 {
		return string(r[:limit])
	}
	return string(r[:keep]) + ".." + string(r[len(r)-keep:])
}

// AttrList is the parsed --attrs flag. It implements the flag value
// interface so it can be filled straight from the command line.
type AttrList []Attr

// String renders the list in --attrs form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Set parses a comma separated list of key[:output[:transform]] specs. A key
// prefixed with ! is kept for filtering and sorting but not displayed. A key
// already in the list, such as a command default, is updated in place.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		attr := parseSpec(spec)
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec %q", spec)
		}

		if i := a.index(attr.Key); i >= 0 {
			(*a)[i].Include = attr.Include
			(*a)[i].OutputKey = attr.OutputKey
			(*a)[i].TransformSpec = attr.TransformSpec
			continue
		}

		switch {
		case attr.Key == "*":
		case strings.HasPrefix(attr.Key, "."):
			attr.Key = attr.Key[1:]
		default:
			attr.Key = "attributes." + attr.Key
		}

		*a = append(*a, attr)
	}

	return nil
}

func parseSpec(spec string) Attr {
	fields := strings.Split(spec, ":")

	attr := Attr{Include: true, Key: strings.TrimSpace(fields[0])}
	if rest, ok := strings.CutPrefix(attr.Key, "!"); ok {
		attr.Include = false
		attr.Key = rest
	}
	if attr.Key == "*" {
		attr.Include = false
	}

	switch {
	case len(fields) == 1:
		segments := strings.Split(strings.TrimPrefix(attr.Key, "."), ".")
		attr.OutputKey = segments[len(segments)-1]
	case strings.TrimSpace(fields[1]) != "":
		attr.OutputKey = strings.TrimSpace(fields[1])
	default:
		attr.OutputKey = attr.Key
	}

	if len(fields) > 2 {
		attr.TransformSpec = strings.TrimSpace(fields[2])
	}
	return attr
}

// index finds an existing attr by either its key or its column name.
func (a *AttrList) index(key string) int {
	for i := range *a {
		k := (*a)[i].Key
		if k == key || k == "attributes."+key || k == strings.TrimPrefix(key, ".") || (*a)[i].OutputKey == key {
			return i
		}
	}
	return -1
}

// SetGlobalTransformSpec prepends the transform of the "*" attr, if any, to
// every attr in the list.
func (a *AttrList) SetGlobalTransformSpec() {
	spec := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}
	if spec == "" {
		return
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
}

// Type names the flag value type for help output.
func (a *AttrList) Type() string {
	return "list"
}
