// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var indexRegex = regexp.MustCompile(`^(.*)\[(\d+)\]$`)

// Driller walks path through the JSON document and returns what it finds.
// Segments are separated by "." and may end in an [n] index. A one element
// array is stepped through transparently, so `services.name` works whether
// the row holds one service or an object. Anything missing yields an empty
// result.
func Driller(json string, path string) gjson.Result {
	cur := gjson.Parse(json)
	if path == "" {
		return unwrap(cur)
	}

	for _, segment := range strings.Split(path, ".") {
		name, index := segment, -1
		if m := indexRegex.FindStringSubmatch(segment); m != nil {
			name = m[1]
			index, _ = strconv.Atoi(m[2])
		}

		if name != "" {
			cur = unwrap(cur)
			if !cur.IsObject() {
				return gjson.Result{}
			}
			next, ok := cur.Map()[name]
			if !ok {
				return gjson.Result{}
			}
			cur = next
		}

		if index >= 0 {
			if !cur.IsArray() {
				return gjson.Result{}
			}
			items := cur.Array()
			if index >= len(items) {
				return gjson.Result{}
			}
			cur = items[index]
		}
	}

	return unwrap(cur)
}

// unwrap returns the element of a one element array and r otherwise.
func unwrap(r gjson.Result) gjson.Result {
	if r.IsArray() {
		if items := r.Array(); len(items) == 1 {
			return items[0]
		}
	}
	return r
}
