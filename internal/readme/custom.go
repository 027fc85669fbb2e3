// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package readme

import (
	"fmt"
	"regexp"
	"strings"
)

var customStartRegex = regexp.MustCompile(`<!--custom\.([\w.-]+)\.start-->`)

func customStart(name string) string { return fmt.Sprintf("<!--custom.%s.start-->", name) }
func customEnd(name string) string   { return fmt.Sprintf("<!--custom.%s.end-->", name) }

// CustomBlocks returns the hand written regions of an existing README keyed
// by name. A start marker without its end marker is ignored.
func CustomBlocks(content []byte) map[string]string {
	text := string(content)
	blocks := make(map[string]string)
	for _, loc := range customStartRegex.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		rest := text[loc[1]:]
		end := strings.Index(rest, customEnd(name))
		if end < 0 {
			continue
		}
		if _, dup := blocks[name]; !dup {
			blocks[name] = rest[:end]
		}
	}
	return blocks
}

// custom renders a block with its preserved content, or an empty block.
func custom(blocks map[string]string, name string) string {
	return customStart(name) + blocks[name] + customEnd(name)
}
