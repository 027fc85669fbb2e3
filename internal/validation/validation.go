// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package validation checks repository files for denied strings and for
// strings that look like AWS credentials.
package validation

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"unicode"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/staranto/docgen/internal/diag"
	"github.com/staranto/docgen/internal/walker"
)

// DefaultDenyList are the strings no published file may contain.
var DefaultDenyList = []string{
	"alpha-docs-aws.amazon.com",
	"integ-docs-aws.amazon.com",
}

var (
	keyIDRegex  = regexp.MustCompile(`[A-Z0-9]+`)
	secretRegex = regexp.MustCompile(`[A-Za-z0-9/+]+`)
)

const (
	keyIDLen  = 20
	secretLen = 40
)

// File is the shape of the repository's validation.yaml.
type File struct {
	AllowList []string `yaml:"allow_list"`
	DenyList  []string `yaml:"deny_list"`
}

// Rules is a compiled deny list and allow list.
type Rules struct {
	deny  []string
	allow map[string]bool
}

// NewRules combines the default deny list with the given lists. Empty
// entries are ignored.
func NewRules(deny, allow []string) *Rules {
	r := &Rules{allow: make(map[string]bool)}
	for _, d := range slices.Concat(DefaultDenyList, deny) {
		if d = strings.TrimSpace(d); d != "" {
			r.deny = append(r.deny, d)
		}
	}
	for _, a := range allow {
		if a = strings.TrimSpace(a); a != "" {
			r.allow[a] = true
		}
	}
	return r
}

// LoadRules reads path, a validation.yaml, and adds its lists to the extra
// ones. A missing file is not an error.
func LoadRules(path string, deny, allow []string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewRules(deny, allow), nil
		}
		return nil, fmt.Errorf("validation: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("validation: %s: %w", path, err)
	}
	return NewRules(slices.Concat(deny, f.DenyList), slices.Concat(allow, f.AllowList)), nil
}

// CheckContent returns the problems of one file.
func (r *Rules) CheckContent(file string, content []byte) []diag.Problem {
	var problems []diag.Problem

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024) //nolint:mnd
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()

		for _, word := range r.deny {
			if strings.Contains(line, word) {
				problems = append(problems, diag.Problem{
					Kind:   diag.KindDeniedWord,
					File:   file,
					Line:   lineNo,
					Detail: fmt.Sprintf("denied word %q", word),
				})
			}
		}

		for _, s := range keyIDRegex.FindAllString(line, -1) {
			if len(s) == keyIDLen && looksLikeKeyID(s) && !r.allow[s] {
				problems = append(problems, secret(file, lineNo, s, "access key id"))
			}
		}
		for _, s := range secretRegex.FindAllString(line, -1) {
			if len(s) == secretLen && looksLikeSecret(s) && !r.allow[s] {
				problems = append(problems, secret(file, lineNo, s, "secret key"))
			}
		}
	}
	if err := sc.Err(); err != nil {
		problems = append(problems, diag.Problem{Kind: diag.KindFileRead, File: file, Detail: err.Error()})
	}
	return problems
}

func secret(file string, line int, s, what string) diag.Problem {
	return diag.Problem{
		Kind:   diag.KindPossibleSecret,
		File:   file,
		Line:   line,
		Detail: fmt.Sprintf("possible %s %s", what, redact(s)),
	}
}

func looksLikeKeyID(s string) bool {
	if strings.HasPrefix(s, "AKIA") || strings.HasPrefix(s, "ASIA") {
		return true
	}
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

func looksLikeSecret(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0 &&
		strings.IndexFunc(s, unicode.IsLower) >= 0 &&
		strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// redact keeps enough of s to find it again.
func redact(s string) string {
	const keep = 4
	return s[:keep] + strings.Repeat("*", len(s)-2*keep) + s[len(s)-keep:]
}

// Check runs the rules over files in parallel. jobs <= 0 uses GOMAXPROCS.
// The error is only set if ctx is cancelled.
func Check(ctx context.Context, root string, files []walker.File, rules *Rules, jobs int) (*diag.Problems, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	ps := &diag.Problems{}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := walker.ReadFile(root, f.Path)
			if err != nil {
				ps.Add(diag.Problem{Kind: diag.KindFileRead, File: f.Path, Detail: err.Error()})
				return nil
			}
			for _, p := range rules.CheckContent(f.Path, content) {
				ps.Add(p)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}

	log.Debugf("validation: %d files, %d problems", len(files), ps.Len())
	return ps, nil
}
