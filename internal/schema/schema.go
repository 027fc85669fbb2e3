// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/apex/log"
	"github.com/go-playground/validator/v10"

	"github.com/staranto/docgen/internal/diag"
	"github.com/staranto/docgen/internal/entities"
	"github.com/staranto/docgen/internal/metadata"
)

// CrossPrefix is the example id prefix of examples that span services.
const CrossPrefix = "cross"

var (
	exampleIDRegex = regexp.MustCompile(`^[\da-z-]+_[\dA-Za-z-]+(_[\dA-Za-z-]+)*$`)
	endPuncRegex   = regexp.MustCompile(`[.!?]["')\]]*$`)
	anyPuncRegex   = regexp.MustCompile(`[.!?:;,]["')\]]*$`)
)

// Checker validates metadata records against their struct tag schema. The
// custom rules need the loaded services and SDKs, so a Checker is built once
// per load.
type Checker struct {
	validate *validator.Validate
	services map[string]metadata.Service
	sdks     map[string]metadata.SDK
	crossDir string
}

// New returns a Checker resolving service names against services, language
// names against sdks and block content files against crossDir.
func New(services map[string]metadata.Service, sdks map[string]metadata.SDK, crossDir string) *Checker {
	c := &Checker{
		validate: validator.New(),
		services: services,
		sdks:     sdks,
		crossDir: crossDir,
	}

	c.validate.RegisterTagNameFunc(fieldName)

	rules := map[string]validator.Func{
		"service_name":      c.serviceName,
		"example_id":        c.exampleID,
		"language":          c.language,
		"cross_file":        c.crossFile,
		"aws_entity":        awsEntity,
		"upper_start":       upperStart,
		"no_end_punc":       noEndPunc,
		"end_punc":          endPunc,
		"end_punc_or_colon": endPuncOrColon,
	}
	for tag, fn := range rules {
		if err := c.validate.RegisterValidation(tag, fn); err != nil {
			// Only possible for an empty tag or nil func.
			panic(err)
		}
	}

	return c
}

// Service validates one service record.
func (c *Checker) Service(svc metadata.Service, file string) []diag.Problem {
	return c.check(svc, svc.Name, file, svc.Pos)
}

// SDK validates one SDK record.
func (c *Checker) SDK(sdk metadata.SDK, file string) []diag.Problem {
	return c.check(sdk, sdk.Name, file, sdk.Pos)
}

// Example validates one example record.
// Problems below a language are reported in the file that defines it.
func (c *Checker) Example(ex metadata.Example) []diag.Problem {
	problems := c.check(ex, ex.ID, ex.File, ex.Pos)
	for i := range problems {
		if lang := problems[i].Language; lang != "" {
			problems[i].File = ex.FileFor(lang)
		}
	}
	return problems
}

// All validates every record and collects the problems.
func (c *Checker) All(servicesFile, sdksFile string, examples map[string]metadata.Example) *diag.Problems {
	ps := &diag.Problems{}
	for _, svc := range c.services {
		for _, p := range c.Service(svc, servicesFile) {
			ps.Add(p)
		}
	}
	for _, sdk := range c.sdks {
		for _, p := range c.SDK(sdk, sdksFile) {
			ps.Add(p)
		}
	}
	for _, ex := range examples {
		for _, p := range c.Example(ex) {
			ps.Add(p)
		}
	}
	log.Debugf("schema: %d problems", ps.Len())
	return ps
}

func (c *Checker) check(rec any, id, file string, pos metadata.Positions) []diag.Problem {
	err := c.validate.Struct(rec)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []diag.Problem{{Kind: diag.KindInvalidFormat, File: file, Line: pos[""], ID: id, Detail: err.Error()}}
	}

	problems := make([]diag.Problem, 0, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		p := diag.Problem{
			Kind:   kindFor(fe.Tag()),
			File:   file,
			Line:   pos.Line(path),
			ID:     id,
			Detail: fmt.Sprintf("%s: %s", path, message(fe)),
		}
		if lang := languageOf(path); lang != "" {
			p.Language = lang
		}
		problems = append(problems, p)
	}
	return problems
}

// fieldName makes validator namespaces use YAML key names, which match the
// Positions paths recorded by the loader.
func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	if name == "-" {
		name, _, _ = strings.Cut(f.Tag.Get("json"), ",")
	}
	return name
}

// fieldPath drops the leading struct name of a validator namespace.
func fieldPath(ns string) string {
	_, rest, found := strings.Cut(ns, ".")
	if !found {
		return ns
	}
	return rest
}

func languageOf(path string) string {
	const prefix = "languages["
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if i := strings.Index(rest, "]"); i > 0 {
		return rest[:i]
	}
	return ""
}

func kindFor(tag string) diag.Kind {
	switch tag {
	case "required":
		return diag.KindMissingField
	case "service_name":
		return diag.KindUnknownService
	case "language":
		return diag.KindUnknownLanguage
	case "example_id":
		return diag.KindInvalidExampleID
	case "cross_file":
		return diag.KindMissingBlockContent
	case "aws_entity":
		return diag.KindAWSNotEntity
	default:
		return diag.KindInvalidFormat
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		switch fe.Kind() {
		case reflect.Map, reflect.Slice:
			return fmt.Sprintf("must have at least %s entries", fe.Param())
		default:
			return fmt.Sprintf("must be at least %s", fe.Param())
		}
	case "lowercase":
		return fmt.Sprintf("%q must be lower case", fe.Value())
	case "service_name":
		return fmt.Sprintf("unknown service %q", fe.Value())
	case "language":
		return fmt.Sprintf("unknown language %q", fe.Value())
	case "example_id":
		return fmt.Sprintf("%q must look like <service>_<Action> with a known service or %q prefix", fe.Value(), CrossPrefix)
	case "cross_file":
		return fmt.Sprintf("cross-content file %q not found", fe.Value())
	case "aws_entity":
		return fmt.Sprintf("use an entity instead of %s in %q",
			strings.Join(entities.CheckAWS(fmt.Sprint(fe.Value())), ", "), fe.Value())
	case "upper_start":
		return fmt.Sprintf("%q must start with an upper case letter", fe.Value())
	case "no_end_punc":
		return fmt.Sprintf("%q must not end with punctuation", fe.Value())
	case "end_punc":
		return fmt.Sprintf("%q must end with punctuation", fe.Value())
	case "end_punc_or_colon":
		return fmt.Sprintf("%q must end with punctuation or a colon", fe.Value())
	default:
		return fmt.Sprintf("failed %s", fe.Tag())
	}
}

func (c *Checker) serviceName(fl validator.FieldLevel) bool {
	_, ok := c.services[fl.Field().String()]
	return ok
}

func (c *Checker) language(fl validator.FieldLevel) bool {
	_, ok := c.sdks[fl.Field().String()]
	return ok
}

func (c *Checker) exampleID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if !exampleIDRegex.MatchString(id) {
		return false
	}
	prefix, _, _ := strings.Cut(id, "_")
	if prefix == CrossPrefix {
		return true
	}
	_, ok := c.services[prefix]
	return ok
}

func (c *Checker) crossFile(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if filepath.IsAbs(name) || strings.Contains(filepath.ToSlash(name), "../") {
		return false
	}
	info, err := os.Stat(filepath.Join(c.crossDir, name))
	return err == nil && !info.IsDir()
}

func awsEntity(fl validator.FieldLevel) bool {
	return len(entities.CheckAWS(fl.Field().String())) == 0
}

func upperStart(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r) || unicode.IsDigit(r) || r == '&' || r == '<'
}

func noEndPunc(fl validator.FieldLevel) bool {
	return !anyPuncRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

func endPunc(fl validator.FieldLevel) bool {
	return endPuncRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

func endPuncOrColon(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	return endPuncRegex.MatchString(s) || strings.HasSuffix(s, ":")
}
