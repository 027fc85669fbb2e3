// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"
	"gopkg.in/yaml.v3"

	"github.com/staranto/docgen/internal/diag"
)

const (
	// ServicesFile and SDKsFile live in the metadata directory.
	ServicesFile = "services.yaml"
	SDKsFile     = "sdks.yaml"

	// MetadataSuffix marks example metadata files.
	MetadataSuffix = "_metadata.yaml"
)

var (
	lineRegex       = regexp.MustCompile(`line (\d+)`)
	unmarshalerType = reflect.TypeOf((*yaml.Unmarshaler)(nil)).Elem()
)

// ParseServices reads services.yaml. Records that fail to decode are left out
// and reported; the rest are returned.
func ParseServices(path string) (map[string]Service, *diag.Problems) {
	ps := &diag.Problems{}
	services := parseFile(path, ps, func(name string, line int, svc *Service) {
		svc.Name = name
		svc.Pos[""] = line
	})
	return services, ps
}

// ParseSDKs reads sdks.yaml.
func ParseSDKs(path string) (map[string]SDK, *diag.Problems) {
	ps := &diag.Problems{}
	sdks := parseFile(path, ps, func(name string, line int, sdk *SDK) {
		sdk.Name = name
		sdk.Pos[""] = line
	})
	return sdks, ps
}

// ParseExamples reads one *_metadata.yaml file.
func ParseExamples(path string) (map[string]Example, *diag.Problems) {
	ps := &diag.Problems{}
	examples := parseFile(path, ps, func(id string, line int, ex *Example) {
		ex.ID = id
		ex.File = path
		ex.Pos[""] = line
	})
	return examples, ps
}

// ListMetadataFiles returns the example metadata files in dir, sorted by
// name. A missing directory yields no files.
func ListMetadataFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("metadata: read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), MetadataSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// positioned is satisfied by the record types; the parser fills in their
// key positions.
type positioned interface {
	Service | SDK | Example
}

// parseFile decodes a top level mapping of name to record. Each record is
// decoded on its own so one bad record does not hide the others.
func parseFile[T positioned](path string, ps *diag.Problems, finish func(string, int, *T)) map[string]T {
	data, err := os.ReadFile(path)
	if err != nil {
		ps.Addf(diag.KindFileRead, path, "%v", err)
		return nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		ps.Add(diag.Problem{Kind: diag.KindYAMLParse, File: path, Line: errorLine(err), Detail: err.Error()})
		return nil
	}

	result := make(map[string]T)
	if doc.Kind == 0 || len(doc.Content) == 0 {
		log.Debugf("metadata: %s is empty", path)
		return result
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		ps.Add(diag.Problem{Kind: diag.KindInvalidFormat, File: path, Line: root.Line,
			Detail: "top level must be a mapping"})
		return result
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		var rec T
		if err := value.Decode(&rec); err != nil {
			line := errorLine(err)
			if line == 0 {
				line = key.Line
			}
			ps.Add(diag.Problem{Kind: diag.KindYAMLParse, File: path, Line: line, ID: key.Value,
				Detail: strings.TrimPrefix(err.Error(), "yaml: ")})
			continue
		}

		pos := Positions{}
		walkKeys(value, reflect.TypeOf(rec), "", pos, func(field string, line int) {
			ps.Add(diag.Problem{Kind: diag.KindUnknownField, File: path, Line: line, ID: key.Value,
				Detail: field})
		})
		setPositions(&rec, pos)
		finish(key.Value, key.Line, &rec)

		result[key.Value] = rec
	}

	log.Debugf("metadata: %s has %d records", path, len(result))
	return result
}

func setPositions(rec any, pos Positions) {
	switch r := rec.(type) {
	case *Service:
		r.Pos = pos
	case *SDK:
		r.Pos = pos
	case *Example:
		r.Pos = pos
	}
}

// walkKeys records the line of every key and sequence item below n and
// reports mapping keys that t has no field for.
func walkKeys(n *yaml.Node, t reflect.Type, path string, pos Positions, unknown func(string, int)) {
	if n == nil {
		return
	}
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return
	}

	switch t.Kind() {
	case reflect.Struct:
		if n.Kind != yaml.MappingNode {
			return
		}
		fields := yamlFields(t)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			child := k.Value
			if path != "" {
				child = path + "." + k.Value
			}
			pos[child] = k.Line
			ft, ok := fields[k.Value]
			if !ok {
				unknown(child, k.Line)
				continue
			}
			walkKeys(v, ft, child, pos, unknown)
		}
	case reflect.Map:
		if n.Kind != yaml.MappingNode {
			return
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			child := path + "[" + k.Value + "]"
			pos[child] = k.Line
			walkKeys(v, t.Elem(), child, pos, unknown)
		}
	case reflect.Slice:
		if n.Kind != yaml.SequenceNode {
			return
		}
		for i, item := range n.Content {
			child := path + "[" + strconv.Itoa(i) + "]"
			pos[child] = item.Line
			walkKeys(item, t.Elem(), child, pos, unknown)
		}
	}
}

// yamlFields maps YAML key names to field types the way yaml.v3 names them.
func yamlFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = strings.ToLower(f.Name)
		}
		fields[name] = f.Type
	}
	return fields
}

// errorLine pulls the first line number out of a yaml.v3 error message.
func errorLine(err error) int {
	m := lineRegex.FindStringSubmatch(err.Error())
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
