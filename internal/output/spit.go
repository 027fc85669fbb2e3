// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v2"

	"github.com/staranto/docgen/internal/attrs"
	"github.com/staranto/docgen/internal/config"
	"github.com/staranto/docgen/internal/filters"
)

// Formats accepted by --output.
var Formats = []string{"text", "json", "yaml", "raw"}

// SliceDiceSpit filters, transforms, sorts and writes the rows found under
// parent in raw according to the command's --filter, --sort, --output,
// --titles and --color flags.
func SliceDiceSpit(raw bytes.Buffer, list attrs.AttrList, cmd *cli.Command, parent string, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	format := cmd.String("output")
	if format == "raw" {
		_, err := w.Write(raw.Bytes())
		return err
	}

	dataset := gjson.Parse(raw.String())
	if parent != "" {
		dataset = dataset.Get(parent)
	}

	fs, err := filters.BuildFilters(cmd.String("filter"))
	if err != nil {
		return err
	}

	rows := filters.FilterDataset(dataset, list, fs)
	log.Debugf("%d of %d rows after filtering", len(rows), len(dataset.Array()))

	for _, row := range rows {
		for i := range list {
			attr := &list[i]
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	SortDataset(rows, cmd.String("sort"))

	switch format {
	case "json":
		return writeJSON(w, rows, list)
	case "yaml":
		out, err := yaml.Marshal(ordered(rows, list))
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		TableWriter(rows, list, ColorEnabled(cmd), cmd.Bool("titles"), w)
		return nil
	}
}

// ordered returns the displayed attrs of each row in attr order. yaml.v2
// keeps MapSlice order, so columns come out the way --attrs listed them.
func ordered(rows []map[string]any, list attrs.AttrList) []yaml.MapSlice {
	out := make([]yaml.MapSlice, 0, len(rows))
	for _, row := range rows {
		ms := make(yaml.MapSlice, 0, len(list))
		for _, attr := range list {
			if attr.Include {
				ms = append(ms, yaml.MapItem{Key: attr.OutputKey, Value: row[attr.OutputKey]})
			}
		}
		out = append(out, ms)
	}
	return out
}

func writeJSON(w io.Writer, rows []map[string]any, list attrs.AttrList) error {
	var b bytes.Buffer
	b.WriteString("[")
	for i, ms := range ordered(rows, list) {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n  {")
		for j, item := range ms {
			if j > 0 {
				b.WriteString(",")
			}
			k, _ := json.Marshal(item.Key)
			v, err := json.Marshal(item.Value)
			if err != nil {
				return fmt.Errorf("failed to encode %v: %w", item.Key, err)
			}
			fmt.Fprintf(&b, "%s: %s", k, v)
		}
		b.WriteString("}")
	}
	if len(rows) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("]\n")
	_, err := w.Write(b.Bytes())
	return err
}

// ColorEnabled honours an explicit --color or --no-color and otherwise turns
// colour on for terminals unless NO_COLOR is set.
func ColorEnabled(cmd *cli.Command) bool {
	if cmd.IsSet("color") {
		return cmd.Bool("color")
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TableWriter renders rows as an aligned, borderless table.
func TableWriter(rows []map[string]any, list attrs.AttrList, color, titles bool, w io.Writer) {
	if len(rows) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	var data [][]string
	for _, row := range rows {
		cells := make([]string, 0, len(list))
		for _, attr := range list {
			if attr.Include {
				cells = append(cells, InterfaceToString(row[attr.OutputKey], "-"))
			}
		}
		data = append(data, cells)
	}

	pad, _ := config.GetInt("padding", 2)

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}
			if col > 0 {
				style = style.PaddingLeft(pad)
			}
			return style
		}).
		Rows(data...)

	if titles {
		var headers []string
		for _, attr := range list {
			if attr.Include {
				headers = append(headers, attr.OutputKey)
			}
		}
		t = t.Headers(headers...).BorderHeader(false)
	}

	fmt.Fprintln(w, t)
}

func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(key+".title", "#f6be00")
	even, _ = config.GetString(key+".even", "#ffffff")
	odd, _ = config.GetString(key+".odd", "#00c8f0")
	return
}

// InterfaceToString renders a cell value. nil and empty strings become
// emptyValue, which defaults to "". Lists of scalars are joined with ", ";
// anything else is shown as JSON.
func InterfaceToString(value any, emptyValue ...string) string {
	empty := ""
	if len(emptyValue) > 0 {
		empty = emptyValue[0]
	}

	switch v := value.(type) {
	case nil:
		return empty
	case string:
		if v == "" {
			return empty
		}
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		if len(v) == 0 {
			return empty
		}
		parts := make([]string, 0, len(v))
		for _, item := range v {
			switch item.(type) {
			case map[string]any, []any:
				return toJSON(v)
			}
			parts = append(parts, InterfaceToString(item))
		}
		return strings.Join(parts, ", ")
	default:
		return toJSON(v)
	}
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// DumpExamples prints a two column table of sample invocations.
func DumpExamples(w io.Writer, examples [][2]string) {
	if len(examples) == 0 {
		return
	}

	rows := make([][]string, 0, len(examples))
	for _, ex := range examples {
		rows = append(rows, []string{ex[0], ex[1]})
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		Headers("Command", "Description").
		BorderHeader(false).
		Rows(rows...)

	fmt.Fprintln(w, t)
}

const maxSchemaDepth = 1

// SchemaAttrs lists the attribute names of a JSON:API row type, descending
// one level into struct valued attributes.
func SchemaAttrs(typ reflect.Type) []string {
	names := schemaWalker("", typ, 0)
	sort.Strings(names)
	return names
}

func schemaWalker(holder string, typ reflect.Type, depth int) []string {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	var names []string
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup("jsonapi")
		if !ok {
			continue
		}

		parts := strings.Split(tag, ",")
		if len(parts) < 2 || parts[0] != "attr" {
			continue
		}
		name := parts[1]
		if holder != "" {
			name = holder + "." + name
		}
		names = append(names, name)

		if depth < maxSchemaDepth {
			names = append(names, schemaWalker(name, field.Type, depth+1)...)
		}
	}
	return names
}

// DumpSchema prints the attrs available to --attrs, --filter and --sort for
// typ.
func DumpSchema(w io.Writer, typ reflect.Type) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	fmt.Fprintf(w, "Attributes of %s rows:\n", strings.TrimSuffix(typ.Name(), "Row"))
	for _, name := range SchemaAttrs(typ) {
		fmt.Fprintln(w, "  "+name)
	}
	fmt.Fprintln(w, "\nThe row id is available as .id.")
}
