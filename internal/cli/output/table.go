package output

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
)

// TableFormatter formats data as an aligned text table.
type TableFormatter struct {
	NoHeaders bool
}

// Format formats data as a table.
// Supports: Table, a struct (one row per field) and maps (one row per key).
// Anything else falls back to JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	if t, ok := data.(*Table); ok {
		return t.RenderWithOptions(w, f.NoHeaders)
	}
	if t, ok := data.(Table); ok {
		return t.RenderWithOptions(w, f.NoHeaders)
	}

	table, err := toTable(data)
	if err != nil {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}

	return table.RenderWithOptions(w, f.NoHeaders)
}

func toTable(data any) (*Table, error) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return structToTable(v), nil
	case reflect.Map:
		return mapToTable(v), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", v.Kind())
	}
}

// structToTable lists exported fields in declaration order, named by
// their json tag when present.
func structToTable(v reflect.Value) *Table {
	table := &Table{Headers: []string{"FIELD", "VALUE"}}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			if n, _, _ := strings.Cut(tag, ","); n == "-" {
				continue
			} else if n != "" {
				name = n
			}
		}

		table.AddRow(name, formatValue(v.Field(i)))
	}

	return table
}

// mapToTable lists entries sorted by key.
func mapToTable(v reflect.Value) *Table {
	table := &Table{Headers: []string{"KEY", "VALUE"}}

	iter := v.MapRange()
	for iter.Next() {
		table.AddRow(formatValue(iter.Key()), formatValue(iter.Value()))
	}
	sort.Slice(table.Rows, func(i, j int) bool { return table.Rows[i][0] < table.Rows[j][0] })

	return table
}

func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}

	if v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		if v.String() == "" {
			return "-"
		}
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}
