package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

// Table is tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table with aligned columns.
func (t *Table) Render(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// TableFormatter renders tables, structs, slices of structs and maps.
// Structs become FIELD/VALUE rows named by their yaml or json tags.
type TableFormatter struct {
	NoHeaders bool
}

func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}
	switch t := data.(type) {
	case *Table:
		return t.Render(w, f.NoHeaders)
	case Table:
		return t.Render(w, f.NoHeaders)
	case string:
		_, err := fmt.Fprintln(w, t)
		return err
	}

	table, err := toTable(reflect.ValueOf(data))
	if err != nil {
		return (&YAMLFormatter{}).Format(w, data)
	}
	return table.Render(w, f.NoHeaders)
}

func toTable(v reflect.Value) (*Table, error) {
	v = indirect(v)
	switch v.Kind() {
	case reflect.Struct:
		t := &Table{Headers: []string{"FIELD", "VALUE"}}
		eachField(v, func(name string, fv reflect.Value) {
			t.AddRow(name, cell(fv))
		})
		return t, nil
	case reflect.Map:
		t := &Table{Headers: []string{"KEY", "VALUE"}}
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return cell(keys[i]) < cell(keys[j]) })
		for _, k := range keys {
			t.AddRow(cell(k), cell(v.MapIndex(k)))
		}
		return t, nil
	case reflect.Slice, reflect.Array:
		return sliceTable(v)
	default:
		return nil, fmt.Errorf("unsupported type %s", v.Kind())
	}
}

func sliceTable(v reflect.Value) (*Table, error) {
	t := &Table{}
	if v.Len() == 0 {
		return t, nil
	}
	if indirect(v.Index(0)).Kind() != reflect.Struct {
		t.Headers = []string{"VALUE"}
		for i := 0; i < v.Len(); i++ {
			t.AddRow(cell(v.Index(i)))
		}
		return t, nil
	}

	eachField(indirect(v.Index(0)), func(name string, _ reflect.Value) {
		t.Headers = append(t.Headers, strings.ToUpper(name))
	})
	for i := 0; i < v.Len(); i++ {
		var row []string
		eachField(indirect(v.Index(i)), func(_ string, fv reflect.Value) {
			row = append(row, cell(fv))
		})
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// eachField visits the exported fields not tagged table:"-".
func eachField(v reflect.Value, fn func(name string, fv reflect.Value)) {
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() || field.Tag.Get("table") == "-" {
			continue
		}
		fn(fieldName(field), v.Field(i))
	}
}

func fieldName(f reflect.StructField) string {
	for _, key := range []string{"yaml", "json"} {
		if tag, _, _ := strings.Cut(f.Tag.Get(key), ","); tag != "" && tag != "-" {
			return tag
		}
	}
	return f.Name
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func cell(v reflect.Value) string {
	v = indirect(v)
	if !v.IsValid() {
		return "-"
	}
	if t, ok := v.Interface().(time.Time); ok {
		if t.IsZero() {
			return "-"
		}
		return t.Format(time.RFC3339)
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}

	switch v.Kind() {
	case reflect.String:
		if v.Len() == 0 {
			return "-"
		}
		return v.String()
	case reflect.Slice, reflect.Array, reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		if v.Kind() == reflect.Map {
			return fmt.Sprintf("{%d keys}", v.Len())
		}
		return fmt.Sprintf("[%d items]", v.Len())
	default:
		return fmt.Sprint(v.Interface())
	}
}
