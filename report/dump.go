package report

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// writeAttributes appends the attribute block: one "key: value" line per
// attribute in sorted-key order. Composite values (maps, structs, slices)
// expand into an indented block one level deep; anything nested further
// falls back to its default string form to bound output size.
func writeAttributes(b *strings.Builder, attrs map[string]any) {
	if len(attrs) == 0 {
		return
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		b.WriteByte('\n')
		writeAttribute(b, k, attrs[k])
	}
}

func writeAttribute(b *strings.Builder, key string, value any) {
	v := indirect(reflect.ValueOf(value))
	if !v.IsValid() {
		fmt.Fprintf(b, "%s: <nil>", key)
		return
	}

	switch v.Kind() {
	case reflect.Map:
		fmt.Fprintf(b, "%s:", key)
		writeMap(b, v)
	case reflect.Struct:
		fmt.Fprintf(b, "%s:", key)
		writeStruct(b, v)
	case reflect.Slice, reflect.Array:
		fmt.Fprintf(b, "%s:", key)
		writeList(b, v)
	default:
		fmt.Fprintf(b, "%s: %v", key, v.Interface())
	}
}

func writeMap(b *strings.Builder, v reflect.Value) {
	entries := make(map[string]string, v.Len())
	keys := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k := fmt.Sprintf("%v", iter.Key().Interface())
		keys = append(keys, k)
		entries[k] = fmt.Sprintf("%v", iter.Value().Interface())
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "\n  %s: %s", k, entries[k])
	}
}

func writeStruct(b *strings.Builder, v reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fmt.Fprintf(b, "\n  %s: %v", field.Name, v.Field(i).Interface())
	}
}

func writeList(b *strings.Builder, v reflect.Value) {
	for i := 0; i < v.Len(); i++ {
		fmt.Fprintf(b, "\n  %d: %v", i, v.Index(i).Interface())
	}
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
