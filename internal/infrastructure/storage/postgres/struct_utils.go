package postgres

import (
	"reflect"
	"slices"
	"sync"
)

type fieldInfo struct {
	index  []int
	column string
}

var typeCache sync.Map // map[reflect.Type][]fieldInfo

func fieldsOf(t reflect.Type) []fieldInfo {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := typeCache.Load(t); ok {
		return cached.([]fieldInfo)
	}

	var fields []fieldInfo
	if t.Kind() == reflect.Struct {
		collectFields(t, nil, &fields)
	}
	typeCache.Store(t, fields)
	return fields
}

func collectFields(t reflect.Type, parent []int, out *[]fieldInfo) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := append(append([]int{}, parent...), i)

		tag := f.Tag.Get("db")
		if f.Anonymous && tag == "" {
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, idx, out)
			}
			continue
		}
		if tag == "" || tag == "-" {
			continue
		}

		*out = append(*out, fieldInfo{index: idx, column: tag})
	}
}

// ExtractDBColumns lists every column of T in declaration order,
// including embedded structs. Use it for SELECT lists.
func ExtractDBColumns[T any]() []string {
	var zero T
	fields := fieldsOf(reflect.TypeOf(zero))
	cols := make([]string, 0, len(fields))
	for _, f := range fields {
		cols = append(cols, f.column)
	}
	return cols
}

// InsertMap converts a struct to a column map for squirrel SetMap.
// Database-assigned columns (ids, defaults) are passed in skip.
func InsertMap(v any, skip ...string) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	fields := fieldsOf(rv.Type())
	res := make(map[string]any, len(fields))
	for _, f := range fields {
		if slices.Contains(skip, f.column) {
			continue
		}
		res[f.column] = rv.FieldByIndex(f.index).Interface()
	}
	return res
}
