package cmdutil

import (
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// StructToMap converts a struct into a datastore row keyed by json tag
// names, falling back to the Go field name. Fields tagged "-" and
// unexported fields are left out; embedded structs are flattened.
// Nil pointers become nil, times RFC 3339 strings and decimals are
// rendered with two places.
func StructToMap(value any) map[string]any {
	row := make(map[string]any)
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return row
		}
		v = v.Elem()
	}
	appendFields(v, row)
	return row
}

func appendFields(v reflect.Value, row map[string]any) {
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			appendFields(v.Field(i), row)
			continue
		}

		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = field.Name
		}
		row[name] = columnValue(v.Field(i))
	}
}

func columnValue(v reflect.Value) any {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch x := v.Interface().(type) {
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case decimal.Decimal:
		return x.StringFixed(2)
	default:
		return x
	}
}
