// Package mask renders the public fields of commands, queries and events for
// log entries, hiding values of fields tagged `mask:"true"`.
package mask

import (
	"fmt"
	"reflect"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const tagName = "mask"

// StructToOrdMap returns an ordered map of exported fields with sensitive values masked.
// Fields tagged with `mask:"true"` will have their values replaced.
// Field names are determined by priority: json tag > yaml tag > struct field name.
// Fields with json:"-" or yaml:"-" are excluded from the output.
// Fields whose type implements fmt.Stringer (value objects) are rendered through String.
func StructToOrdMap(v any) *orderedmap.OrderedMap[string, any] {
	if v == nil {
		return nil
	}

	return maskToOrdMap(reflect.ValueOf(v), "")
}

func maskToOrdMap(val reflect.Value, prefix string) *orderedmap.OrderedMap[string, any] {
	om := orderedmap.New[string, any]()

	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			om.Set(prefix, nil)
			return om
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		om.Set(prefix, val.Interface())
		return om
	}

	typ := val.Type()
	for i := range val.NumField() {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !fieldType.IsExported() {
			continue
		}

		fieldName, shouldSkip := extractFieldName(fieldType)
		if shouldSkip {
			continue
		}

		name := fieldName
		if prefix != "" {
			name = prefix + "." + name
		}

		switch {
		case shouldMask(fieldType):
			om.Set(name, maskValue(field))
		case isStringer(field):
			om.Set(name, field.Interface().(fmt.Stringer).String())
		case isExpandable(field):
			nested := maskToOrdMap(field, name)
			for pair := nested.Oldest(); pair != nil; pair = pair.Next() {
				om.Set(pair.Key, pair.Value)
			}
		default:
			om.Set(name, field.Interface())
		}
	}

	return om
}

func isStringer(val reflect.Value) bool {
	if val.Kind() == reflect.Pointer && val.IsNil() {
		return false
	}
	_, ok := val.Interface().(fmt.Stringer)
	return ok
}

func isExpandable(val reflect.Value) bool {
	kind := val.Kind()
	if kind == reflect.Pointer {
		if val.IsNil() {
			return false
		}
		kind = val.Elem().Kind()
	}
	return kind == reflect.Struct
}

func shouldMask(field reflect.StructField) bool {
	return strings.EqualFold(field.Tag.Get(tagName), "true")
}

func maskValue(val reflect.Value) any {
	switch val.Kind() { //nolint:exhaustive // default case handles remaining types
	case reflect.Pointer:
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	case reflect.Slice, reflect.Map, reflect.Interface:
		if val.IsNil() {
			return nil
		}
	}

	// zero values carry no secret
	if val.IsZero() {
		return val.Interface()
	}

	return maskByKind(val)
}

func maskByKind(val reflect.Value) any {
	switch val.Kind() { //nolint:exhaustive // default case handles remaining types
	case reflect.String:
		return "***masked-string***"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "***masked-number***"
	case reflect.Bool:
		return "***masked-bool***"
	default:
		return fmt.Sprintf("***masked-%s***", val.Kind())
	}
}

// extractFieldName returns the field name and whether the field should be skipped.
func extractFieldName(field reflect.StructField) (string, bool) {
	for _, tag := range []string{"json", "yaml"} {
		value, ok := field.Tag.Lookup(tag)
		if !ok {
			continue
		}
		if value == "-" {
			return "", true
		}
		if idx := strings.Index(value, ","); idx != -1 {
			value = value[:idx]
		}
		if value != "" {
			return value, false
		}
	}

	return field.Name, false
}
