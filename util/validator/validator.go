// Package validator enforces struct tag constraints on decoded tool arguments.
package validator

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Arguments enforces the `required`, `enum` and `min` struct tags.
// Field names in messages use the json tag when present.
// Usage: if err := validator.Arguments(args); err != nil { ... }
func Arguments(s interface{}) error {
	v := reflect.ValueOf(s)
	t := reflect.TypeOf(s)
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		value := v.Field(i)
		name := fieldName(field)

		if field.Tag.Get("required") == "true" {
			empty := false
			switch value.Kind() {
			case reflect.String:
				empty = strings.TrimSpace(value.String()) == ""
			case reflect.Slice, reflect.Array, reflect.Map:
				empty = value.Len() == 0
			case reflect.Ptr, reflect.Interface:
				empty = value.IsNil()
			}
			if empty {
				return fmt.Errorf("%s is required", name)
			}
		}

		if enumTag := field.Tag.Get("enum"); enumTag != "" && value.Kind() == reflect.String {
			found := false
			for _, a := range strings.Split(enumTag, ",") {
				if value.String() == strings.TrimSpace(a) {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("%s must be one of [%s]", name, enumTag)
			}
		}

		if minTag := field.Tag.Get("min"); minTag != "" {
			min, err := strconv.ParseFloat(minTag, 64)
			if err != nil {
				return fmt.Errorf("bad min tag on %s: %w", name, err)
			}
			var n float64
			switch value.Kind() {
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				n = float64(value.Int())
			case reflect.Float32, reflect.Float64:
				n = value.Float()
			default:
				continue
			}
			if n < min {
				return fmt.Errorf("%s must be at least %s", name, minTag)
			}
		}
	}
	return nil
}

func fieldName(f reflect.StructField) string {
	if tag := strings.Split(f.Tag.Get("json"), ",")[0]; tag != "" && tag != "-" {
		return tag
	}
	return f.Name
}
