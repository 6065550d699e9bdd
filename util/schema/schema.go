// Package schema provides utilities for generating MCP tool input schemas from Go structs
// and for decoding tool arguments back into them.
package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/localrivet/storefront/protocol"
	"github.com/localrivet/storefront/util/validator"
)

// goTypeToMCPType maps Go kinds to MCP schema types.
func goTypeToMCPType(kind reflect.Kind) string {
	switch kind {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}

// FromStruct generates a protocol.ToolInputSchema from struct tags.
// Non-pointer fields are required. The `description`, `enum` and `min` tags
// populate the matching schema keywords. A nil v yields an empty object schema.
func FromStruct(v interface{}) protocol.ToolInputSchema {
	schema := protocol.ToolInputSchema{
		Type:       "object",
		Properties: map[string]protocol.PropertyDetail{},
	}
	if v == nil {
		return schema
	}
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return schema
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = strings.ToLower(field.Name)
		}

		fieldType := field.Type
		isPtr := fieldType.Kind() == reflect.Ptr
		if isPtr {
			fieldType = fieldType.Elem()
		} else {
			schema.Required = append(schema.Required, name)
		}

		prop := protocol.PropertyDetail{
			Type:        goTypeToMCPType(fieldType.Kind()),
			Description: field.Tag.Get("description"),
		}
		if enumTag := field.Tag.Get("enum"); enumTag != "" {
			for _, e := range strings.Split(enumTag, ",") {
				prop.Enum = append(prop.Enum, strings.TrimSpace(e))
			}
		}
		if minTag := field.Tag.Get("min"); minTag != "" {
			if m, err := strconv.ParseFloat(minTag, 64); err == nil {
				prop.Minimum = &m
			}
		}
		schema.Properties[name] = prop
	}
	return schema
}

// HandleArgs decodes tool arguments (normally map[string]interface{}) into T and validates
// the result. On failure it returns the error content to send back with isError set.
//
// Decoding is weakly typed so clients that send "2" for an integer still work.
func HandleArgs[T any](arguments any) (*T, []protocol.Content, bool) {
	var args T

	var argsMap map[string]interface{}
	switch a := arguments.(type) {
	case nil:
		argsMap = map[string]interface{}{}
	case map[string]interface{}:
		argsMap = a
	default:
		return nil, []protocol.Content{protocol.Text(
			fmt.Sprintf("Invalid arguments format: expected an object, got %T", arguments))}, true
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &args,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, []protocol.Content{protocol.Text("Internal error creating argument decoder: " + err.Error())}, true
	}
	if err := decoder.Decode(argsMap); err != nil {
		return nil, []protocol.Content{protocol.Text("Error parsing arguments: " + err.Error())}, true
	}
	if err := validator.Arguments(args); err != nil {
		return nil, []protocol.Content{protocol.Text("Invalid arguments: " + err.Error())}, true
	}
	return &args, nil, false
}
