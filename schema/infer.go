package schema

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// InferSchema builds a Schema from a struct's exported fields and their
// json tags. Field names follow the json tag when present; fields
// tagged "-" are skipped; fields without the omitempty option become
// required. Anonymous embedded structs are flattened into the parent,
// matching how encoding/json inlines them.
//
// The inferred schema covers structure only. Formats, patterns, bounds
// and rules are added by the caller afterwards:
//
//	s, _ := schema.InferSchema(OrderPlaced{})
//	s.Properties["email"].Format = "email"
//	validator.RegisterSchema("OrderPlaced", s)
func InferSchema(sample interface{}) (*Schema, error) {
	if sample == nil {
		return nil, fmt.Errorf("sample cannot be nil")
	}

	t := reflect.TypeOf(sample)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("sample must be a struct, got %v", t.Kind())
	}

	properties := make(map[string]*PropertyDef)
	var required []string
	collectFields(t, properties, &required, make(map[reflect.Type]bool))

	return &Schema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}, nil
}

// collectFields walks the struct's fields, flattening anonymous
// embedded structs the way encoding/json does.
func collectFields(t reflect.Type, properties map[string]*PropertyDef, required *[]string, seen map[reflect.Type]bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		if field.Anonymous && jsonTag == "" {
			embedded := field.Type
			if embedded.Kind() == reflect.Ptr {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				collectFields(embedded, properties, required, seen)
				continue
			}
		}

		fieldName := field.Name
		omitempty := false
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				fieldName = parts[0]
			}
			for _, part := range parts[1:] {
				if part == "omitempty" {
					omitempty = true
				}
			}
		} else {
			fieldName = strings.ToLower(fieldName[:1]) + fieldName[1:]
		}

		propDef := inferProperty(field.Type, seen)
		if desc := field.Tag.Get("description"); desc != "" {
			propDef.Description = desc
		}

		properties[fieldName] = propDef
		if !omitempty {
			*required = append(*required, fieldName)
		}
	}
}

func inferProperty(t reflect.Type, seen map[reflect.Type]bool) *PropertyDef {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &PropertyDef{Type: "string"}

	case reflect.Bool:
		return &PropertyDef{Type: "boolean"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &PropertyDef{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &PropertyDef{Type: "number"}

	case reflect.Slice, reflect.Array:
		return &PropertyDef{
			Type:  "array",
			Items: inferProperty(t.Elem(), seen),
		}

	case reflect.Map:
		return &PropertyDef{Type: "object"}

	case reflect.Struct:
		if t == timeType {
			return &PropertyDef{Type: "string", Format: "date-time"}
		}
		// Break recursion on self-referential types.
		if seen[t] {
			return &PropertyDef{Type: "object"}
		}
		seen[t] = true

		properties := make(map[string]*PropertyDef)
		var required []string
		collectFields(t, properties, &required, seen)
		return &PropertyDef{
			Type:       "object",
			Properties: properties,
			Required:   required,
		}

	case reflect.Interface:
		return &PropertyDef{Type: "object"}

	default:
		return &PropertyDef{Type: "string"}
	}
}
