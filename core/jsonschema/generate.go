package jsonschema

import (
	"fmt"
	"reflect"
	"strings"
)

// Generate derives an object schema from the exported fields of struct T.
// Property names follow the json tag; declaration order is preserved.
//
// A jsonschema tag customizes a field:
//
//	SalaryMin float64 `json:"salary_min" jsonschema:"required,description=Lower bound, numeric"`
//
// "description=" must come last and may contain commas.
func Generate[T any]() (*Schema, error) {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot generate object schema from %v", t)
	}
	return structSchema(t, map[reflect.Type]bool{})
}

func structSchema(t reflect.Type, visiting map[reflect.Type]bool) (*Schema, error) {
	if visiting[t] {
		return nil, fmt.Errorf("recursive type %v is not supported", t)
	}
	visiting[t] = true
	defer delete(visiting, t)

	s := &Schema{Type: TypeObject, Properties: map[string]*Schema{}}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonName(field)
		if skip {
			continue
		}

		prop, err := fieldSchema(field.Type, visiting)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		required := applyTag(field.Tag.Get("jsonschema"), prop)
		if required || (!omitEmpty && field.Type.Kind() != reflect.Pointer) {
			s.Required = append(s.Required, name)
		}

		s.Properties[name] = prop
		s.order = append(s.order, name)
	}
	return s, nil
}

func fieldSchema(t reflect.Type, visiting map[reflect.Type]bool) (*Schema, error) {
	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: TypeString}, nil
	case reflect.Bool:
		return &Schema{Type: TypeBoolean}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: TypeNumber}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: TypeInteger}, nil
	case reflect.Slice, reflect.Array:
		items, err := fieldSchema(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: TypeArray, Items: items}, nil
	case reflect.Map:
		values, err := fieldSchema(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: TypeObject, AdditionalProperties: values}, nil
	case reflect.Pointer:
		return fieldSchema(t.Elem(), visiting)
	case reflect.Struct:
		return structSchema(t, visiting)
	default:
		return &Schema{Type: TypeObject}, nil
	}
}

func jsonName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name = field.Name
	if tag == "" {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// applyTag applies a jsonschema tag to prop and reports whether the field
// is marked required.
func applyTag(tag string, prop *Schema) bool {
	required := false
	for tag != "" {
		if desc, ok := strings.CutPrefix(tag, "description="); ok {
			prop.Description = desc
			break
		}
		item, rest, _ := strings.Cut(tag, ",")
		tag = rest
		switch {
		case item == "required":
			required = true
		case strings.HasPrefix(item, "enum="):
			prop.Enum = append(prop.Enum, strings.TrimPrefix(item, "enum="))
		}
	}
	return required
}
