package jsonschema

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Primitive type names understood by the extractor.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// Schema is a JSON Schema node.
type Schema struct {
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of an object schema, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// Items is the element schema of an array
	Items                *Schema `json:"items,omitempty"`
	AdditionalProperties any     `json:"additionalProperties,omitempty"`
	Enum                 []any   `json:"enum,omitempty"`

	// order keeps the declaration order of Properties when it is known
	order []string
}

// Field is one named property, used with Object.
type Field struct {
	Name        string
	Type        string
	Description string
}

// Object builds an object schema from fields, preserving their order.
func Object(fields ...Field) *Schema {
	s := &Schema{Type: TypeObject, Properties: make(map[string]*Schema, len(fields))}
	for _, f := range fields {
		if _, dup := s.Properties[f.Name]; !dup {
			s.order = append(s.order, f.Name)
		}
		s.Properties[f.Name] = &Schema{Type: f.Type, Description: f.Description}
	}
	return s
}

// FieldNames returns the property names in declaration order. Properties
// whose order is unknown (for example, added to the map directly) follow in
// lexical order.
func (s *Schema) FieldNames() []string {
	if s == nil || len(s.Properties) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))
	for _, name := range s.order {
		if _, ok := s.Properties[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range s.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// PropertyType returns the declared type of a property, or "" when the
// property is unknown or untyped.
func (s *Schema) PropertyType(name string) string {
	if s == nil {
		return ""
	}
	if p, ok := s.Properties[name]; ok && p != nil {
		return p.Type
	}
	return ""
}

// IsNumeric reports whether a property is declared number or integer.
func (s *Schema) IsNumeric(name string) bool {
	t := s.PropertyType(name)
	return t == TypeNumber || t == TypeInteger
}

// IsLiteralTyped reports whether a property must hold a bare JSON literal
// (number, integer or boolean) rather than a string.
func (s *Schema) IsLiteralTyped(name string) bool {
	return s.IsNumeric(name) || s.PropertyType(name) == TypeBoolean
}

// JSONString converts the schema to JSON, indented when indent is true.
func (s *Schema) JSONString(indent bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(s, "", "  ")
	} else {
		data, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(data), nil
}

// String returns the compact JSON form of the schema.
func (s *Schema) String() string {
	str, err := s.JSONString(false)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return str
}
