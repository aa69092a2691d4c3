package jsonschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	jsv "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidSchema is returned when a schema document cannot be compiled.
var ErrInvalidSchema = errors.New("invalid schema")

const resourceName = "schema.json"

// Parse compiles a schema document and decodes it. Documents wrapped as
// {"schema": {...}}, the shape used in response_format payloads, are unwrapped.
func Parse(data []byte) (*Schema, error) {
	data = unwrap(data)

	if _, err := compile(data); err != nil {
		return nil, err
	}

	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	s.order = propertyOrder(data)
	return &s, nil
}

// ParseFile reads and parses a schema document from disk.
func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks a decoded JSON value (maps, slices, float64, string, bool)
// against the schema.
func (s *Schema) Validate(value any) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	compiled, err := compile(data)
	if err != nil {
		return err
	}
	if err := compiled.Validate(value); err != nil {
		return fmt.Errorf("value does not match schema: %w", err)
	}
	return nil
}

func compile(data []byte) (*jsv.Schema, error) {
	compiler := jsv.NewCompiler()
	if err := compiler.AddResource(resourceName, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return compiled, nil
}

func unwrap(data []byte) []byte {
	var probe struct {
		Properties json.RawMessage `json:"properties"`
		Schema     json.RawMessage `json:"schema"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return data
	}
	if len(probe.Properties) == 0 && len(probe.Schema) > 0 && probe.Schema[0] == '{' {
		return probe.Schema
	}
	return data
}

// propertyOrder returns the keys of the top-level "properties" object in
// document order.
func propertyOrder(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		if key, _ := tok.(string); key != "properties" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil
			}
			continue
		}
		return objectKeys(dec)
	}
	return nil
}

func objectKeys(dec *json.Decoder) []string {
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, _ := tok.(string)
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
	}
	return keys
}

// UnmarshalJSON accepts "type" either as a string or as a list of types, in
// which case the first non-null entry is kept.
func (s *Schema) UnmarshalJSON(data []byte) error {
	type plain Schema
	var aux struct {
		*plain
		Type json.RawMessage `json:"type,omitempty"`
	}
	aux.plain = (*plain)(s)
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	s.Type = ""
	if len(aux.Type) == 0 {
		return nil
	}
	if aux.Type[0] == '"' {
		return json.Unmarshal(aux.Type, &s.Type)
	}
	var types []string
	if err := json.Unmarshal(aux.Type, &types); err != nil {
		return fmt.Errorf("schema type must be a string or list of strings: %w", err)
	}
	for _, t := range types {
		if t != "null" {
			s.Type = t
			break
		}
	}
	return nil
}
