package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/ninetofive/scout/core/jsonschema"
)

// Placeholder stands in for any schema field the model did not provide.
const Placeholder = "n/a"

// Result maps every schema field to its extracted value or Placeholder.
type Result map[string]any

var currencyNoise = strings.NewReplacer("$", "", ",", "")

// normalize projects obj onto the schema. A schema without properties
// returns obj unchanged.
func normalize(obj map[string]any, s *jsonschema.Schema) Result {
	names := s.FieldNames()
	if len(names) == 0 {
		return Result(obj)
	}

	out := make(Result, len(names))
	for _, name := range names {
		v, ok := obj[name]
		if ok {
			v = unwrapTyped(v)
		}
		if !ok || v == nil {
			out[name] = Placeholder
			continue
		}
		if s.IsNumeric(name) {
			v = coerceNumber(v)
		}
		out[name] = v
	}
	return out
}

// coerceNumber turns "$1,234.50" into 1234.5. Anything that does not parse
// to a finite number is returned unchanged.
func coerceNumber(v any) any {
	str, ok := v.(string)
	if !ok {
		return v
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(currencyNoise.Replace(str)), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return v
	}
	return f
}

// unwrapTyped unwraps {"type": ..., "value": ...} pairs that some models emit
// when they echo the schema shape instead of filling it.
func unwrapTyped(v any) any {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 2 {
		return v
	}
	if _, hasType := m["type"]; !hasType {
		return v
	}
	if inner, hasValue := m["value"]; hasValue {
		return inner
	}
	return v
}
