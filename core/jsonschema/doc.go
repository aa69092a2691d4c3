// Package jsonschema holds the subset of JSON Schema that scout works with:
// an object schema whose properties map field names to a primitive type and
// an optional description.
//
// Schemas come from three places: JSON documents ([Parse], [ParseFile]),
// Go structs ([Generate]), or literal construction ([Object]). Parsed
// documents are compiled with santhosh-tekuri/jsonschema first, so a
// malformed schema is rejected before any model call is made.
package jsonschema
