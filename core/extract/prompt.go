package extract

import (
	"encoding/json"
	"strings"

	"github.com/ninetofive/scout/core/jsonschema"
)

// regenerationPrompt asks for a raw JSON object carrying the schema's fields.
func regenerationPrompt(prompt string, s *jsonschema.Schema) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(prompt))
	b.WriteString("\n\nPlease provide the response in JSON format, adhering to the following schema structure. ")
	b.WriteString("Return only a raw JSON object with no markdown, code fences or commentary. ")
	b.WriteString(`For any fields not explicitly mentioned in the input, use "` + Placeholder + `".` + "\n")
	b.WriteString("Ensure all JSON fields are complete and properly closed.\n")
	if names := s.FieldNames(); len(names) > 0 {
		b.WriteString("Fields: ")
		b.WriteString(strings.Join(names, ", "))
		b.WriteString("\n")
	}
	b.WriteString("Schema properties: ")
	b.WriteString(schemaProperties(s))
	return b.String()
}

func schemaProperties(s *jsonschema.Schema) string {
	if s == nil || len(s.Properties) == 0 {
		return "{}"
	}
	data, err := json.MarshalIndent(s.Properties, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
