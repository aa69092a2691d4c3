package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/ninetofive/scout/core/jsonschema"
)

var (
	trailingComma = regexp.MustCompile(`,(\s*[}\]])`)
	jsonNumber    = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?(?:[eE][+-]?\d+)?$`)
)

// parseObject decodes text and requires the result to be a JSON object.
func parseObject(text string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedJSON, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T, not an object", errMalformedJSON, v)
	}
	return obj, nil
}

// repairObject applies the syntactic repairs cumulatively, parsing after each
// one, and finally hands the untouched text to jsonrepair.
func repairObject(text string, s *jsonschema.Schema) (map[string]any, string, error) {
	steps := []struct {
		name string
		fix  func(string) string
	}{
		{"trailing_commas", stripTrailingCommas},
		{"control_chars", escapeControlChars},
		{"bare_values", func(t string) string { return quoteBareValues(t, s) }},
	}

	repaired := text
	for _, step := range steps {
		repaired = step.fix(repaired)
		if obj, err := parseObject(repaired); err == nil {
			return obj, step.name, nil
		}
	}

	fixed, err := jsonrepair.JSONRepair(text)
	if err != nil {
		return nil, "", fmt.Errorf("%w: jsonrepair: %v", errMalformedJSON, err)
	}
	obj, err := parseObject(fixed)
	if err != nil {
		return nil, "", err
	}
	return obj, "jsonrepair", nil
}

// stripTrailingCommas removes a comma directly followed by '}' or ']'.
func stripTrailingCommas(text string) string {
	return trailingComma.ReplaceAllString(text, "$1")
}

// escapeControlChars escapes raw control characters that appear inside
// string literals, most commonly newlines in long descriptions.
func escapeControlChars(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inString, escaped := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}

		if c < 0x20 {
			if escaped {
				// backslash already written
				escaped = false
				b.WriteString(controlEscape(c)[1:])
			} else {
				b.WriteString(controlEscape(c))
			}
			continue
		}

		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = false
		}
		b.WriteByte(c)
	}
	return b.String()
}

func controlEscape(c byte) string {
	switch c {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	default:
		return fmt.Sprintf(`\u%04x`, c)
	}
}

// quoteBareValues wraps unquoted scalar values in double quotes. Values of
// number, integer and boolean fields are never touched, nor are true, false,
// null and numeric literals.
func quoteBareValues(text string, s *jsonschema.Schema) string {
	var b strings.Builder
	b.Grow(len(text) + 16)

	lastString := ""
	for i := 0; i < len(text); {
		c := text[i]
		switch c {
		case '"':
			end := scanString(text, i)
			lastString = text[i:end]
			b.WriteString(lastString)
			i = end
		case ':':
			b.WriteByte(c)
			i++
			j := i
			for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
				j++
			}
			b.WriteString(text[i:j])
			i = j
			if i >= len(text) || strings.IndexByte("\"{[", text[i]) >= 0 {
				continue
			}
			k := i
			for k < len(text) && strings.IndexByte(",}]\n", text[k]) < 0 {
				k++
			}
			token := text[i:k]
			value := strings.TrimRight(token, " \t\r")
			if shouldQuote(unquoteKey(lastString), value, s) {
				quoted, _ := json.Marshal(value)
				b.Write(quoted)
				b.WriteString(token[len(value):])
			} else {
				b.WriteString(token)
			}
			i = k
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func shouldQuote(key, value string, s *jsonschema.Schema) bool {
	if value == "" || s.IsLiteralTyped(key) {
		return false
	}
	switch value {
	case "true", "false", "null":
		return false
	}
	return !jsonNumber.MatchString(value)
}

// scanString returns the index just past the string literal starting at
// text[start], or len(text) when it is unterminated.
func scanString(text string, start int) int {
	escaped := false
	for i := start + 1; i < len(text); i++ {
		switch {
		case escaped:
			escaped = false
		case text[i] == '\\':
			escaped = true
		case text[i] == '"':
			return i + 1
		}
	}
	return len(text)
}

func unquoteKey(literal string) string {
	var key string
	if err := json.Unmarshal([]byte(literal), &key); err == nil {
		return key
	}
	return strings.Trim(literal, `"`)
}
