package utils

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// DefaultMaxStringLength is the preview length used when none is given.
const DefaultMaxStringLength = 500

// JSONToString marshals object, indented when indent is true. Marshal errors
// are rendered as a JSON error object so the result is always loggable.
func JSONToString(object any, indent bool) string {
	var (
		encoded []byte
		err     error
	)
	if indent {
		encoded, err = json.MarshalIndent(object, "", "  ")
	} else {
		encoded, err = json.Marshal(object)
	}
	if err != nil {
		return `{"error": "failed to marshal to JSON: ` + err.Error() + `"}`
	}
	return string(encoded)
}

// TruncateString shortens s to at most maxLen bytes without splitting a
// UTF-8 sequence and records the original length. maxLen <= 0 means
// DefaultMaxStringLength.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultMaxStringLength
	}
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s... (truncated, total: %d chars)", s[:cut], len(s))
}
