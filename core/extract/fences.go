package extract

import (
	"regexp"
	"strings"
)

var fenceMarker = regexp.MustCompile("(?i)```(?:json|markdown)?")

// StripFences removes every ```json, ```markdown and bare ``` marker, opening
// or closing, and trims surrounding whitespace.
func StripFences(text string) string {
	return strings.TrimSpace(fenceMarker.ReplaceAllString(text, ""))
}
