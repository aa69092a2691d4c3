package extract

import (
	"regexp"
	"strings"
)

var keyOpener = regexp.MustCompile(`"((?:[^"\\]|\\.)*)"\s*:`)

// completeTruncated closes an object that was cut off before its final brace.
// Complete lines are kept; the first incomplete line has its value replaced
// with the placeholder and everything after it is dropped.
func completeTruncated(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isCompleteLine(trimmed) {
			kept = append(kept, line)
			continue
		}
		if locs := keyOpener.FindAllStringIndex(line, -1); len(locs) > 0 {
			last := locs[len(locs)-1]
			kept = append(kept, line[:last[1]]+` "`+Placeholder+`"`)
		}
		break
	}

	out := strings.TrimRight(strings.Join(kept, "\n"), " \t\r\n")
	if !strings.HasSuffix(out, "}") {
		out = strings.TrimSuffix(out, ",")
		out += "\n}"
	}
	return out
}

// isCompleteLine reports whether a trimmed line can be kept as-is: it ends
// with a comma, opens an object, or is a "key": "value" pair.
func isCompleteLine(line string) bool {
	if strings.HasSuffix(line, ",") || strings.HasSuffix(line, "{") {
		return true
	}
	return strings.Contains(line, `"`) && strings.Contains(line, ":") && strings.HasSuffix(line, `"`)
}
