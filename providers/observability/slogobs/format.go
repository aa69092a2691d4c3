package slogobs

import (
	"os"
	"strings"
)

// Format represents the output layout of the handler.
type Format string

const (
	// FormatCompact is a single line with JSON-encoded attributes.
	// Example: 2026-10-18 10:40:35 DEBUG Parsed completion → {"extract.stage":"direct"}
	FormatCompact Format = "compact"

	// FormatPretty prints one attribute per line in a tree layout.
	FormatPretty Format = "pretty"

	// FormatJSON is one JSON object per record, for log aggregation.
	FormatJSON Format = "json"
)

// ParseFormat maps a case-insensitive name to a Format, defaulting to FormatCompact.
func ParseFormat(s string) Format {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "pretty":
		return FormatPretty
	case "json":
		return FormatJSON
	default:
		return FormatCompact
	}
}

// GetFormatFromEnv reads SCOUT_LOG_FORMAT, then LOG_FORMAT.
func GetFormatFromEnv() Format {
	return ParseFormat(firstEnv(envLogFormat, envLogFormatFallback))
}

func (f Format) String() string {
	return string(f)
}

const (
	envLogFormat         = "SCOUT_LOG_FORMAT"
	envLogFormatFallback = "LOG_FORMAT"
	envLogLevel          = "SCOUT_LOG_LEVEL"
	envLogLevelFallback  = "LOG_LEVEL"
)

// firstEnv returns the first non-empty value among the given variables.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
