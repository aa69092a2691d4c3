package slogobs

import (
	"log/slog"
	"strings"
)

// LevelTrace sits below slog.LevelDebug and is used for raw completion dumps.
const LevelTrace = slog.LevelDebug - 4

// ParseLogLevel maps a case-insensitive level name to a slog.Level.
// Unknown or empty values yield slog.LevelInfo.
func ParseLogLevel(s string) slog.Level {
	switch strings.TrimSpace(strings.ToUpper(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetLogLevelFromEnv reads SCOUT_LOG_LEVEL, then LOG_LEVEL.
func GetLogLevelFromEnv() slog.Level {
	return ParseLogLevel(firstEnv(envLogLevel, envLogLevelFallback))
}

// LogLevelString is the inverse of ParseLogLevel.
func LogLevelString(level slog.Level) string {
	switch {
	case level < slog.LevelDebug:
		return "TRACE"
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < slog.LevelWarn:
		return "INFO"
	case level < slog.LevelError:
		return "WARN"
	default:
		return "ERROR"
	}
}
