// Package slogobs implements observability.Provider on top of log/slog.
//
// Spans and metrics are rendered as debug-level log events, so a single
// structured stream carries everything scout emits while extracting. The
// handler supports three layouts (compact, pretty, json) selected with
// [WithFormat] or the SCOUT_LOG_FORMAT / LOG_FORMAT environment variables;
// the threshold comes from [WithLevel] or SCOUT_LOG_LEVEL / LOG_LEVEL.
package slogobs
