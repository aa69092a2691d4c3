package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/ninetofive/scout/core/client"
	"github.com/ninetofive/scout/internal/utils"
	"github.com/ninetofive/scout/providers/ai"
)

// LogLevel controls how much detail the logging middleware emits per request.
type LogLevel int

const (
	// LogLevelMinimal logs only the model name, total duration, and token counts.
	LogLevelMinimal LogLevel = iota

	// LogLevelStandard adds the message count, the request kind and the
	// finish reason.
	LogLevelStandard

	// LogLevelVerbose adds the first message and the response content, each
	// truncated to 500 characters.
	//
	// WARNING: prompts contain scraped job descriptions verbatim. Use it for
	// local debugging only.
	LogLevelVerbose
)

// truncateLen is the maximum content length included in verbose log output.
const truncateLen = 500

// ParseLogLevel maps "minimal", "standard" or "verbose" to a LogLevel,
// defaulting to LogLevelStandard.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "minimal":
		return LogLevelMinimal
	case "verbose":
		return LogLevelVerbose
	default:
		return LogLevelStandard
	}
}

// NewLoggingMiddleware creates a MiddlewareConfig that emits structured slog
// entries before and after every provider call. logger must not be nil.
func NewLoggingMiddleware(logger *slog.Logger, level LogLevel) client.MiddlewareConfig {
	return client.MiddlewareConfig{
		Send: func(next client.SendFunc) client.SendFunc {
			return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
				logger.InfoContext(ctx, "llm send",
					buildRequestAttrs(request, level)...,
				)

				start := time.Now()
				response, err := next(ctx, request)
				elapsed := time.Since(start)

				if err != nil {
					logger.ErrorContext(ctx, "llm send failed",
						slog.String("model", request.Model),
						slog.Duration("duration", elapsed),
						slog.String("error", err.Error()),
					)
					return nil, err
				}

				logger.InfoContext(ctx, "llm send completed",
					buildResponseAttrs(response, elapsed, level)...,
				)

				return response, nil
			}
		},
	}
}

// buildRequestAttrs returns slog attributes for an outgoing chat request,
// expanding detail according to the requested verbosity level.
func buildRequestAttrs(request ai.ChatRequest, level LogLevel) []any {
	attrs := []any{
		slog.String("model", request.Model),
	}

	if level >= LogLevelStandard {
		attrs = append(attrs,
			slog.Int("message_count", len(request.Messages)),
			slog.Bool("structured", request.IsStructured()),
		)
	}

	if level >= LogLevelVerbose && len(request.Messages) > 0 {
		first := request.Messages[0]
		attrs = append(attrs,
			slog.String("first_message_role", string(first.Role)),
			slog.String("first_message_content", utils.TruncateString(first.Content, truncateLen)),
		)
	}

	return attrs
}

// buildResponseAttrs returns slog attributes for a completed chat response,
// expanding detail according to the requested verbosity level.
func buildResponseAttrs(response *ai.ChatResponse, elapsed time.Duration, level LogLevel) []any {
	attrs := []any{
		slog.String("model", response.Model),
		slog.Duration("duration", elapsed),
	}

	if response.Usage != nil {
		attrs = append(attrs,
			slog.Int("prompt_tokens", response.Usage.PromptTokens),
			slog.Int("completion_tokens", response.Usage.CompletionTokens),
			slog.Int("total_tokens", response.Usage.TotalTokens),
		)
	}

	if level >= LogLevelStandard && response.FinishReason != "" {
		attrs = append(attrs, slog.String("finish_reason", response.FinishReason))
	}

	if level >= LogLevelVerbose {
		content := response.Content
		if content == "" && response.Structured != nil {
			content = utils.JSONToString(response.Structured, false)
		}
		if content != "" {
			attrs = append(attrs,
				slog.String("response_content", utils.TruncateString(content, truncateLen)),
			)
		}
	}

	return attrs
}
