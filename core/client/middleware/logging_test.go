package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ninetofive/scout/providers/ai"
)

func newBufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestLoggingMiddleware_Levels(t *testing.T) {
	request := ai.ChatRequest{
		Model:    "@cf/meta/llama-3.1-8b-instruct",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "Extract structured job data"}},
	}
	response := &ai.ChatResponse{
		Model:        "@cf/meta/llama-3.1-8b-instruct",
		Content:      `{"job_title": "Engineer"}`,
		FinishReason: "stop",
		Usage:        &ai.Usage{PromptTokens: 3, CompletionTokens: 4, TotalTokens: 7},
	}

	tests := []struct {
		name      string
		level     LogLevel
		contains  []string
		forbidden []string
	}{
		{
			name:      "minimal",
			level:     LogLevelMinimal,
			contains:  []string{"llm send completed", "total_tokens=7"},
			forbidden: []string{"message_count", "finish_reason", "response_content"},
		},
		{
			name:      "standard",
			level:     LogLevelStandard,
			contains:  []string{"message_count=1", "structured=false", "finish_reason=stop"},
			forbidden: []string{"response_content", "first_message_content"},
		},
		{
			name:     "verbose",
			level:    LogLevelVerbose,
			contains: []string{"first_message_content=", "response_content="},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger()
			next := func(context.Context, ai.ChatRequest) (*ai.ChatResponse, error) { return response, nil }

			if _, err := NewLoggingMiddleware(logger, tt.level).Send(next)(context.Background(), request); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in output:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.forbidden {
				if strings.Contains(out, unwanted) {
					t.Errorf("did not expect %q in output:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestLoggingMiddleware_Error(t *testing.T) {
	logger, buf := newBufferLogger()
	sentinel := errors.New("upstream down")
	next := func(context.Context, ai.ChatRequest) (*ai.ChatResponse, error) { return nil, sentinel }

	_, err := NewLoggingMiddleware(logger, LogLevelStandard).Send(next)(context.Background(), ai.ChatRequest{Model: "m"})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if !strings.Contains(buf.String(), "llm send failed") || !strings.Contains(buf.String(), "upstream down") {
		t.Errorf("expected failure entry, got:\n%s", buf.String())
	}
}

func TestLoggingMiddleware_VerboseStructuredResponse(t *testing.T) {
	logger, buf := newBufferLogger()
	next := func(context.Context, ai.ChatRequest) (*ai.ChatResponse, error) {
		return &ai.ChatResponse{Structured: map[string]any{"job_title": "Engineer"}}, nil
	}

	if _, err := NewLoggingMiddleware(logger, LogLevelVerbose).Send(next)(context.Background(), ai.ChatRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "job_title") {
		t.Errorf("expected structured content in verbose output:\n%s", buf.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	if ParseLogLevel("minimal") != LogLevelMinimal || ParseLogLevel("verbose") != LogLevelVerbose || ParseLogLevel("other") != LogLevelStandard {
		t.Error("ParseLogLevel returned an unexpected level")
	}
}
