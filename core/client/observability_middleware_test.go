package client

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ninetofive/scout/providers/ai"
	"github.com/ninetofive/scout/providers/observability"
	"github.com/ninetofive/scout/providers/observability/slogobs"
)

func newTestObserver() (*slogobs.Observer, *bytes.Buffer) {
	var buf bytes.Buffer
	return slogobs.New(slogobs.WithOutput(&buf), slogobs.WithLevel(slogobs.LevelTrace), slogobs.WithFormat(slogobs.FormatCompact)), &buf
}

func TestObservabilityMiddleware_Success(t *testing.T) {
	observer, buf := newTestObserver()

	var sawSpan, sawObserver bool
	next := func(ctx context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		sawSpan = observability.SpanFromContext(ctx) != nil
		sawObserver = observability.ObserverFromContext(ctx) != nil
		return &ai.ChatResponse{Content: "ok", FinishReason: "stop", Usage: &ai.Usage{TotalTokens: 42}}, nil
	}

	mw := NewObservabilityMiddleware(observer, "default-model")
	if _, err := mw.Send(next)(context.Background(), ai.ChatRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !sawSpan || !sawObserver {
		t.Errorf("expected span and observer in context (span=%v observer=%v)", sawSpan, sawObserver)
	}
	if got := observer.CounterValue(observability.MetricClientRequestCount); got != 1 {
		t.Errorf("request count = %d, want 1", got)
	}
	if got := observer.CounterValue(observability.MetricClientTokensTotal); got != 42 {
		t.Errorf("token count = %d, want 42", got)
	}
	out := buf.String()
	if !strings.Contains(out, "llm send completed") || !strings.Contains(out, "default-model") {
		t.Errorf("expected completion log with default model, got:\n%s", out)
	}
}

func TestObservabilityMiddleware_Error(t *testing.T) {
	observer, buf := newTestObserver()
	sentinel := errors.New("boom")

	mw := NewObservabilityMiddleware(observer, "")
	_, err := mw.Send(func(context.Context, ai.ChatRequest) (*ai.ChatResponse, error) {
		return nil, sentinel
	})(context.Background(), ai.ChatRequest{Model: "m"})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if got := observer.CounterValue(observability.MetricClientRequestCount); got != 1 {
		t.Errorf("request count = %d, want 1", got)
	}
	if !strings.Contains(buf.String(), "llm send failed") {
		t.Errorf("expected failure log, got:\n%s", buf.String())
	}
}

// TestNew_ObserverIsOutermost verifies that New prepends the observability
// middleware so user middlewares already see the observer in context.
func TestNew_ObserverIsOutermost(t *testing.T) {
	observer, _ := newTestObserver()

	var sawObserver bool
	probe := MiddlewareConfig{
		Send: func(next SendFunc) SendFunc {
			return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
				sawObserver = observability.ObserverFromContext(ctx) != nil
				return next(ctx, request)
			}
		},
	}

	c, err := New(&mockProvider{}, WithObserver(observer), WithMiddleware(probe))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := c.GenerateText(context.Background(), "hi", ""); err != nil {
		t.Fatalf("GenerateText failed: %v", err)
	}
	if !sawObserver {
		t.Error("expected the observer to be injected before user middlewares")
	}
}

func TestEffectiveModel(t *testing.T) {
	if effectiveModel("a", "b") != "a" || effectiveModel("", "b") != "b" || effectiveModel("", "") != "" {
		t.Error("effectiveModel returned an unexpected value")
	}
}

