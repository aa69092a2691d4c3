package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ninetofive/scout/providers/ai"
)

// TestTimeoutMiddleware_DeadlineApplied verifies that next sees a deadline.
func TestTimeoutMiddleware_DeadlineApplied(t *testing.T) {
	var hadDeadline bool
	next := func(ctx context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		_, hadDeadline = ctx.Deadline()
		return &ai.ChatResponse{Content: "ok"}, nil
	}

	resp, err := NewTimeoutMiddleware(time.Second).Send(next)(context.Background(), ai.ChatRequest{})
	if err != nil || resp.Content != "ok" {
		t.Fatalf("unexpected result: %v, %v", resp, err)
	}
	if !hadDeadline {
		t.Error("expected a deadline on the downstream context")
	}
}

// TestTimeoutMiddleware_Expires verifies that a slow provider is cut off.
func TestTimeoutMiddleware_Expires(t *testing.T) {
	next := func(ctx context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	_, err := NewTimeoutMiddleware(10*time.Millisecond).Send(next)(context.Background(), ai.ChatRequest{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
}
