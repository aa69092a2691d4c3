package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ninetofive/scout/internal/utils"
	"github.com/ninetofive/scout/providers/ai"
)

// ========== Mock helpers ==========

// mockSendSequence builds a client.SendFunc-compatible function with a
// configurable return sequence. Each call pops the next element.
type mockSendSequence struct {
	responses []*ai.ChatResponse
	errors    []error
	callCount int
}

func (m *mockSendSequence) next(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
	index := m.callCount
	m.callCount++

	if index < len(m.errors) && m.errors[index] != nil {
		return nil, m.errors[index]
	}

	if index < len(m.responses) {
		return m.responses[index], nil
	}

	return &ai.ChatResponse{Content: "default", FinishReason: "stop"}, nil
}

func statusErr(code int) error {
	return &utils.StatusError{StatusCode: code, Body: "boom"}
}

// fastRetry keeps backoff negligible so tests run quickly.
func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

// ========== NewRetryMiddleware tests ==========

// TestRetryMiddleware_SuccessOnFirstTry verifies that no retry happens when
// the provider succeeds immediately.
func TestRetryMiddleware_SuccessOnFirstTry(t *testing.T) {
	seq := &mockSendSequence{
		responses: []*ai.ChatResponse{{Content: "ok", FinishReason: "stop"}},
	}

	chain := NewRetryMiddleware(fastRetry(3)).Send(seq.next)

	resp, err := chain(context.Background(), ai.ChatRequest{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp.Content != "ok" {
		t.Errorf("expected content 'ok', got %q", resp.Content)
	}
	if seq.callCount != 1 {
		t.Errorf("expected 1 call, got %d", seq.callCount)
	}
}

// TestRetryMiddleware_RetriesTransientErrors verifies that retryable status
// codes are retried until success.
func TestRetryMiddleware_RetriesTransientErrors(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 529} {
		t.Run(fmt.Sprintf("status %d", code), func(t *testing.T) {
			seq := &mockSendSequence{
				errors:    []error{statusErr(code), statusErr(code)},
				responses: []*ai.ChatResponse{nil, nil, {Content: "third time", FinishReason: "stop"}},
			}

			chain := NewRetryMiddleware(fastRetry(3)).Send(seq.next)

			resp, err := chain(context.Background(), ai.ChatRequest{})
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if resp.Content != "third time" {
				t.Errorf("expected content 'third time', got %q", resp.Content)
			}
			if seq.callCount != 3 {
				t.Errorf("expected 3 calls, got %d", seq.callCount)
			}
		})
	}
}

// TestRetryMiddleware_NonRetryablePropagates verifies that non-transient
// errors are returned immediately without wrapping.
func TestRetryMiddleware_NonRetryablePropagates(t *testing.T) {
	badRequest := statusErr(http.StatusBadRequest)
	seq := &mockSendSequence{errors: []error{badRequest}}

	chain := NewRetryMiddleware(fastRetry(3)).Send(seq.next)

	_, err := chain(context.Background(), ai.ChatRequest{})
	if !errors.Is(err, badRequest) {
		t.Fatalf("expected the original error, got %v", err)
	}
	if errors.Is(err, ErrRetryExhausted) {
		t.Error("non-retryable error must not be wrapped with ErrRetryExhausted")
	}
	if seq.callCount != 1 {
		t.Errorf("expected 1 call, got %d", seq.callCount)
	}
}

// TestRetryMiddleware_Exhausted verifies the wrapped error after the last
// attempt.
func TestRetryMiddleware_Exhausted(t *testing.T) {
	last := statusErr(503)
	seq := &mockSendSequence{errors: []error{statusErr(503), statusErr(503), last}}

	chain := NewRetryMiddleware(fastRetry(2)).Send(seq.next)

	_, err := chain(context.Background(), ai.ChatRequest{})
	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("expected ErrRetryExhausted, got %v", err)
	}
	if !errors.Is(err, last) {
		t.Error("expected last provider error to be wrapped")
	}
	if seq.callCount != 3 {
		t.Errorf("expected 3 calls (1 + 2 retries), got %d", seq.callCount)
	}
}

// TestRetryMiddleware_ContextCancelledDuringBackoff verifies that cancellation
// interrupts the wait between attempts.
func TestRetryMiddleware_ContextCancelledDuringBackoff(t *testing.T) {
	seq := &mockSendSequence{errors: []error{statusErr(429), statusErr(429)}}

	chain := NewRetryMiddleware(RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Hour,
		MaxBackoff:     time.Hour,
	}).Send(seq.next)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := chain(ctx, ai.ChatRequest{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if seq.callCount != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", seq.callCount)
	}
}

func TestDefaultRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "429", err: statusErr(429), want: true},
		{name: "wrapped 502", err: fmt.Errorf("send: %w", statusErr(502)), want: true},
		{name: "404", err: statusErr(404), want: false},
		{name: "plain error mentioning 500", err: errors.New("took 500ms"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultRetryable(tt.err); got != tt.want {
				t.Errorf("DefaultRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeBackoff(t *testing.T) {
	config := RetryConfig{}
	applyRetryDefaults(&config)

	tests := []struct {
		attempt int
		min     time.Duration
		max     time.Duration
	}{
		{attempt: 0, min: time.Second, max: 1100 * time.Millisecond},
		{attempt: 2, min: 4 * time.Second, max: 4400 * time.Millisecond},
		{attempt: 10, min: 30 * time.Second, max: 33 * time.Second},
	}

	for _, tt := range tests {
		got := computeBackoff(config, tt.attempt)
		if got < tt.min || got > tt.max {
			t.Errorf("computeBackoff(%d) = %v, want within [%v, %v]", tt.attempt, got, tt.min, tt.max)
		}
	}
}
