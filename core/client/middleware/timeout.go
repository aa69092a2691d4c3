package middleware

import (
	"context"
	"time"

	"github.com/ninetofive/scout/core/client"
	"github.com/ninetofive/scout/providers/ai"
)

// NewTimeoutMiddleware creates a MiddlewareConfig that enforces a per-request
// deadline. If the caller's context already has a shorter deadline, that one
// wins.
func NewTimeoutMiddleware(timeout time.Duration) client.MiddlewareConfig {
	return client.MiddlewareConfig{
		Send: func(next client.SendFunc) client.SendFunc {
			return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
				ctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()

				return next(ctx, request)
			}
		},
	}
}
