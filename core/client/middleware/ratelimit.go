package middleware

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ninetofive/scout/core/client"
	"github.com/ninetofive/scout/providers/ai"
)

// NewRateLimitMiddleware creates a MiddlewareConfig that waits for a token
// before every provider call. perSecond is the sustained request rate and
// burst the number of requests allowed at once; a burst below 1 is raised
// to 1. A non-positive perSecond disables limiting.
//
// The limiter is shared by every request passing through the returned
// middleware, including concurrent ones.
func NewRateLimitMiddleware(perSecond float64, burst int) client.MiddlewareConfig {
	if burst < 1 {
		burst = 1
	}

	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	limiter := rate.NewLimiter(limit, burst)

	return client.MiddlewareConfig{
		Send: func(next client.SendFunc) client.SendFunc {
			return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
				if err := limiter.Wait(ctx); err != nil {
					return nil, fmt.Errorf("rate limit: %w", err)
				}
				return next(ctx, request)
			}
		},
	}
}
