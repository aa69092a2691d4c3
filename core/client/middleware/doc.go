// Package middleware provides built-in middleware for the scout client. Each
// middleware is constructed via a New* function that returns a
// [client.MiddlewareConfig] ready to be passed to [client.WithMiddleware].
//
//   - [NewRetryMiddleware] retries failed provider calls with exponential
//     backoff and jitter, for transient HTTP 429 / 5xx errors.
//   - [NewTimeoutMiddleware] adds a per-request deadline.
//   - [NewRateLimitMiddleware] spaces requests with a token bucket so batch
//     runs stay under the endpoint's rate limit.
//   - [NewLoggingMiddleware] emits structured slog entries before and after
//     every provider call.
//
// Middlewares execute outermost-first:
//
//	c, err := client.New(provider,
//	    client.WithMiddleware(
//	        middleware.NewTimeoutMiddleware(30*time.Second),
//	        middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: 3}),
//	        middleware.NewRateLimitMiddleware(2, 1),
//	        middleware.NewLoggingMiddleware(slog.Default(), middleware.LogLevelStandard),
//	    ),
//	)
//
// A request travels Timeout → Retry → RateLimit → Logging → Provider, so
// every retry waits for its own token.
package middleware
