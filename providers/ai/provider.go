package ai

import (
	"context"
	"net/http"
)

// Provider is the interface every LLM backend implements. It covers one
// request/response round trip: authentication, endpoint configuration,
// dispatch and interpretation of the finish reason.
type Provider interface {
	// SendMessage sends a chat request and returns the completed response.
	// Returns an error if the call fails, the context is cancelled, or the
	// response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// IsStopMessage reports whether the response is a terminal completion.
	IsStopMessage(message *ChatResponse) bool

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}
