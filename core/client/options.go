package client

import (
	"github.com/ninetofive/scout/core/extract"
	"github.com/ninetofive/scout/providers/observability"
)

// DefaultSystemPrompt is sent when no WithSystemPrompt option is given.
const DefaultSystemPrompt = "You are a helpful AI assistant."

// ClientOptions contains configuration for creating a Client.
type ClientOptions struct {
	SystemPrompt    string
	DefaultModel    string // Model for text requests; empty lets the provider choose
	StructuredModel string // Model for structured requests; falls back to DefaultModel
	FallbackModel   string // Model used for regeneration; falls back to DefaultModel
	Observer        observability.Provider
	Middlewares     []MiddlewareConfig
	Extractor       *extract.Extractor
	RetryPolicy     *extract.RetryPolicy
}

// WithObserver sets the observability provider. It is also handed to the
// extractor built by New.
func WithObserver(observer observability.Provider) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.Observer = observer
	}
}

// WithSystemPrompt sets the system instruction sent with every request.
func WithSystemPrompt(prompt string) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.SystemPrompt = prompt
	}
}

// WithDefaultModel sets the model for text generation.
func WithDefaultModel(model string) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.DefaultModel = model
	}
}

// WithStructuredModel sets the model for structured requests.
func WithStructuredModel(model string) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.StructuredModel = model
	}
}

// WithFallbackModel sets the model used when an object has to be regenerated.
func WithFallbackModel(model string) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.FallbackModel = model
	}
}

// WithMiddleware appends middlewares to the send chain. The first middleware
// given is the outermost wrapper.
func WithMiddleware(middlewares ...MiddlewareConfig) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.Middlewares = append(o.Middlewares, middlewares...)
	}
}

// WithExtractor replaces the extractor New would build. The caller is then
// responsible for wiring its Generator.
func WithExtractor(extractor *extract.Extractor) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.Extractor = extractor
	}
}

// WithRetryPolicy sets the regeneration retry policy of the extractor built
// by New. Ignored when WithExtractor is used.
func WithRetryPolicy(policy extract.RetryPolicy) func(*ClientOptions) {
	return func(o *ClientOptions) {
		o.RetryPolicy = &policy
	}
}
