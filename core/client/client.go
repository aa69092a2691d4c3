package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ninetofive/scout/core/extract"
	"github.com/ninetofive/scout/core/jsonschema"
	"github.com/ninetofive/scout/providers/ai"
	"github.com/ninetofive/scout/providers/observability"
)

var (
	// ErrNilProvider is returned by New when no provider is given.
	ErrNilProvider = errors.New("client: provider is nil")

	// ErrEmptyResponse is returned by GenerateText when the provider answers
	// without any text.
	ErrEmptyResponse = errors.New("client: empty response")
)

// Client sends requests through a middleware chain and recovers structured
// objects from the answers. It is immutable after New and safe for
// concurrent use.
type Client struct {
	llmProvider     ai.Provider
	systemPrompt    string
	defaultModel    string
	structuredModel string
	fallbackModel   string
	observer        observability.Provider
	send            SendFunc
	extractor       *extract.Extractor
}

// New creates a client for provider. When an observer is configured the
// observability middleware is prepended to the chain.
func New(llmProvider ai.Provider, opts ...func(*ClientOptions)) (*Client, error) {
	if llmProvider == nil {
		return nil, ErrNilProvider
	}

	options := &ClientOptions{SystemPrompt: DefaultSystemPrompt}
	for _, opt := range opts {
		opt(options)
	}

	for i, mw := range options.Middlewares {
		if mw.Send == nil {
			return nil, fmt.Errorf("client: middleware at index %d has a nil Send function", i)
		}
	}

	c := &Client{
		llmProvider:     llmProvider,
		systemPrompt:    options.SystemPrompt,
		defaultModel:    options.DefaultModel,
		structuredModel: firstNonEmpty(options.StructuredModel, options.DefaultModel),
		fallbackModel:   firstNonEmpty(options.FallbackModel, options.DefaultModel),
		observer:        options.Observer,
	}

	middlewares := options.Middlewares
	if c.observer != nil {
		middlewares = append([]MiddlewareConfig{NewObservabilityMiddleware(c.observer, c.defaultModel)}, middlewares...)
	}
	c.send = buildSendChain(llmProvider, middlewares)

	c.extractor = options.Extractor
	if c.extractor == nil {
		extractOpts := []extract.Option{
			extract.WithGenerator(c),
			extract.WithFallbackModel(c.fallbackModel),
		}
		if options.RetryPolicy != nil {
			extractOpts = append(extractOpts, extract.WithRetryPolicy(*options.RetryPolicy))
		}
		if c.observer != nil {
			extractOpts = append(extractOpts, extract.WithObserver(c.observer))
		}
		c.extractor = extract.New(extractOpts...)
	}

	return c, nil
}

// Extractor returns the extractor used by StructuredResponse.
func (c *Client) Extractor() *extract.Extractor {
	return c.extractor
}

// SendMessage sends request through the middleware chain. The client's system
// prompt is used when the request has none.
func (c *Client) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if request.SystemPrompt == "" {
		request.SystemPrompt = c.systemPrompt
	}
	return c.send(ctx, request)
}

// GenerateText sends prompt as a plain text request. An empty model selects
// the client's default model.
func (c *Client) GenerateText(ctx context.Context, prompt, model string) (string, error) {
	response, err := c.SendMessage(ctx, ai.ChatRequest{
		Model:    firstNonEmpty(model, c.defaultModel),
		Messages: []ai.Message{{Role: ai.RoleUser, Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	switch {
	case strings.TrimSpace(response.Content) != "":
		return response.Content, nil
	case response.Structured != nil:
		data, err := json.Marshal(response.Structured)
		if err != nil {
			return "", fmt.Errorf("client: encoding structured answer: %w", err)
		}
		return string(data), nil
	default:
		return "", ErrEmptyResponse
	}
}

// Generate implements extract.Generator.
func (c *Client) Generate(ctx context.Context, prompt, model string) (string, error) {
	return c.GenerateText(ctx, prompt, model)
}

// StructuredResponse asks for an object following s and recovers it from
// whatever comes back:
//
//   - a transport error or an empty answer falls back to regeneration
//   - an already-decoded object is returned as-is
//   - text goes through the extractor, with prompt available for regeneration
func (c *Client) StructuredResponse(ctx context.Context, prompt string, s *jsonschema.Schema) (extract.Result, error) {
	response, err := c.SendMessage(ctx, ai.ChatRequest{
		Model:          c.structuredModel,
		Messages:       []ai.Message{{Role: ai.RoleUser, Content: prompt}},
		ResponseFormat: &ai.ResponseFormat{Type: ai.FormatJSONSchema, OutputSchema: s},
	})

	if err != nil || response.IsEmpty() {
		c.logFallback(ctx, err)
		return c.extractor.Regenerate(ctx, prompt, s)
	}

	if response.Structured != nil {
		return c.extractor.Extract(ctx, response.Structured, s)
	}
	return c.extractor.Extract(ctx, response.Content, s, extract.WithPrompt(prompt))
}

func (c *Client) logFallback(ctx context.Context, err error) {
	if c.observer == nil {
		return
	}

	reason := "empty structured answer"
	attrs := []observability.Attribute{observability.String(observability.AttrLLMModel, c.fallbackModel)}
	if err != nil {
		reason = "structured request failed"
		attrs = append(attrs, observability.Error(err))
	}
	c.observer.Warn(ctx, "Falling back to regeneration: "+reason, attrs...)
	c.observer.Counter(observability.MetricClientFallback).Add(ctx, 1)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
