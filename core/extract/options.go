package extract

import (
	"context"
	"time"

	"github.com/ninetofive/scout/providers/observability"
)

// Generator produces free text for a prompt. It is used only to regenerate
// an object after every textual strategy has failed. An error or an empty
// string both count as "no text".
type Generator interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt, model string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt, model string) (string, error) {
	return f(ctx, prompt, model)
}

// RetryPolicy controls regeneration attempts. Attempts are spaced by a fixed
// Delay.
type RetryPolicy struct {
	Attempts uint
	Delay    time.Duration
}

// DefaultRetryPolicy is three attempts one second apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: time.Second}
}

// Options configures an Extractor.
type Options struct {
	Generator     Generator
	FallbackModel string
	RetryPolicy   RetryPolicy
	Observer      observability.Provider
}

// Option mutates Options.
type Option func(*Options)

// WithGenerator sets the collaborator used for regeneration.
func WithGenerator(g Generator) Option {
	return func(o *Options) {
		o.Generator = g
	}
}

// WithFallbackModel sets the model passed to the Generator.
func WithFallbackModel(model string) Option {
	return func(o *Options) {
		o.FallbackModel = model
	}
}

// WithRetryPolicy overrides DefaultRetryPolicy. Tests use a zero delay.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(o *Options) {
		o.RetryPolicy = p
	}
}

// WithObserver sets where stage failures are logged and counted.
func WithObserver(p observability.Provider) Option {
	return func(o *Options) {
		o.Observer = p
	}
}

// ExtractOption tunes a single Extract call.
type ExtractOption func(*extractConfig)

type extractConfig struct {
	prompt string
}

// WithPrompt supplies the prompt that produced the completion. Regeneration
// resends it instead of the raw completion text.
func WithPrompt(prompt string) ExtractOption {
	return func(c *extractConfig) {
		c.prompt = prompt
	}
}
