package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/ninetofive/scout/core/client"
	"github.com/ninetofive/scout/core/client/middleware"
	"github.com/ninetofive/scout/providers/ai"
	"github.com/ninetofive/scout/providers/ai/cloudflare"
	"github.com/ninetofive/scout/providers/observability/slogobs"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	logLevel      string
	logFormat     string
	mode          string
	model         string
	fallbackModel string
	httpLog       string
	timeout       time.Duration
	rate          float64
	retries       int
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "scout",
		Short: "Structured job data extraction with Cloudflare Workers AI",
		Long: `Scout turns scraped job postings into structured job records.

Each posting is sent to a Workers AI model with a JSON schema. Answers that are
not clean JSON go through a recovery chain: fence stripping, direct parse,
boundary extraction, syntax repair, field-level completion and finally
regeneration with a fallback model.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (default: $SCOUT_LOG_LEVEL or info)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: compact, pretty, json (default: $SCOUT_LOG_FORMAT or compact)")
	flags.StringVar(&opts.mode, "mode", string(cloudflare.ModeWorker), "how to reach Workers AI: worker or direct")
	flags.StringVar(&opts.model, "model", "", "model for requests (default: "+cloudflare.DefaultModel+")")
	flags.StringVar(&opts.fallbackModel, "fallback-model", "", "model used for regeneration (default: --model)")
	flags.StringVar(&opts.httpLog, "http-log", "", "log every provider call: minimal, standard or verbose")
	flags.DurationVar(&opts.timeout, "timeout", 0, "per-request timeout, 0 disables it")
	flags.Float64Var(&opts.rate, "rate", 0, "maximum requests per second, 0 disables limiting")
	flags.IntVar(&opts.retries, "retries", 0, "retries for rate-limited or failed requests (0 uses the default of 3)")

	cmd.AddCommand(
		newExtractCmd(opts),
		newParseCmd(opts),
		newGenerateCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// observer builds the slog observer. Flags take precedence over the
// environment.
func (o *globalOptions) observer(w io.Writer) *slogobs.Observer {
	level := slogobs.GetLogLevelFromEnv()
	if o.logLevel != "" {
		level = slogobs.ParseLogLevel(o.logLevel)
	}
	format := slogobs.GetFormatFromEnv()
	if o.logFormat != "" {
		format = slogobs.ParseFormat(o.logFormat)
	}
	return slogobs.New(
		slogobs.WithOutput(w),
		slogobs.WithLevel(level),
		slogobs.WithFormat(format),
	)
}

// middlewares returns the provider middleware chain, outermost first.
func (o *globalOptions) middlewares(logger *slog.Logger) []client.MiddlewareConfig {
	chain := []client.MiddlewareConfig{
		middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: o.retries}),
	}
	if o.rate > 0 {
		chain = append(chain, middleware.NewRateLimitMiddleware(o.rate, 1))
	}
	if o.timeout > 0 {
		chain = append(chain, middleware.NewTimeoutMiddleware(o.timeout))
	}
	if o.httpLog != "" {
		chain = append(chain, middleware.NewLoggingMiddleware(logger, middleware.ParseLogLevel(o.httpLog)))
	}
	return chain
}

func (o *globalOptions) newClient(provider ai.Provider, observer *slogobs.Observer, systemPrompt string) (*client.Client, error) {
	opts := []func(*client.ClientOptions){
		client.WithObserver(observer),
		client.WithMiddleware(o.middlewares(observer.Logger())...),
	}
	if systemPrompt != "" {
		opts = append(opts, client.WithSystemPrompt(systemPrompt))
	}
	if o.model != "" {
		opts = append(opts, client.WithDefaultModel(o.model), client.WithStructuredModel(o.model))
	}
	if o.fallbackModel != "" {
		opts = append(opts, client.WithFallbackModel(o.fallbackModel))
	}
	return client.New(provider, opts...)
}

func (o *globalOptions) provider() ai.Provider {
	return cloudflare.NewProvider(cloudflare.ParseMode(o.mode))
}
