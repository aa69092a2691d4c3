// Package observability defines the tracing, metrics and logging interfaces
// that scout components accept as an injected dependency.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger]. Components that receive no observer fall back to [Nop].
// The client propagates the active [Provider] and [Span] through a
// [context.Context] using [ContextWithObserver] and [ContextWithSpan] so that
// providers can retrieve them with [ObserverFromContext] and [SpanFromContext].
//
// semconv.go holds the attribute keys, span names and metric names used
// across the module.
package observability
