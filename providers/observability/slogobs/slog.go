package slogobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ninetofive/scout/providers/observability"
)

// Observer implements observability.Provider by writing every span, metric
// and log event to a slog.Logger.
type Observer struct {
	logger *slog.Logger

	mu         sync.Mutex
	counters   map[string]*counter
	histograms map[string]*histogram
}

var _ observability.Provider = (*Observer)(nil)

// New creates an Observer. Without options the layout and level come from
// the environment (see GetFormatFromEnv and GetLogLevelFromEnv).
//
//	observer := slogobs.New(
//	    slogobs.WithFormat(slogobs.FormatPretty),
//	    slogobs.WithLevel(slog.LevelDebug),
//	)
func New(opts ...Option) *Observer {
	cfg := applyOptions(opts...)

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(NewHandler(&HandlerOptions{
			Format: cfg.format,
			Level:  cfg.level,
			Output: cfg.output,
			Colors: cfg.colors,
		}))
	}

	return &Observer{
		logger:     logger,
		counters:   make(map[string]*counter),
		histograms: make(map[string]*histogram),
	}
}

// Logger exposes the underlying slog.Logger.
func (o *Observer) Logger() *slog.Logger {
	return o.logger
}

// --- TRACING ---

// StartSpan logs a span.start event at debug level and returns a span whose
// End logs the elapsed time together with every attribute gathered meanwhile.
// The returned context carries the span.
func (o *Observer) StartSpan(ctx context.Context, name string, attrs ...observability.Attribute) (context.Context, observability.Span) {
	s := &span{
		name:   name,
		start:  time.Now(),
		logger: o.logger,
		attrs:  append([]observability.Attribute{}, attrs...),
	}
	o.logger.LogAttrs(ctx, slog.LevelDebug, "Span started", withAttrs(spanHeader(name, "span.start"), attrs)...)
	return observability.ContextWithSpan(ctx, s), s
}

type span struct {
	name   string
	start  time.Time
	logger *slog.Logger

	mu    sync.Mutex
	attrs []observability.Attribute
	ended bool
}

func (s *span) End() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	attrs := append([]observability.Attribute{}, s.attrs...)
	s.mu.Unlock()

	header := append(spanHeader(s.name, "span.end"), slog.Duration(observability.AttrDuration, time.Since(s.start)))
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Span ended", withAttrs(header, attrs)...)
}

func (s *span) SetAttributes(attrs ...observability.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attrs...)
}

func (s *span) SetStatus(code observability.StatusCode, description string) {
	status := "unset"
	switch code {
	case observability.StatusOK:
		status = "ok"
	case observability.StatusError:
		status = "error"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, observability.String(observability.AttrStatus, status))
	if description != "" {
		s.attrs = append(s.attrs, observability.String(observability.AttrStatusDescription, description))
	}
}

// RecordError logs at error level immediately and keeps the error for End.
func (s *span) RecordError(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	s.attrs = append(s.attrs, observability.Error(err))
	s.mu.Unlock()

	header := append(spanHeader(s.name, "error"), slog.String(observability.AttrError, err.Error()))
	s.logger.LogAttrs(context.Background(), slog.LevelError, "Span error", header...)
}

func (s *span) AddEvent(name string, attrs ...observability.Attribute) {
	s.logger.LogAttrs(context.Background(), slog.LevelDebug, "Span event", withAttrs(spanHeader(s.name, name), attrs)...)
}

func spanHeader(name, event string) []slog.Attr {
	return []slog.Attr{slog.String("span", name), slog.String("event", event)}
}

// --- METRICS ---

// Counter returns the counter registered under name, creating it on first use.
func (o *Observer) Counter(name string) observability.Counter {
	o.mu.Lock()
	defer o.mu.Unlock()
	c, ok := o.counters[name]
	if !ok {
		c = &counter{name: name, logger: o.logger}
		o.counters[name] = c
	}
	return c
}

// Histogram returns the histogram registered under name, creating it on first use.
func (o *Observer) Histogram(name string) observability.Histogram {
	o.mu.Lock()
	defer o.mu.Unlock()
	h, ok := o.histograms[name]
	if !ok {
		h = &histogram{name: name, logger: o.logger}
		o.histograms[name] = h
	}
	return h
}

// CounterValue returns the running total of a counter, or 0 if it was never used.
func (o *Observer) CounterValue(name string) int64 {
	o.mu.Lock()
	c, ok := o.counters[name]
	o.mu.Unlock()
	if !ok {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

type counter struct {
	name   string
	logger *slog.Logger

	mu    sync.Mutex
	value int64
}

func (c *counter) Add(ctx context.Context, delta int64, attrs ...observability.Attribute) {
	c.mu.Lock()
	c.value += delta
	total := c.value
	c.mu.Unlock()

	header := []slog.Attr{
		slog.String("metric", c.name),
		slog.String("type", "counter"),
		slog.Int64("value", total),
		slog.Int64("delta", delta),
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "Counter", withAttrs(header, attrs)...)
}

type histogram struct {
	name   string
	logger *slog.Logger
}

func (h *histogram) Record(ctx context.Context, value float64, attrs ...observability.Attribute) {
	header := []slog.Attr{
		slog.String("metric", h.name),
		slog.String("type", "histogram"),
		slog.Float64("value", value),
	}
	h.logger.LogAttrs(ctx, slog.LevelDebug, "Histogram", withAttrs(header, attrs)...)
}

// --- LOGGING ---

// Trace logs below debug level; raw model output is logged here.
func (o *Observer) Trace(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, LevelTrace, msg, withAttrs(nil, attrs)...)
}

func (o *Observer) Debug(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelDebug, msg, withAttrs(nil, attrs)...)
}

func (o *Observer) Info(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelInfo, msg, withAttrs(nil, attrs)...)
}

func (o *Observer) Warn(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelWarn, msg, withAttrs(nil, attrs)...)
}

func (o *Observer) Error(ctx context.Context, msg string, attrs ...observability.Attribute) {
	o.logger.LogAttrs(ctx, slog.LevelError, msg, withAttrs(nil, attrs)...)
}

func withAttrs(head []slog.Attr, attrs []observability.Attribute) []slog.Attr {
	out := make([]slog.Attr, 0, len(head)+len(attrs))
	out = append(out, head...)
	for _, attr := range attrs {
		out = append(out, slog.Any(attr.Key, attr.Value))
	}
	return out
}
