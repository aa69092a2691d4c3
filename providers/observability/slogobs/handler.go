package slogobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Handler is a slog.Handler that renders records in one of the scout layouts.
type Handler struct {
	format Format
	level  slog.Leveler
	output io.Writer
	colors bool
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	Format Format
	Level  slog.Leveler
	// Output defaults to os.Stderr.
	Output io.Writer
	// Colors forces ANSI colors. When false, colors are still enabled for
	// terminals unless the layout is json.
	Colors bool
}

// NewHandler creates a Handler.
func NewHandler(opts *HandlerOptions) *Handler {
	if opts == nil {
		opts = &HandlerOptions{}
	}
	h := &Handler{
		format: opts.Format,
		level:  opts.Level,
		output: opts.Output,
		colors: opts.Colors,
		mu:     &sync.Mutex{},
	}
	if h.output == nil {
		h.output = os.Stderr
	}
	if h.format == "" {
		h.format = FormatCompact
	}
	if h.level == nil {
		h.level = slog.LevelInfo
	}
	if !h.colors && h.format != FormatJSON {
		if f, ok := h.output.(*os.File); ok {
			h.colors = isatty.IsTerminal(f.Fd())
		}
	}
	return h
}

// Enabled reports whether records at level are written.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes a record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	keys, values := h.collectAttrs(r)

	var line []byte
	var err error
	switch h.format {
	case FormatPretty:
		line = h.renderPretty(r, keys, values)
	case FormatJSON:
		line, err = h.renderJSON(r, values)
	default:
		line, err = h.renderCompact(r, keys, values)
	}
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.output.Write(line)
	return err
}

// WithAttrs returns a Handler that adds attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), h.qualify(attrs)...)
	return &clone
}

// WithGroup returns a Handler that prefixes subsequent keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

// renderCompact: "2006-01-02 15:04:05 LEVEL Message → {"key":"value"}".
func (h *Handler) renderCompact(r slog.Record, keys []string, values map[string]any) ([]byte, error) {
	var b strings.Builder
	b.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	b.WriteByte(' ')
	b.WriteString(h.paint(r.Level, fmt.Sprintf("%5s", LogLevelString(r.Level))))
	b.WriteByte(' ')
	b.WriteString(r.Message)

	if len(keys) > 0 {
		// encoding/json sorts map keys, matching the pretty layout's order
		data, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		b.WriteString(" → ")
		b.Write(data)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// renderPretty prints the header line followed by one tree branch per attribute.
func (h *Handler) renderPretty(r slog.Record, keys []string, values map[string]any) []byte {
	const indent = "                    "

	var b strings.Builder
	level := LogLevelString(r.Level)
	b.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	b.WriteByte(' ')
	b.WriteString(h.paint(r.Level, level))
	b.WriteString(strings.Repeat(" ", 7-len(level)))
	b.WriteString(r.Message)
	b.WriteByte('\n')

	for i, key := range keys {
		branch := "├─ "
		if i == len(keys)-1 {
			branch = "└─ "
		}
		b.WriteString(indent)
		b.WriteString(branch)
		b.WriteString(key)
		b.WriteString(": ")
		fmt.Fprintf(&b, "%v", values[key])
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func (h *Handler) renderJSON(r slog.Record, values map[string]any) ([]byte, error) {
	data := make(map[string]any, len(values)+3)
	for k, v := range values {
		data[k] = v
	}
	data["time"] = r.Time.Format("2006-01-02T15:04:05Z07:00")
	data["level"] = LogLevelString(r.Level)
	data["msg"] = r.Message

	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// collectAttrs merges handler and record attributes. Keys are returned sorted.
func (h *Handler) collectAttrs(r slog.Record) ([]string, map[string]any) {
	values := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		values[attr.Key] = attrValue(attr.Value)
	}
	prefix := h.prefix()
	r.Attrs(func(attr slog.Attr) bool {
		values[prefix+attr.Key] = attrValue(attr.Value)
		return true
	})

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, values
}

func (h *Handler) qualify(attrs []slog.Attr) []slog.Attr {
	prefix := h.prefix()
	if prefix == "" {
		return attrs
	}
	out := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		out[i] = slog.Attr{Key: prefix + attr.Key, Value: attr.Value}
	}
	return out
}

func (h *Handler) prefix() string {
	if len(h.groups) == 0 {
		return ""
	}
	return strings.Join(h.groups, ".") + "."
}

func attrValue(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format("2006-01-02T15:04:05Z07:00")
	default:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return v.Any()
	}
}

func (h *Handler) paint(level slog.Level, s string) string {
	if !h.colors {
		return s
	}
	c := levelColor(level)
	c.EnableColor()
	return c.Sprint(s)
}

func levelColor(level slog.Level) *color.Color {
	switch {
	case level < slog.LevelDebug:
		return color.New(color.FgHiBlack)
	case level < slog.LevelInfo:
		return color.New(color.FgBlue)
	case level < slog.LevelWarn:
		return color.New(color.FgGreen)
	case level < slog.LevelError:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}
