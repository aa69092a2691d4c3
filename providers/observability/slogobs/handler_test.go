package slogobs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(format Format, level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := NewHandler(&HandlerOptions{Format: format, Level: level, Output: &buf})
	return slog.New(h), &buf
}

func TestHandler_Compact(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, slog.LevelDebug)
	logger.Info("Parsed completion", "extract.stage", "direct", "fields", 14)

	out := buf.String()
	for _, want := range []string{" INFO ", "Parsed completion", " → ", `"extract.stage":"direct"`, `"fields":14`} {
		if !strings.Contains(out, want) {
			t.Errorf("compact output missing %q: %s", want, out)
		}
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("compact output should be a single line: %q", out)
	}
}

func TestHandler_CompactWithoutAttrs(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, slog.LevelDebug)
	logger.Info("ready")

	if strings.Contains(buf.String(), "→") {
		t.Errorf("separator printed without attributes: %q", buf.String())
	}
}

func TestHandler_PrettySortsAttributes(t *testing.T) {
	logger, buf := newTestLogger(FormatPretty, slog.LevelDebug)
	logger.Warn("Regenerating", "zeta", 1, "alpha", "a")

	out := buf.String()
	alpha := strings.Index(out, "├─ alpha: a")
	zeta := strings.Index(out, "└─ zeta: 1")
	if alpha < 0 || zeta < 0 {
		t.Fatalf("pretty output missing tree branches: %s", out)
	}
	if alpha > zeta {
		t.Errorf("attributes not sorted: %s", out)
	}
	if !strings.Contains(out, "WARN") {
		t.Errorf("missing level: %s", out)
	}
}

func TestHandler_JSON(t *testing.T) {
	logger, buf := newTestLogger(FormatJSON, slog.LevelDebug)
	logger.Error("Extraction failed", "job.id", "abc")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if record["level"] != "ERROR" || record["msg"] != "Extraction failed" || record["job.id"] != "abc" {
		t.Errorf("unexpected record: %v", record)
	}
	if _, ok := record["time"]; !ok {
		t.Error("missing time field")
	}
}

func TestHandler_LevelFiltering(t *testing.T) {
	logger, buf := newTestLogger(FormatCompact, slog.LevelWarn)
	logger.Info("hidden")
	logger.Debug("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("records below threshold were written: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %s", out)
	}
}

func TestHandler_GroupsAndAttrs(t *testing.T) {
	logger, buf := newTestLogger(FormatJSON, slog.LevelDebug)
	logger.With("run", "r1").WithGroup("job").Info("processed", "site", "indeed")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatal(err)
	}
	if record["run"] != "r1" {
		t.Errorf("handler attr missing: %v", record)
	}
	if record["job.site"] != "indeed" {
		t.Errorf("group prefix missing: %v", record)
	}
}

func TestHandler_Colors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&HandlerOptions{Format: FormatCompact, Level: slog.LevelDebug, Output: &buf, Colors: true}))
	logger.Error("boom")

	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected ANSI escape in colored output: %q", buf.String())
	}
}
