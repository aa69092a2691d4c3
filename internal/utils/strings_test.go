package utils

import (
	"strings"
	"testing"
	"time"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"long", "hello world", 5, "hello... (truncated, total: 11 chars)"},
		{"multibyte boundary", "héllo", 2, "h... (truncated, total: 6 chars)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}

	long := strings.Repeat("x", DefaultMaxStringLength+1)
	if got := TruncateString(long, 0); !strings.HasPrefix(got, strings.Repeat("x", DefaultMaxStringLength)+"...") {
		t.Errorf("zero maxLen should use the default, got %q", got)
	}
}

func TestJSONToString(t *testing.T) {
	if got := JSONToString(map[string]int{"a": 1}, false); got != `{"a":1}` {
		t.Errorf("compact = %s", got)
	}
	if got := JSONToString(map[string]int{"a": 1}, true); got != "{\n  \"a\": 1\n}" {
		t.Errorf("indented = %s", got)
	}
	if got := JSONToString(make(chan int), false); !strings.HasPrefix(got, `{"error": "failed to marshal`) {
		t.Errorf("marshal error = %s", got)
	}
}

func TestPtr(t *testing.T) {
	p := Ptr(0.2)
	if p == nil || *p != 0.2 {
		t.Errorf("Ptr(0.2) = %v", p)
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	time.Sleep(5 * time.Millisecond)
	if timer.Duration() <= 0 {
		t.Error("running timer should report elapsed time")
	}
	d := timer.Stop()
	if d < 5*time.Millisecond || timer.Duration() != d {
		t.Errorf("Stop() = %v, Duration() = %v", d, timer.Duration())
	}
	timer.Start()
	if timer.Duration() >= d {
		t.Errorf("Start should reset the timer: %v", timer.Duration())
	}
}
