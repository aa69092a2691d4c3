package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T, table string) (*Sink, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.db")
	sink, err := Open(context.Background(), path, table)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = sink.Close() })
	return sink, path
}

func TestSink_WriteAndQuery(t *testing.T) {
	sink, path := openTemp(t, "")
	ctx := context.Background()

	if sink.Table() != DefaultTable {
		t.Errorf("Table() = %q, want %q", sink.Table(), DefaultTable)
	}

	record := map[string]any{
		"job_title":  "Engineer",
		"salary_min": 85000.0,
		"remote":     true,
		"department": nil,
		"_metadata":  map[string]any{"site": "indeed", "original_id": "in-1"},
	}
	if err := sink.Write(ctx, record); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	rows, err := Query(ctx, path, "SELECT * FROM jobs")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	tests := map[string]any{
		"job_title":  "Engineer",
		"salary_min": "85000",
		"remote":     "true",
		"department": nil,
		"_metadata":  `{"original_id":"in-1","site":"indeed"}`,
	}
	for col, want := range tests {
		if row[col] != want {
			t.Errorf("%s = %#v, want %#v", col, row[col], want)
		}
	}
}

func TestSink_AddsNewColumns(t *testing.T) {
	sink, _ := openTemp(t, "structured")
	ctx := context.Background()

	if err := sink.Write(ctx, map[string]any{"job_title": "A"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := sink.Write(ctx, map[string]any{"job_title": "B", "salary_raw": "$10/h"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	rows, err := sink.Query(ctx, "SELECT job_title, salary_raw FROM structured ORDER BY job_title")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(rows) != 2 || rows[0]["salary_raw"] != nil || rows[1]["salary_raw"] != "$10/h" {
		t.Errorf("unexpected rows: %v", rows)
	}
}

func TestSink_ReopenKeepsColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.db")
	ctx := context.Background()

	first, err := Open(ctx, path, "jobs")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.Write(ctx, map[string]any{"job_title": "A", "site": "x"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	_ = first.Close()

	second, err := Open(ctx, path, "jobs")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = second.Close() }()
	if !second.columns["job_title"] || !second.columns["site"] {
		t.Errorf("columns not loaded: %v", second.columns)
	}
	if err := second.Write(ctx, map[string]any{"job_title": "B", "extra": "y"}); err != nil {
		t.Fatalf("Write() after reopen error = %v", err)
	}

	rows, err := second.Query(ctx, "SELECT COUNT(*) AS n FROM jobs")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if rows[0]["n"] != int64(2) {
		t.Errorf("row count = %#v, want 2", rows[0]["n"])
	}
}

func TestSink_RejectsInvalidIdentifiers(t *testing.T) {
	if _, err := Open(context.Background(), filepath.Join(t.TempDir(), "x.db"), "jobs; DROP TABLE x"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("Open() error = %v, want ErrInvalidIdentifier", err)
	}

	sink, _ := openTemp(t, "jobs")
	err := sink.Write(context.Background(), map[string]any{"job title": "x"})
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("Write() error = %v, want ErrInvalidIdentifier", err)
	}
}

func TestColumnValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "string", in: "n/a", want: "n/a"},
		{name: "integral float", in: 120000.0, want: "120000"},
		{name: "fraction", in: 12.5, want: "12.5"},
		{name: "bool", in: false, want: "false"},
		{name: "slice", in: []any{"go", "sql"}, want: `["go","sql"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := columnValue(tt.in)
			if err != nil {
				t.Fatalf("columnValue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("columnValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
