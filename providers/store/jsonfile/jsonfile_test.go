package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSink_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "structured_jobs.json")
	sink := New(path)
	ctx := context.Background()

	records := []map[string]any{
		{"job_title": "Café <Manager>", "salary_min": 85000.0, "_metadata": map[string]any{"site": "indeed"}},
		{"job_title": "Engineer", "salary_min": "n/a"},
	}
	for _, r := range records {
		if err := sink.Write(ctx, r); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if sink.Len() != 2 {
		t.Errorf("Len() = %d, want 2", sink.Len())
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "Café <Manager>") {
		t.Errorf("expected unescaped text, got:\n%s", data)
	}
	if !strings.Contains(string(data), "\n  {") {
		t.Errorf("expected indented output, got:\n%s", data)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 2 || got[0]["salary_min"] != 85000.0 || got[1]["salary_min"] != "n/a" {
		t.Errorf("unexpected records: %v", got)
	}
	meta, _ := got[0]["_metadata"].(map[string]any)
	if meta["site"] != "indeed" {
		t.Errorf("metadata not preserved: %v", got[0])
	}
}

func TestSink_CopiesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	sink := New(path)

	record := map[string]any{"job_title": "Engineer"}
	if err := sink.Write(context.Background(), record); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	record["job_title"] = "mutated"

	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got[0]["job_title"] != "Engineer" {
		t.Errorf("record was not copied: %v", got[0])
	}
}

func TestSink_EmptyWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	if err := New(path).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file, stat error = %v", err)
	}
}

func TestSink_WriteAfterClose(t *testing.T) {
	sink := New(filepath.Join(t.TempDir(), "jobs.json"))
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := sink.Write(context.Background(), map[string]any{}); err == nil {
		t.Error("expected error writing to a closed sink")
	}
}
