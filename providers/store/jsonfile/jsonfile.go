// Package jsonfile writes extracted records to a single JSON array file.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
)

// Sink buffers records in memory and writes them as an indented JSON array
// on Close. Nothing is written when no record was received.
type Sink struct {
	path string

	mu      sync.Mutex
	records []map[string]any
	closed  bool
}

// New creates a sink writing to path.
func New(path string) *Sink {
	return &Sink{path: path}
}

// Path returns the output file path.
func (s *Sink) Path() string {
	return s.path
}

// Write buffers a shallow copy of record.
func (s *Sink) Write(_ context.Context, record map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("jsonfile: write to closed sink %s", s.path)
	}
	s.records = append(s.records, maps.Clone(record))
	return nil
}

// Len returns the number of buffered records.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Close writes the buffered records. Calling Close twice is a no-op.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if len(s.records) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.records); err != nil {
		return fmt.Errorf("jsonfile: encoding records: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("jsonfile: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("jsonfile: writing %s: %w", s.path, err)
	}
	return nil
}

// Read loads a file written by Sink.
func Read(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("jsonfile: reading %s: %w", path, err)
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("jsonfile: decoding %s: %w", path, err)
	}
	return records, nil
}
