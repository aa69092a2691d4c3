package store

import (
	"context"
	"errors"
)

// Sink persists extracted records.
type Sink interface {
	// Write stores one record. Implementations must not retain record after
	// returning unless they copy it.
	Write(ctx context.Context, record map[string]any) error

	// Close flushes pending records and releases resources.
	Close() error
}

// Multi fans every record out to all sinks, in order. Write stops at the
// first failing sink; Close closes every sink and joins their errors.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) Write(ctx context.Context, record map[string]any) error {
	for _, s := range m {
		if err := s.Write(ctx, record); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard is a Sink that drops every record.
var Discard Sink = discard{}

type discard struct{}

func (discard) Write(context.Context, map[string]any) error { return nil }
func (discard) Close() error                                { return nil }
