package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ninetofive/scout/core/extract"
	"github.com/ninetofive/scout/core/jsonschema"
	"github.com/ninetofive/scout/providers/observability"
	"github.com/ninetofive/scout/providers/store"
)

// ErrNilResponder is returned by NewPipeline when no responder is given.
var ErrNilResponder = errors.New("jobs: responder is nil")

// StructuredResponder returns a schema-shaped object for a prompt.
// *client.Client implements it.
type StructuredResponder interface {
	StructuredResponse(ctx context.Context, prompt string, s *jsonschema.Schema) (extract.Result, error)
}

// Failure describes one posting that produced no record.
type Failure struct {
	Index int
	ID    string
	Title string
	Err   error
}

// Summary counts the outcome of a Run.
type Summary struct {
	Processed int
	Extracted int
	Failed    int
	Failures  []Failure
}

// Event reports the outcome of one posting. Err is nil on success.
type Event struct {
	Index   int
	Total   int
	Posting Posting
	Record  map[string]any
	Err     error
}

// Pipeline extracts a record from each posting and writes it to a sink.
type Pipeline struct {
	responder StructuredResponder
	sink      store.Sink
	schema    *jsonschema.Schema
	observer  observability.Provider
	progress  func(Event)
	now       func() time.Time
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithObserver sets the observability provider.
func WithObserver(observer observability.Provider) PipelineOption {
	return func(p *Pipeline) {
		p.observer = observer
	}
}

// WithSchema replaces the job schema.
func WithSchema(s *jsonschema.Schema) PipelineOption {
	return func(p *Pipeline) {
		p.schema = s
	}
}

// WithProgress registers a callback invoked after every posting.
func WithProgress(fn func(Event)) PipelineOption {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// WithClock sets the time source for extraction timestamps.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a pipeline. A nil sink discards records.
func NewPipeline(responder StructuredResponder, sink store.Sink, opts ...PipelineOption) (*Pipeline, error) {
	if responder == nil {
		return nil, ErrNilResponder
	}
	p := &Pipeline{
		responder: responder,
		sink:      sink,
		schema:    JobSchema(),
		observer:  observability.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sink == nil {
		p.sink = store.Discard
	}
	if p.observer == nil {
		p.observer = observability.Nop()
	}
	return p, nil
}

// Run processes postings in order. A posting that fails extraction is
// counted and skipped; a sink error or a cancelled context stops the run.
// The sink is not closed.
func (p *Pipeline) Run(ctx context.Context, postings []Posting) (Summary, error) {
	ctx, span := p.observer.StartSpan(ctx, observability.SpanPipelineRun,
		observability.Int("jobs.total", len(postings)),
	)
	defer span.End()

	var summary Summary
	processed := p.observer.Counter(observability.MetricJobsProcessed)

	for i, posting := range postings {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "cancelled")
			return summary, err
		}

		index := i + 1
		attrs := []observability.Attribute{
			observability.Int(observability.AttrJobIndex, index),
			observability.String(observability.AttrJobID, string(posting.ID)),
			observability.String(observability.AttrJobSite, string(posting.Site)),
			observability.String(observability.AttrJobTitle, string(posting.Title)),
		}
		p.observer.Info(ctx, fmt.Sprintf("Processing job %d/%d", index, len(postings)), attrs...)

		record, err := p.extract(ctx, posting)
		summary.Processed++

		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				span.RecordError(ctxErr)
				span.SetStatus(observability.StatusError, "cancelled")
				return summary, ctxErr
			}
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{
				Index: index,
				ID:    string(posting.ID),
				Title: string(posting.Title),
				Err:   err,
			})
			p.observer.Warn(ctx, "Failed to extract data", append(attrs, observability.Error(err))...)
			processed.Add(ctx, 1, observability.String(observability.AttrStatus, "failed"))
			p.report(Event{Index: index, Total: len(postings), Posting: posting, Err: err})
			continue
		}

		if err := p.sink.Write(ctx, record); err != nil {
			err = fmt.Errorf("write job %d: %w", index, err)
			span.RecordError(err)
			span.SetStatus(observability.StatusError, "sink write failed")
			return summary, err
		}

		summary.Extracted++
		p.observer.Debug(ctx, "Successfully extracted data", attrs...)
		processed.Add(ctx, 1, observability.String(observability.AttrStatus, "extracted"))
		p.report(Event{Index: index, Total: len(postings), Posting: posting, Record: record})
	}

	span.SetAttributes(
		observability.Int("jobs.extracted", summary.Extracted),
		observability.Int("jobs.failed", summary.Failed),
	)
	span.SetStatus(observability.StatusOK, "")
	return summary, nil
}

func (p *Pipeline) extract(ctx context.Context, posting Posting) (map[string]any, error) {
	result, err := p.responder.StructuredResponse(ctx, BuildPrompt(posting), p.schema)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, extract.ErrUnrecoverableJSON
	}
	return Attach(result, NewMetadata(posting, p.now())), nil
}

func (p *Pipeline) report(e Event) {
	if p.progress != nil {
		p.progress(e)
	}
}
