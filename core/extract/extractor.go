package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/avast/retry-go/v4"

	"github.com/ninetofive/scout/core/jsonschema"
	"github.com/ninetofive/scout/internal/utils"
	"github.com/ninetofive/scout/providers/observability"
)

// Stage names reported in logs and on the extract.stage metric.
const (
	StageDirect       = "direct"
	StageBoundary     = "boundary"
	StageRepair       = "repair"
	StageCompletion   = "completion"
	StageRegeneration = "regeneration"
)

const previewLength = 200

var errEmptyAnswer = errors.New("empty answer")

// Extractor runs the recovery chain. It holds no per-call state and is safe
// for concurrent use.
type Extractor struct {
	opts Options
	obs  observability.Provider
}

// New creates an Extractor. Without a Generator the regeneration stage is
// skipped and exhausted text strategies end in ErrUnrecoverableJSON.
func New(opts ...Option) *Extractor {
	o := Options{RetryPolicy: DefaultRetryPolicy()}
	for _, opt := range opts {
		opt(&o)
	}
	obs := o.Observer
	if obs == nil {
		obs = observability.Nop()
	}
	return &Extractor{opts: o, obs: obs}
}

// Extract turns one completion into a Result. raw may be nil, a string,
// []byte, json.RawMessage, a map[string]any or a Result; maps are returned
// unchanged.
func (e *Extractor) Extract(ctx context.Context, raw any, s *jsonschema.Schema, opts ...ExtractOption) (Result, error) {
	var cfg extractConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var text string
	switch v := raw.(type) {
	case nil:
		return nil, ErrNoCompletion
	case Result:
		if v == nil {
			return nil, ErrNoCompletion
		}
		return v, nil
	case map[string]any:
		if v == nil {
			return nil, ErrNoCompletion
		}
		return Result(v), nil
	case string:
		text = v
	case json.RawMessage:
		text = string(v)
	case []byte:
		text = string(v)
	default:
		return nil, fmt.Errorf("%w: unsupported completion type %T", ErrNoCompletion, raw)
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoCompletion
	}

	ctx, span := e.obs.StartSpan(ctx, observability.SpanExtract,
		observability.Int(observability.AttrExtractFields, len(s.FieldNames())),
	)
	defer span.End()

	text = StripFences(text)
	obj, stage, err := e.recoverText(ctx, text, s, true)
	if err != nil {
		e.obs.Debug(ctx, "Text recovery failed, regenerating",
			observability.Error(err),
			observability.String(observability.AttrExtractPreview, utils.TruncateString(text, previewLength)),
		)

		prompt := cfg.prompt
		if strings.TrimSpace(prompt) == "" {
			prompt = text
		}
		obj, stage, err = e.regenerate(ctx, prompt, s)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "extraction failed")
		return nil, e.fail(ctx, err)
	}

	span.SetAttributes(observability.String(observability.AttrExtractStage, stage))
	span.SetStatus(observability.StatusOK, "")
	return e.finish(ctx, obj, s, stage), nil
}

// Regenerate skips the text strategies and asks the fallback model for the
// object directly. It is used when the structured request itself failed.
func (e *Extractor) Regenerate(ctx context.Context, prompt string, s *jsonschema.Schema) (Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrNoCompletion
	}

	ctx, span := e.obs.StartSpan(ctx, observability.SpanRegenerate,
		observability.Int(observability.AttrExtractFields, len(s.FieldNames())),
	)
	defer span.End()

	obj, stage, err := e.regenerate(ctx, prompt, s)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(observability.StatusError, "regeneration failed")
		return nil, e.fail(ctx, err)
	}
	span.SetStatus(observability.StatusOK, "")
	return e.finish(ctx, obj, s, stage), nil
}

// recoverText runs the textual strategies. allowCompletion enables field-level
// completion, which regenerated text does not get.
func (e *Extractor) recoverText(ctx context.Context, text string, s *jsonschema.Schema, allowCompletion bool) (map[string]any, string, error) {
	obj, err := parseObject(text)
	if err == nil {
		return obj, StageDirect, nil
	}
	e.stageFailed(ctx, StageDirect, err)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return nil, "", fmt.Errorf("%w: no opening brace", errMalformedJSON)
	}

	if end := strings.LastIndexByte(text, '}'); end > start {
		slice := text[start : end+1]
		if obj, err = parseObject(slice); err == nil {
			return obj, StageBoundary, nil
		}
		e.stageFailed(ctx, StageBoundary, err)

		obj, fix, err := repairObject(slice, s)
		if err != nil {
			e.stageFailed(ctx, StageRepair, err)
			return nil, "", err
		}
		e.obs.Debug(ctx, "Repaired JSON", observability.String("repair", fix))
		return obj, StageRepair, nil
	}

	if !allowCompletion {
		return nil, "", fmt.Errorf("%w: no closing brace", errMalformedJSON)
	}

	completed := completeTruncated(text[start:])
	if obj, err = parseObject(completed); err == nil {
		return obj, StageCompletion, nil
	}
	obj, fix, err := repairObject(completed, s)
	if err != nil {
		e.stageFailed(ctx, StageCompletion, err)
		return nil, "", err
	}
	e.obs.Debug(ctx, "Repaired completed JSON", observability.String("repair", fix))
	return obj, StageCompletion, nil
}

// regenerate asks the Generator for a raw JSON object under the retry policy
// and runs the answer through the direct, boundary and repair strategies.
func (e *Extractor) regenerate(ctx context.Context, prompt string, s *jsonschema.Schema) (map[string]any, string, error) {
	if e.opts.Generator == nil {
		return nil, "", errNoGenerator
	}

	policy := e.opts.RetryPolicy
	if policy.Attempts == 0 {
		// retry-go treats zero attempts as unlimited
		policy.Attempts = 1
	}

	request := regenerationPrompt(prompt, s)
	var (
		answer  string
		attempt int
	)
	err := retry.Do(
		func() error {
			attempt++
			e.obs.Counter(observability.MetricRegenerateAttempt).Add(ctx, 1,
				observability.Int(observability.AttrExtractAttempt, attempt))

			text, err := e.generate(ctx, request)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return errEmptyAnswer
			}
			answer = text
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(policy.Attempts),
		retry.Delay(policy.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			e.obs.Warn(ctx, "Regeneration attempt failed",
				observability.Int(observability.AttrExtractAttempt, int(n)+1),
				observability.Int("max_attempts", int(policy.Attempts)),
				observability.Error(err),
			)
		}),
	)
	if err != nil {
		return nil, "", fmt.Errorf("%w after %d attempts: %w", ErrRegenerationExhausted, attempt, err)
	}

	e.obs.Trace(ctx, "Regenerated answer", observability.String(observability.AttrExtractPreview, utils.TruncateString(answer, previewLength)))

	obj, stage, err := e.recoverText(ctx, StripFences(answer), s, false)
	if err != nil {
		return nil, "", err
	}
	e.obs.Debug(ctx, "Regenerated object parsed", observability.String(observability.AttrExtractStage, stage))
	return obj, StageRegeneration, nil
}

// generate calls the Generator, turning a panic into an error.
func (e *Extractor) generate(ctx context.Context, prompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()
	return e.opts.Generator.Generate(ctx, prompt, e.opts.FallbackModel)
}

func (e *Extractor) finish(ctx context.Context, obj map[string]any, s *jsonschema.Schema, stage string) Result {
	result := normalize(obj, s)

	placeholders := 0
	for _, v := range result {
		if v == Placeholder {
			placeholders++
		}
	}
	e.obs.Counter(observability.MetricExtractStage).Add(ctx, 1, observability.String(observability.AttrExtractStage, stage))
	e.obs.Debug(ctx, "Extracted object",
		observability.String(observability.AttrExtractStage, stage),
		observability.Int(observability.AttrExtractPlaceholders, placeholders),
	)
	return result
}

func (e *Extractor) fail(ctx context.Context, err error) error {
	e.obs.Counter(observability.MetricExtractFailure).Add(ctx, 1)
	e.obs.Error(ctx, "Extraction failed", observability.Error(err))
	if errors.Is(err, ErrNoCompletion) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnrecoverableJSON, err)
}

func (e *Extractor) stageFailed(ctx context.Context, stage string, err error) {
	e.obs.Debug(ctx, "Stage failed",
		observability.String(observability.AttrExtractStage, stage),
		observability.Error(err),
	)
}
