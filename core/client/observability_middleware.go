package client

import (
	"context"

	"github.com/ninetofive/scout/internal/utils"
	"github.com/ninetofive/scout/providers/ai"
	"github.com/ninetofive/scout/providers/observability"
)

// NewObservabilityMiddleware creates a MiddlewareConfig that records a tracing
// span, metrics and log events for every LLM request.
//
// Both the span and the observer are injected into the context before calling
// next, so that providers can retrieve them via [observability.SpanFromContext]
// and [observability.ObserverFromContext].
//
// [New] prepends it to the chain when [WithObserver] is provided, making it
// the outermost wrapper: it observes the outcome after any retry or timeout
// middleware.
//
// defaultModel labels spans and metrics when the request's own Model is empty.
func NewObservabilityMiddleware(observer observability.Provider, defaultModel string) MiddlewareConfig {
	return MiddlewareConfig{
		Send: buildObsSend(observer, defaultModel),
	}
}

func buildObsSend(observer observability.Provider, defaultModel string) Middleware {
	return func(next SendFunc) SendFunc {
		return func(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
			model := effectiveModel(request.Model, defaultModel)

			ctx, span := observer.StartSpan(ctx, observability.SpanClientSendMessage,
				observability.String(observability.AttrLLMModel, model),
				observability.Bool(observability.AttrLLMStructured, request.IsStructured()),
			)
			ctx = observability.ContextWithSpan(ctx, span)
			ctx = observability.ContextWithObserver(ctx, observer)

			observer.Debug(ctx, "llm send",
				observability.String(observability.AttrLLMModel, model),
				observability.Int(observability.AttrRequestMessagesCount, len(request.Messages)),
			)

			timer := utils.NewTimer()
			response, err := next(ctx, request)
			timer.Stop()

			if err != nil {
				span.RecordError(err)
				span.SetStatus(observability.StatusError, "llm send failed")
				span.End()

				observer.Error(ctx, "llm send failed",
					observability.Error(err),
					observability.Duration(observability.AttrDuration, timer.Duration()),
					observability.String(observability.AttrLLMModel, model),
				)

				observer.Counter(observability.MetricClientRequestCount).Add(ctx, 1,
					observability.String(observability.AttrStatus, "error"),
					observability.String(observability.AttrLLMModel, model),
				)

				return nil, err
			}

			recordObsSuccess(ctx, span, observer, response, timer, model)

			return response, nil
		}
	}
}

// recordObsSuccess writes the duration histogram, request and token counters,
// span attributes and an INFO log, then ends the span.
func recordObsSuccess(
	ctx context.Context,
	span observability.Span,
	observer observability.Provider,
	response *ai.ChatResponse,
	timer *utils.Timer,
	model string,
) {
	elapsed := timer.Duration()

	observer.Histogram(observability.MetricClientRequestDuration).Record(ctx, elapsed.Seconds(),
		observability.String(observability.AttrLLMModel, model),
	)

	observer.Counter(observability.MetricClientRequestCount).Add(ctx, 1,
		observability.String(observability.AttrStatus, "success"),
		observability.String(observability.AttrLLMModel, model),
	)

	logAttrs := []observability.Attribute{
		observability.String(observability.AttrLLMModel, model),
		observability.String(observability.AttrLLMFinishReason, response.FinishReason),
		observability.Duration(observability.AttrDuration, elapsed),
		observability.Bool(observability.AttrLLMStructured, response.Structured != nil),
	}

	if response.Usage != nil {
		observer.Counter(observability.MetricClientTokensTotal).Add(ctx, int64(response.Usage.TotalTokens),
			observability.String(observability.AttrLLMModel, model),
		)

		span.SetAttributes(
			observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens),
			observability.Int(observability.AttrLLMTokensPrompt, response.Usage.PromptTokens),
			observability.Int(observability.AttrLLMTokensCompletion, response.Usage.CompletionTokens),
		)

		logAttrs = append(logAttrs,
			observability.Int(observability.AttrLLMTokensTotal, response.Usage.TotalTokens),
		)
	}

	if response.Content != "" {
		logAttrs = append(logAttrs,
			observability.String("response", utils.TruncateString(response.Content, 100)),
		)
	}

	observer.Info(ctx, "llm send completed", logAttrs...)

	span.SetStatus(observability.StatusOK, "success")
	span.End()
}

// effectiveModel returns the request-level model when set, falling back to the
// client's configured default. Both being empty is valid (provider chooses).
func effectiveModel(requestModel, defaultModel string) string {
	if requestModel != "" {
		return requestModel
	}

	return defaultModel
}
