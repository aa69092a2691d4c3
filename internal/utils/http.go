package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ninetofive/scout/providers/observability"
)

// StatusError is returned by DoPostSync for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("non-2xx status %d: %s", e.StatusCode, TruncateString(e.Body, DefaultMaxStringLength))
}

// DoPostSync POSTs body as JSON and decodes the response into OutputStruct.
//
//   - apiKey, when set, is sent as a bearer token
//   - non-2xx responses return a *StatusError carrying the body
//   - decode errors include a preview of the body
//
// Request and response events are added to the span found in ctx, if any.
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, body any) (*http.Response, *OutputStruct, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.request.prepared",
			observability.String(observability.AttrHTTPMethod, http.MethodPost),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	timer := NewTimer()
	res, err := httpClient.Do(req)
	elapsed := timer.Stop()
	if err != nil {
		if span != nil {
			span.AddEvent("http.request.error",
				observability.Error(err),
				observability.Duration("http.request.duration", elapsed),
			)
		}
		return res, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer closeBody(ctx, res.Body, url)

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return res, nil, fmt.Errorf("error reading response body: %w", err)
	}

	if span != nil {
		span.AddEvent("http.response.received",
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
			observability.Duration("http.request.duration", elapsed),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, &StatusError{StatusCode: res.StatusCode, Body: string(respBody)}
	}

	var out OutputStruct
	if err := json.Unmarshal(respBody, &out); err != nil {
		return res, nil, fmt.Errorf("error unmarshaling response body (status %d): %w\nResponse preview: %s",
			res.StatusCode, err, TruncateString(string(respBody), DefaultMaxStringLength))
	}
	return res, &out, nil
}

// closeBody closes body and reports a failure through the observer in ctx.
func closeBody(ctx context.Context, body io.Closer, url string) {
	if err := body.Close(); err != nil {
		if obs := observability.ObserverFromContext(ctx); obs != nil {
			obs.Warn(ctx, "failed to close response body",
				observability.Error(err),
				observability.String(observability.AttrHTTPURL, url),
			)
		}
	}
}

// RequestTimeout is the default timeout applied to provider HTTP clients.
const RequestTimeout = 120 * time.Second
