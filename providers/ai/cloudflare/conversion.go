package cloudflare

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ninetofive/scout/core/extract"
	"github.com/ninetofive/scout/providers/ai"
)

const (
	structuredTemperature = 0.1
	textTemperature       = 0.7
	defaultMaxTokens      = 2048
)

// samplingFor returns the temperature and max tokens for a request, applying
// its GenerationConfig over the structured or text defaults.
func samplingFor(request ai.ChatRequest) (float64, int) {
	temperature := textTemperature
	if request.IsStructured() {
		temperature = structuredTemperature
	}
	maxTokens := defaultMaxTokens

	if cfg := request.GenerationConfig; cfg != nil {
		if cfg.Temperature != nil {
			temperature = *cfg.Temperature
		}
		if cfg.MaxTokens > 0 {
			maxTokens = cfg.MaxTokens
		}
	}
	return temperature, maxTokens
}

// messagesFromGeneric prepends the system prompt to the conversation.
func messagesFromGeneric(request ai.ChatRequest) []chatMessage {
	messages := make([]chatMessage, 0, len(request.Messages)+1)
	if request.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: string(ai.RoleSystem), Content: request.SystemPrompt})
	}
	for _, m := range request.Messages {
		messages = append(messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	return messages
}

// chatRequestFromGeneric builds the chat completions payload. worker selects
// the schema key the worker expects.
func chatRequestFromGeneric(request ai.ChatRequest, worker bool) chatCompletionRequest {
	temperature, maxTokens := samplingFor(request)
	out := chatCompletionRequest{
		Model:       request.Model,
		Messages:    messagesFromGeneric(request),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	if request.IsStructured() {
		format := &responseFormat{Type: ai.FormatJSONSchema}
		if worker {
			format.Schema = request.ResponseFormat.OutputSchema
		} else {
			format.JSONSchema = request.ResponseFormat.OutputSchema
		}
		out.ResponseFormat = format
	}
	return out
}

// runRequestFromGeneric flattens the request into the single prompt the raw
// run endpoint takes. Temperature is sent only when the caller set one.
func runRequestFromGeneric(request ai.ChatRequest) runRequest {
	_, maxTokens := samplingFor(request)
	prompt := request.UserPrompt()
	if request.SystemPrompt != "" {
		prompt = request.SystemPrompt + "\n\n" + prompt
	}

	out := runRequest{Prompt: prompt, MaxTokens: maxTokens}
	if request.GenerationConfig != nil && request.GenerationConfig.Temperature != nil {
		t := *request.GenerationConfig.Temperature
		out.Temperature = &t
	}
	return out
}

// chatResponseToGeneric maps the first choice. An object content is surfaced
// as Structured; a string content is fence-stripped.
func chatResponseToGeneric(resp chatCompletionResponse) (*ai.ChatResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", ErrUnexpectedResponse)
	}

	choice := resp.Choices[0]
	out := &ai.ChatResponse{
		Id:           resp.ID,
		Model:        resp.Model,
		FinishReason: choice.FinishReason,
	}
	if resp.Usage != nil {
		out.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	content := bytes.TrimSpace(choice.Message.Content)
	switch {
	case len(content) == 0 || bytes.Equal(content, []byte("null")):
	case content[0] == '{':
		var structured map[string]any
		if err := json.Unmarshal(content, &structured); err != nil {
			return nil, fmt.Errorf("%w: decoding object content: %w", ErrUnexpectedResponse, err)
		}
		out.Structured = structured
	case content[0] == '"':
		var text string
		if err := json.Unmarshal(content, &text); err != nil {
			return nil, fmt.Errorf("%w: decoding text content: %w", ErrUnexpectedResponse, err)
		}
		out.Content = extract.StripFences(text)
	default:
		return nil, fmt.Errorf("%w: unsupported content %s", ErrUnexpectedResponse, content)
	}
	return out, nil
}

// runResponseText reads result.response, result.text or result.output, or a
// bare string result.
func runResponseText(resp runResponse) (string, error) {
	result := bytes.TrimSpace(resp.Result)
	if len(result) == 0 {
		return "", fmt.Errorf("%w: missing result", ErrUnexpectedResponse)
	}

	var text string
	if err := json.Unmarshal(result, &text); err == nil {
		return extract.StripFences(text), nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(result, &fields); err != nil {
		return "", fmt.Errorf("%w: result is neither a string nor an object", ErrUnexpectedResponse)
	}
	for _, key := range []string{"response", "text", "output"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &text); err == nil {
			return extract.StripFences(text), nil
		}
	}
	return "", fmt.Errorf("%w: result has no response, text or output field", ErrUnexpectedResponse)
}
