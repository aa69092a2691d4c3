package cloudflare

import (
	"encoding/json"

	"github.com/ninetofive/scout/core/jsonschema"
)

// Mode selects how the provider reaches Workers AI.
type Mode string

const (
	ModeWorker Mode = "worker"
	ModeDirect Mode = "direct"
)

// ParseMode converts a flag value into a Mode. Unknown values fall back to
// ModeWorker.
func ParseMode(s string) Mode {
	if Mode(s) == ModeDirect {
		return ModeDirect
	}
	return ModeWorker
}

// Default models.
const (
	DefaultModel           = "@cf/meta/llama-3.1-8b-instruct"
	DefaultStructuredModel = "@cf/meta/llama-3.1-8b-instruct"
)

// OpenAICompatibleModels are served by the /ai/v1/chat/completions endpoint in
// direct mode.
var OpenAICompatibleModels = []string{
	"@cf/meta/llama-3.1-8b-instruct",
	"@cf/meta/llama-3.1-8b-instruct-fast",
	"@cf/meta/llama-3.1-70b-instruct",
	"@cf/meta/llama-3.3-70b-instruct-fp8-fast",
	"@cf/meta/llama-3-8b-instruct",
	"@cf/meta/llama-3.2-11b-vision-instruct",
	"@hf/nousresearch/hermes-2-pro-mistral-7b",
	"@hf/thebloke/deepseek-coder-6.7b-instruct-awq",
	"@cf/deepseek-ai/deepseek-r1-distill-qwen-32b",
}

// IsOpenAICompatible reports whether model is in OpenAICompatibleModels.
func IsOpenAICompatible(model string) bool {
	for _, m := range OpenAICompatibleModels {
		if m == model {
			return true
		}
	}
	return false
}

/*
	CHAT COMPLETIONS - INPUT
*/

// chatCompletionRequest is the payload for the worker endpoints and the
// OpenAI-compatible endpoint.
type chatCompletionRequest struct {
	Model          string          `json:"model,omitempty"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat carries the schema under "schema" for the worker and under
// "json_schema" for the OpenAI-compatible endpoint.
type responseFormat struct {
	Type       string             `json:"type"`
	Schema     *jsonschema.Schema `json:"schema,omitempty"`
	JSONSchema *jsonschema.Schema `json:"json_schema,omitempty"`
}

/*
	CHAT COMPLETIONS - OUTPUT
*/

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *usage       `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int             `json:"index"`
	Message      responseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// responseMessage keeps content raw: it is either a JSON string or an object
// the endpoint already decoded.
type responseMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

/*
	RAW RUN ENDPOINT
*/

type runRequest struct {
	Prompt      string   `json:"prompt"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float64 `json:"temperature,omitempty"`
}

type runResponse struct {
	Result  json.RawMessage `json:"result"`
	Success bool            `json:"success"`
	Errors  []apiMessage    `json:"errors,omitempty"`
}

type apiMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
