package ai

import (
	"strings"

	"github.com/ninetofive/scout/core/jsonschema"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a request to send a chat message
type ChatRequest struct {
	Model            string            `json:"model,omitempty"`             // Model name or identifier
	Messages         []Message         `json:"messages"`                    // All messages in the conversation except the system prompt
	SystemPrompt     string            `json:"system_prompt,omitempty"`     // Optional system prompt
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`   // Optional response format
	GenerationConfig *GenerationConfig `json:"generation_config,omitempty"` // Optional generation configuration
}

// Message represents a single message in a conversation
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content,omitempty"`
}

// GenerationConfig overrides the backend's sampling defaults. Zero values
// leave the default in place.
type GenerationConfig struct {
	MaxTokens   int      `json:"max_tokens,omitempty"`  // Optional max tokens for the response
	Temperature *float64 `json:"temperature,omitempty"` // Sampling temperature; nil keeps the backend default
}

// ResponseFormat asks for a schema-shaped answer.
type ResponseFormat struct {
	OutputSchema *jsonschema.Schema `json:"output_schema,omitempty"` // Schema the answer must follow
	Type         string             `json:"type,omitempty"`          // FormatText or FormatJSONSchema
}

const (
	FormatText       = "text"
	FormatJSONSchema = "json_schema"
)

// IsStructured reports whether the request asks for a JSON-schema answer.
func (r ChatRequest) IsStructured() bool {
	if r.ResponseFormat == nil {
		return false
	}
	return r.ResponseFormat.OutputSchema != nil || r.ResponseFormat.Type == FormatJSONSchema
}

// UserPrompt joins the content of every user message, in order. Backends
// without a chat endpoint send it as a single prompt.
func (r ChatRequest) UserPrompt() string {
	var parts []string
	for _, m := range r.Messages {
		if m.Role == RoleUser && m.Content != "" {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

/*
	##### PROVIDER OUTPUT #####
*/

type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}

// ChatResponse represents the response from a chat completion
type ChatResponse struct {
	Id           string         `json:"id,omitempty"`
	Model        string         `json:"model,omitempty"`
	Content      string         `json:"content"`
	Structured   map[string]any `json:"structured,omitempty"` // Set when the backend returned a decoded object
	FinishReason string         `json:"finish_reason,omitempty"`
	Usage        *Usage         `json:"usage,omitempty"`
}

// IsEmpty reports whether the response carries neither text nor an object.
func (r *ChatResponse) IsEmpty() bool {
	return r == nil || (strings.TrimSpace(r.Content) == "" && r.Structured == nil)
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
)

// Finish reasons reported by chat endpoints.
const (
	FinishReasonStop   = "stop"
	FinishReasonLength = "length"
)
