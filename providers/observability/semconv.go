package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- LLM Provider Attributes ---

const (
	// AttrLLMProvider is the name of the LLM provider (e.g., "cloudflare")
	AttrLLMProvider = "llm.provider"

	// AttrLLMModel is the model identifier (e.g., "@cf/meta/llama-3.1-8b-instruct")
	AttrLLMModel = "llm.model"

	// AttrLLMEndpoint is the API endpoint URL
	AttrLLMEndpoint = "llm.endpoint"

	// AttrLLMEndpointType is the endpoint flavour ("worker", "openai_compat", "run")
	AttrLLMEndpointType = "llm.endpoint.type"

	// AttrLLMFinishReason is the reason the generation finished
	AttrLLMFinishReason = "llm.finish_reason"

	// AttrLLMTokensTotal is the total number of tokens
	AttrLLMTokensTotal = "llm.tokens.total" // #nosec G101 -- Not a credential, token refers to LLM tokens

	// AttrLLMTokensPrompt is the number of prompt tokens
	AttrLLMTokensPrompt = "llm.tokens.prompt" // #nosec G101

	// AttrLLMTokensCompletion is the number of completion tokens
	AttrLLMTokensCompletion = "llm.tokens.completion" // #nosec G101

	// AttrLLMStructured is true for schema-constrained requests
	AttrLLMStructured = "llm.structured"

	// AttrRequestMessagesCount is the number of messages in the request
	AttrRequestMessagesCount = "request.messages.count"
)

// --- Extraction Attributes ---

const (
	// AttrExtractStage is the fallback stage that produced (or failed) a parse
	AttrExtractStage = "extract.stage"

	// AttrExtractAttempt is the 1-based regeneration attempt number
	AttrExtractAttempt = "extract.attempt"

	// AttrExtractFields is the number of schema fields
	AttrExtractFields = "extract.fields"

	// AttrExtractPlaceholders is the number of fields filled with the placeholder
	AttrExtractPlaceholders = "extract.placeholders"

	// AttrExtractPreview is a truncated preview of the text being parsed
	AttrExtractPreview = "extract.preview"
)

// --- Job Pipeline Attributes ---

const (
	// AttrJobID is the originating record id
	AttrJobID = "job.id"

	// AttrJobSite is the site the record was scraped from
	AttrJobSite = "job.site"

	// AttrJobTitle is the scraped job title
	AttrJobTitle = "job.title"

	// AttrJobIndex is the 1-based position of the record in the batch
	AttrJobIndex = "job.index"
)

// --- HTTP Attributes ---

const (
	// AttrHTTPMethod is the HTTP method (GET, POST, etc.)
	AttrHTTPMethod = "http.method"

	// AttrHTTPStatusCode is the HTTP response status code
	AttrHTTPStatusCode = "http.status_code"

	// AttrHTTPURL is the full request URL
	AttrHTTPURL = "http.url"

	// AttrHTTPRequestBodySize is the request body size in bytes
	AttrHTTPRequestBodySize = "http.request.body.size"

	// AttrHTTPResponseBodySize is the response body size in bytes
	AttrHTTPResponseBodySize = "http.response.body.size"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanClientSendMessage is the span name for client message sending
	SpanClientSendMessage = "client.send_message"

	// SpanExtract is the span name for one extraction run
	SpanExtract = "extract.run"

	// SpanRegenerate is the span name for the regeneration fallback
	SpanRegenerate = "extract.regenerate"

	// SpanPipelineRun is the span name for a batch pipeline run
	SpanPipelineRun = "jobs.pipeline.run"
)

// --- Metric Names ---

const (
	// MetricClientRequestCount is the counter for client requests
	MetricClientRequestCount = "scout.client.request.count"

	// MetricClientRequestDuration is the histogram for request duration
	MetricClientRequestDuration = "scout.client.request.duration"

	// MetricClientTokensTotal is the counter for total tokens used
	MetricClientTokensTotal = "scout.client.tokens.total"

	// MetricClientFallback counts structured requests answered by regeneration
	MetricClientFallback = "scout.client.fallback"

	// MetricExtractStage counts which stage produced each successful extraction
	MetricExtractStage = "scout.extract.stage"

	// MetricExtractFailure counts extractions that returned no result
	MetricExtractFailure = "scout.extract.failure"

	// MetricRegenerateAttempt counts regeneration attempts
	MetricRegenerateAttempt = "scout.extract.regenerate.attempt"

	// MetricJobsProcessed counts job records handled by the pipeline
	MetricJobsProcessed = "scout.jobs.processed"
)
