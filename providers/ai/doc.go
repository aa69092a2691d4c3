// Package ai defines the provider-agnostic request and response types used by
// every LLM backend. A backend converts [ChatRequest] into its own wire format
// and maps the answer back into [ChatResponse], keeping the client and the
// extraction pipeline free of endpoint details.
//
// Structured requests carry a [ResponseFormat] with a JSON schema. Backends
// that return an already-decoded object surface it in
// [ChatResponse.Structured]; everything else arrives as text in
// [ChatResponse.Content] and goes through the extractor.
package ai
