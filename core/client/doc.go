// Package client sits between an [ai.Provider] and the extraction pipeline. A
// Client holds the provider, a system instruction, default models and a
// middleware chain, and exposes two calls:
//
//   - [Client.GenerateText] sends a plain text request. The Client itself is
//     the [extract.Generator] used for regeneration.
//   - [Client.StructuredResponse] sends a schema-constrained request and hands
//     the answer to an [extract.Extractor], falling back to regeneration when
//     the request fails or comes back empty.
//
// The primary entry point is [New], configured with functional options such
// as [WithSystemPrompt], [WithMiddleware] and [WithObserver].
package client
