// Package cloudflare implements [ai.Provider] for Cloudflare Workers AI.
//
// Two modes are supported:
//
//   - [ModeWorker] talks to a proxying worker. Structured requests go to
//     {base}/v1/chat/completions/structured and text requests to
//     {base}/v1/chat/completions/text, authenticated with WORKER_API_KEY.
//   - [ModeDirect] calls Cloudflare's REST API with CLOUDFLARE_ACCOUNT_ID and
//     CLOUDFLARE_API_TOKEN. Models listed in [OpenAICompatibleModels] use the
//     OpenAI-compatible chat completions endpoint; any other model is sent to
//     the raw /ai/run/{model} endpoint as a single prompt.
//
// Structured requests default to temperature 0.1 and text requests to 0.7,
// both with 2048 max tokens. A request's GenerationConfig overrides either.
//
// Credentials are checked before any network call; when they are missing
// SendMessage returns [ErrMissingCredentials].
package cloudflare
