// Package extract recovers schema-shaped JSON objects from language model
// output that does not reliably parse.
//
// A completion goes through an ordered chain of strategies and the first one
// that yields a JSON object wins:
//
//  1. markdown fence markers are removed,
//  2. the text is parsed verbatim,
//  3. the span between the first '{' and the last '}' is parsed,
//  4. that span is parsed again after cumulative syntactic repairs,
//  5. an object cut off before its closing brace is completed field by field,
//  6. a fallback model is asked to regenerate the object as raw JSON.
//
// Whatever object wins is normalized against the schema: every declared
// property is present (missing ones hold [Placeholder]), undeclared keys are
// dropped and numeric-looking strings in number fields become float64.
//
// [Extractor.Extract] never panics on bad input; it returns either a complete
// [Result] or an error wrapping [ErrNoCompletion] or [ErrUnrecoverableJSON].
package extract
