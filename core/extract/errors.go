package extract

import "errors"

var (
	// ErrNoCompletion is returned when there is no text to extract from.
	ErrNoCompletion = errors.New("no completion")

	// ErrRegenerationExhausted is returned when every regeneration attempt
	// failed or produced empty text.
	ErrRegenerationExhausted = errors.New("regeneration exhausted")

	// ErrUnrecoverableJSON is returned when no strategy produced a JSON object.
	ErrUnrecoverableJSON = errors.New("unrecoverable JSON")

	// errMalformedJSON marks a failed parse attempt inside the chain.
	errMalformedJSON = errors.New("malformed JSON")

	errNoGenerator = errors.New("no generator configured")
)
