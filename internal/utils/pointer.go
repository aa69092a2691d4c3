package utils

// Ptr returns a pointer to v, for optional request fields.
//
//	cfg := ai.GenerationConfig{Temperature: utils.Ptr(0.2)}
func Ptr[T any](v T) *T {
	return &v
}
