// Package utils holds small helpers shared by scout's providers and client:
// a JSON POST round-trip ([DoPostSync]), string previews for logs, pointer
// literals and a latency timer.
package utils
