// Package store defines where extracted records go. A [Sink] receives one
// record per successful extraction; implementations live in the jsonfile and
// sqlite subpackages.
package store
