//go:build !cgo

package treesitter

import "fmt"

// ErrCGODisabled is returned when the CGO backend is requested but CGO is
// disabled at build time.
var ErrCGODisabled = fmt.Errorf("CGO backend is not available: build with CGO_ENABLED=1 (the heuristic extractor backend works without it)")

// NewCGOBackend returns an error when CGO is not available.
// To use this backend, rebuild with CGO_ENABLED=1. The heuristic export
// extractor does not require tree-sitter and remains fully functional.
func NewCGOBackend() (Backend, error) {
	return nil, ErrCGODisabled
}
