package treesitter

import (
	"fmt"
	"os"
	"strings"
)

// BackendType identifies a specific tree-sitter backend implementation.
type BackendType string

const (
	// BackendAuto automatically selects the best available backend.
	// Today that is always the CGO backend; the indirection exists so a
	// CGO-free backend can be added without touching call sites.
	BackendAuto BackendType = "auto"

	// BackendCGO uses the CGO-based backend (smacker/go-tree-sitter).
	BackendCGO BackendType = "cgo"
)

// EnvVarBackend is the environment variable used to select the backend.
const EnvVarBackend = "BARRELLE_TREESITTER_BACKEND"

// NewBackend creates a backend of the specified type.
func NewBackend(typ BackendType) (Backend, error) {
	switch typ {
	case BackendCGO, BackendAuto:
		return NewCGOBackend()
	default:
		return nil, fmt.Errorf("unknown backend type: %s", typ)
	}
}

// NewBackendFromEnv creates a backend based on the BARRELLE_TREESITTER_BACKEND
// environment variable. If the variable is not set or empty, it defaults to
// BackendAuto.
func NewBackendFromEnv() (Backend, error) {
	envVal := strings.TrimSpace(os.Getenv(EnvVarBackend))
	if envVal == "" {
		return NewBackend(BackendAuto)
	}

	typ := BackendType(strings.ToLower(envVal))
	switch typ {
	case BackendAuto, BackendCGO:
		return NewBackend(typ)
	default:
		return nil, fmt.Errorf("invalid %s value %q: must be one of auto, cgo", EnvVarBackend, envVal)
	}
}

// MustNewBackend is like NewBackend but panics on error.
// This is useful for initialization code that cannot handle errors.
func MustNewBackend(typ BackendType) Backend {
	b, err := NewBackend(typ)
	if err != nil {
		panic(fmt.Sprintf("failed to create tree-sitter backend %s: %v", typ, err))
	}
	return b
}

// AvailableBackends returns a list of backend types that can be created
// successfully in the current environment.
func AvailableBackends() []BackendType {
	var available []BackendType

	if b, err := NewCGOBackend(); err == nil {
		_ = b.Close()
		available = append(available, BackendCGO)
	}

	return available
}
