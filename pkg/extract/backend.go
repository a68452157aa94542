package extract

import (
	"context"
	"fmt"
	"slices"

	"github.com/albertocavalcante/barrelle/internal/log"
	"github.com/albertocavalcante/barrelle/pkg/treesitter"
)

// BackendType identifies the extraction strategy to use.
type BackendType string

const (
	// BackendHeuristic uses mask-and-match extraction.
	//
	// This is a HEURISTIC approach: fast, CGO-free, and sufficient for
	// conventional TypeScript, but destructured exports and unusual
	// expression-position regex literals are approximated.
	BackendHeuristic BackendType = "heuristic"

	// BackendTreeSitter uses AST-based extraction via tree-sitter.
	//
	// This is a DETERMINISTIC approach following the TypeScript grammar.
	// It requires the CGO tree-sitter runtime at build time.
	BackendTreeSitter BackendType = "treesitter"

	// BackendHybrid runs both backends and logs disagreements.
	//
	// The heuristic result is returned; tree-sitter failures fall back
	// silently. Useful for evaluating heuristic accuracy on a codebase.
	BackendHybrid BackendType = "hybrid"
)

// Extractor discovers exported symbols in TypeScript source text.
// Construct one per process (it owns the reusable parsing context) and
// share it by reference; it is safe for concurrent use.
type Extractor struct {
	backend BackendType
	ts      *treeSitterExtractor
}

// NewExtractor creates an extractor for the given backend.
// BackendTreeSitter and BackendHybrid need a tree-sitter backend from the
// environment; for hybrid, unavailability degrades to heuristic-only with
// a warning instead of failing.
func NewExtractor(backend BackendType) (*Extractor, error) {
	e := &Extractor{backend: backend}

	switch backend {
	case BackendHeuristic:
	case BackendTreeSitter, BackendHybrid:
		tsBackend, err := treesitter.NewBackendFromEnv()
		if err != nil {
			if backend == BackendHybrid {
				log.Warn("tree-sitter unavailable, hybrid degrades to heuristic", "error", err)
				e.backend = BackendHeuristic
				break
			}
			return nil, fmt.Errorf("treesitter backend: %w", err)
		}
		e.ts = newTreeSitterExtractor(tsBackend)
	default:
		return nil, fmt.Errorf("unknown extractor backend: %s", backend)
	}

	return e, nil
}

// Backend returns the effective backend type.
func (e *Extractor) Backend() BackendType {
	return e.backend
}

// Extract returns the exports of one source file's text. The filename is
// used only to pick the grammar; the result is a pure function of the text.
func (e *Extractor) Extract(ctx context.Context, filename, source string) ([]Record, error) {
	switch e.backend {
	case BackendHeuristic:
		return extractHeuristic(source), nil

	case BackendTreeSitter:
		lang, ok := treesitter.LanguageForFile(filename)
		if !ok {
			return nil, fmt.Errorf("no grammar for file %q", filename)
		}
		return e.ts.extract(ctx, source, lang)

	case BackendHybrid:
		heuristic := extractHeuristic(source)
		lang, ok := treesitter.LanguageForFile(filename)
		if !ok {
			return heuristic, nil
		}
		ast, err := e.ts.extract(ctx, source, lang)
		if err != nil {
			log.Warn("hybrid: tree-sitter extraction failed, using heuristic result",
				"file", filename, "error", err)
			return heuristic, nil
		}
		logExtractionDiff(filename, heuristic, ast)
		return heuristic, nil

	default:
		return nil, fmt.Errorf("unknown extractor backend: %s", e.backend)
	}
}

// Close releases parser resources. Safe on a heuristic-only extractor.
func (e *Extractor) Close() {
	if e.ts != nil {
		e.ts.close()
	}
}

// logExtractionDiff logs symbols on which the two backends disagree.
func logExtractionDiff(filename string, heuristic, ast []Record) {
	if slices.Equal(heuristic, ast) {
		return
	}

	index := func(records []Record) map[string]bool {
		m := make(map[string]bool, len(records))
		for _, r := range records {
			m[r.Name] = r.TypeOnly
		}
		return m
	}
	h, a := index(heuristic), index(ast)

	for name, typeOnly := range a {
		if got, ok := h[name]; !ok {
			log.Warn("hybrid: heuristic missed export", "file", filename, "name", name)
		} else if got != typeOnly {
			log.Warn("hybrid: type-only mismatch", "file", filename, "name", name,
				"heuristic", got, "treesitter", typeOnly)
		}
	}
	for name := range h {
		if _, ok := a[name]; !ok {
			log.Warn("hybrid: heuristic extra export", "file", filename, "name", name)
		}
	}
}
