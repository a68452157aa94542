// Package extract discovers the exported symbols of TypeScript source files.
//
// # Extractor Backend Architecture
//
// Two parsing strategies are provided. The heuristic backend masks every
// comment, string, template, and regex literal region of the source and then
// pattern-matches export syntax over the masked text; it is fast, requires
// no CGO, and is the default. The tree-sitter backend parses a real syntax
// tree via pkg/treesitter and walks export_statement nodes; it is exact for
// syntactically valid input but requires the CGO tree-sitter runtime. The
// hybrid backend runs both, logs any disagreement, and returns the
// heuristic result.
package extract

import "slices"

// DefaultExportName is the synthetic record name for a module's default
// export. A default export is never type-only.
const DefaultExportName = "default"

// Record is a single exported symbol discovered in one source file.
type Record struct {
	// Name is the exported name (the alias when the export is aliased).
	Name string

	// TypeOnly marks exports that exist purely at the type level
	// (interfaces, type aliases, "export type { ... }" items).
	TypeOnly bool
}

// recordSet accumulates discovered exports, merging duplicates.
// When the same name is discovered at several sites, the merged record is
// type-only only if every site marked it type-only (value wins over type).
type recordSet struct {
	typeOnly map[string]bool
}

func newRecordSet() *recordSet {
	return &recordSet{typeOnly: make(map[string]bool)}
}

func (s *recordSet) add(name string, typeOnly bool) {
	if name == "" {
		return
	}
	prev, seen := s.typeOnly[name]
	if seen {
		s.typeOnly[name] = prev && typeOnly
		return
	}
	s.typeOnly[name] = typeOnly
}

// addDefault records the module's default export exactly once, value kind.
func (s *recordSet) addDefault() {
	s.typeOnly[DefaultExportName] = false
}

// records returns the merged exports sorted by name for deterministic output.
func (s *recordSet) records() []Record {
	out := make([]Record, 0, len(s.typeOnly))
	for name, typeOnly := range s.typeOnly {
		out = append(out, Record{Name: name, TypeOnly: typeOnly})
	}
	slices.SortFunc(out, func(a, b Record) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})
	return out
}
