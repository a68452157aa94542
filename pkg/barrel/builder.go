package barrel

import (
	"path/filepath"
	"strings"

	"github.com/albertocavalcante/barrelle/pkg/extract"
	"github.com/albertocavalcante/barrelle/pkg/util"
)

// Builder renders a directory's barrel content from its entry map.
// Output is deterministic: entries are emitted in lexicographic key
// order, names alphabetized within each line.
type Builder struct {
	// DirExtension is appended to directory entries as "/index<ext>"
	// (e.g. ".js" yields './sub/index.js'). Empty emits './sub'.
	DirExtension string
}

// Build renders the barrel text for the given entries. The result always
// ends in exactly one newline; with zero emitted lines it is exactly "\n".
func (b *Builder) Build(entries map[string]Entry) string {
	var lines []string
	for _, key := range util.SortedKeys(entries) {
		lines = append(lines, b.entryLines(key, entries[key])...)
	}
	return strings.Join(lines, "\n") + "\n"
}

func (b *Builder) entryLines(key string, entry Entry) []string {
	module := modulePath(key)
	if strings.HasPrefix(module, "..") {
		// Escapes the directory; never emitted.
		return nil
	}

	if entry.Kind == EntryDirectory {
		target := "./" + module
		if b.DirExtension != "" {
			target += "/index" + b.DirExtension
		}
		return []string{"export * from '" + target + "';"}
	}

	values, types, hasDefault := partition(entry.Exports)
	var lines []string
	switch {
	case len(values) > 0 && len(types) > 0:
		for i, t := range types {
			types[i] = "type " + t
		}
		all := append(values, types...)
		lines = append(lines, "export { "+strings.Join(all, ", ")+" } from './"+module+"';")
	case len(values) > 0:
		lines = append(lines, "export { "+strings.Join(values, ", ")+" } from './"+module+"';")
	case len(types) > 0:
		lines = append(lines, "export type { "+strings.Join(types, ", ")+" } from './"+module+"';")
	}
	if hasDefault {
		lines = append(lines, "export { default } from './"+module+"';")
	}
	return lines
}

// partition splits records into alphabetized value names, alphabetized
// type-only names, and a default-export flag. Names that traverse to a
// parent directory are dropped.
func partition(records []extract.Record) (values, types []string, hasDefault bool) {
	for _, r := range records {
		if strings.HasPrefix(r.Name, "..") {
			continue
		}
		switch {
		case r.Name == extract.DefaultExportName:
			hasDefault = true
		case r.TypeOnly:
			types = append(types, r.Name)
		default:
			values = append(values, r.Name)
		}
	}
	// Records arrive sorted by name from the extractor, so the split
	// slices are already alphabetized.
	return values, types, hasDefault
}

// modulePath converts an entry key to its module reference path:
// separators normalized to forward slashes, a trailing .ts/.tsx
// extension stripped.
func modulePath(key string) string {
	p := filepath.ToSlash(key)
	for _, ext := range []string{".tsx", ".ts"} {
		if strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	return p
}
