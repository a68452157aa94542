// Package barrel generates TypeScript barrel files: per-directory index
// modules that re-export every public symbol of the directory's source
// files and sub-barrels.
//
// The pipeline is scanner -> cache/extractor -> builder, with the
// sanitizer reconciling freshly built content against a pre-existing
// barrel so hand-written additions survive regeneration.
package barrel

import "github.com/albertocavalcante/barrelle/pkg/extract"

// EntryKind discriminates the two kinds of barrel entries.
type EntryKind int

const (
	// EntryFile is a source file with at least one export.
	EntryFile EntryKind = iota
	// EntryDirectory is a child directory that has its own barrel.
	EntryDirectory
)

// Entry is one line-producing unit of a directory's barrel, keyed in the
// entry map by its extensionless directory-relative path. Exactly one of
// the two kinds applies; Exports is set only for EntryFile.
type Entry struct {
	Kind    EntryKind
	Exports []extract.Record
}

// Mode selects how the generator treats directories without a barrel.
type Mode string

const (
	// ModeCreateOrUpdate writes a barrel whether or not one exists.
	ModeCreateOrUpdate Mode = "create"
	// ModeUpdateExisting only rewrites barrels that already exist on
	// disk; it never creates one.
	ModeUpdateExisting Mode = "update"
)

// Options are the per-invocation generation options.
type Options struct {
	Recursive bool
	Mode      Mode

	// Check reports what would change without writing anything.
	Check bool
}

// Stats summarizes one generation run.
type Stats struct {
	// Written counts barrels written (or, under Check, that would be).
	Written int
	// Unchanged counts barrels whose regenerated content was identical.
	Unchanged int
	// Skipped counts directories where no barrel was warranted.
	Skipped int
}
