package barrel

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultBarrelName is the conventional barrel file name.
const DefaultBarrelName = "index.ts"

// ignoredDirs are directory names never descended into or listed:
// VCS metadata, dependency trees, and common build output.
var ignoredDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".hg":          true,
	".svn":         true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	"out":          true,
}

// Scanner lists the immediate children of a directory, filtered to the
// files and subdirectories that participate in barrel generation.
type Scanner struct {
	// BarrelName is the barrel file name to exclude from source files.
	// Empty selects DefaultBarrelName.
	BarrelName string
	// Exclude holds doublestar glob patterns matched against child names;
	// matching files and directories are skipped.
	Exclude []string
}

// Scan returns the eligible source file names and subdirectory names
// directly under dir, in lexical order. Symlinks and other non-regular
// entries are ignored.
func (s *Scanner) Scan(dir string) (files, dirs []string, err error) {
	barrelName := s.BarrelName
	if barrelName == "" {
		barrelName = DefaultBarrelName
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("list directory %s: %w", dir, err)
	}

	for _, child := range children {
		name := child.Name()
		if s.excluded(name) {
			continue
		}
		if child.IsDir() {
			if strings.HasPrefix(name, ".") || ignoredDirs[name] {
				continue
			}
			dirs = append(dirs, name)
			continue
		}
		if !child.Type().IsRegular() {
			continue
		}
		if isSourceFile(name, barrelName) {
			files = append(files, name)
		}
	}
	return files, dirs, nil
}

func (s *Scanner) excluded(name string) bool {
	for _, pattern := range s.Exclude {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// isSourceFile reports whether name is a TypeScript source file eligible
// for export extraction: .ts/.tsx, not the barrel itself, not a
// declaration file, not a test file.
func isSourceFile(name, barrelName string) bool {
	if name == barrelName {
		return false
	}
	if !strings.HasSuffix(name, ".ts") && !strings.HasSuffix(name, ".tsx") {
		return false
	}
	if strings.HasSuffix(name, ".d.ts") {
		return false
	}
	if strings.Contains(name, ".test.") || strings.Contains(name, ".spec.") {
		return false
	}
	return true
}
