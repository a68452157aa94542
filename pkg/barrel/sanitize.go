package barrel

import (
	"regexp"
	"strings"
)

// Re-export statement shapes, tested against comment-masked text so stray
// braces inside comments never terminate a statement. Quote style, spacing,
// and trailing semicolons are all optional.
var (
	reExportListRe = regexp.MustCompile(`^\s*export\s*(?:type\b\s*)?\{[^}]*\}\s*from\s*['"]([^'"]+)['"]`)
	reExportStarRe = regexp.MustCompile(`^\s*export\s*\*\s*(?:as\s+[A-Za-z_$][A-Za-z0-9_$]*\s+)?from\s*['"]([^'"]+)['"]`)

	// An export list whose opening brace is not closed on the same line
	// starts a multi-line re-export candidate.
	reExportOpenRe = regexp.MustCompile(`^\s*export\s*(?:type\b\s*)?\{[^}]*$`)
)

// maxReExportLines caps multi-line statement buffering; a candidate that
// grows past it is treated as unparseable and preserved verbatim.
const maxReExportLines = 10

// sanitizeContent splits an existing barrel's text into the lines to carry
// over verbatim ahead of freshly generated content. Re-exports whose path
// escapes the directory, or whose normalized path appears in fresh, are
// dropped; all other non-blank content (direct definitions, comments,
// unmanaged re-exports) is preserved in original order and formatting.
func sanitizeContent(existing string, fresh map[string]bool) []string {
	var preserved []string

	scanning := true // false while inside a multi-line re-export candidate
	inBlockComment := false
	var buffer []string  // original candidate lines
	var maskedBuf string // comment-masked candidate text

	flushVerbatim := func() {
		preserved = append(preserved, buffer...)
		buffer, maskedBuf = nil, ""
		scanning = true
	}
	flushDecided := func(path string) {
		if keepReExport(path, fresh) {
			preserved = append(preserved, buffer...)
		}
		buffer, maskedBuf = nil, ""
		scanning = true
	}

	lines := strings.Split(existing, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1] // trailing newline artifact
	}
	for _, line := range lines {
		var masked string
		masked, inBlockComment = maskComments(line, inBlockComment)

		if !scanning {
			buffer = append(buffer, line)
			maskedBuf += "\n" + masked
			if m := reExportListRe.FindStringSubmatch(maskedBuf); m != nil {
				flushDecided(m[1])
				continue
			}
			// A closing brace or statement end without a parseable
			// re-export means this was not one after all.
			if strings.ContainsAny(masked, "};") || len(buffer) > maxReExportLines {
				flushVerbatim()
			}
			continue
		}

		// Blankness is judged on the original line: a line holding only a
		// comment masks to whitespace but is still preserved.
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := reExportListRe.FindStringSubmatch(masked); m != nil {
			if keepReExport(m[1], fresh) {
				preserved = append(preserved, line)
			}
			continue
		}
		if m := reExportStarRe.FindStringSubmatch(masked); m != nil {
			if keepReExport(m[1], fresh) {
				preserved = append(preserved, line)
			}
			continue
		}
		if reExportOpenRe.MatchString(masked) {
			scanning = false
			buffer = []string{line}
			maskedBuf = masked
			continue
		}
		preserved = append(preserved, line)
	}

	if !scanning {
		// EOF inside a candidate: never silently delete code.
		preserved = append(preserved, buffer...)
	}
	return preserved
}

// keepReExport decides whether an existing re-export of path survives.
// Paths that traverse to a parent directory are always dropped; paths the
// fresh content covers would duplicate and are dropped too.
func keepReExport(path string, fresh map[string]bool) bool {
	if strings.HasPrefix(path, "..") {
		return false
	}
	return !fresh[normalizeModulePath(path)]
}

// normalizeModulePath collapses extension and index-file differences so
// './foo', './foo.js', './foo/index', and './foo/index.js' all compare
// equal.
func normalizeModulePath(p string) string {
	p = strings.TrimSuffix(p, "/")
	for _, ext := range []string{".d.ts", ".tsx", ".ts", ".jsx", ".mjs", ".js"} {
		if strings.HasSuffix(p, ext) {
			p = strings.TrimSuffix(p, ext)
			break
		}
	}
	return strings.TrimSuffix(p, "/index")
}

// maskComments blanks out line and block comments in one physical line,
// preserving length. inBlock carries open-block-comment state across
// lines. Quoted strings are copied through untouched so comment markers
// inside a module path never open a comment.
func maskComments(line string, inBlock bool) (string, bool) {
	out := []byte(line)
	var quote byte
	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case inBlock:
			if c == '*' && i+1 < len(out) && out[i+1] == '/' {
				out[i], out[i+1] = ' ', ' '
				i++
				inBlock = false
			} else {
				out[i] = ' '
			}
		case quote != 0:
			if c == '\\' && i+1 < len(out) {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '/' && i+1 < len(out) && out[i+1] == '/':
			for j := i; j < len(out); j++ {
				out[j] = ' '
			}
			return string(out), inBlock
		case c == '/' && i+1 < len(out) && out[i+1] == '*':
			out[i], out[i+1] = ' ', ' '
			i++
			inBlock = true
		}
	}
	return string(out), inBlock
}
