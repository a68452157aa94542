package extract

import (
	"regexp"
	"strings"
)

// Export declaration patterns, applied to masked source only (see
// maskSource). Masking guarantees that no match can originate inside a
// string, template, regex, or comment.
//
// Known heuristic gaps, by choice: destructured exports
// ("export const { a } = o") and export assignments ("export = x") are not
// recorded. The tree-sitter backend covers the former.
const identPat = `[A-Za-z_$][A-Za-z0-9_$]*`

var (
	classRe = regexp.MustCompile(`\bexport\s+(?:declare\s+)?(?:abstract\s+)?class\s+(` + identPat + `)`)
	funcRe  = regexp.MustCompile(`\bexport\s+(?:declare\s+)?(?:async\s+)?function\s*\*?\s*(` + identPat + `)`)
	varRe   = regexp.MustCompile(`\bexport\s+(?:declare\s+)?(?:const|let|var)\s+(` + identPat + `)`)
	enumRe  = regexp.MustCompile(`\bexport\s+(?:declare\s+)?(?:const\s+)?enum\s+(` + identPat + `)`)
	ifaceRe = regexp.MustCompile(`\bexport\s+(?:declare\s+)?interface\s+(` + identPat + `)`)
	aliasRe = regexp.MustCompile(`\bexport\s+(?:declare\s+)?type\s+(` + identPat + `)[^={};]*=`)

	defaultRe   = regexp.MustCompile(`\bexport\s+default\b`)
	starNsRe    = regexp.MustCompile(`\bexport\s*\*\s*as\s+(` + identPat + `)\s+from\b`)
	listRe      = regexp.MustCompile(`\bexport\s*(type\b\s*)?\{([^}]*)\}(\s*from\s*['"])?`)
	constEnumRe = regexp.MustCompile(`\bexport\s+(?:declare\s+)?const\s+enum\b`)
)

// extractHeuristic scans masked source text for export declarations.
// It is a pure function of the text: no I/O, no shared state.
func extractHeuristic(source string) []Record {
	masked := maskSource(source)
	set := newRecordSet()

	for _, m := range classRe.FindAllStringSubmatch(masked, -1) {
		set.add(m[1], false)
	}
	for _, m := range funcRe.FindAllStringSubmatch(masked, -1) {
		set.add(m[1], false)
	}
	for _, m := range enumRe.FindAllStringSubmatch(masked, -1) {
		set.add(m[1], false)
	}
	for _, m := range varRe.FindAllStringSubmatch(masked, -1) {
		// "export const enum E" already matched by enumRe; the var pattern
		// would record the name "enum" otherwise.
		if m[1] == "enum" && constEnumRe.MatchString(masked) {
			continue
		}
		set.add(m[1], false)
	}
	for _, m := range ifaceRe.FindAllStringSubmatch(masked, -1) {
		set.add(m[1], true)
	}
	for _, m := range aliasRe.FindAllStringSubmatch(masked, -1) {
		set.add(m[1], true)
	}
	for _, m := range starNsRe.FindAllStringSubmatch(masked, -1) {
		set.add(m[1], false)
	}

	for _, m := range listRe.FindAllStringSubmatch(masked, -1) {
		stmtTypeOnly := m[1] != ""
		hasFrom := m[3] != ""
		addListItems(set, m[2], stmtTypeOnly, hasFrom)
	}

	if defaultRe.MatchString(masked) {
		set.addDefault()
	}

	return set.records()
}

// addListItems records the items of one export list ("export { ... }").
// Bare lists define local bindings and are always recorded. Lists with a
// from-clause only define a local name when an item is aliased; unaliased
// pass-through items are skipped.
func addListItems(set *recordSet, body string, stmtTypeOnly, hasFrom bool) {
	for _, raw := range strings.Split(body, ",") {
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}

		itemTypeOnly := false
		// "type foo" marks a type-only item; a lone "type" is an ordinary
		// identifier named type.
		if fields[0] == "type" && len(fields) > 1 {
			itemTypeOnly = true
			fields = fields[1:]
		}

		name := fields[0]
		aliased := false
		if len(fields) == 3 && fields[1] == "as" {
			name = fields[2]
			aliased = true
		}

		if hasFrom && !aliased {
			continue
		}
		if name == DefaultExportName {
			set.addDefault()
			continue
		}
		set.add(name, stmtTypeOnly || itemTypeOnly)
	}
}
