package extract

import (
	"context"
	"fmt"
	"sync"

	"github.com/albertocavalcante/barrelle/pkg/treesitter"
)

// treeSitterExtractor extracts exports by walking a real syntax tree.
// It owns one parser per grammar, reused across files; construct one
// instance per process and share it by reference.
type treeSitterExtractor struct {
	backend treesitter.Backend

	mu      sync.Mutex
	parsers map[treesitter.Language]treesitter.Parser
}

func newTreeSitterExtractor(backend treesitter.Backend) *treeSitterExtractor {
	return &treeSitterExtractor{
		backend: backend,
		parsers: make(map[treesitter.Language]treesitter.Parser),
	}
}

func (e *treeSitterExtractor) parser(lang treesitter.Language) (treesitter.Parser, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.parsers[lang]; ok {
		return p, nil
	}
	p, err := e.backend.NewParser(lang)
	if err != nil {
		return nil, err
	}
	e.parsers[lang] = p
	return p, nil
}

// extract parses source and collects exports from export_statement nodes.
// Syntax errors do not fail extraction; tree-sitter recovers and partial
// results are returned.
func (e *treeSitterExtractor) extract(ctx context.Context, source string, lang treesitter.Language) ([]Record, error) {
	parser, err := e.parser(lang)
	if err != nil {
		return nil, err
	}

	// Parsers are not safe for concurrent use; extraction fan-out is bounded
	// by the caller but can still overlap on the same grammar.
	e.mu.Lock()
	tree, err := parser.Parse(ctx, []byte(source))
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}
	defer tree.Close()

	src := []byte(source)
	set := newRecordSet()

	for _, stmt := range treesitter.FindByType(tree.RootNode(), "export_statement") {
		collectExportStatement(stmt, src, set)
	}

	return set.records(), nil
}

func (e *treeSitterExtractor) close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range e.parsers {
		_ = p.Close()
	}
	e.parsers = make(map[treesitter.Language]treesitter.Parser)
	_ = e.backend.Close()
}

// collectExportStatement records the exports defined by one export_statement.
func collectExportStatement(stmt treesitter.Node, src []byte, set *recordSet) {
	// Any default export form collapses to the single "default" record.
	if len(treesitter.ChildrenByType(stmt, "default")) > 0 {
		set.addDefault()
		return
	}

	stmtTypeOnly := len(treesitter.ChildrenByType(stmt, "type")) > 0
	hasSource := stmt.ChildByFieldName("source") != nil

	if decl := stmt.ChildByFieldName("declaration"); decl != nil && !decl.IsNull() {
		collectDeclaration(decl, src, set)
		return
	}

	for _, clause := range treesitter.ChildrenByType(stmt, "export_clause") {
		for _, spec := range treesitter.NamedChildren(clause) {
			if spec.Type() != "export_specifier" {
				continue
			}
			collectSpecifier(spec, src, set, stmtTypeOnly, hasSource)
		}
	}

	// export * as ns from '...' defines the local name ns.
	for _, ns := range treesitter.ChildrenByType(stmt, "namespace_export") {
		for _, child := range treesitter.NamedChildren(ns) {
			if name := child.Content(src); name != "" {
				set.add(name, false)
			}
			break
		}
	}
}

func collectDeclaration(decl treesitter.Node, src []byte, set *recordSet) {
	declName := func() string {
		if n := decl.ChildByFieldName("name"); n != nil && !n.IsNull() {
			return n.Content(src)
		}
		return ""
	}

	switch decl.Type() {
	case "class_declaration", "abstract_class_declaration",
		"function_declaration", "generator_function_declaration",
		"function_signature":
		set.add(declName(), false)

	case "lexical_declaration", "variable_declaration":
		for _, d := range treesitter.ChildrenByType(decl, "variable_declarator") {
			name := d.ChildByFieldName("name")
			if name == nil || name.IsNull() {
				continue
			}
			switch name.Type() {
			case "identifier":
				set.add(name.Content(src), false)
			case "object_pattern", "array_pattern":
				collectPatternNames(name, src, set)
			}
		}

	case "interface_declaration":
		set.add(declName(), true)

	case "type_alias_declaration":
		set.add(declName(), true)

	case "enum_declaration":
		set.add(declName(), false)
	}
}

// collectPatternNames records the bound names of a destructuring pattern.
func collectPatternNames(pattern treesitter.Node, src []byte, set *recordSet) {
	treesitter.Walk(pattern, func(n treesitter.Node) bool {
		switch n.Type() {
		case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
			set.add(n.Content(src), false)
		case "pair_pattern":
			// { key: localName } binds the value side only
			if v := n.ChildByFieldName("value"); v != nil && !v.IsNull() && v.Type() == "identifier" {
				set.add(v.Content(src), false)
			}
		case "identifier":
			// direct array-pattern elements
			if p := n.Parent(); p != nil && !p.IsNull() && p.Type() == "array_pattern" {
				set.add(n.Content(src), false)
			}
		}
		return true
	})
}

func collectSpecifier(spec treesitter.Node, src []byte, set *recordSet, stmtTypeOnly, hasSource bool) {
	nameNode := spec.ChildByFieldName("name")
	aliasNode := spec.ChildByFieldName("alias")
	itemTypeOnly := len(treesitter.ChildrenByType(spec, "type")) > 0

	aliased := aliasNode != nil && !aliasNode.IsNull()
	if hasSource && !aliased {
		return
	}

	name := ""
	if aliased {
		name = aliasNode.Content(src)
	} else if nameNode != nil && !nameNode.IsNull() {
		name = nameNode.Content(src)
	}
	name = unquoteExportName(name)
	if name == "" {
		return
	}

	if name == DefaultExportName {
		set.addDefault()
		return
	}
	set.add(name, stmtTypeOnly || itemTypeOnly)
}

// unquoteExportName strips quotes from string-named exports
// (export { x as "string name" }).
func unquoteExportName(name string) string {
	if len(name) >= 2 && (name[0] == '"' || name[0] == '\'') && name[len(name)-1] == name[0] {
		return name[1 : len(name)-1]
	}
	return name
}
