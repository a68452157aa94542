// Package treesitter provides a pluggable abstraction layer for tree-sitter
// parsing. Barrelle only ever parses the TypeScript family, so the grammar
// surface is limited to TypeScript, TSX, and JavaScript, but the Backend
// interface keeps the implementation swappable (the CGO backend is the only
// production backend today; a CGO-free backend can slot in behind the same
// interface once a WASM TypeScript grammar is available).
//
// # Quick Start
//
// Create a backend and parse some code:
//
//	backend, err := treesitter.NewBackendFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	parser, err := backend.NewParser(treesitter.TypeScript)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer parser.Close()
//
//	tree, err := parser.ParseString(context.Background(), `export const a = 1;`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tree.Close()
//
//	root := tree.RootNode()
//	fmt.Println(root.Type()) // Output: program
//
// # Thread Safety
//
// Backends are safe for concurrent use. Parsers should not be used
// concurrently from multiple goroutines. Trees and Nodes are safe to read
// concurrently but should not be modified. For concurrent parsing, create
// multiple parsers from the same backend.
package treesitter

import "context"

// Language represents a programming language grammar that can be parsed.
type Language string

const (
	// TypeScript represents the TypeScript programming language.
	TypeScript Language = "typescript"

	// TSX represents TypeScript with JSX syntax.
	TSX Language = "tsx"

	// JavaScript represents the JavaScript programming language.
	JavaScript Language = "javascript"
)

// AllLanguages returns a slice of all defined Language constants.
func AllLanguages() []Language {
	return []Language{TypeScript, TSX, JavaScript}
}

// LanguageForFile returns the grammar for a source file name based on its
// extension, or false if the file is not parseable by this package.
func LanguageForFile(name string) (Language, bool) {
	switch {
	case hasSuffix(name, ".tsx"):
		return TSX, true
	case hasSuffix(name, ".ts"), hasSuffix(name, ".mts"), hasSuffix(name, ".cts"):
		return TypeScript, true
	case hasSuffix(name, ".js"), hasSuffix(name, ".jsx"), hasSuffix(name, ".mjs"), hasSuffix(name, ".cjs"):
		return JavaScript, true
	default:
		return "", false
	}
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// Backend abstracts the tree-sitter implementation, allowing different
// backends to be used interchangeably.
type Backend interface {
	// Name returns the backend identifier (currently only "cgo").
	Name() string

	// IsExperimental returns true for backends not yet production-ready.
	IsExperimental() bool

	// SupportedLanguages returns the list of languages this backend can parse.
	SupportedLanguages() []Language

	// SupportsLanguage checks if the backend can parse the given language.
	SupportsLanguage(lang Language) bool

	// NewParser creates a parser configured for the given language.
	// Returns an error if the language is not supported by this backend.
	NewParser(lang Language) (Parser, error)

	// Close releases any resources held by the backend.
	// After Close is called, the backend should not be used.
	Close() error
}

// Parser parses source code into a concrete syntax tree (CST).
type Parser interface {
	// Language returns the language this parser is configured for.
	Language() Language

	// Parse parses the given source code and returns the syntax tree.
	// The context can be used for cancellation of long-running parses.
	Parse(ctx context.Context, source []byte) (Tree, error)

	// ParseString is a convenience method that parses a string.
	ParseString(ctx context.Context, source string) (Tree, error)

	// Close releases any resources held by the parser.
	Close() error
}

// Tree represents a parsed syntax tree.
type Tree interface {
	// RootNode returns the root node of the syntax tree.
	RootNode() Node

	// Source returns the original source code that was parsed.
	Source() []byte

	// HasError returns true if the tree contains any syntax errors.
	HasError() bool

	// Close releases any resources held by the tree.
	Close() error
}

// Node represents a node in the syntax tree.
type Node interface {
	// Type returns the grammar type of this node (e.g., "export_statement",
	// "class_declaration", "identifier").
	Type() string

	// StartByte returns the byte offset where this node starts in the source.
	StartByte() uint32

	// EndByte returns the byte offset where this node ends in the source.
	EndByte() uint32

	// StartPoint returns the (row, column) position where this node starts.
	StartPoint() Point

	// EndPoint returns the (row, column) position where this node ends.
	EndPoint() Point

	// Content extracts the source text for this node using the provided source.
	Content(source []byte) string

	// ChildCount returns the total number of children (including anonymous nodes).
	ChildCount() uint32

	// Child returns the child at the given index, or nil if out of bounds.
	Child(index uint32) Node

	// NamedChildCount returns the number of named children.
	NamedChildCount() uint32

	// NamedChild returns the named child at the given index, or nil if out of bounds.
	NamedChild(index uint32) Node

	// ChildByFieldName returns the child with the given field name, or nil.
	ChildByFieldName(name string) Node

	// Parent returns the parent node, or nil if this is the root.
	Parent() Node

	// NextSibling returns the next sibling node, or nil if none.
	NextSibling() Node

	// IsNamed returns true if this is a named node (not anonymous).
	IsNamed() bool

	// IsError returns true if this node represents a syntax error.
	IsError() bool

	// IsMissing returns true if this node was inserted by error recovery.
	IsMissing() bool

	// IsNull returns true if this is a null/missing node reference.
	IsNull() bool

	// String returns an S-expression representation of the subtree.
	String() string
}

// Point represents a position in source code as (row, column).
// Both row and column are 0-indexed.
type Point struct {
	Row    uint32
	Column uint32
}

// ErrLanguageNotSupported is returned when attempting to parse a language
// that is not supported by the current backend.
type ErrLanguageNotSupported struct {
	Language Language
	Backend  string
}

func (e ErrLanguageNotSupported) Error() string {
	return "language " + string(e.Language) + " is not supported by backend " + e.Backend
}

// ErrBackendClosed is returned when attempting to use a backend after Close.
type ErrBackendClosed struct {
	Backend string
}

func (e ErrBackendClosed) Error() string {
	return "backend " + e.Backend + " has been closed"
}

// ErrParserClosed is returned when attempting to use a parser after Close.
type ErrParserClosed struct{}

func (e ErrParserClosed) Error() string {
	return "parser has been closed"
}

// Children returns a slice of all children of the given node.
func Children(n Node) []Node {
	if n == nil || n.IsNull() {
		return nil
	}
	count := n.ChildCount()
	if count == 0 {
		return nil
	}
	children := make([]Node, 0, count)
	for i := uint32(0); i < count; i++ {
		if child := n.Child(i); child != nil {
			children = append(children, child)
		}
	}
	return children
}

// NamedChildren returns a slice of all named children of the given node.
// Named children are nodes that correspond to named rules in the grammar,
// excluding anonymous tokens like punctuation.
func NamedChildren(n Node) []Node {
	if n == nil || n.IsNull() {
		return nil
	}
	count := n.NamedChildCount()
	if count == 0 {
		return nil
	}
	children := make([]Node, 0, count)
	for i := uint32(0); i < count; i++ {
		if child := n.NamedChild(i); child != nil {
			children = append(children, child)
		}
	}
	return children
}

// ChildrenByType returns all children of the given node that match the
// specified type.
func ChildrenByType(n Node, nodeType string) []Node {
	if n == nil || n.IsNull() {
		return nil
	}
	var matches []Node
	count := n.ChildCount()
	for i := uint32(0); i < count; i++ {
		if child := n.Child(i); child != nil && child.Type() == nodeType {
			matches = append(matches, child)
		}
	}
	return matches
}

// Walk traverses the tree in depth-first order, calling the visitor function
// for each node. The visitor returns true to continue walking, false to stop.
// Walk returns true if the entire tree was traversed, false if stopped early.
func Walk(n Node, visitor func(Node) bool) bool {
	if n == nil || n.IsNull() {
		return true
	}
	if !visitor(n) {
		return false
	}
	count := n.ChildCount()
	for i := uint32(0); i < count; i++ {
		if child := n.Child(i); child != nil {
			if !Walk(child, visitor) {
				return false
			}
		}
	}
	return true
}

// FindByType performs a depth-first search and returns all nodes of the
// given type.
func FindByType(n Node, nodeType string) []Node {
	var results []Node
	Walk(n, func(node Node) bool {
		if node.Type() == nodeType {
			results = append(results, node)
		}
		return true
	})
	return results
}
