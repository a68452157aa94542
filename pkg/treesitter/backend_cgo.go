//go:build cgo

package treesitter

import (
	"context"
	"fmt"
	"slices"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// cgoBackend implements Backend using the CGO-based smacker/go-tree-sitter
// library.
type cgoBackend struct {
	mu     sync.RWMutex
	closed bool
}

// NewCGOBackend creates a new CGO-based tree-sitter backend.
func NewCGOBackend() (Backend, error) {
	return &cgoBackend{}, nil
}

func (b *cgoBackend) Name() string {
	return "cgo"
}

func (b *cgoBackend) IsExperimental() bool {
	return false
}

func (b *cgoBackend) SupportedLanguages() []Language {
	return []Language{TypeScript, TSX, JavaScript}
}

func (b *cgoBackend) SupportsLanguage(lang Language) bool {
	return slices.Contains(b.SupportedLanguages(), lang)
}

func (b *cgoBackend) NewParser(lang Language) (Parser, error) {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()

	if closed {
		return nil, ErrBackendClosed{Backend: b.Name()}
	}

	sitterLang, err := b.getSitterLanguage(lang)
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(sitterLang)

	return &cgoParser{
		parser: parser,
		lang:   lang,
	}, nil
}

func (b *cgoBackend) getSitterLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case TypeScript:
		return typescript.GetLanguage(), nil
	case TSX:
		return tsx.GetLanguage(), nil
	case JavaScript:
		return javascript.GetLanguage(), nil
	default:
		return nil, ErrLanguageNotSupported{Language: lang, Backend: b.Name()}
	}
}

func (b *cgoBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// cgoParser implements Parser using the CGO backend.
type cgoParser struct {
	mu     sync.RWMutex
	parser *sitter.Parser
	lang   Language
	closed bool
}

func (p *cgoParser) Language() Language {
	return p.lang
}

func (p *cgoParser) Parse(ctx context.Context, source []byte) (Tree, error) {
	p.mu.RLock()
	closed := p.closed
	parser := p.parser
	p.mu.RUnlock()

	if closed {
		return nil, ErrParserClosed{}
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	return &cgoTree{
		tree:   tree,
		source: source,
	}, nil
}

func (p *cgoParser) ParseString(ctx context.Context, source string) (Tree, error) {
	return p.Parse(ctx, []byte(source))
}

func (p *cgoParser) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.parser.Close()
	return nil
}

// cgoTree implements Tree using the CGO backend.
type cgoTree struct {
	tree   *sitter.Tree
	source []byte
}

func (t *cgoTree) RootNode() Node {
	return &cgoNode{node: t.tree.RootNode()}
}

func (t *cgoTree) Source() []byte {
	return t.source
}

func (t *cgoTree) HasError() bool {
	root := t.tree.RootNode()
	if root == nil {
		return false
	}
	return root.HasError()
}

func (t *cgoTree) Close() error {
	t.tree.Close()
	return nil
}

// cgoNode implements Node using the CGO backend.
type cgoNode struct {
	node *sitter.Node
}

func wrapNode(n *sitter.Node) Node {
	if n == nil {
		return nil
	}
	return &cgoNode{node: n}
}

func (n *cgoNode) Type() string {
	if n.node == nil {
		return ""
	}
	return n.node.Type()
}

func (n *cgoNode) StartByte() uint32 {
	if n.node == nil {
		return 0
	}
	return n.node.StartByte()
}

func (n *cgoNode) EndByte() uint32 {
	if n.node == nil {
		return 0
	}
	return n.node.EndByte()
}

func (n *cgoNode) StartPoint() Point {
	if n.node == nil {
		return Point{}
	}
	p := n.node.StartPoint()
	return Point{Row: p.Row, Column: p.Column}
}

func (n *cgoNode) EndPoint() Point {
	if n.node == nil {
		return Point{}
	}
	p := n.node.EndPoint()
	return Point{Row: p.Row, Column: p.Column}
}

func (n *cgoNode) Content(source []byte) string {
	if n.node == nil {
		return ""
	}
	return n.node.Content(source)
}

func (n *cgoNode) ChildCount() uint32 {
	if n.node == nil {
		return 0
	}
	return n.node.ChildCount()
}

func (n *cgoNode) Child(index uint32) Node {
	if n.node == nil {
		return nil
	}
	return wrapNode(n.node.Child(int(index)))
}

func (n *cgoNode) NamedChildCount() uint32 {
	if n.node == nil {
		return 0
	}
	return uint32(n.node.NamedChildCount())
}

func (n *cgoNode) NamedChild(index uint32) Node {
	if n.node == nil {
		return nil
	}
	return wrapNode(n.node.NamedChild(int(index)))
}

func (n *cgoNode) ChildByFieldName(name string) Node {
	if n.node == nil {
		return nil
	}
	return wrapNode(n.node.ChildByFieldName(name))
}

func (n *cgoNode) Parent() Node {
	if n.node == nil {
		return nil
	}
	return wrapNode(n.node.Parent())
}

func (n *cgoNode) NextSibling() Node {
	if n.node == nil {
		return nil
	}
	return wrapNode(n.node.NextSibling())
}

func (n *cgoNode) IsNamed() bool {
	if n.node == nil {
		return false
	}
	return n.node.IsNamed()
}

func (n *cgoNode) IsError() bool {
	if n.node == nil {
		return false
	}
	return n.node.IsError()
}

func (n *cgoNode) IsMissing() bool {
	if n.node == nil {
		return false
	}
	return n.node.IsMissing()
}

func (n *cgoNode) IsNull() bool {
	return n.node == nil
}

func (n *cgoNode) String() string {
	if n.node == nil {
		return ""
	}
	return n.node.String()
}
