// Package jsast wraps the tree-sitter JavaScript grammar into the single
// parser adapter the bundler core needs: source text in, a walkable AST out.
package jsast

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Tree is a parsed module source: the AST root plus the bytes it was parsed
// from, needed together for any text extraction (tree-sitter nodes are byte
// ranges into the original source, not owning strings).
type Tree struct {
	Root   *sitter.Node
	Source []byte
}

// Parser parses restricted-CommonJS JavaScript module sources. One Parser
// may be reused across modules; tree-sitter parsers are not safe for
// concurrent use, so callers that parse modules in parallel must give each
// goroutine its own Parser.
type Parser struct {
	sp *sitter.Parser
}

// New creates a parser bound to the JavaScript grammar.
func New() *Parser {
	sp := sitter.NewParser()
	sp.SetLanguage(javascript.GetLanguage())
	return &Parser{sp: sp}
}

// ParseErr wraps a tree-sitter failure to satisfy the bundler's
// UnableToParseModule error case (core spec §7).
type ParseErr struct {
	Message string
}

func (e *ParseErr) Error() string {
	return fmt.Sprintf("unable to parse module: %s", e.Message)
}

// Parse parses a module's source text into a Tree. It does not itself
// validate the shape of the program; that's the classifier's job.
func (p *Parser) Parse(source []byte) (*Tree, error) {
	tree, err := p.sp.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseErr{Message: err.Error()}
	}
	if tree == nil {
		return nil, &ParseErr{Message: "parser returned no tree"}
	}
	root := tree.RootNode()
	if root == nil || root.HasError() {
		return nil, &ParseErr{Message: "syntax error in module source"}
	}
	return &Tree{Root: root, Source: source}, nil
}

// Text returns the verbatim source text spanned by a node.
func Text(n *sitter.Node, source []byte) string {
	return string(source[n.StartByte():n.EndByte()])
}

// StringLiteralValue strips the surrounding quotes from a `string` node.
func StringLiteralValue(n *sitter.Node, source []byte) string {
	text := Text(n, source)
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') {
		return text[1 : len(text)-1]
	}
	return text
}

// TopLevelStatements returns the direct children of the program root that
// are statements — core §4.1 requires the AST root to be "a program (ordered
// list of statements)"; comments and similar non-statement children are
// skipped so callers see exactly the ordered statement list.
func TopLevelStatements(root *sitter.Node) ([]*sitter.Node, bool) {
	if root == nil || root.Type() != "program" {
		return nil, false
	}
	stmts := make([]*sitter.Node, 0, root.NamedChildCount())
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		stmts = append(stmts, child)
	}
	return stmts, true
}

// Walk visits n and every descendant, depth-first, pre-order.
func Walk(n *sitter.Node, visit func(*sitter.Node)) {
	if n == nil {
		return
	}
	visit(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		Walk(n.Child(i), visit)
	}
}
