package transform

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/weavelang/bundle/bmodule"
	"github.com/weavelang/bundle/jsast"
)

// Uncurry collapses a member whose declaration is a chain of nested
// single-parameter function expressions — the shape a curried definition
// compiles to — into one function taking every parameter at once. It
// rewrites only the declaration's own shape; call sites are untouched, so
// it is only safe for members the caller knows are always applied fully
// saturated at every use.
//
// It has the ModuleTransform signature and neither renames modules nor
// invents new ones. It is not pure: it sets Override on the rewritten
// members of the given modules in place and returns the same slice.
func Uncurry(modules []*bmodule.Module, entryPoints []bmodule.ID) []*bmodule.Module {
	for _, m := range modules {
		for _, mem := range m.Members() {
			if rewritten, ok := uncurryDecl(mem.Decl, m.Source); ok {
				mem.Override = rewriteMemberText(mem, rewritten, m.Source)
			}
		}
	}
	return modules
}

// uncurryDecl returns the text of one function that takes the flattened
// parameter list and returns the innermost body expression, for a chain of
// nested single-parameter function expressions, or
// ("", false) if decl isn't such a chain (or is a chain of depth 1, which
// has nothing to flatten).
func uncurryDecl(decl *sitter.Node, source []byte) (string, bool) {
	var params []string
	cur := decl
	for {
		fn, ok := asSingleParamFunction(cur, source)
		if !ok {
			break
		}
		params = append(params, fn.param)
		cur = fn.body
	}
	if len(params) < 2 {
		return "", false
	}
	bodyText := jsast.Text(cur, source)
	header := "function(" + strings.Join(params, ", ") + ") "
	return header + "{ return " + bodyText + "; }", true
}

type singleParamFn struct {
	param string
	body  *sitter.Node
}

// asSingleParamFunction recognises `function(P) { return BODY; }`, which
// chains for nested curried definitions as `function(P) { return
// function(...) ...; }`.
func asSingleParamFunction(n *sitter.Node, source []byte) (singleParamFn, bool) {
	if n == nil || (n.Type() != "function" && n.Type() != "function_expression") {
		return singleParamFn{}, false
	}
	params := n.ChildByFieldName("parameters")
	if params == nil || params.NamedChildCount() != 1 {
		return singleParamFn{}, false
	}
	p := params.NamedChild(0)
	if p.Type() != "identifier" {
		return singleParamFn{}, false
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return singleParamFn{}, false
	}
	inner := soleReturnValue(body)
	if inner == nil {
		return singleParamFn{}, false
	}
	return singleParamFn{param: jsast.Text(p, source), body: inner}, true
}

// soleReturnValue returns the expression of a block whose only statement
// is `return EXPR;`, or nil if the block doesn't have that shape.
func soleReturnValue(block *sitter.Node) *sitter.Node {
	if block.Type() != "statement_block" {
		return nil
	}
	if block.NamedChildCount() != 1 {
		return nil
	}
	stmt := block.NamedChild(0)
	if stmt.Type() != "return_statement" {
		return nil
	}
	if stmt.NamedChildCount() != 1 {
		return nil
	}
	return stmt.NamedChild(0)
}

// rewriteMemberText reconstructs the member's top-level statement text
// with its declaration replaced by rewrittenDecl, preserving the original
// `var NAME = ` / `exports.NAME = ` prefix and trailing `;`.
func rewriteMemberText(mem *bmodule.MemberElement, rewrittenDecl string, source []byte) string {
	full := jsast.Text(mem.RawNode, source)
	declText := jsast.Text(mem.Decl, source)
	prefix := full[:strings.Index(full, declText)]
	return prefix + rewrittenDecl + ";"
}
