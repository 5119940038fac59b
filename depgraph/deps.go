// Package depgraph computes member-level dependencies between classified
// modules (core spec §4.3) and performs reachability-based dead-code
// elimination over the resulting graph (core spec §4.4).
package depgraph

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/weavelang/bundle/bmodule"
	"github.com/weavelang/bundle/jsast"
)

// WithDeps populates Deps on every Member and every ExportsList entry of
// every module, per core spec §4.3. Modules are otherwise unchanged; the
// input slice's Elements are mutated in place and also returned for
// convenience.
func WithDeps(modules []*bmodule.Module) []*bmodule.Module {
	for _, m := range modules {
		imports := importsOf(m)
		bound := boundNamesOf(m)
		for _, el := range m.Elements {
			switch e := el.(type) {
			case *bmodule.MemberElement:
				e.Deps = collectDeps(e.Decl, m.Source, imports, bound, m.ID)
			case *bmodule.ExportsListElement:
				for i := range e.Entries {
					entry := &e.Entries[i]
					entry.Deps = collectDeps(entry.Value, m.Source, imports, bound, m.ID)
				}
			}
		}
	}
	return modules
}

func importsOf(m *bmodule.Module) map[string]bmodule.ID {
	imports := make(map[string]bmodule.ID)
	for _, req := range m.Requires() {
		if req.Resolved.IsResolved() {
			imports[req.LocalName] = req.Resolved.ModuleID()
		}
	}
	return imports
}

func boundNamesOf(m *bmodule.Module) map[string]bool {
	bound := make(map[string]bool)
	for _, mem := range m.Members() {
		bound[mem.Name] = true
	}
	return bound
}

// collectDeps walks every sub-expression of expr, collecting dependency
// keys per core spec §4.3, de-duplicated preserving first-seen order. The
// walk is syntactic only: it does not model scopes, shadowing, or control
// flow.
func collectDeps(expr *sitter.Node, source []byte, imports map[string]bmodule.ID, bound map[string]bool, self bmodule.ID) []bmodule.Key {
	if expr == nil {
		return nil
	}
	var deps []bmodule.Key
	seen := make(map[bmodule.Key]bool)
	add := func(k bmodule.Key) {
		if !seen[k] {
			seen[k] = true
			deps = append(deps, k)
		}
	}

	jsast.Walk(expr, func(n *sitter.Node) {
		switch n.Type() {
		case "member_expression":
			obj := n.ChildByFieldName("object")
			prop := n.ChildByFieldName("property")
			if obj == nil || prop == nil || obj.Type() != "identifier" {
				return
			}
			if mid, ok := imports[jsast.Text(obj, source)]; ok {
				add(bmodule.Key{Module: mid, Member: jsast.Text(prop, source)})
			}
		case "subscript_expression":
			obj := n.ChildByFieldName("object")
			idx := n.ChildByFieldName("index")
			if obj == nil || idx == nil || obj.Type() != "identifier" || idx.Type() != "string" {
				return
			}
			if mid, ok := imports[jsast.Text(obj, source)]; ok {
				add(bmodule.Key{Module: mid, Member: jsast.StringLiteralValue(idx, source)})
			}
		case "identifier":
			name := jsast.Text(n, source)
			if bound[name] {
				add(bmodule.Key{Module: self, Member: name})
			}
		}
	})
	return deps
}
