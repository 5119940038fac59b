// Package modsort orders classified modules for emission: dependencies
// before dependents, per core spec §4.6.
//
// The corpus carries no graph library (checked: neither gonum nor any
// topological-sort package appears in any example's go.mod), so this is a
// small hand-rolled depth-first topological sort, justified in DESIGN.md.
package modsort

import "github.com/weavelang/bundle/bmodule"

// Sort drops empty modules, then topologically sorts the rest by their
// resolved Require edges, returning them in depth-first finish order
// (post-order along Require edges, so dependencies come first).
func Sort(modules []*bmodule.Module) []*bmodule.Module {
	live := dropEmpty(modules)

	byName := make(map[bmodule.ID]*bmodule.Module, len(live))
	for _, m := range live {
		byName[m.ID] = m
	}

	var order []*bmodule.Module
	visited := make(map[bmodule.ID]bool)
	inProgress := make(map[bmodule.ID]bool)

	var visit func(m *bmodule.Module)
	visit = func(m *bmodule.Module) {
		if visited[m.ID] || inProgress[m.ID] {
			return
		}
		inProgress[m.ID] = true
		for _, req := range m.Requires() {
			if !req.Resolved.IsResolved() {
				continue
			}
			dep, ok := byName[req.Resolved.ModuleID()]
			if !ok {
				continue // require target not in the input list: no vertex
			}
			visit(dep)
		}
		inProgress[m.ID] = false
		visited[m.ID] = true
		order = append(order, m)
	}

	for _, m := range live {
		visit(m)
	}
	return order
}

// isEmpty reports whether every element of m is a Require, an Other, or an
// ExportsList whose entries are all gone.
func isEmpty(m *bmodule.Module) bool {
	for _, el := range m.Elements {
		switch e := el.(type) {
		case *bmodule.RequireElement, *bmodule.OtherElement:
			continue
		case *bmodule.ExportsListElement:
			if len(e.Entries) > 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func dropEmpty(modules []*bmodule.Module) []*bmodule.Module {
	out := make([]*bmodule.Module, 0, len(modules))
	for _, m := range modules {
		if !isEmpty(m) {
			out = append(out, m)
		}
	}
	return out
}
