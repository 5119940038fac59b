package depgraph

import "github.com/weavelang/bundle/bmodule"

// vertex is one dead-code-elimination graph node: a reachability root
// candidate with its outgoing dependency edges.
type vertex struct {
	key   bmodule.Key
	edges []bmodule.Key
}

// Eliminate performs reachability-based dead-code elimination over modules
// from the given entry points, per core spec §4.4. If entryPoints is
// empty, DCE is skipped and modules are returned unchanged.
func Eliminate(modules []*bmodule.Module, entryPoints []bmodule.ID) []*bmodule.Module {
	if len(entryPoints) == 0 {
		return modules
	}

	graph := buildGraph(modules)
	reachable := reachableFrom(graph, entryRoots(graph, entryPoints))
	return filterModules(modules, reachable)
}

// Stats reports the dead-code-elimination graph's size for the given
// modules, for callers that only want to observe it (e.g. metrics)
// without running elimination.
func Stats(modules []*bmodule.Module) (vertices, edges int) {
	graph := buildGraph(modules)
	for _, v := range graph {
		edges += len(v.edges)
	}
	return len(graph), edges
}

func buildGraph(modules []*bmodule.Module) map[bmodule.Key]vertex {
	graph := make(map[bmodule.Key]vertex)
	for _, m := range modules {
		for _, mem := range m.Members() {
			k := bmodule.Key{Module: m.ID, Member: mem.Name}
			graph[k] = vertex{key: k, edges: mem.Deps}
		}
		for _, list := range m.ExportsLists() {
			for _, entry := range list.Entries {
				if v, k := entryVertex(m.ID, entry); k {
					graph[v.key] = v
				}
			}
		}
	}
	return graph
}

// entryVertex builds the DCE vertex for one ExportsList entry, per the
// vertex-construction rules of core spec §4.4. The second return value is
// false for plain same-name reexports, which get no vertex of their own.
func entryVertex(mid bmodule.ID, entry bmodule.ExportEntry) (vertex, bool) {
	switch entry.Kind {
	case bmodule.ForeignReexport:
		k := bmodule.Key{Module: mid, Member: entry.ExportedName}
		return vertex{key: k, edges: entry.Deps}, true
	case bmodule.RegularExport:
		if entry.SourceName != entry.ExportedName {
			k := bmodule.Key{Module: mid, Member: entry.ExportedName}
			return vertex{key: k, edges: entry.Deps}, true
		}
	}
	return vertex{}, false
}

func entryRoots(graph map[bmodule.Key]vertex, entryPoints []bmodule.ID) []bmodule.Key {
	entrySet := make(map[bmodule.ID]bool, len(entryPoints))
	for _, id := range entryPoints {
		entrySet[id] = true
	}
	var roots []bmodule.Key
	for k := range graph {
		if entrySet[k.Module] {
			roots = append(roots, k)
		}
	}
	return roots
}

func reachableFrom(graph map[bmodule.Key]vertex, roots []bmodule.Key) map[bmodule.Key]bool {
	reached := make(map[bmodule.Key]bool)
	stack := append([]bmodule.Key{}, roots...)
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[k] {
			continue
		}
		reached[k] = true
		v, ok := graph[k]
		if !ok {
			continue
		}
		for _, e := range v.edges {
			if !reached[e] {
				stack = append(stack, e)
			}
		}
	}
	return reached
}

func filterModules(modules []*bmodule.Module, reachable map[bmodule.Key]bool) []*bmodule.Module {
	out := make([]*bmodule.Module, len(modules))
	for i, m := range modules {
		out[i] = filterModule(m, reachable)
	}
	return out
}

func filterModule(m *bmodule.Module, reachable map[bmodule.Key]bool) *bmodule.Module {
	filtered := &bmodule.Module{ID: m.ID, Source: m.Source}
	for _, el := range m.Elements {
		switch e := el.(type) {
		case *bmodule.MemberElement:
			if reachable[bmodule.Key{Module: m.ID, Member: e.Name}] {
				filtered.Elements = append(filtered.Elements, e)
			}
		case *bmodule.ExportsListElement:
			filtered.Elements = append(filtered.Elements, filterExportsList(m.ID, e, reachable))
		default:
			filtered.Elements = append(filtered.Elements, e)
		}
	}
	return filtered
}

func filterExportsList(mid bmodule.ID, e *bmodule.ExportsListElement, reachable map[bmodule.Key]bool) *bmodule.ExportsListElement {
	out := &bmodule.ExportsListElement{RawNode: e.RawNode}
	for _, entry := range e.Entries {
		if entrySurvives(mid, entry, reachable) {
			out.Entries = append(out.Entries, entry)
		}
	}
	return out
}

func entrySurvives(mid bmodule.ID, entry bmodule.ExportEntry, reachable map[bmodule.Key]bool) bool {
	switch entry.Kind {
	case bmodule.ForeignReexport:
		return reachable[bmodule.Key{Module: mid, Member: entry.ExportedName}]
	case bmodule.RegularExport:
		if entry.SourceName != entry.ExportedName {
			return reachable[bmodule.Key{Module: mid, Member: entry.ExportedName}]
		}
		return reachable[bmodule.Key{Module: mid, Member: entry.SourceName}]
	}
	return false
}
