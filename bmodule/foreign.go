package bmodule

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/weavelang/bundle/jsast"
)

// ForeignExports returns the list of names a foreign module exports, per
// core spec §4.2. It recognises the same exported-member and exports-list
// shapes as ToModule but does not require a full classification: any other
// statement is ignored rather than becoming Other.
func ForeignExports(id ID, root *sitter.Node, source []byte) ([]string, error) {
	stmts, ok := jsast.TopLevelStatements(root)
	if !ok {
		return nil, Wrap(id, &InvalidTopLevelErr{Module: id})
	}

	var names []string
	for _, stmt := range stmts {
		if mem := matchExportedMember(stmt, source); mem != nil {
			names = append(names, mem.Name)
			continue
		}
		list, err := matchExportsList(id, stmt, source)
		if err != nil {
			return nil, Wrap(id, err)
		}
		if list == nil {
			continue
		}
		for _, entry := range list.Entries {
			names = append(names, entry.ExportedName)
		}
	}
	return names, nil
}
