package modsort_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelang/bundle/bmodule"
	"github.com/weavelang/bundle/depgraph"
	"github.com/weavelang/bundle/modsort"
)

func classify(t *testing.T, name string, source string, known map[string]bool) *bmodule.Module {
	t.Helper()
	p := sitter.NewParser()
	p.SetLanguage(javascript.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, []byte(source))
	require.NoError(t, err)

	m, err := bmodule.ToModule(
		bmodule.ID{Name: name, Type: bmodule.Regular},
		tree.RootNode(),
		[]byte(source),
		bmodule.ClassifyOptions{KnownModules: known},
	)
	require.NoError(t, err)
	return m
}

func indexOf(modules []*bmodule.Module, name string) int {
	for i, m := range modules {
		if m.ID.Name == name {
			return i
		}
	}
	return -1
}

func TestSortScenarioS6TopologicalOrder(t *testing.T) {
	known := map[string]bool{"A": true, "B": true, "C": true}
	a := classify(t, "A", `var B = require("../B"); exports.a = B;`, known)
	b := classify(t, "B", `var C = require("../C"); exports.b = C;`, known)
	c := classify(t, "C", `exports.c = 1;`, known)

	sorted := modsort.Sort([]*bmodule.Module{a, b, c})

	require.Len(t, sorted, 3)
	assert.Less(t, indexOf(sorted, "C"), indexOf(sorted, "B"))
	assert.Less(t, indexOf(sorted, "B"), indexOf(sorted, "A"))
}

func TestSortScenarioS5EmptyModuleElided(t *testing.T) {
	a := classify(t, "A", `var x = 1;`, nil)
	// DCE from an entry point other than A drops x, leaving A empty.
	modules := depgraph.Eliminate(depgraph.WithDeps([]*bmodule.Module{a}), []bmodule.ID{{Name: "B", Type: bmodule.Regular}})
	sorted := modsort.Sort(modules)
	assert.Empty(t, sorted)
}

func TestSortDropsRequireTargetNotInInput(t *testing.T) {
	a := classify(t, "A", `var Missing = require("../Missing"); exports.a = 1;`, map[string]bool{"A": true, "Missing": true})
	sorted := modsort.Sort([]*bmodule.Module{a})
	require.Len(t, sorted, 1)
	assert.Equal(t, "A", sorted[0].ID.Name)
}

func TestSortKeepsModuleWithOnlyExportsList(t *testing.T) {
	a := classify(t, "A", `module.exports = { a: a };`, nil)
	sorted := modsort.Sort([]*bmodule.Module{a})
	// An ExportsList with entries (even to an unbound name) is not "all
	// entries gone", so the module is not considered empty.
	require.Len(t, sorted, 1)
}
