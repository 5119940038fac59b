package depgraph_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelang/bundle/bmodule"
	"github.com/weavelang/bundle/depgraph"
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

func TestWithDepsMemberReference(t *testing.T) {
	m := classify(t, "A", `var a = 1; var b = a;`, nil)
	depgraph.WithDeps([]*bmodule.Module{m})

	members := m.Members()
	require.Len(t, members, 2)
	assert.Empty(t, members[0].Deps)
	assert.Equal(t, []bmodule.Key{{Module: m.ID, Member: "a"}}, members[1].Deps)
}

func TestWithDepsRequireMember(t *testing.T) {
	a := classify(t, "A", `var a = 1; exports.a = a;`, map[string]bool{"A": true})
	b := classify(t, "B", `var A = require("../A"); exports.c = A.a;`, map[string]bool{"A": true, "B": true})

	depgraph.WithDeps([]*bmodule.Module{a, b})

	bMembers := b.Members()
	require.Len(t, bMembers, 1)
	assert.Equal(t, []bmodule.Key{{Module: a.ID, Member: "a"}}, bMembers[0].Deps)
}

func TestWithDepsRequireContributesNoDeps(t *testing.T) {
	m := classify(t, "A", `var util = require("util");`, nil)
	depgraph.WithDeps([]*bmodule.Module{m})
	// RequireElement carries no Deps field at all: it contributes no
	// edges by construction, matching core spec §4.3.
	assert.Equal(t, bmodule.KindRequire, m.Elements[0].Kind())
}

func TestWithDepsExportsListEntry(t *testing.T) {
	m := classify(t, "A", `var x = 1; module.exports = { y: x };`, nil)
	depgraph.WithDeps([]*bmodule.Module{m})

	list := m.ExportsLists()[0]
	require.Len(t, list.Entries, 1)
	assert.Equal(t, []bmodule.Key{{Module: m.ID, Member: "x"}}, list.Entries[0].Deps)
}

func TestEliminateScenarioS1(t *testing.T) {
	a := classify(t, "A", `var a = 1; var b = 2; exports.a = a; exports.b = b;`, map[string]bool{"A": true, "B": true})
	b := classify(t, "B", `var A = require("../A"); exports.c = A.a;`, map[string]bool{"A": true, "B": true})

	modules := []*bmodule.Module{a, b}
	depgraph.WithDeps(modules)
	modules = depgraph.Eliminate(modules, []bmodule.ID{{Name: "B", Type: bmodule.Regular}})

	var aOut, bOut *bmodule.Module
	for _, m := range modules {
		switch m.ID.Name {
		case "A":
			aOut = m
		case "B":
			bOut = m
		}
	}
	require.NotNil(t, aOut)
	require.NotNil(t, bOut)

	// `var a` and `exports.a` are both members named "a".
	assert.Len(t, aOut.Members(), 2)
	assert.Equal(t, "a", aOut.Members()[0].Name)
	assert.Len(t, bOut.Members(), 1)
}

func TestEliminateScenarioS2RenamingReexportSurvives(t *testing.T) {
	a := classify(t, "A", `var x = 1; exports.y = x;`, nil)
	modules := []*bmodule.Module{a}
	depgraph.WithDeps(modules)
	modules = depgraph.Eliminate(modules, []bmodule.ID{{Name: "A", Type: bmodule.Regular}})

	out := modules[0]
	require.Len(t, out.Members(), 2)
	require.Len(t, out.Elements, 2)
}

func TestEliminateExportsListRenamingReexportSurvives(t *testing.T) {
	a := classify(t, "A", `var x = 1; module.exports = { y: x };`, nil)
	modules := []*bmodule.Module{a}
	depgraph.WithDeps(modules)
	modules = depgraph.Eliminate(modules, []bmodule.ID{{Name: "A", Type: bmodule.Regular}})

	out := modules[0]
	require.Len(t, out.Members(), 1)
	require.Len(t, out.ExportsLists()[0].Entries, 1)
}

func TestEliminateNoEntryPointsIsNoOp(t *testing.T) {
	a := classify(t, "A", `var a = 1; var b = 2; exports.a = a;`, nil)
	modules := []*bmodule.Module{a}
	depgraph.WithDeps(modules)
	out := depgraph.Eliminate(modules, nil)

	assert.Len(t, out[0].Members(), 3)
}

func TestEliminateSameNameExportTiedToMember(t *testing.T) {
	a := classify(t, "A", `var a = 1; module.exports = { a: a };`, nil)
	modules := []*bmodule.Module{a}
	depgraph.WithDeps(modules)

	// No entry points pull `a`, but it's not an entry module either.
	out := depgraph.Eliminate(modules, []bmodule.ID{{Name: "Other", Type: bmodule.Regular}})
	assert.Empty(t, out[0].Members())
	assert.Empty(t, out[0].ExportsLists()[0].Entries)
}
