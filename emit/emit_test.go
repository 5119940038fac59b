package emit_test

import (
	"context"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelang/bundle/bmodule"
	"github.com/weavelang/bundle/emit"
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

func TestEmitShape(t *testing.T) {
	a := classify(t, "A", `exports.a = 1;`, nil)
	out := emit.Emit([]*bmodule.Module{a}, emit.Options{
		BundlerName: "weavebundle",
		Version:     "1.0",
		Namespace:   "$PS",
		MainModule:  "A",
	})

	assert.True(t, strings.HasPrefix(out, "// Generated by weavebundle 1.0\n"))
	assert.Contains(t, out, `var $PS = {};`)
	assert.Contains(t, out, `(function(exports) {`)
	assert.Contains(t, out, `})($PS["A"] = $PS["A"] || {});`)
	assert.Contains(t, out, `$PS["A"].main();`)
}

func TestEmitRequireResolved(t *testing.T) {
	a := classify(t, "A", `var B = require("../B");`, map[string]bool{"A": true, "B": true})
	out := emit.Emit([]*bmodule.Module{a}, emit.Options{})
	assert.Contains(t, out, `var B = $PS["B"];`)
}

func TestEmitScenarioS4RequireUnresolvedVerbatim(t *testing.T) {
	a := classify(t, "A", `var util = require("util");`, nil)
	out := emit.Emit([]*bmodule.Module{a}, emit.Options{})
	assert.Contains(t, out, `var util = require("util");`)
}

func TestEmitExportsListEntry(t *testing.T) {
	a := classify(t, "A", `var x = 1; module.exports = { y: x };`, nil)
	out := emit.Emit([]*bmodule.Module{a}, emit.Options{})
	assert.Contains(t, out, `exports["y"] = x;`)
}

func TestEmitNoMainModule(t *testing.T) {
	a := classify(t, "A", `exports.a = 1;`, nil)
	out := emit.Emit([]*bmodule.Module{a}, emit.Options{})
	assert.NotContains(t, out, ".main();")
}
