package bmodule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelang/bundle/bmodule"
)

func TestForeignExportsCollectsDottedAndListedNames(t *testing.T) {
	source := `
exports.f = function() {};
module.exports = { g: g, h: $foreign.h };
console.log("ignored");
`
	root := parse(t, source)
	names, err := bmodule.ForeignExports(bmodule.ID{Name: "A", Type: bmodule.Foreign}, root, []byte(source))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"f", "g", "h"}, names)
}

func TestForeignExportsUnsupportedShapeFails(t *testing.T) {
	source := `module.exports = { f: 1 };`
	root := parse(t, source)
	_, err := bmodule.ForeignExports(bmodule.ID{Name: "A", Type: bmodule.Foreign}, root, []byte(source))
	require.Error(t, err)
	var unsupported *bmodule.UnsupportedExportErr
	assert.ErrorAs(t, err, &unsupported)
}
