package jsast_test

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelang/bundle/jsast"
)

func TestParseValidProgram(t *testing.T) {
	tree, err := jsast.New().Parse([]byte(`var x = 1;`))
	require.NoError(t, err)
	assert.Equal(t, "program", tree.Root.Type())
}

func TestParseSyntaxError(t *testing.T) {
	_, err := jsast.New().Parse([]byte(`var x = ;;;{{{`))
	require.Error(t, err)
	var parseErr *jsast.ParseErr
	require.ErrorAs(t, err, &parseErr)
}

func TestStringLiteralValue(t *testing.T) {
	source := []byte(`var x = "hello";`)
	tree, err := jsast.New().Parse(source)
	require.NoError(t, err)

	var str *sitter.Node
	jsast.Walk(tree.Root, func(n *sitter.Node) {
		if n.Type() == "string" {
			str = n
		}
	})
	require.NotNil(t, str)
	assert.Equal(t, "hello", jsast.StringLiteralValue(str, source))
}

func TestTopLevelStatementsSkipsComments(t *testing.T) {
	source := []byte("// a comment\nvar x = 1;\n")
	tree, err := jsast.New().Parse(source)
	require.NoError(t, err)

	stmts, ok := jsast.TopLevelStatements(tree.Root)
	require.True(t, ok)
	require.Len(t, stmts, 1)
	assert.Equal(t, "variable_declaration", stmts[0].Type())
}

func TestTopLevelStatementsRejectsNonProgramRoot(t *testing.T) {
	_, ok := jsast.TopLevelStatements(nil)
	assert.False(t, ok)
}
