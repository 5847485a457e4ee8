package fileindexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/parser/queries"
)

func newTestManagers() (*parser.ParserManager, *queries.QueryManager) {
	pm := parser.NewParserManager(nil)
	return pm, queries.NewQueryManager(pm, nil)
}

func TestIndexFile_PythonClassMethodAndLocalCallResolve(t *testing.T) {
	pm, qm := newTestManagers()
	source := []byte(`class Greeter:
    def __init__(self, name):
        self.name = name

    def greet(self):
        return hello(self.name)


def hello(name):
    return "hi " + name
`)

	idx, err := IndexFile(pm, qm, "greeter.py", source)
	require.NoError(t, err)

	require.Len(t, idx.Classes, 1)
	var greeter *index.Class
	for _, c := range idx.Classes {
		greeter = c
	}
	assert.Equal(t, "Greeter", string(greeter.Name))
	require.Len(t, greeter.Methods, 2)
	require.Len(t, greeter.Properties, 1)
	assert.Equal(t, "name", string(greeter.Properties[0].Name))

	var helloFnId string
	for id, f := range idx.Functions {
		if f.Name == "hello" {
			helloFnId = string(id)
		}
	}
	require.NotEmpty(t, helloFnId, "expected a top-level function named hello")

	var resolvedCall bool
	for _, ref := range idx.References {
		if ref.Name == "hello" {
			resolvedCall = true
			assert.Equal(t, helloFnId, string(ref.ResolvedSymbolId))
		}
	}
	assert.True(t, resolvedCall, "expected a reference to hello() to be recorded")
}

func TestIndexFile_PythonSelfAssignmentBecomesQueuedProperty(t *testing.T) {
	pm, qm := newTestManagers()
	source := []byte(`class Box:
    def __init__(self, value):
        self.value = value
`)

	idx, err := IndexFile(pm, qm, "box.py", source)
	require.NoError(t, err)
	require.Len(t, idx.Classes, 1)
	for _, c := range idx.Classes {
		require.Len(t, c.Properties, 1)
		assert.Equal(t, "value", string(c.Properties[0].Name))
	}
	assert.Empty(t, idx.Diagnostics)
}

func TestIndexFile_UnknownExtensionErrors(t *testing.T) {
	pm, qm := newTestManagers()
	_, err := IndexFile(pm, qm, "notes.txt", []byte("hello"))
	assert.Error(t, err)
}
