package typetrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/fileindexer"
	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/parser/queries"
)

func TestParseAnnotation_PlainName(t *testing.T) {
	p := ParseAnnotation("string")
	assert.Equal(t, "string", p.Base)
	assert.Empty(t, p.Generics)
}

func TestParseAnnotation_ArraySuffix(t *testing.T) {
	p := ParseAnnotation("string[]")
	assert.Equal(t, "Array", p.Base)
	require.Len(t, p.Generics, 1)
	assert.Equal(t, "string", p.Generics[0].Base)
}

func TestParseAnnotation_NestedGenerics(t *testing.T) {
	p := ParseAnnotation("Map<string, Widget[]>")
	assert.Equal(t, "Map", p.Base)
	require.Len(t, p.Generics, 2)
	assert.Equal(t, "string", p.Generics[0].Base)
	assert.Equal(t, "Array", p.Generics[1].Base)
	assert.Equal(t, "Widget", p.Generics[1].Generics[0].Base)
}

func TestTracker_InfersLiteralInitializerTypes(t *testing.T) {
	source := `name = "hi"
count = 3
ready = True
nothing = None
`
	pm := parser.NewParserManager(nil)
	qm := queries.NewQueryManager(pm, nil)
	fi, err := fileindexer.IndexFile(pm, qm, "vars.py", []byte(source))
	require.NoError(t, err)

	tr := Run(fi, nil)

	assert.Equal(t, location.TypeId("string"), tr.NameTypes["name"])
	assert.Equal(t, location.TypeId("number"), tr.NameTypes["count"])
	assert.Equal(t, location.TypeId("boolean"), tr.NameTypes["ready"])
	assert.Equal(t, location.TypeId("null"), tr.NameTypes["nothing"])
}
