package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/fileindexer"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/parser/queries"
)

func newTestProject(t *testing.T) (*Index, *parser.ParserManager, *queries.QueryManager) {
	t.Helper()
	pm := parser.NewParserManager(nil)
	qm := queries.NewQueryManager(pm, nil)
	return New("/project", DefaultConfig(), nil), pm, qm
}

func TestIndex_UpdateFile_PopulatesReverseIndices(t *testing.T) {
	p, pm, qm := newTestProject(t)

	source := []byte(`class Widget:
    def render(self):
        pass
`)
	fi, err := fileindexer.IndexFile(pm, qm, "widget.py", source)
	require.NoError(t, err)

	p.UpdateFile("widget.py", fi)

	ids := p.ClassesByName("Widget")
	require.Len(t, ids, 1)

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.IndexedFiles)
	assert.Equal(t, 1, stats.CachedFiles)

	got, ok := p.File("widget.py")
	require.True(t, ok)
	assert.Same(t, fi, got)
}

func TestIndex_UpdateFile_RetractsPriorContributionOnReplace(t *testing.T) {
	p, pm, qm := newTestProject(t)

	v1, err := fileindexer.IndexFile(pm, qm, "a.py", []byte("class Old:\n    pass\n"))
	require.NoError(t, err)
	p.UpdateFile("a.py", v1)
	require.Len(t, p.ClassesByName("Old"), 1)

	v2, err := fileindexer.IndexFile(pm, qm, "a.py", []byte("class New:\n    pass\n"))
	require.NoError(t, err)
	p.UpdateFile("a.py", v2)

	assert.Empty(t, p.ClassesByName("Old"), "renaming a class must drop its old reverse-index entry")
	assert.Len(t, p.ClassesByName("New"), 1)
}

func TestIndex_RemoveFile_ClearsReverseIndicesAndCache(t *testing.T) {
	p, pm, qm := newTestProject(t)

	fi, err := fileindexer.IndexFile(pm, qm, "gone.py", []byte("class Gone:\n    pass\n"))
	require.NoError(t, err)
	p.UpdateFile("gone.py", fi)
	require.Len(t, p.ClassesByName("Gone"), 1)

	p.RemoveFile("gone.py")

	assert.Empty(t, p.ClassesByName("Gone"))
	_, ok := p.File("gone.py")
	assert.False(t, ok)
}

func TestIndex_DirtyTracking(t *testing.T) {
	p, _, _ := newTestProject(t)

	assert.False(t, p.IsDirty("x.py"))
	p.MarkDirty("x.py")
	assert.True(t, p.IsDirty("x.py"))
}

func TestIndex_ExistsReflectsKnownFilesOnly(t *testing.T) {
	p, pm, qm := newTestProject(t)
	assert.False(t, p.Exists("widget.py"))

	fi, err := fileindexer.IndexFile(pm, qm, "widget.py", []byte("class Widget:\n    pass\n"))
	require.NoError(t, err)
	p.UpdateFile("widget.py", fi)

	assert.True(t, p.Exists("widget.py"))
}

func TestComputeContentHash_IsDeterministic(t *testing.T) {
	a := ComputeContentHash([]byte("hello"))
	b := ComputeContentHash([]byte("hello"))
	c := ComputeContentHash([]byte("world"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
