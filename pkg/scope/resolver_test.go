package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
)

func fileRange() location.Location {
	return location.Location{FilePath: "a.py", StartLine: 1, StartColumn: 1, EndLine: 100, EndColumn: 1}
}

func TestManager_PushPop_NestsUnderCurrent(t *testing.T) {
	m := NewManager("a.ts", fileRange())
	root := m.RootId()

	fn := m.PushScope(index.ScopeFunction, location.Location{FilePath: "a.ts", StartLine: 2, EndLine: 4})
	assert.Equal(t, root, fn.Parent)
	assert.Equal(t, fn.Id, m.Current().Id)

	m.PopScope()
	assert.Equal(t, root, m.Current().Id)
}

func TestManager_PopScope_AtRootIsNoop(t *testing.T) {
	m := NewManager("a.ts", fileRange())
	root := m.RootId()
	m.PopScope()
	assert.Equal(t, root, m.Current().Id)
}

func TestResolve_JavaScript_WalksUpToModule(t *testing.T) {
	m := NewManager("a.ts", fileRange())
	m.Declare("topLevel", location.SymbolId("function:a.ts:1:1:1:1:topLevel"))

	fn := m.PushScope(index.ScopeFunction, location.Location{FilePath: "a.ts", StartLine: 2, EndLine: 4})
	id, ok := Resolve(m.Scopes(), fn.Id, "topLevel", JavaScriptSearchOrder)
	require.True(t, ok)
	assert.Equal(t, location.SymbolId("function:a.ts:1:1:1:1:topLevel"), id)
}

func TestResolve_Python_SkipsClassScopeForMethodBody(t *testing.T) {
	m := NewManager("a.py", fileRange())
	m.Declare("helper", location.SymbolId("function:a.py:1:1:1:1:helper"))

	cls := m.PushScope(index.ScopeClass, location.Location{FilePath: "a.py", StartLine: 2, EndLine: 10})
	m.Declare("class_attr", location.SymbolId("variable:a.py:3:1:3:1:class_attr"))

	method := m.PushScope(index.ScopeFunction, location.Location{FilePath: "a.py", StartLine: 4, EndLine: 6})

	// class_attr lives in the class scope's own declarations; a bare
	// name lookup from inside the method must NOT see it (Python
	// requires self.class_attr or ClassName.class_attr instead).
	_, ok := Resolve(m.Scopes(), method.Id, "class_attr", PythonSearchOrder)
	assert.False(t, ok)

	// but module-level names are still visible, skipping past the class
	// scope entirely.
	id, ok := Resolve(m.Scopes(), method.Id, "helper", PythonSearchOrder)
	require.True(t, ok)
	assert.Equal(t, location.SymbolId("function:a.py:1:1:1:1:helper"), id)

	_ = cls
}

func TestResolve_Unresolved_ReturnsFalse(t *testing.T) {
	m := NewManager("a.ts", fileRange())
	_, ok := Resolve(m.Scopes(), m.RootId(), "neverDeclared", JavaScriptSearchOrder)
	assert.False(t, ok)
}

func TestScopeAtPosition_PrefersInnermost(t *testing.T) {
	m := NewManager("a.ts", fileRange())
	m.PushScope(index.ScopeFunction, location.Location{FilePath: "a.ts", StartLine: 2, StartColumn: 1, EndLine: 10, EndColumn: 1})

	found := m.ScopeAtPosition(5, 1)
	assert.NotEqual(t, m.RootId(), found)
}
