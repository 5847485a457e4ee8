// Package scope builds per-file lexical scope trees while a file's
// captures are dispatched, and resolves names against them using each
// language's declaration search order (§4.5).
//
// Grounded on the push/pop scope-stack pattern used by
// standardbeagle-lci's ScopeManager: a stack of currently-open scopes,
// entered and left as the capture-handler dispatch walks into and out of
// nested scope-bearing nodes (function bodies, class bodies, blocks).
package scope

import (
	"fmt"

	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
)

// Manager tracks the stack of lexical scopes currently open while a
// single file's captures are dispatched in source order. It is not safe
// for concurrent use — one Manager belongs to one file's single-threaded
// indexing pipeline (§5).
type Manager struct {
	filePath location.FilePath
	scopes   map[location.ScopeId]*index.Scope
	stack    []*index.Scope
	rootId   location.ScopeId
	counter  int
}

// NewManager creates a Manager with its root module scope already pushed,
// mirroring standardbeagle-lci's NewScopeManager seeding a global scope
// before traversal begins.
func NewManager(filePath location.FilePath, fileRange location.Location) *Manager {
	m := &Manager{
		filePath: filePath,
		scopes:   make(map[location.ScopeId]*index.Scope),
	}
	root := m.push(index.ScopeModule, fileRange, "")
	m.rootId = root.Id
	return m
}

// Current returns the innermost currently-open scope.
func (m *Manager) Current() *index.Scope {
	return m.stack[len(m.stack)-1]
}

// RootId returns the file's module-level scope id.
func (m *Manager) RootId() location.ScopeId {
	return m.rootId
}

// PushScope enters a new child scope of Current and returns it. Callers
// push on entering a function/class/block node and must Pop on leaving it
// — callers are responsible for balancing push/pop around their own
// traversal, the Manager does not inspect node boundaries itself.
func (m *Manager) PushScope(kind index.ScopeKind, rng location.Location) *index.Scope {
	return m.push(kind, rng, m.Current().Id)
}

func (m *Manager) push(kind index.ScopeKind, rng location.Location, parent location.ScopeId) *index.Scope {
	m.counter++
	s := &index.Scope{
		Id:           location.ScopeId(fmt.Sprintf("%s:scope:%d", m.filePath, m.counter)),
		Kind:         kind,
		Range:        rng,
		Parent:       parent,
		Declarations: make(map[location.SymbolName]location.SymbolId),
	}
	m.scopes[s.Id] = s
	if parent != "" {
		if p, ok := m.scopes[parent]; ok {
			p.Children = append(p.Children, s.Id)
		}
	}
	m.stack = append(m.stack, s)
	return s
}

// PopScope exits the current scope, restoring its parent as Current. A
// pop at the root scope is a no-op, matching standardbeagle-lci's guard
// against popping past the global scope.
func (m *Manager) PopScope() {
	if len(m.stack) <= 1 {
		return
	}
	m.stack = m.stack[:len(m.stack)-1]
}

// Declare registers name as bound to id within the current scope.
func (m *Manager) Declare(name location.SymbolName, id location.SymbolId) {
	m.Current().Declarations[name] = id
}

// ScopeAtPosition returns the innermost registered scope containing
// line/column, or the root scope if none is more specific — the
// per-file analogue of standardbeagle-lci's GetScopeAtPosition.
func (m *Manager) ScopeAtPosition(line, column int) location.ScopeId {
	best := m.rootId
	bestSpan := -1
	for id, s := range m.scopes {
		if !s.Range.Contains(line, column) {
			continue
		}
		span := (s.Range.EndLine - s.Range.StartLine)
		if bestSpan == -1 || span < bestSpan {
			best = id
			bestSpan = span
		}
	}
	return best
}

// Scopes returns every scope registered so far, keyed by id, for handing
// to Finalize/DefinitionBuilder.
func (m *Manager) Scopes() map[location.ScopeId]*index.Scope {
	return m.scopes
}
