package scope

import (
	"fmt"
	"math"
	"sort"

	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
)

// ScopeRange is one scope-query match: a scope-opening node's kind and
// byte-ordered source range, before any parent/child relationship is
// known.
type ScopeRange struct {
	Kind      index.ScopeKind
	Range     location.Location
	StartByte uint32
	EndByte   uint32
}

// BuildFromRanges constructs the full scope tree for one file from an
// unordered set of scope-query matches, using each range's byte span for
// containment rather than the order queries.QueryCursor happens to emit
// matches in (tree-sitter does not guarantee query matches arrive in
// source-nesting order, so a naive push-as-you-iterate approach would
// misnest scopes whose matches are interleaved across patterns).
//
// The algorithm sorts ranges by (start ascending, end descending) so that
// an enclosing scope always precedes the scopes nested inside it, then
// walks them maintaining a stack: a range nests under the innermost
// still-open range that contains it.
func BuildFromRanges(filePath location.FilePath, fileRange location.Location, ranges []ScopeRange) *Manager {
	m := &Manager{
		filePath: filePath,
		scopes:   make(map[location.ScopeId]*index.Scope),
	}

	sorted := make([]ScopeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartByte != sorted[j].StartByte {
			return sorted[i].StartByte < sorted[j].StartByte
		}
		return sorted[i].EndByte > sorted[j].EndByte
	})

	root := &index.Scope{
		Id:           location.ScopeId(fmt.Sprintf("%s:scope:0", filePath)),
		Kind:         index.ScopeModule,
		Range:        fileRange,
		Declarations: make(map[location.SymbolName]location.SymbolId),
	}
	m.scopes[root.Id] = root
	m.rootId = root.Id

	type openScope struct {
		id      location.ScopeId
		endByte uint32
	}
	stack := []openScope{{id: root.Id, endByte: math.MaxUint32}}

	counter := 0
	for _, r := range sorted {
		for len(stack) > 1 && r.StartByte >= stack[len(stack)-1].endByte {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].id

		counter++
		s := &index.Scope{
			Id:           location.ScopeId(fmt.Sprintf("%s:scope:%d", filePath, counter)),
			Kind:         r.Kind,
			Range:        r.Range,
			Parent:       parent,
			Declarations: make(map[location.SymbolName]location.SymbolId),
		}
		m.scopes[s.Id] = s
		m.scopes[parent].Children = append(m.scopes[parent].Children, s.Id)

		stack = append(stack, openScope{id: s.Id, endByte: r.EndByte})
	}

	m.counter = counter
	m.stack = []*index.Scope{root}
	return m
}
