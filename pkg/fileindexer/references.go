package fileindexer

import (
	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser"
	"github.com/gnana997/semindex/pkg/scope"
)

// resolveLocalReferences binds every reference recorded during dispatch
// to a declaration reachable from its own scope, using each language's
// configured search order (§4.5). References that resolve to nothing in
// this file are not dropped — they're recorded as
// index.UnresolvedReference so pkg/xref can retry them through the
// file's imports later (§4.8, §7).
func resolveLocalReferences(b *index.DefinitionBuilder, sm *scope.Manager, lang parser.Language) {
	order := scope.SearchOrderFor(lang.String())
	scopes := sm.Scopes()

	b.ResolveReferences(func(name location.SymbolName, loc location.Location) (location.SymbolId, location.ScopeId, bool) {
		start := sm.ScopeAtPosition(loc.StartLine, loc.StartColumn)
		id, ok := scope.Resolve(scopes, start, name, order)
		return id, start, ok
	})
}
