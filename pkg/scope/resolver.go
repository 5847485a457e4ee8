package scope

import (
	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
)

// SearchOrder configures how Resolve walks a scope chain for one
// language (§4.5). The walk always starts at the scope containing the
// reference and always checks that starting scope's own declarations;
// SkipKinds only affects ancestor scopes visited while walking toward the
// root.
type SearchOrder struct {
	// SkipKinds names scope kinds whose declarations are not visible to
	// a nested scope during lookup, even though the walk still passes
	// through them to reach their parent. Python's LEGB rule uses this
	// to exclude a class body from being an "enclosing scope" for
	// methods and nested functions defined within it.
	SkipKinds map[index.ScopeKind]bool
}

// JavaScriptSearchOrder is shared by JavaScript and TypeScript: local,
// then every enclosing function/block scope in turn, up to the module
// scope — no scope kind is skipped. Hoisting is handled at declaration
// time (function declarations are registered in the enclosing function
// or module scope, not the block they textually sit in), so the walk
// itself needs no special casing.
var JavaScriptSearchOrder = SearchOrder{SkipKinds: map[index.ScopeKind]bool{}}

// PythonSearchOrder implements LEGB: Local, Enclosing function, Global,
// Builtin. Class bodies are not enclosing scopes for nested functions —
// a method body resolving a bare name skips past its class's own scope
// straight to the module (Global) scope, matching CPython's actual
// binding rules.
var PythonSearchOrder = SearchOrder{SkipKinds: map[index.ScopeKind]bool{
	index.ScopeClass: true,
}}

// RustSearchOrder covers local/block/function nesting the same way
// JavaScript does; Rust's module-path rules (crate::/super::/self::) are
// a property of explicit path references, handled by pkg/resolve rather
// than by bare-name scope walking, so no scope kind is skipped here.
var RustSearchOrder = SearchOrder{SkipKinds: map[index.ScopeKind]bool{}}

// SearchOrderFor returns the configured SearchOrder for a language name
// as produced by pkg/parser.Language.String().
func SearchOrderFor(language string) SearchOrder {
	switch language {
	case "python":
		return PythonSearchOrder
	case "rust":
		return RustSearchOrder
	default:
		return JavaScriptSearchOrder
	}
}

// Resolve looks up name starting from the scope `start`, walking toward
// the root according to order. It returns the SymbolId of the nearest
// enclosing declaration and true, or ("", false) if no scope in the
// chain declares the name — an unresolved local reference, not an error
// (§7); the caller records it as an index.UnresolvedReference so
// cross-file resolution (§4.8) can retry it through imports.
func Resolve(scopes map[location.ScopeId]*index.Scope, start location.ScopeId, name location.SymbolName, order SearchOrder) (location.SymbolId, bool) {
	current := start
	first := true
	for current != "" {
		s, ok := scopes[current]
		if !ok {
			return "", false
		}
		if first || !order.SkipKinds[s.Kind] {
			if id, ok := s.Declarations[name]; ok {
				return id, true
			}
		}
		first = false
		current = s.Parent
	}
	return "", false
}
