// Package location defines the opaque identity types and position
// primitives shared by every other package in the indexer: file paths,
// symbol names, module paths, scope and type ids, source locations, and
// the canonical SymbolId scheme.
package location

import (
	"fmt"
	"strings"
)

// FilePath is an opaque, normalized (forward-slash) path to a source file.
// Equality is string equality; nothing outside this package parses it.
type FilePath string

// SymbolName is an opaque identifier name as it appears in source.
type SymbolName string

// ModulePath is the raw text of an import/use specifier, e.g. "./utils" or
// "pkg.sub". Equality is string equality.
type ModulePath string

// ScopeId is an opaque handle into a file's scope tree.
type ScopeId string

// TypeId is an opaque handle into the type registry.
type TypeId string

// Location is a 1-based, inclusive byte/line/column range within one file.
type Location struct {
	FilePath    FilePath
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Key returns the canonical deterministic string derived from a Location.
// Used wherever a location needs to be a map key or comparable token.
func (l Location) Key() LocationKey {
	return LocationKey(fmt.Sprintf("%s:%d:%d:%d:%d", l.FilePath, l.StartLine, l.StartColumn, l.EndLine, l.EndColumn))
}

// Contains reports whether the given line/column pair falls within l,
// inclusive on both ends. Used by scope containment checks (§8).
func (l Location) Contains(line, column int) bool {
	if line < l.StartLine || line > l.EndLine {
		return false
	}
	if line == l.StartLine && column < l.StartColumn {
		return false
	}
	if line == l.EndLine && column > l.EndColumn {
		return false
	}
	return true
}

// LocationKey is a canonical deterministic string derived from a Location.
type LocationKey string

// SymbolKind names the family of definition a SymbolId identifies.
type SymbolKind string

const (
	KindClass      SymbolKind = "class"
	KindInterface  SymbolKind = "interface"
	KindTrait      SymbolKind = "trait"
	KindFunction   SymbolKind = "function"
	KindMethod     SymbolKind = "method"
	KindProperty   SymbolKind = "property"
	KindVariable   SymbolKind = "variable"
	KindParameter  SymbolKind = "parameter"
	KindEnum       SymbolKind = "enum"
	KindTypeAlias  SymbolKind = "type_alias"
	KindImport     SymbolKind = "import"
	KindAnonymous  SymbolKind = "anonymous"
)

// SymbolId is the canonical, location-unique identifier for a definition:
//
//	"<kind>:<file>:<start_line>:<start_col>:<end_line>:<end_col>[:name]"
//
// or, for anonymous callables, "anonymous:<location>". Two distinct
// definitions in a project always have distinct SymbolIds; for aliased
// imports the id is built from the alias's location so lookups of the
// alias name resolve to the import record.
type SymbolId string

// NewSymbolId builds the canonical SymbolId for a named definition.
func NewSymbolId(kind SymbolKind, loc Location, name SymbolName) SymbolId {
	if name == "" {
		return NewAnonymousSymbolId(loc)
	}
	return SymbolId(fmt.Sprintf("%s:%s:%s", kind, loc.Key(), name))
}

// NewAnonymousSymbolId builds the SymbolId for an anonymous callable
// (e.g. an unnamed function expression), keyed purely on location.
func NewAnonymousSymbolId(loc Location) SymbolId {
	return SymbolId(fmt.Sprintf("%s:%s", KindAnonymous, loc.Key()))
}

// FileOf extracts the file path component out of a SymbolId, which is
// always "kind:filepath:startline:startcol:endline:endcol[:name]" (see
// NewSymbolId/Location.Key). Valid because file paths in this project are
// always forward-slash-separated and never contain a colon.
func FileOf(id SymbolId) FilePath {
	s := string(id)
	first := strings.IndexByte(s, ':')
	if first < 0 {
		return ""
	}
	rest := s[first+1:]
	second := strings.IndexByte(rest, ':')
	if second < 0 {
		return FilePath(rest)
	}
	return FilePath(rest[:second])
}
