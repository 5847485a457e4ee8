// Package index defines the per-file semantic-index data model (§3) and
// the DefinitionBuilder that accumulates it during single-file indexing
// (§4.4).
package index

import "github.com/gnana997/semindex/pkg/location"

// Definition is implemented by every definition-record variant. All
// variants carry a stable SymbolId and source Location.
type Definition interface {
	ID() location.SymbolId
	Loc() location.Location
	isDefinition()
}

// ExportInfo records a definition's export/visibility state (§3).
type ExportInfo struct {
	IsExported bool
	IsDefault  bool
	IsReexport bool
	ExportName string // non-empty only when distinct from the definition's own name
}

// Parameter is owned by its enclosing Function/Method/callable record; it
// is never indexed globally at top level (§3 Ownership).
type Parameter struct {
	SymbolId location.SymbolId
	Name     location.SymbolName
	Location location.Location
	Type     string // "" if unannotated
	Default  string // "" if no default expression
}

func (p *Parameter) ID() location.SymbolId  { return p.SymbolId }
func (p *Parameter) Loc() location.Location { return p.Location }
func (p *Parameter) isDefinition()          {}

// Signature is a callable's parameter list and optional return type.
type Signature struct {
	Parameters []Parameter
	ReturnType string // "" if unannotated
}

// Method is attached to a class/interface/trait record rather than
// indexed globally (§3 Ownership, §4.4 method attachment algorithm).
type Method struct {
	SymbolId location.SymbolId
	Name     location.SymbolName
	Location location.Location
	Signature
	IsStatic bool
	IsAsync  bool
}

func (m *Method) ID() location.SymbolId  { return m.SymbolId }
func (m *Method) Loc() location.Location { return m.Location }
func (m *Method) isDefinition()          {}

// Property is attached to a class/interface like Method.
type Property struct {
	SymbolId location.SymbolId
	Name     location.SymbolName
	Location location.Location
	Type     string
	IsStatic bool
}

func (p *Property) ID() location.SymbolId  { return p.SymbolId }
func (p *Property) Loc() location.Location { return p.Location }
func (p *Property) isDefinition()          {}

// Class represents a class, struct, or (for Rust) the Self type of an impl
// block. extends holds base-class/base-trait names by text, unresolved
// until cross-file resolution (§4.8) or inheritance detection (§4.10).
type Class struct {
	SymbolId    location.SymbolId
	Name        location.SymbolName
	Location    location.Location
	ScopeId     location.ScopeId
	Extends     []location.SymbolName
	Methods     []Method
	Properties  []Property
	Constructor *Method
	Export      ExportInfo
}

func (c *Class) ID() location.SymbolId  { return c.SymbolId }
func (c *Class) Loc() location.Location { return c.Location }
func (c *Class) isDefinition()          {}

// Interface represents a TS interface, Python ABC-like protocol role, or
// Rust trait.
type Interface struct {
	SymbolId   location.SymbolId
	Name       location.SymbolName
	Location   location.Location
	ScopeId    location.ScopeId
	Extends    []location.SymbolName
	Methods    []Method
	Properties []Property
	Export     ExportInfo
}

func (i *Interface) ID() location.SymbolId  { return i.SymbolId }
func (i *Interface) Loc() location.Location { return i.Location }
func (i *Interface) isDefinition()          {}

// Function is a free (non-method) callable.
type Function struct {
	SymbolId location.SymbolId
	Name     location.SymbolName
	Location location.Location
	ScopeId  location.ScopeId
	Signature
	IsAsync bool
	Export  ExportInfo
}

func (f *Function) ID() location.SymbolId  { return f.SymbolId }
func (f *Function) Loc() location.Location { return f.Location }
func (f *Function) isDefinition()          {}

// CollectionType classifies the literal shape a variable's initializer was
// recognized as by DetectFunctionCollection (§4.2 detect_function_collection).
type CollectionType string

const (
	CollectionArray  CollectionType = "array"
	CollectionObject CollectionType = "object"
	CollectionMap    CollectionType = "map"
)

// FunctionCollection records that a variable's initializer is a literal
// array/object/map populated with identifier references rather than a bare
// scalar expression, so a function reachable only through membership in the
// collection is still visible to call-graph completeness (§4.2
// detect_function_collection). An explicit key:value pair is recorded as
// "key→value"; a shorthand property, a bare array element, and a
// spread/splat source all contribute their identifier directly.
type FunctionCollection struct {
	Type             CollectionType
	StoredReferences []location.SymbolName
}

// Variable covers let/const/var, Python module/local assignments, and
// Rust `let` bindings.
type Variable struct {
	SymbolId    location.SymbolId
	Name        location.SymbolName
	Location    location.Location
	ScopeId     location.ScopeId
	Type        string // "" if unannotated
	Initializer string // source text of the initializer expression, "" if none
	Export      ExportInfo
	ImportPath  string // non-empty when this variable is in fact an import binding

	// Collection is non-nil when Initializer is a literal array/object/map
	// populated with identifier references (§4.2 detect_function_collection).
	Collection *FunctionCollection
}

func (v *Variable) ID() location.SymbolId  { return v.SymbolId }
func (v *Variable) Loc() location.Location { return v.Location }
func (v *Variable) isDefinition()          {}

// EnumMember is one value inside an Enum.
type EnumMember struct {
	Name     location.SymbolName
	Value    string // "" if no explicit value
	Location location.Location
}

// Enum represents an enum/enum-class definition.
type Enum struct {
	SymbolId location.SymbolId
	Name     location.SymbolName
	Location location.Location
	Members  []EnumMember
	Export   ExportInfo
}

func (e *Enum) ID() location.SymbolId  { return e.SymbolId }
func (e *Enum) Loc() location.Location { return e.Location }
func (e *Enum) isDefinition()          {}

// TypeAlias represents a `type X = ...` (TS) or Rust `type X = ...` alias.
type TypeAlias struct {
	SymbolId location.SymbolId
	Name     location.SymbolName
	Location location.Location
	Aliased  string
	Export   ExportInfo
}

func (t *TypeAlias) ID() location.SymbolId  { return t.SymbolId }
func (t *TypeAlias) Loc() location.Location { return t.Location }
func (t *TypeAlias) isDefinition()          {}

// ImportKind distinguishes a named binding from a namespace binding.
type ImportKind string

const (
	ImportNamed     ImportKind = "named"
	ImportNamespace ImportKind = "namespace"
)

// Import is the local binding created by one import/use clause. Its
// SymbolId is keyed on the alias location when the import is aliased, so
// that resolving the alias name finds this record (§3 SymbolId
// invariants).
type Import struct {
	SymbolId     location.SymbolId
	Name         location.SymbolName // the local (possibly aliased) name
	Location     location.Location
	ImportPath   location.ModulePath
	ImportKind   ImportKind
	OriginalName location.SymbolName // "" unless aliased
	Export       ExportInfo          // re-export support: `export { a } from './m'`
}

func (i *Import) ID() location.SymbolId  { return i.SymbolId }
func (i *Import) Loc() location.Location { return i.Location }
func (i *Import) isDefinition()          {}

// ReferenceKind identifies the syntactic shape of a use-site.
type ReferenceKind string

const (
	RefCall              ReferenceKind = "call"
	RefVariable          ReferenceKind = "variable"
	RefType              ReferenceKind = "type"
	RefSelfReferenceCall ReferenceKind = "self_reference_call"
	RefConstructor       ReferenceKind = "constructor"
)

// ReceiverInfo describes the object a call/member-access reference is made
// through, when the reference has one.
type ReceiverInfo struct {
	ReceiverLocation location.Location
	PropertyChain    []location.SymbolName
	IsSelfReference  bool
	SelfKeyword      string // "this" | "self" | "super" | "cls", "" if not applicable
}

// Reference is a use-site of a name. ResolvedSymbolId is empty until
// intra-file scope resolution (§4.5) or cross-file resolution (§4.8)
// binds it; it stays empty (not an error) for
// external or genuinely unresolvable names (§7 UnresolvedReference).
type Reference struct {
	Kind             ReferenceKind
	Location         location.Location
	Name             location.SymbolName
	ResolvedSymbolId location.SymbolId
	Receiver         *ReceiverInfo
}

// ScopeKind identifies the lexical-region family.
type ScopeKind string

const (
	ScopeModule        ScopeKind = "module"
	ScopeFunction      ScopeKind = "function"
	ScopeClass         ScopeKind = "class"
	ScopeBlock         ScopeKind = "block"
	ScopeComprehension ScopeKind = "comprehension"
	ScopeLambda        ScopeKind = "lambda"
)

// Scope is a lexical region with its own declarations. Declarations are
// keyed by name within the scope; resolution walks Parent per the
// language's search-order configuration (§4.5).
type Scope struct {
	Id           location.ScopeId
	Kind         ScopeKind
	Range        location.Location
	Parent       location.ScopeId // "" for the root module scope
	Children     []location.ScopeId
	Declarations map[location.SymbolName]location.SymbolId
}

// UnresolvedReference records a reference the scope resolver could not
// bind to any declaration during intra-file resolution (§4.5, §7). It is
// data, not an error — retained so cross-file resolution (§4.8) can
// attempt it again through imports.
type UnresolvedReference struct {
	Name     location.SymbolName
	Location location.Location
	ScopeId  location.ScopeId
}

// ImportFragmentKind identifies which part of an import/use clause a
// fragment carries. Import query patterns capture each part (source
// path, named specifier, alias, default/namespace binding, type-only
// marker) as its own match, since a grammar's import-statement shapes
// rarely nest all of a clause's parts under one common wrapper node;
// pkg/fileindexer groups same-statement fragments back together by
// source position once every import match has been processed (§4.6).
type ImportFragmentKind string

const (
	FragmentSource    ImportFragmentKind = "source"
	FragmentNamed     ImportFragmentKind = "named"
	FragmentAlias     ImportFragmentKind = "alias"
	FragmentDefault   ImportFragmentKind = "default"
	FragmentNamespace ImportFragmentKind = "namespace"
	FragmentTypeOnly  ImportFragmentKind = "type_only"
)

// ImportFragment is one capture from the import family, not yet joined
// into a complete Import record.
type ImportFragment struct {
	Kind     ImportFragmentKind
	Text     string
	Location location.Location
}

// ExportFragmentKind is the ImportFragmentKind analogue for the export
// family.
type ExportFragmentKind string

const (
	FragmentExportName           ExportFragmentKind = "name"
	FragmentExportDefault        ExportFragmentKind = "default"
	FragmentExportReexport       ExportFragmentKind = "reexport"
	FragmentExportReexportSource ExportFragmentKind = "reexport_source"
)

// ExportFragment is one capture from the export family, not yet joined
// to the definition or re-export statement it belongs to.
type ExportFragment struct {
	Kind     ExportFragmentKind
	Text     string
	Location location.Location
}

// Diagnostic is a non-fatal finding surfaced alongside the index (§7):
// parse errors on a best-effort tree, orphan attachments, unhandled
// captures, or resolution cycles. Diagnostics never prevent a
// SingleFileIndex from being finalized.
type Diagnostic struct {
	Kind     string // "parse_error" | "orphan_attachment" | "unhandled_capture" | "resolution_cycle"
	Message  string
	Location location.Location
}

// SingleFileIndex is the record produced by the single-file indexer
// (§4.6). Once returned, the only in-place change made to it is pkg/xref
// filling in References[i].ResolvedSymbolId; ProjectIndex.UpdateFile
// replaces the whole value atomically (§5).
type SingleFileIndex struct {
	FilePath location.FilePath
	Language string

	Classes     map[location.SymbolId]*Class
	Interfaces  map[location.SymbolId]*Interface
	Functions   map[location.SymbolId]*Function
	Variables   map[location.SymbolId]*Variable
	Enums       map[location.SymbolId]*Enum
	TypeAliases map[location.SymbolId]*TypeAlias
	Imports     map[location.SymbolId]*Import

	References           []Reference
	Scopes               map[location.ScopeId]*Scope
	RootScopeId          location.ScopeId
	UnresolvedReferences []UnresolvedReference
	TypeBindings         map[location.LocationKey]location.SymbolName

	ImportFragments []ImportFragment
	ExportFragments []ExportFragment

	Diagnostics []Diagnostic
}

// ExportedNames returns every top-level name this file exports, mapped to
// the SymbolId it designates. Used by the project index's reverse
// exported-symbols map (§2) and by cross-file resolution (§4.8).
func (idx *SingleFileIndex) ExportedNames() map[location.SymbolName]location.SymbolId {
	out := make(map[location.SymbolName]location.SymbolId)
	add := func(name location.SymbolName, exported bool, exportName string, id location.SymbolId) {
		if !exported {
			return
		}
		key := name
		if exportName != "" {
			key = location.SymbolName(exportName)
		}
		out[key] = id
	}
	for _, c := range idx.Classes {
		add(c.Name, c.Export.IsExported, c.Export.ExportName, c.SymbolId)
	}
	for _, i := range idx.Interfaces {
		add(i.Name, i.Export.IsExported, i.Export.ExportName, i.SymbolId)
	}
	for _, f := range idx.Functions {
		add(f.Name, f.Export.IsExported, f.Export.ExportName, f.SymbolId)
	}
	for _, v := range idx.Variables {
		add(v.Name, v.Export.IsExported, v.Export.ExportName, v.SymbolId)
	}
	for _, e := range idx.Enums {
		add(e.Name, e.Export.IsExported, e.Export.ExportName, e.SymbolId)
	}
	for _, t := range idx.TypeAliases {
		add(t.Name, t.Export.IsExported, t.Export.ExportName, t.SymbolId)
	}
	for _, imp := range idx.Imports {
		add(imp.Name, imp.Export.IsExported, imp.Export.ExportName, imp.SymbolId)
	}
	return out
}

// FindClassByName performs a name-based lookup among this file's classes.
// Used by Rust and JS prototype-style attachment, where definitions and
// member attachments live in disjoint syntactic forms (§4.4).
func (idx *SingleFileIndex) FindClassByName(name location.SymbolName) (location.SymbolId, bool) {
	for id, c := range idx.Classes {
		if c.Name == name {
			return id, true
		}
	}
	return "", false
}

// FindInterfaceByName is the Interface analogue of FindClassByName.
func (idx *SingleFileIndex) FindInterfaceByName(name location.SymbolName) (location.SymbolId, bool) {
	for id, i := range idx.Interfaces {
		if i.Name == name {
			return id, true
		}
	}
	return "", false
}
