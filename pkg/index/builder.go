package index

import (
	"fmt"

	"github.com/gnana997/semindex/pkg/location"
)

func containsName(names []location.SymbolName, target location.SymbolName) bool {
	for _, n := range names {
		if n == target {
			return true
		}
	}
	return false
}

// pendingMethod is a method/property capture awaiting the class or
// interface it belongs to. JS prototype-style attachment and Rust
// impl-blocks emit the member before (or entirely separately from) the
// owning type's own definition capture, so attachment cannot happen
// inline during the single parse-order pass (§4.4).
type pendingMethod struct {
	ownerName location.SymbolName
	method    Method
}

type pendingProperty struct {
	ownerName location.SymbolName
	property  Property
}

// pendingExtend is a base-class/trait name discovered from a syntactic
// form that doesn't nest under the subtype's own definition capture —
// Rust's `impl Trait for Type` records the trait being implemented this
// way, since there is no single node that owns both the Self type and
// the trait name together with the subtype's other members (§4.10).
type pendingExtend struct {
	ownerName location.SymbolName
	baseName  location.SymbolName
}

// pendingParameter is a parameter capture awaiting the function or method
// it belongs to. Parameter captures arrive as separate matches from their
// owning callable's own definition.function/definition.method capture, so
// attachment — like pendingMethod/pendingProperty — must wait until
// Finalize, by which point every function and method is registered (§4.4).
type pendingParameter struct {
	ownerId location.SymbolId
	param   Parameter
}

// DefinitionBuilder accumulates the definitions, references, and scopes
// discovered while walking one file's capture matches, in capture-emission
// order, and produces an immutable SingleFileIndex via Finalize (§4.4).
//
// It is not safe for concurrent use: one builder belongs to one file's
// single-threaded indexing pipeline.
type DefinitionBuilder struct {
	filePath location.FilePath
	language string

	classes     map[location.SymbolId]*Class
	interfaces  map[location.SymbolId]*Interface
	functions   map[location.SymbolId]*Function
	variables   map[location.SymbolId]*Variable
	enums       map[location.SymbolId]*Enum
	typeAliases map[location.SymbolId]*TypeAlias
	imports     map[location.SymbolId]*Import

	references           []Reference
	scopes               map[location.ScopeId]*Scope
	rootScopeId          location.ScopeId
	unresolvedReferences []UnresolvedReference
	typeBindings         map[location.LocationKey]location.SymbolName

	importFragments []ImportFragment
	exportFragments []ExportFragment

	diagnostics []Diagnostic

	pendingMethods    []pendingMethod
	pendingProperties []pendingProperty
	pendingParameters []pendingParameter
	pendingExtends    []pendingExtend
}

// NewDefinitionBuilder creates an empty builder for one file.
func NewDefinitionBuilder(filePath location.FilePath, language string) *DefinitionBuilder {
	return &DefinitionBuilder{
		filePath:     filePath,
		language:     language,
		classes:      make(map[location.SymbolId]*Class),
		interfaces:   make(map[location.SymbolId]*Interface),
		functions:    make(map[location.SymbolId]*Function),
		variables:    make(map[location.SymbolId]*Variable),
		enums:        make(map[location.SymbolId]*Enum),
		typeAliases:  make(map[location.SymbolId]*TypeAlias),
		imports:      make(map[location.SymbolId]*Import),
		scopes:       make(map[location.ScopeId]*Scope),
		typeBindings: make(map[location.LocationKey]location.SymbolName),
	}
}

// AddClass registers a class/struct/impl-target definition.
func (b *DefinitionBuilder) AddClass(c Class) location.SymbolId {
	b.classes[c.SymbolId] = &c
	return c.SymbolId
}

// AddInterface registers an interface/trait definition.
func (b *DefinitionBuilder) AddInterface(i Interface) location.SymbolId {
	b.interfaces[i.SymbolId] = &i
	return i.SymbolId
}

// AddFunction registers a free function definition.
func (b *DefinitionBuilder) AddFunction(f Function) location.SymbolId {
	b.functions[f.SymbolId] = &f
	return f.SymbolId
}

// AddVariable registers a variable/binding definition.
func (b *DefinitionBuilder) AddVariable(v Variable) location.SymbolId {
	b.variables[v.SymbolId] = &v
	return v.SymbolId
}

// AddEnum registers an enum definition.
func (b *DefinitionBuilder) AddEnum(e Enum) location.SymbolId {
	b.enums[e.SymbolId] = &e
	return e.SymbolId
}

// AddTypeAlias registers a type-alias definition.
func (b *DefinitionBuilder) AddTypeAlias(t TypeAlias) location.SymbolId {
	b.typeAliases[t.SymbolId] = &t
	return t.SymbolId
}

// AddImport registers an import binding.
func (b *DefinitionBuilder) AddImport(imp Import) location.SymbolId {
	b.imports[imp.SymbolId] = &imp
	return imp.SymbolId
}

// AddReference records a use-site. Resolution (intra-file via the scope
// resolver, or cross-file via pkg/xref) happens later; at construction
// time ResolvedSymbolId is always empty.
func (b *DefinitionBuilder) AddReference(r Reference) {
	b.references = append(b.references, r)
}

// AddScope registers a lexical scope and links it under its parent.
func (b *DefinitionBuilder) AddScope(s Scope) location.ScopeId {
	b.scopes[s.Id] = &s
	if s.Parent == "" {
		b.rootScopeId = s.Id
	} else if parent, ok := b.scopes[s.Parent]; ok {
		parent.Children = append(parent.Children, s.Id)
	}
	return s.Id
}

// BindType records the resolved/inferred type text for a location (an
// identifier, an expression) discovered by the type tracker (§4.9).
func (b *DefinitionBuilder) BindType(loc location.Location, typeName location.SymbolName) {
	b.typeBindings[loc.Key()] = typeName
}

// QueueMethod defers attaching a method to its owning class/interface
// until Finalize, for syntactic forms where the member capture and the
// owner's definition capture are not nested (§4.4).
func (b *DefinitionBuilder) QueueMethod(ownerName location.SymbolName, m Method) {
	b.pendingMethods = append(b.pendingMethods, pendingMethod{ownerName: ownerName, method: m})
}

// QueueProperty is the Property analogue of QueueMethod.
func (b *DefinitionBuilder) QueueProperty(ownerName location.SymbolName, p Property) {
	b.pendingProperties = append(b.pendingProperties, pendingProperty{ownerName: ownerName, property: p})
}

// QueueParameter defers attaching a parameter to its owning function or
// method's Signature until Finalize, since the parameter capture and its
// callable's own capture belong to the same query match but are dispatched
// as independent captures (§4.4).
func (b *DefinitionBuilder) QueueParameter(ownerId location.SymbolId, p Parameter) {
	b.pendingParameters = append(b.pendingParameters, pendingParameter{ownerId: ownerId, param: p})
}

// QueueExtends defers recording a base-class/trait name against its
// subtype until Finalize, for the same reason QueueMethod does: the
// subtype's own definition capture may arrive as a disjoint match
// (Rust's `impl Trait for Type`, §4.10).
func (b *DefinitionBuilder) QueueExtends(ownerName, baseName location.SymbolName) {
	b.pendingExtends = append(b.pendingExtends, pendingExtend{ownerName: ownerName, baseName: baseName})
}

// IsModuleScope reports whether id names the file's module-level (root)
// scope, as opposed to a function/class/block scope nested inside it.
// Used by symbolfactory.DeriveVisibility's Python branch, where export
// eligibility requires module-scope placement regardless of naming
// convention (§4.2).
func (b *DefinitionBuilder) IsModuleScope(id location.ScopeId) bool {
	s, ok := b.scopes[id]
	return ok && s.Kind == ScopeModule
}

// FindClassByName performs a name-based lookup among classes registered so
// far. Exposed so capture handlers can attach nested members immediately
// when the owner is already known, without waiting for Finalize.
func (b *DefinitionBuilder) FindClassByName(name location.SymbolName) (*Class, bool) {
	for _, c := range b.classes {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// FindInterfaceByName is the Interface analogue of FindClassByName.
func (b *DefinitionBuilder) FindInterfaceByName(name location.SymbolName) (*Interface, bool) {
	for _, i := range b.interfaces {
		if i.Name == name {
			return i, true
		}
	}
	return nil, false
}

// FindFunctionByName is the Function analogue of FindClassByName, used by
// export-fragment correlation to patch a free function's Export after its
// definition capture and its enclosing export statement arrive as
// separate matches (§4.2, §4.6).
func (b *DefinitionBuilder) FindFunctionByName(name location.SymbolName) (*Function, bool) {
	for _, f := range b.functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// FindVariableByName is the Variable analogue of FindClassByName.
func (b *DefinitionBuilder) FindVariableByName(name location.SymbolName) (*Variable, bool) {
	for _, v := range b.variables {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// FindEnumByName is the Enum analogue of FindClassByName.
func (b *DefinitionBuilder) FindEnumByName(name location.SymbolName) (*Enum, bool) {
	for _, e := range b.enums {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// FindTypeAliasByName is the TypeAlias analogue of FindClassByName.
func (b *DefinitionBuilder) FindTypeAliasByName(name location.SymbolName) (*TypeAlias, bool) {
	for _, t := range b.typeAliases {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// findMethodById searches every class's and interface's Methods slice for
// one matching id, returning a pointer into the slice so the caller can
// mutate it in place. Methods are keyed by owner name, not id, in
// classes/interfaces, so this is a linear scan rather than a map lookup.
func (b *DefinitionBuilder) findMethodById(id location.SymbolId) (*Method, bool) {
	for _, c := range b.classes {
		for i := range c.Methods {
			if c.Methods[i].SymbolId == id {
				return &c.Methods[i], true
			}
		}
	}
	for _, iface := range b.interfaces {
		for i := range iface.Methods {
			if iface.Methods[i].SymbolId == id {
				return &iface.Methods[i], true
			}
		}
	}
	return nil, false
}

// ImportFragments returns the import-family fragments staged so far, for
// pkg/fileindexer's post-pass assembly into complete Import records
// before Finalize (§4.6).
func (b *DefinitionBuilder) ImportFragments() []ImportFragment {
	return b.importFragments
}

// ExportFragments is the ImportFragments analogue for the export family.
func (b *DefinitionBuilder) ExportFragments() []ExportFragment {
	return b.exportFragments
}

// ImportScopes replaces the builder's scope tree wholesale with one
// already fully constructed (parent/child links and all) by
// pkg/scope.BuildFromRanges. AddScope is for incremental push-as-you-go
// construction and would double-count a child into its parent's
// Children slice if used to import an already-linked tree, so batch
// scope-tree construction goes through this method instead (§4.6 fixed
// pass order: scopes are built in one pass, before definitions).
func (b *DefinitionBuilder) ImportScopes(scopes map[location.ScopeId]*Scope, rootScopeId location.ScopeId) {
	b.scopes = scopes
	b.rootScopeId = rootScopeId
}

// AddImportFragment stages one capture from the import family for later
// assembly into a complete Import record (§4.6).
func (b *DefinitionBuilder) AddImportFragment(f ImportFragment) {
	b.importFragments = append(b.importFragments, f)
}

// AddExportFragment is the ImportFragment analogue for the export family.
func (b *DefinitionBuilder) AddExportFragment(f ExportFragment) {
	b.exportFragments = append(b.exportFragments, f)
}

// Declare records name as bound to id within scopeId's Declarations map,
// so pkg/scope.Resolve can later find it while walking enclosing scopes
// outward (§4.5). A scopeId with no matching entry (never expected once
// ImportScopes has run) is silently ignored rather than treated as an
// error — declaration bookkeeping is an enrichment of the scope tree, not
// a required step for producing a SingleFileIndex.
func (b *DefinitionBuilder) Declare(scopeId location.ScopeId, name location.SymbolName, id location.SymbolId) {
	if s, ok := b.scopes[scopeId]; ok {
		s.Declarations[name] = id
	}
}

// ResolveReferences runs resolve over every reference recorded so far,
// setting ResolvedSymbolId on the ones it can bind and recording an
// UnresolvedReference for the rest (§4.6, §7). resolve is given the
// reference's name and location rather than a scope id directly so the
// caller (pkg/fileindexer) can derive the enclosing scope itself via its
// own scope.Manager, keeping DefinitionBuilder independent of pkg/scope;
// it also returns the scope id it resolved against, so an unresolved
// reference can still be retried from the right starting point during
// cross-file resolution (§4.8).
func (b *DefinitionBuilder) ResolveReferences(resolve func(name location.SymbolName, loc location.Location) (location.SymbolId, location.ScopeId, bool)) {
	for i := range b.references {
		r := &b.references[i]
		id, scopeId, ok := resolve(r.Name, r.Location)
		if ok {
			r.ResolvedSymbolId = id
			continue
		}
		b.AddUnresolvedReference(UnresolvedReference{Name: r.Name, Location: r.Location, ScopeId: scopeId})
	}
}

// AddUnresolvedReference records a reference that could not be bound to
// any declaration in scope within this file, for later cross-file
// resolution (§7, §4.8) rather than being dropped.
func (b *DefinitionBuilder) AddUnresolvedReference(u UnresolvedReference) {
	b.unresolvedReferences = append(b.unresolvedReferences, u)
}

// AddDiagnostic records a non-fatal finding (§7). Finalize also appends one
// orphan_attachment diagnostic per pending member that never found its
// owner, rather than dropping them silently.
func (b *DefinitionBuilder) AddDiagnostic(d Diagnostic) {
	b.diagnostics = append(b.diagnostics, d)
}

// Finalize drains the pending-attachment queues against the definitions
// registered so far, emits an orphan_attachment diagnostic (warning, not
// error) for every member whose owner was never found, and returns the
// immutable SingleFileIndex (§4.4, §7).
func (b *DefinitionBuilder) Finalize() *SingleFileIndex {
	for _, pm := range b.pendingMethods {
		if owner, ok := b.FindClassByName(pm.ownerName); ok {
			owner.Methods = append(owner.Methods, pm.method)
			continue
		}
		if owner, ok := b.FindInterfaceByName(pm.ownerName); ok {
			owner.Methods = append(owner.Methods, pm.method)
			continue
		}
		b.AddDiagnostic(Diagnostic{
			Kind:     "orphan_attachment",
			Message:  fmt.Sprintf("method %q: no class or interface named %q found", pm.method.Name, pm.ownerName),
			Location: pm.method.Location,
		})
	}

	for _, pp := range b.pendingProperties {
		if owner, ok := b.FindClassByName(pp.ownerName); ok {
			owner.Properties = append(owner.Properties, pp.property)
			continue
		}
		if owner, ok := b.FindInterfaceByName(pp.ownerName); ok {
			owner.Properties = append(owner.Properties, pp.property)
			continue
		}
		b.AddDiagnostic(Diagnostic{
			Kind:     "orphan_attachment",
			Message:  fmt.Sprintf("property %q: no class or interface named %q found", pp.property.Name, pp.ownerName),
			Location: pp.property.Location,
		})
	}

	for _, pp := range b.pendingParameters {
		if owner, ok := b.functions[pp.ownerId]; ok {
			owner.Parameters = append(owner.Parameters, pp.param)
			continue
		}
		if m, ok := b.findMethodById(pp.ownerId); ok {
			m.Parameters = append(m.Parameters, pp.param)
			continue
		}
		b.AddDiagnostic(Diagnostic{
			Kind:     "orphan_attachment",
			Message:  fmt.Sprintf("parameter %q: no function or method with id %q found", pp.param.Name, pp.ownerId),
			Location: pp.param.Location,
		})
	}

	for _, pe := range b.pendingExtends {
		owner, ok := b.FindClassByName(pe.ownerName)
		if !ok {
			b.AddDiagnostic(Diagnostic{
				Kind:    "orphan_attachment",
				Message: fmt.Sprintf("extends/trait %q: no class named %q found", pe.baseName, pe.ownerName),
			})
			continue
		}
		if !containsName(owner.Extends, pe.baseName) {
			owner.Extends = append(owner.Extends, pe.baseName)
		}
	}

	b.pendingMethods = nil
	b.pendingProperties = nil
	b.pendingParameters = nil
	b.pendingExtends = nil

	return &SingleFileIndex{
		FilePath:             b.filePath,
		Language:             b.language,
		Classes:              b.classes,
		Interfaces:           b.interfaces,
		Functions:            b.functions,
		Variables:            b.variables,
		Enums:                b.enums,
		TypeAliases:          b.typeAliases,
		Imports:              b.imports,
		References:           b.references,
		Scopes:               b.scopes,
		RootScopeId:          b.rootScopeId,
		UnresolvedReferences: b.unresolvedReferences,
		TypeBindings:         b.typeBindings,
		ImportFragments:      b.importFragments,
		ExportFragments:      b.exportFragments,
		Diagnostics:          b.diagnostics,
	}
}
