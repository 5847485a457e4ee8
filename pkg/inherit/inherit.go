// Package inherit implements override/implementation detection (§4.10):
// given the classes and interfaces/traits a project already holds, it
// walks each class's declared bases and records, for every method that
// redefines a same-named ancestor method, a directed override edge.
//
// Grounded on pkg/typetrack's shape (a standalone Run(...) pass consuming
// already-built index.SingleFileIndex/project.Index state rather than
// re-walking source trees) and on the attachment precedent set by
// pkg/index/builder.go's QueueExtends/pendingExtend staging, which this
// package's input — Class.Extends/Interface.Extends — now always carries
// real data for all four languages.
package inherit

import (
	"sort"
	"strings"

	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
)

// GlobalClasses is the project-wide view Run needs to follow a base name
// across file boundaries. Satisfied by *project.Index.
type GlobalClasses interface {
	Files() []location.FilePath
	File(path location.FilePath) (*index.SingleFileIndex, bool)
}

// OverrideEdge is one directed override relation: Method redefines
// BaseMethod, the nearest ancestor method of the same name (§4.10).
type OverrideEdge struct {
	Method        location.SymbolId
	BaseMethod    location.SymbolId
	OverrideChain []location.SymbolId // root ancestor first, Method last
	IsExplicit    bool
}

// Tracker holds every override edge found across a project, indexed for
// the three operations §4.10 exposes.
type Tracker struct {
	Edges []OverrideEdge

	overriddenBy map[location.SymbolId][]location.SymbolId
	overrides    map[location.SymbolId]location.SymbolId
	chains       map[location.SymbolId][]location.SymbolId
	reg          *registry
}

// pythonInit is the one dunder method Python's MRO walk does not skip
// when matching against a base implementation (§4.10).
const pythonInit = "__init__"

func newTracker() *Tracker {
	return &Tracker{
		overriddenBy: make(map[location.SymbolId][]location.SymbolId),
		overrides:    make(map[location.SymbolId]location.SymbolId),
		chains:       make(map[location.SymbolId][]location.SymbolId),
	}
}

// ownerKind distinguishes a class/struct from an interface/trait in the
// registry Run builds, since the two base-kinds participate in override
// matching differently per language (see baseKindAllowed).
type ownerKind int

const (
	kindClass ownerKind = iota
	kindInterface
)

// ownerRecord is one class/interface flattened out of its owning file's
// index, carrying only what the override walk needs.
type ownerRecord struct {
	id       location.SymbolId
	name     location.SymbolName
	kind     ownerKind
	language string
	extends  []location.SymbolName
	methods  []index.Method
}

// registry is a project-wide, name-keyed and id-keyed view of every
// class/interface, built once per Run so the recursive base walk never
// re-reads files.
type registry struct {
	byName map[location.SymbolName][]ownerRecord
	byID   map[location.SymbolId]ownerRecord
}

func buildRegistry(proj GlobalClasses) *registry {
	reg := &registry{
		byName: make(map[location.SymbolName][]ownerRecord),
		byID:   make(map[location.SymbolId]ownerRecord),
	}
	for _, path := range proj.Files() {
		fi, ok := proj.File(path)
		if !ok {
			continue
		}
		for _, c := range fi.Classes {
			rec := ownerRecord{id: c.SymbolId, name: c.Name, kind: kindClass, language: fi.Language, extends: c.Extends, methods: c.Methods}
			reg.byName[c.Name] = append(reg.byName[c.Name], rec)
			reg.byID[c.SymbolId] = rec
		}
		for _, i := range fi.Interfaces {
			rec := ownerRecord{id: i.SymbolId, name: i.Name, kind: kindInterface, language: fi.Language, extends: i.Extends, methods: i.Methods}
			reg.byName[i.Name] = append(reg.byName[i.Name], rec)
			reg.byID[i.SymbolId] = rec
		}
	}
	return reg
}

// Run walks every class in every file proj holds and computes override
// edges per §4.10's per-language rules:
//
//   - JS/TS: only a resolved Class base (an `extends` target) is walked;
//     a resolved Interface base (an `implements` target) is skipped, so
//     implementing an interface never creates an override edge. `static`
//     methods are excluded entirely.
//   - Python: every extends entry is a base class; walked left-to-right
//     (declaration order), matching the MRO's linearization for the
//     common non-diamond case. Dunder methods other than __init__ are
//     skipped.
//   - Rust: extends entries are trait names recorded by the `impl Trait
//     for Type` attachment (pkg/index/builder.go QueueExtends), so the
//     base-kind filter runs the other way: only a resolved Interface
//     (trait) base is walked. A struct's own inherent methods never
//     shadow a trait's for this purpose since inherent `impl Type` blocks
//     never populate Extends.
func Run(proj GlobalClasses) *Tracker {
	t := newTracker()
	reg := buildRegistry(proj)
	t.reg = reg

	for _, recs := range reg.byName {
		for _, rec := range recs {
			if rec.kind != kindClass {
				continue
			}
			for _, m := range rec.methods {
				if !eligibleOverrider(rec.language, m) {
					continue
				}
				visited := map[location.SymbolId]bool{rec.id: true}
				baseId, ok := findBaseMethod(rec, m.Name, reg, visited)
				if !ok {
					continue
				}
				t.overrides[m.SymbolId] = baseId
				t.overriddenBy[baseId] = append(t.overriddenBy[baseId], m.SymbolId)
			}
		}
	}

	for methodId := range t.overrides {
		t.chains[methodId] = chainFor(methodId, t.overrides)
	}
	for methodId, baseId := range t.overrides {
		t.Edges = append(t.Edges, OverrideEdge{
			Method:        methodId,
			BaseMethod:    baseId,
			OverrideChain: t.chains[methodId],
			IsExplicit:    true,
		})
	}
	sort.Slice(t.Edges, func(i, j int) bool {
		return t.Edges[i].Method < t.Edges[j].Method
	})
	for base, ids := range t.overriddenBy {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		t.overriddenBy[base] = ids
	}

	return t
}

// eligibleOverrider reports whether m can participate as the *overriding*
// side of an edge, per language (§4.10).
func eligibleOverrider(language string, m index.Method) bool {
	switch language {
	case "javascript", "typescript":
		return !m.IsStatic
	case "python":
		return !isDunder(m.Name) || m.Name == pythonInit
	default: // rust
		return true
	}
}

func isDunder(name location.SymbolName) bool {
	s := string(name)
	return strings.HasPrefix(s, "__") && strings.HasSuffix(s, "__") && len(s) > 4
}

// baseKindAllowed implements the per-language base-kind gate described on
// Run: JS/TS/Python walk Class bases, Rust walks Interface (trait) bases.
func baseKindAllowed(language string, kind ownerKind) bool {
	if language == "rust" {
		return kind == kindInterface
	}
	return kind == kindClass
}

// findBaseMethod looks for the nearest ancestor (by rec's declared
// extends order, depth-first) that defines methodName, skipping any
// owner already in visited to guard against a malformed cyclic extends
// chain. It checks every direct base for the method before recursing
// into any of them, so a closer override always wins over a farther one
// that merely happens to be reached first in iteration order.
func findBaseMethod(rec ownerRecord, methodName location.SymbolName, reg *registry, visited map[location.SymbolId]bool) (location.SymbolId, bool) {
	var bases []ownerRecord
	for _, baseName := range rec.extends {
		for _, cand := range reg.byName[baseName] {
			if visited[cand.id] || !baseKindAllowed(rec.language, cand.kind) {
				continue
			}
			bases = append(bases, cand)
		}
	}

	for _, cand := range bases {
		if id, ok := findMethodByName(cand.methods, methodName); ok {
			return id, true
		}
	}
	for _, cand := range bases {
		visited[cand.id] = true
		if id, ok := findBaseMethod(cand, methodName, reg, visited); ok {
			return id, true
		}
	}
	return "", false
}

func findMethodByName(methods []index.Method, name location.SymbolName) (location.SymbolId, bool) {
	for _, m := range methods {
		if m.Name == name {
			return m.SymbolId, true
		}
	}
	return "", false
}

// chainFor walks overrides backward from method to its root ancestor and
// returns the chain in root-first order (§4.10: override_chain(C.m) ==
// [A.m, B.m, C.m]).
func chainFor(method location.SymbolId, overrides map[location.SymbolId]location.SymbolId) []location.SymbolId {
	var rev []location.SymbolId
	seen := map[location.SymbolId]bool{}
	for cur := method; ; {
		rev = append(rev, cur)
		seen[cur] = true
		base, ok := overrides[cur]
		if !ok || seen[base] {
			break
		}
		cur = base
	}
	chain := make([]location.SymbolId, len(rev))
	for i, id := range rev {
		chain[len(rev)-1-i] = id
	}
	return chain
}

// FindOverridingMethods returns every method that directly overrides
// base, in no particular guaranteed order beyond being sorted for
// deterministic output.
func (t *Tracker) FindOverridingMethods(base location.SymbolId) []location.SymbolId {
	return append([]location.SymbolId(nil), t.overriddenBy[base]...)
}

// FindOverriddenMethod returns the nearest ancestor method that method
// overrides, if any.
func (t *Tracker) FindOverriddenMethod(method location.SymbolId) (location.SymbolId, bool) {
	id, ok := t.overrides[method]
	return id, ok
}

// GetOverrideChain returns the full root-to-leaf override chain ending at
// method, or just [method] if it overrides nothing.
func (t *Tracker) GetOverrideChain(method location.SymbolId) []location.SymbolId {
	if chain, ok := t.chains[method]; ok {
		return append([]location.SymbolId(nil), chain...)
	}
	return []location.SymbolId{method}
}

// ResolveMethod finds methodName as reached from classId: classId's own
// method if it defines one, otherwise the nearest ancestor's, walking the
// same language-specific base-kind rule Run uses for override edges
// (extends for JS/TS/Python, trait impls for Rust). Used by cross-file
// reference resolution (§4.8) for receiver-typed method calls and
// self-reference calls, which need "the method this class/self exposes"
// rather than specifically an override relation.
func (t *Tracker) ResolveMethod(classId location.SymbolId, methodName location.SymbolName) (location.SymbolId, bool) {
	rec, ok := t.reg.byID[classId]
	if !ok {
		return "", false
	}
	if id, ok := findMethodByName(rec.methods, methodName); ok {
		return id, true
	}
	visited := map[location.SymbolId]bool{classId: true}
	return findBaseMethod(rec, methodName, t.reg, visited)
}
