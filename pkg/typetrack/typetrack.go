// Package typetrack implements the three-phase type tracker (§4.9):
// annotation parsing, initializer-based inference, and a flow graph
// consumers use to type method-call receivers.
//
// Grounded on pkg/extractor's TypeScript type-annotation handling (the
// teacher resolves a handful of annotation shapes inline while building
// a Symbol's Type field); this package generalizes that into the
// standalone three-phase pipeline §4.9 describes, reusing the
// SingleFileIndex's already-captured Type/Initializer text rather than
// re-walking the tree.
package typetrack

import (
	"strings"

	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
)

// builtins is the fixed built-in type-name set §4.9 enumerates, plus
// each target language's primitive names.
var builtins = map[string]bool{
	"string": true, "number": true, "boolean": true, "void": true,
	"any": true, "unknown": true, "never": true, "null": true,
	"undefined": true, "object": true, "Function": true, "Array": true,
	"Map": true, "Set": true, "Promise": true,

	// Python
	"int": true, "float": true, "str": true, "bool": true, "None": true,
	"list": true, "dict": true, "tuple": true, "bytes": true,

	// Rust
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true, "isize": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true, "usize": true,
	"f32": true, "f64": true, "char": true, "String": true, "Vec": true,
	"HashMap": true, "Option": true, "Result": true,
}

// ParsedType is an annotation split into its base name and any generic
// arguments (§4.9: "parse into {base, generics?}").
type ParsedType struct {
	Base     string
	Generics []ParsedType
}

// ParseAnnotation parses T, T<U, V>, and T[] (including nested forms
// like T[][] and Map<string, V[]>) into a ParsedType.
func ParseAnnotation(text string) ParsedType {
	text = strings.TrimSpace(text)
	if strings.HasSuffix(text, "[]") {
		inner := strings.TrimSpace(text[:len(text)-2])
		return ParsedType{Base: "Array", Generics: []ParsedType{ParseAnnotation(inner)}}
	}
	if i := strings.IndexByte(text, '<'); i >= 0 && strings.HasSuffix(text, ">") {
		base := strings.TrimSpace(text[:i])
		inner := text[i+1 : len(text)-1]
		var generics []ParsedType
		for _, part := range splitTopLevelCommas(inner) {
			if part == "" {
				continue
			}
			generics = append(generics, ParseAnnotation(part))
		}
		return ParsedType{Base: base, Generics: generics}
	}
	return ParsedType{Base: text}
}

// splitTopLevelCommas splits on commas that aren't nested inside a
// further angle-bracket pair, so Map<string, V[]> splits into one
// "string" and one "V[]" argument rather than three.
func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

// GlobalTypes is the project-wide fallback lookup a Tracker consults
// once a base name resolves as neither a built-in nor a file-local
// declared type (§4.9: "then globally"). Satisfied by *project.Index.
type GlobalTypes interface {
	TypesByName(name location.SymbolName) []location.SymbolId
}

// FlowKind identifies the shape of a type-flow edge.
type FlowKind string

const (
	FlowInitialization FlowKind = "initialization"
	FlowAssignment     FlowKind = "assignment"
	FlowNarrowing      FlowKind = "narrowing"
	FlowWidening       FlowKind = "widening"
)

// TypeFlow is one edge in the flow graph (§4.9 phase 3).
type TypeFlow struct {
	From     location.TypeId // "" if the variable had no prior type
	To       location.TypeId
	Location location.Location
	Kind     FlowKind
}

// Tracker holds the per-file output of all three phases.
type Tracker struct {
	// VariableTypes maps a declaration's SymbolId to its tracked type,
	// keyed exactly as §4.9 specifies: SymbolId(name, decl_location).
	VariableTypes map[location.SymbolId]location.TypeId

	// NameTypes is the last-known type for a name, in declaration order;
	// a convenience index for callers (e.g. pkg/xref's receiver typing)
	// that have a name and enclosing scope but not yet a resolved
	// SymbolId.
	NameTypes map[location.SymbolName]location.TypeId

	// ExpressionTypes records the type of a typed expression, keyed by
	// its location. The capture schema only hands this package
	// declaration-site locations (not arbitrary sub-expression byte
	// ranges), so in practice this mirrors VariableTypes keyed by
	// location.LocationKey instead of SymbolId; kept as its own map to
	// match §4.9's output shape for consumers that want a location key.
	ExpressionTypes map[location.LocationKey]location.TypeId

	TypeFlows []TypeFlow
}

func newTracker() *Tracker {
	return &Tracker{
		VariableTypes:   make(map[location.SymbolId]location.TypeId),
		NameTypes:       make(map[location.SymbolName]location.TypeId),
		ExpressionTypes: make(map[location.LocationKey]location.TypeId),
	}
}

// annotated is one (name, SymbolId, annotation-or-initializer, location)
// record gathered from the file's declarations ahead of running the
// phases, sorted into source order so phase 2's "the identifier's
// current type" lookup sees declarations in the order they occur.
type annotated struct {
	id          location.SymbolId
	name        location.SymbolName
	loc         location.Location
	annotation  string // "" if unannotated
	initializer string // "" if not a Variable or no initializer
}

// Run executes all three phases over one file's index, optionally
// consulting global (proj may be nil, in which case global lookups
// always miss and a base name falls through unresolved).
func Run(fi *index.SingleFileIndex, proj GlobalTypes) *Tracker {
	t := newTracker()
	items := collect(fi)

	// Phase 1: annotations.
	for i := range items {
		it := &items[i]
		if it.annotation == "" {
			continue
		}
		typeId, _ := resolveBase(ParseAnnotation(it.annotation).Base, fi, proj)
		t.bind(it.id, it.name, it.loc, typeId, FlowInitialization)
	}

	// Phase 2: inference from initializers, only for items that didn't
	// already resolve a type from an annotation.
	for i := range items {
		it := &items[i]
		if _, already := t.VariableTypes[it.id]; already {
			continue
		}
		if it.initializer == "" {
			continue
		}
		typeId, ok := infer(it.initializer, fi, proj, t.NameTypes)
		if !ok {
			continue
		}
		t.bind(it.id, it.name, it.loc, typeId, FlowInitialization)
	}

	return t
}

func (t *Tracker) bind(id location.SymbolId, name location.SymbolName, loc location.Location, typeId location.TypeId, kind FlowKind) {
	from := t.NameTypes[name]
	t.VariableTypes[id] = typeId
	t.NameTypes[name] = typeId
	t.ExpressionTypes[loc.Key()] = typeId
	t.TypeFlows = append(t.TypeFlows, TypeFlow{From: from, To: typeId, Location: loc, Kind: kind})
}

// collect gathers every annotatable declaration in source order:
// variables (with their initializer text for phase 2), function/method
// parameters, and properties. Methods/constructors contribute their
// parameters the same way a plain function does.
func collect(fi *index.SingleFileIndex) []annotated {
	var items []annotated

	for _, v := range fi.Variables {
		items = append(items, annotated{id: v.SymbolId, name: v.Name, loc: v.Location, annotation: v.Type, initializer: v.Initializer})
	}
	for _, f := range fi.Functions {
		for _, p := range f.Parameters {
			items = append(items, annotated{id: p.SymbolId, name: p.Name, loc: p.Location, annotation: p.Type})
		}
	}
	for _, c := range fi.Classes {
		for _, p := range c.Properties {
			items = append(items, annotated{id: p.SymbolId, name: p.Name, loc: p.Location, annotation: p.Type})
		}
		methods := c.Methods
		if c.Constructor != nil {
			methods = append(methods, *c.Constructor)
		}
		for _, m := range methods {
			for _, p := range m.Parameters {
				items = append(items, annotated{id: p.SymbolId, name: p.Name, loc: p.Location, annotation: p.Type})
			}
		}
	}
	for _, iface := range fi.Interfaces {
		for _, m := range iface.Methods {
			for _, p := range m.Parameters {
				items = append(items, annotated{id: p.SymbolId, name: p.Name, loc: p.Location, annotation: p.Type})
			}
		}
	}

	sortBySourcePosition(items)
	return items
}

func sortBySourcePosition(items []annotated) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && before(items[j], items[j-1]); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func before(a, b annotated) bool {
	if a.loc.StartLine != b.loc.StartLine {
		return a.loc.StartLine < b.loc.StartLine
	}
	return a.loc.StartColumn < b.loc.StartColumn
}

// resolveBase resolves a base type name against, in order, the built-in
// set, this file's own declared types, then (if proj is non-nil) the
// project-wide type registry (§4.9).
func resolveBase(base string, fi *index.SingleFileIndex, proj GlobalTypes) (location.TypeId, bool) {
	if builtins[base] {
		return location.TypeId(base), true
	}
	name := location.SymbolName(base)
	if id, ok := fi.FindClassByName(name); ok {
		return location.TypeId(id), true
	}
	if id, ok := fi.FindInterfaceByName(name); ok {
		return location.TypeId(id), true
	}
	if id, ok := fi.FindEnumByName(name); ok {
		return location.TypeId(id), true
	}
	if id, ok := fi.FindTypeAliasByName(name); ok {
		return location.TypeId(id), true
	}
	if proj != nil {
		if ids := proj.TypesByName(name); len(ids) > 0 {
			return location.TypeId(ids[0]), true
		}
	}
	return location.TypeId(base), false
}

// infer applies §4.9 phase 2's fixed rule set to one initializer's
// source text.
func infer(text string, fi *index.SingleFileIndex, proj GlobalTypes, nameTypes map[location.SymbolName]location.TypeId) (location.TypeId, bool) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return "", false
	case isQuoted(text):
		return "string", true
	case isNumeric(text):
		return "number", true
	case text == "true" || text == "false" || text == "True" || text == "False":
		return "boolean", true
	case text == "null" || text == "None" || text == "nil":
		return "null", true
	case text == "undefined":
		return "undefined", true
	case strings.HasPrefix(text, "new "):
		ctor := constructorName(text[len("new "):])
		return resolveBase(ctor, fi, proj)
	case strings.HasPrefix(text, "["):
		return "Array", true
	case strings.HasPrefix(text, "{"):
		return "object", true
	case isIdentifier(text):
		if t, ok := nameTypes[location.SymbolName(text)]; ok {
			return t, true
		}
		return "", false
	default:
		return "", false
	}
}

func constructorName(rest string) string {
	rest = strings.TrimSpace(rest)
	for i, r := range rest {
		if r == '(' || r == '<' {
			return rest[:i]
		}
	}
	return rest
}

func isQuoted(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	return (q == '"' || q == '\'' || q == '`') && s[len(s)-1] == q
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	seenDigit := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '.' || r == '-' || r == '+':
		case r == '_':
		default:
			_ = i
			return false
		}
	}
	return seenDigit
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetter {
			return false
		}
		if !isLetter && !isDigit {
			return false
		}
	}
	return true
}
