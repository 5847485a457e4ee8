package symbolfactory

import (
	"strings"
	"unicode"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
)

// classLikeNodeTypes lists, per language, the grammar node types a
// method/property's ancestor walk stops at to read the owning type's
// name. Rust has no entry: its impl-block target is read from the
// query's own "_impl_target" helper capture instead, since an impl
// block's body is not itself a class-shaped ancestor.
var classLikeNodeTypes = map[string][]string{
	"typescript": {"class_declaration", "class", "interface_declaration"},
	"javascript": {"class_declaration", "class"},
	"python":     {"class_definition"},
}

// EnclosingOwnerName walks node's ancestor chain looking for the nearest
// class-shaped node and returns the name in its "name" field, generalizing
// the teacher's extractTSScopeName (pkg/extractor/symbol.go) from
// TypeScript/JavaScript to every language whose grammar nests a method or
// field syntactically inside its owning type (§4.4 attachment).
func EnclosingOwnerName(language string, node *ts.Node, source []byte) (location.SymbolName, bool) {
	wanted := classLikeNodeTypes[language]
	if len(wanted) == 0 {
		return "", false
	}
	for current := node.Parent(); current != nil; current = current.Parent() {
		t := current.GrammarName()
		for _, want := range wanted {
			if t == want {
				if nameNode := current.ChildByFieldName("name"); nameNode != nil {
					return location.SymbolName(nameNode.Utf8Text(source)), true
				}
			}
		}
	}
	return "", false
}

// OwnerLookup is implemented by index.DefinitionBuilder (and by
// index.SingleFileIndex after Finalize). Factored out so symbolfactory's
// attachment helpers work against either the mutable builder mid-pass or
// the finished immutable index.
type OwnerLookup interface {
	FindClassByName(name location.SymbolName) (location.SymbolId, bool)
	FindInterfaceByName(name location.SymbolName) (location.SymbolId, bool)
}

// builderOwnerLookup adapts *index.DefinitionBuilder, whose
// FindClassByName returns a *Class rather than a bare id, to OwnerLookup.
type builderOwnerLookup struct {
	b *index.DefinitionBuilder
}

func (o builderOwnerLookup) FindClassByName(name location.SymbolName) (location.SymbolId, bool) {
	c, ok := o.b.FindClassByName(name)
	if !ok {
		return "", false
	}
	return c.SymbolId, true
}

func (o builderOwnerLookup) FindInterfaceByName(name location.SymbolName) (location.SymbolId, bool) {
	i, ok := o.b.FindInterfaceByName(name)
	if !ok {
		return "", false
	}
	return i.SymbolId, true
}

// AsOwnerLookup wraps a builder for use with FindContainingClass/Trait.
func AsOwnerLookup(b *index.DefinitionBuilder) OwnerLookup {
	return builderOwnerLookup{b: b}
}

// FindContainingClass resolves the class or struct named ownerName,
// generalizing the teacher's extractTSScopeName name-based owner lookup
// (pkg/extractor/symbol.go) to the four-language attachment scheme
// (§4.4): JS/TS prototype-style method attachment and Rust impl-block
// attachment both need to find their target type by name rather than by
// AST nesting, since the member and the type definition are not nested
// in either grammar's own syntax.
func FindContainingClass(o OwnerLookup, ownerName location.SymbolName) (location.SymbolId, bool) {
	return o.FindClassByName(ownerName)
}

// FindContainingTrait resolves a trait/interface by name — the
// Interface-family analogue of FindContainingClass, used for Rust trait
// default-method attachment and TS interface merging.
func FindContainingTrait(o OwnerLookup, ownerName location.SymbolName) (location.SymbolId, bool) {
	return o.FindInterfaceByName(ownerName)
}

// knownCollectionMethods lists the standard-library higher-order methods
// whose callback argument's anonymous function should be treated as a
// nested scope of its call site rather than hoisted out as a top-level
// function definition (§4.3 anonymous-callable handling).
var knownCollectionMethods = map[string]bool{
	"map": true, "filter": true, "forEach": true, "reduce": true,
	"reduceRight": true, "some": true, "every": true, "find": true,
	"findIndex": true, "flatMap": true, "sort": true,
}

// CallbackContext is detect_callback_context's result: the name of the call
// an anonymous function argument was passed to, when that call is a
// recognized collection-iteration method (§4.2 detect_callback_context).
type CallbackContext struct {
	OuterCall location.SymbolName
}

// DetectCallbackContext reports whether a call to methodName with an
// anonymous-function argument is a collection-iteration callback (as
// opposed to e.g. a Promise executor or a setTimeout handler), purely
// from the method name text captured alongside the call site. ok is false
// when methodName isn't one of knownCollectionMethods, in which case the
// zero CallbackContext carries no outer_call.
func DetectCallbackContext(methodName string) (CallbackContext, bool) {
	name := strings.TrimSpace(methodName)
	if !knownCollectionMethods[name] {
		return CallbackContext{}, false
	}
	return CallbackContext{OuterCall: location.SymbolName(name)}, true
}

// isIdentifier reports whether s is a single bare identifier token — no
// dots, calls, or operators — the shape DetectFunctionCollection requires
// of a collection element before counting it as a stored reference rather
// than a computed expression.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// topLevelIndex returns the index of the first occurrence of ch in s that
// is not nested inside (), [], {}, or a quoted string, or -1 if none.
func topLevelIndex(s string, ch byte) int {
	depth := 0
	var inString byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString != 0 {
			if c == inString {
				inString = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			inString = c
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		default:
			if c == ch && depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitTopLevelCommas splits s on commas that aren't nested inside (), [],
// {}, or a quoted string — the entries of a literal array/object/map
// initializer, read directly off its source text rather than the parse
// tree, the same way symbolfactory.InferFromInitializer classifies an
// initializer's outer shape from its text.
func splitTopLevelCommas(s string) []string {
	var out []string
	depth := 0
	start := 0
	var inString byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString != 0 {
			if c == inString {
				inString = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			inString = c
		case '{', '[', '(':
			depth++
		case '}', ']', ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(s[start:]); tail != "" {
		out = append(out, s[start:])
	}
	return out
}

// collectionArrayReference classifies one array/list element: a bare
// identifier contributes itself; a spread/splat (`...rest`, Python `*rest`)
// contributes its source identifier; anything else (a literal, a call, a
// computed expression) isn't a reference and is dropped.
func collectionArrayReference(entry string) (location.SymbolName, bool) {
	entry = strings.TrimSpace(entry)
	switch {
	case strings.HasPrefix(entry, "..."):
		entry = strings.TrimSpace(strings.TrimPrefix(entry, "..."))
	case strings.HasPrefix(entry, "*") && !strings.HasPrefix(entry, "**"):
		entry = strings.TrimSpace(strings.TrimPrefix(entry, "*"))
	}
	if isIdentifier(entry) {
		return location.SymbolName(entry), true
	}
	return "", false
}

// collectionObjectReference classifies one object/dict entry: an explicit
// `key: value` pair whose value is a bare identifier is recorded as
// "key→value"; a shorthand property (`{ fn1 }`) or a spread/splat
// (`...BASE`, Python `**base`) contributes its bare identifier.
func collectionObjectReference(entry string) (location.SymbolName, bool) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return "", false
	}
	if strings.HasPrefix(entry, "...") {
		src := strings.TrimSpace(strings.TrimPrefix(entry, "..."))
		if isIdentifier(src) {
			return location.SymbolName(src), true
		}
		return "", false
	}
	if strings.HasPrefix(entry, "**") {
		src := strings.TrimSpace(strings.TrimPrefix(entry, "**"))
		if isIdentifier(src) {
			return location.SymbolName(src), true
		}
		return "", false
	}
	colon := topLevelIndex(entry, ':')
	if colon == -1 {
		if isIdentifier(entry) {
			return location.SymbolName(entry), true
		}
		return "", false
	}
	key := strings.Trim(strings.TrimSpace(entry[:colon]), `"'`)
	value := strings.TrimSpace(entry[colon+1:])
	if !isIdentifier(value) {
		return "", false
	}
	if key == "" || key == value {
		return location.SymbolName(value), true
	}
	return location.SymbolName(key + "→" + value), true
}

// collectionMapReferences reads the entries of a `new Map([...])`
// initializer's array-of-pairs argument: each `[key, value]` element whose
// value is a bare identifier contributes "key→value", with quotes stripped
// from the key (or the bare value when the key is empty or equals the
// value name).
func collectionMapReferences(inner string) []location.SymbolName {
	var refs []location.SymbolName
	for _, entry := range splitTopLevelCommas(inner) {
		entry = strings.TrimSpace(entry)
		if !strings.HasPrefix(entry, "[") || !strings.HasSuffix(entry, "]") {
			continue
		}
		parts := splitTopLevelCommas(entry[1 : len(entry)-1])
		if len(parts) != 2 {
			continue
		}
		value := strings.TrimSpace(parts[1])
		if !isIdentifier(value) {
			continue
		}
		key := strings.Trim(strings.TrimSpace(parts[0]), `"'`)
		if key == "" || key == value {
			refs = append(refs, location.SymbolName(value))
			continue
		}
		refs = append(refs, location.SymbolName(key+"→"+value))
	}
	return refs
}

// DetectFunctionCollection recognizes a variable's initializer text as a
// literal array, object, or `new Map([...])` collection populated with
// identifier references — including spread/splat elements — so a function
// stored only inside a collection is still reachable for call-graph
// completeness (§4.2 detect_function_collection). Operates on the
// initializer's source text rather than its parse-tree node, the same way
// InferFromInitializer classifies an initializer's shape: the outer
// bracket already discriminates array/object, and entries split cleanly on
// top-level commas. Returns ok=false when initializer isn't one of the
// recognized literal shapes, or is one but holds no identifier references.
func DetectFunctionCollection(initializer string) (index.FunctionCollection, bool) {
	s := strings.TrimSpace(initializer)

	if strings.HasPrefix(s, "new Map(") && strings.HasSuffix(s, ")") {
		inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, "new Map("), ")"))
		if strings.HasPrefix(inner, "[") && strings.HasSuffix(inner, "]") {
			refs := collectionMapReferences(inner[1 : len(inner)-1])
			if len(refs) == 0 {
				return index.FunctionCollection{}, false
			}
			return index.FunctionCollection{Type: index.CollectionMap, StoredReferences: refs}, true
		}
		return index.FunctionCollection{}, false
	}

	var kind index.CollectionType
	var classify func(string) (location.SymbolName, bool)
	switch {
	case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}"):
		kind, classify = index.CollectionObject, collectionObjectReference
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		kind, classify = index.CollectionArray, collectionArrayReference
	default:
		return index.FunctionCollection{}, false
	}

	var refs []location.SymbolName
	for _, entry := range splitTopLevelCommas(s[1 : len(s)-1]) {
		if ref, ok := classify(entry); ok {
			refs = append(refs, ref)
		}
	}
	if len(refs) == 0 {
		return index.FunctionCollection{}, false
	}
	return index.FunctionCollection{Type: kind, StoredReferences: refs}, true
}
