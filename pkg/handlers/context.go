// Package handlers holds the per-language capture-name dispatch tables
// that turn tree-sitter query matches into index.Definition/Reference
// records. Dispatch is total by construction (§4.1): pkg/capture's
// schema names every capture a language's queries may emit, and
// ValidateTable confirms every non-helper name in that set has an entry
// here before a language is allowed to index anything.
//
// Grounded on the teacher's pkg/extractor/symbol.go buildSymbol pipeline,
// restructured from one large per-kind switch into a name-keyed table so
// totality can be checked mechanically rather than by code review.
package handlers

import (
	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/location"
	"github.com/gnana997/semindex/pkg/parser/queries"
)

// ProcessingContext carries everything a handler needs to turn one query
// match into builder state. One context belongs to one file's
// single-threaded indexing pass (§5) — never shared across files.
type ProcessingContext struct {
	FilePath location.FilePath
	Language string
	Source   []byte
	Builder  *index.DefinitionBuilder

	// CurrentScope is the scope id containing the match currently being
	// dispatched, set by pkg/fileindexer before each call using the
	// scope tree built from the scope-query pass (§4.6 fixed pass
	// order: scopes before definitions/references).
	CurrentScope location.ScopeId
}

// ToLocation converts a compiled-query capture's position into this
// context's canonical location.Location.
func (ctx *ProcessingContext) ToLocation(q queries.Location) location.Location {
	return location.Location{
		FilePath:    ctx.FilePath,
		StartLine:   int(q.StartLine),
		StartColumn: int(q.StartColumn),
		EndLine:     int(q.EndLine),
		EndColumn:   int(q.EndColumn),
	}
}

// CaptureByName returns the first capture in match named exactly name, or
// the zero value and false.
func CaptureByName(match queries.QueryMatch, name string) (queries.QueryCapture, bool) {
	for _, c := range match.Captures {
		if c.Name == name {
			return c, true
		}
	}
	return queries.QueryCapture{}, false
}

// CaptureTextByName is a convenience wrapper returning just the text, or
// "" if absent.
func CaptureTextByName(match queries.QueryMatch, name string) string {
	if c, ok := CaptureByName(match, name); ok {
		return c.Text
	}
	return ""
}

// CaptureTextsByName returns the text of every capture in match named
// name, in match order. Base/interface heritage lists (extends,
// implements) repeat the same qualifier capture once per listed type, so
// callers reading them need every occurrence rather than just the first.
func CaptureTextsByName(match queries.QueryMatch, name string) []string {
	var out []string
	for _, c := range match.Captures {
		if c.Name == name {
			out = append(out, c.Text)
		}
	}
	return out
}

// fieldText reads one direct child of node by grammar field name and
// returns its source text, or "" if node is nil or has no such field.
// Grounded on the teacher's pkg/scanner node-walking helpers
// (detection_ast.go, props.go), which read declarator initializers and
// type annotations the same way via ChildByFieldName.
func fieldText(node *ts.Node, source []byte, fieldName string) string {
	if node == nil {
		return ""
	}
	child := node.ChildByFieldName(fieldName)
	if child == nil {
		return ""
	}
	return child.Utf8Text(source)
}

// declaratorInitializerText returns a declarator/assignment node's
// right-hand-side text. JS/TS/Rust declarators name this field "value";
// Python's assignment node names it "right".
func declaratorInitializerText(node *ts.Node, source []byte) string {
	if t := fieldText(node, source, "value"); t != "" {
		return t
	}
	return fieldText(node, source, "right")
}

// declaratorTypeText returns a declarator's type-annotation text, when
// its grammar exposes one as a "type" field (JS/TS; Python/Rust
// annotated forms).
func declaratorTypeText(node *ts.Node, source []byte) string {
	return fieldText(node, source, "type")
}

// parameterNameText returns a parameter node's bound identifier text,
// independent of whether the parameter carries a type annotation, a
// default value, or both. A bare identifier parameter has no fields to
// read; the richer forms (TS typed/optional parameters, Python
// default/typed_default parameters, JS/TS destructuring defaults) nest
// the identifier under a "pattern", "name", or "left" field depending on
// the grammar, so each is tried in turn.
func parameterNameText(node *ts.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if node.Kind() == "identifier" {
		return node.Utf8Text(source)
	}
	for _, field := range []string{"pattern", "name", "left"} {
		if t := fieldText(node, source, field); t != "" {
			return t
		}
	}
	return node.Utf8Text(source)
}

// parameterTypeText returns a parameter's type-annotation text, when its
// grammar exposes one as a "type" field (TS typed parameters, Python
// annotated/typed_default parameters, Rust parameters).
func parameterTypeText(node *ts.Node, source []byte) string {
	return fieldText(node, source, "type")
}

// parameterDefaultText returns a parameter's default-value text, when its
// grammar exposes one as a "value" field (Python default/typed_default
// parameters) or "right" field (JS/TS assignment_pattern defaults).
func parameterDefaultText(node *ts.Node, source []byte) string {
	if t := fieldText(node, source, "value"); t != "" {
		return t
	}
	return fieldText(node, source, "right")
}
