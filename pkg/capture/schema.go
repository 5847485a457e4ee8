// Package capture defines the canonical tree-sitter capture-name schema
// that every language's query files must satisfy, and validates query
// configurations against it (§4.1).
//
// The schema is the contract between grammar-specific query files and the
// per-language handler dispatch tables in pkg/handlers: a query file is
// data (§6), but its capture names must belong to this registry, and every
// capture a language's queries emit must have a handler.
package capture

import (
	"fmt"
	"regexp"
	"strings"
)

// Family is the first segment of a capture name: @<family>.<entity>...
type Family string

const (
	FamilyScope      Family = "scope"
	FamilyDefinition Family = "definition"
	FamilyReference  Family = "reference"
	FamilyImport     Family = "import"
	FamilyExport     Family = "export"
)

var validFamilies = map[Family]bool{
	FamilyScope:      true,
	FamilyDefinition: true,
	FamilyReference:  true,
	FamilyImport:     true,
	FamilyExport:     true,
}

// namePattern matches capture names of the form @family.entity[.qualifier]*.
// The leading '@' is not part of the stored name (captures are recorded
// without it, matching go-tree-sitter's CaptureNames()).
var namePattern = regexp.MustCompile(`^[a-z_]+(\.[a-z_]+){1,3}$`)

// maxDepth bounds the number of dot-separated segments in a capture name.
const maxDepth = 4

// Required is the minimal set of captures every language's query set must
// emit to produce a valid index.
var Required = []string{
	"scope.module",
	"scope.function",
	"scope.class",
	"definition.function",
	"definition.class",
	"definition.method",
	"reference.call",
}

// Optional captures are recognized but not mandatory for any given
// language (a language may legitimately never emit some of these, e.g.
// Python never emits "definition.trait").
var Optional = []string{
	"scope.block",
	"scope.comprehension",
	"scope.lambda",
	"definition.interface",
	"definition.trait",
	"definition.variable",
	"definition.parameter",
	"definition.enum",
	"definition.type_alias",
	"definition.property",
	"reference.variable",
	"reference.type",
	"reference.self_reference_call",
	"reference.constructor",
	"import.source",
	"import.named",
	"import.alias",
	"import.default",
	"import.namespace",
	"import.type_only",
	"export.name",
	"export.default",
	"export.reexport",
	"export.reexport_source",
}

// Schema is the closed registry of recognized captures for one language.
// Construct with NewSchema, then use IsValid/Errors to validate the names
// a language's compiled queries actually emit.
type Schema struct {
	required map[string]bool
	optional map[string]bool
}

// NewSchema builds the canonical schema. It is the same for every
// language; languages differ only in which subset of Required/Optional
// their queries populate.
func NewSchema() *Schema {
	s := &Schema{
		required: make(map[string]bool, len(Required)),
		optional: make(map[string]bool, len(Optional)),
	}
	for _, n := range Required {
		s.required[n] = true
	}
	for _, n := range Optional {
		s.optional[n] = true
	}
	return s
}

// IsHelperCapture reports whether name is a query-internal helper
// binding (leading underscore, e.g. "_impl_target") rather than a
// schema-governed capture. Helper captures exist only to bind text for a
// query predicate (#eq?, #match?) or to carry an attachment-target name
// to the handler that processes the sibling capture in the same match;
// they are never looked up in the five-family registry and never need a
// dispatch-table entry of their own.
func IsHelperCapture(name string) bool {
	return strings.HasPrefix(name, "_")
}

// IsValid reports whether name is syntactically well-formed and belongs
// to the required-or-optional registry.
func (s *Schema) IsValid(name string) bool {
	return len(s.Errors(name)) == 0
}

// Errors returns every validation problem with name; an empty slice means
// name is valid. Errors identify malformed prefixes, unknown captures, or
// excessive depth, so callers can report all problems at once rather than
// failing on the first. Helper captures (IsHelperCapture) always report
// no errors.
//
// Membership in required(L) ∪ optional(L) is checked against name's
// first two segments (its "family.entity" base), not the full string: a
// registered entity capture like "reference.self_reference_call" may
// carry extra qualifier segments ("reference.self_reference_call.name",
// "reference.self_reference_call.receiver") to bind the several distinct
// sub-nodes one query pattern needs, without every such qualifier needing
// its own registry entry.
func (s *Schema) Errors(name string) []error {
	if IsHelperCapture(name) {
		return nil
	}

	var errs []error

	if !namePattern.MatchString(name) {
		errs = append(errs, fmt.Errorf("capture %q: does not match pattern %s", name, namePattern.String()))
	}

	segments := strings.Split(name, ".")
	if len(segments) > maxDepth {
		errs = append(errs, fmt.Errorf("capture %q: depth %d exceeds max_depth %d", name, len(segments), maxDepth))
	}

	if len(segments) > 0 && !validFamilies[Family(segments[0])] {
		errs = append(errs, fmt.Errorf("capture %q: unknown family %q", name, segments[0]))
	}

	base := name
	if len(segments) >= 2 {
		base = segments[0] + "." + segments[1]
	}
	if !s.required[base] && !s.optional[base] {
		errs = append(errs, fmt.Errorf("capture %q: base %q not in required(L) ∪ optional(L)", name, base))
	}

	return errs
}

// ValidateEmitted checks a full set of capture names a language's compiled
// queries emit against the schema, and confirms every Required capture is
// present. A ConfigurationError-class failure (§7): fatal at startup, no
// partial index is built from a language whose queries fail this check.
func (s *Schema) ValidateEmitted(emitted []string) error {
	var errs []error

	seen := make(map[string]bool, len(emitted))
	for _, name := range emitted {
		seen[name] = true
		for _, err := range s.Errors(name) {
			errs = append(errs, err)
		}
	}

	for _, req := range Required {
		if !seen[req] {
			errs = append(errs, fmt.Errorf("required capture %q is never emitted", req))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return &ConfigurationError{Messages: errs}
}

// ConfigurationError reports one or more schema validation failures
// discovered while registering a language's query set. It is fatal: no
// partial index is ever built from a misconfigured language (§7).
type ConfigurationError struct {
	Messages []error
}

func (e *ConfigurationError) Error() string {
	parts := make([]string, len(e.Messages))
	for i, m := range e.Messages {
		parts[i] = m.Error()
	}
	return fmt.Sprintf("configuration error: %s", strings.Join(parts, "; "))
}

func (e *ConfigurationError) Unwrap() []error { return e.Messages }
