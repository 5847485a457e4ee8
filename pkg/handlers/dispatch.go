package handlers

import (
	"fmt"

	"github.com/gnana997/semindex/pkg/capture"
	"github.com/gnana997/semindex/pkg/index"
	"github.com/gnana997/semindex/pkg/parser/queries"
)

// HandlerFunc turns one capture of a query match into builder state.
// match carries every capture the same pattern produced, so a handler for
// an entity capture (e.g. "definition.function") can read a sibling
// qualifier capture (e.g. "definition.function.name") out of the same
// match; capture is the specific capture this call is dispatching for.
type HandlerFunc func(ctx *ProcessingContext, match queries.QueryMatch, capture queries.QueryCapture) error

// Table maps a capture name to the handler responsible for it. The
// vocabulary of capture names is shared across all four languages (a
// language simply never emits the entries its grammar has no shape for),
// so one Table serves every language; per-language behavior lives inside
// the handlers themselves via ctx.Language.
type Table map[string]HandlerFunc

// BuildTable constructs the one dispatch table shared by every language.
// Every non-helper capture name in pkg/capture's Required/Optional
// registries that any language's queries actually emit must resolve here;
// ValidateTable checks that totality at startup (§4.1, §7
// ConfigurationError).
func BuildTable() Table {
	return Table{
		// Definitions: the entity capture builds the record; its own
		// ".name" (and, for self-reference shapes, ".receiver") qualifier
		// captures are consumed from the same match by the entity
		// handler, so they dispatch to noop rather than building anything
		// a second time.
		"definition.function":   handleDefinitionFunction,
		"definition.class":      handleDefinitionClass,
		"definition.interface":  handleDefinitionInterface,
		"definition.enum":       handleDefinitionEnum,
		"definition.type_alias": handleDefinitionTypeAlias,
		"definition.variable":   handleDefinitionVariable,
		"definition.method":     handleDefinitionMethod,
		"definition.property":   handleDefinitionProperty,
		"definition.parameter":  handleDefinitionParameter,

		"definition.function.name":     noop,
		"definition.class.name":        noop,
		"definition.class.extends":     noop,
		"definition.interface.name":    noop,
		"definition.interface.extends": noop,
		"definition.enum.name":         noop,
		"definition.type_alias.name":   noop,
		"definition.variable.name":     noop,
		"definition.method.name":       noop,
		"definition.property.name":     noop,

		// References: same entity-plus-qualifier shape as definitions.
		"reference.call":                         handleReferenceCall,
		"reference.self_reference_call":          handleReferenceSelfReferenceCall,
		"reference.constructor":                  handleReferenceConstructor,
		"reference.type":                         handleReferenceType,
		"reference.call.name":                    noop,
		"reference.self_reference_call.name":     noop,
		"reference.self_reference_call.receiver": noop,
		"reference.constructor.name":             noop,
		"reference.type.name":                    noop,

		// Imports/exports: no entity wrapper, each capture stages its own
		// fragment (see importexport.go).
		"import.source":    fragmentHandler(index.FragmentSource),
		"import.named":     fragmentHandler(index.FragmentNamed),
		"import.alias":     fragmentHandler(index.FragmentAlias),
		"import.default":   fragmentHandler(index.FragmentDefault),
		"import.namespace": fragmentHandler(index.FragmentNamespace),
		"import.type_only": fragmentHandler(index.FragmentTypeOnly),

		"export.name":            exportFragmentHandler(index.FragmentExportName),
		"export.default":         exportFragmentHandler(index.FragmentExportDefault),
		"export.reexport":        exportFragmentHandler(index.FragmentExportReexport),
		"export.reexport_source": exportFragmentHandler(index.FragmentExportReexportSource),

		// Scopes: the scope tree is built upstream from a dedicated
		// scope-only query pass via pkg/scope.BuildFromRanges, before
		// definitions/references dispatch (§4.6 fixed pass order), so
		// scope.* captures carry no per-capture work of their own here.
		"scope.module":        noop,
		"scope.function":      noop,
		"scope.class":         noop,
		"scope.block":         noop,
		"scope.comprehension": noop,
		"scope.lambda":        noop,
	}
}

// ValidateTable confirms every non-helper name in emitted (a language's
// compiled query set, from ts.Query.CaptureNames()) has a Table entry.
// Mirrors capture.Schema.ValidateEmitted's fail-fast contract: a language
// whose queries emit a capture dispatch can't handle is a
// ConfigurationError, not a silently-dropped capture (§7).
func ValidateTable(table Table, emitted []string) error {
	var errs []error
	for _, name := range emitted {
		if capture.IsHelperCapture(name) {
			continue
		}
		if _, ok := table[name]; !ok {
			errs = append(errs, fmt.Errorf("capture %q: no handler registered in dispatch table", name))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &capture.ConfigurationError{Messages: errs}
}
