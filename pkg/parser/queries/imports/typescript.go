package imports

// TSQueries covers import/export extraction for TypeScript, rewritten
// from the teacher's original query file onto the canonical
// @<family>.<entity> capture schema (pkg/capture). The teacher's
// finer-grained "type.specifier.marker"-style qualifiers are folded into
// a single "import.type_only" marker capture — the distinction between a
// type-only import and a value import matters for downstream tooling the
// teacher built (autofix/codegen) but not for this indexer's module-graph
// and reference-resolution needs (§4.7, §4.8): a type-only import still
// resolves exactly like a value import.
const TSQueries = `
; ===========================================================================
; IMPORT STATEMENTS
; ===========================================================================

(import_statement
  source: (string (string_fragment) @import.source)
)

(import_specifier
  name: (identifier) @import.named
)

(import_specifier
  alias: (identifier) @import.alias
)

(import_statement
  (import_clause
    (identifier) @import.default
  )
)

(import_statement
  (import_clause
    (namespace_import
      (identifier) @import.namespace
    )
  )
)

(import_statement
  "type" @import.type_only
)

; ===========================================================================
; EXPORT STATEMENTS
; ===========================================================================

(export_statement
  declaration: (function_declaration
    name: (identifier) @export.name
  )
)

(export_statement
  declaration: (class_declaration
    name: (type_identifier) @export.name
  )
)

(export_statement
  declaration: (lexical_declaration
    (variable_declarator
      name: (identifier) @export.name
    )
  )
)

(export_statement
  declaration: (interface_declaration
    name: (type_identifier) @export.name
  )
)

(export_statement
  declaration: (type_alias_declaration
    name: (type_identifier) @export.name
  )
)

(export_statement
  declaration: (enum_declaration
    name: (identifier) @export.name
  )
)

(export_statement
  value: (identifier) @export.default
)

(export_statement
  value: (function_expression)
) @export.default

(export_specifier
  name: (identifier) @export.name
)

(export_statement
  source: (string (string_fragment) @export.reexport_source)
)

(export_statement
  (export_clause
    (export_specifier
      name: (identifier) @export.reexport
    )
  )
  source: (string)
)
`
