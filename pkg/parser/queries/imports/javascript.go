package imports

// JSQueries covers ES6 import/export syntax (shared with TypeScript) plus
// CommonJS require()/module.exports, which TypeScript projects rarely use
// but which dominates the plain-JavaScript ecosystem (lodash, express,
// and most of npm predate ES modules). CommonJS forms are folded onto
// the same import.*/export.* captures ES6 forms use rather than given
// their own "commonjs.*" family, since a `require()` binding resolves
// through the same module-path machinery (§4.7) as a static import.
const JSQueries = `
; ===========================================================================
; ES6 IMPORT STATEMENTS
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

; ===========================================================================
; ES6 EXPORT STATEMENTS
; ===========================================================================

(export_statement
  declaration: (function_declaration
    name: (identifier) @export.name
  )
)

(export_statement
  declaration: (class_declaration
    name: (identifier) @export.name
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

; ===========================================================================
; COMMONJS IMPORTS (require)
; ===========================================================================

; const foo = require('./module') — whole module bound to one name
(lexical_declaration
  (variable_declarator
    name: (identifier) @import.namespace
    value: (call_expression
      function: (identifier) @_require
      arguments: (arguments
        (string (string_fragment) @import.source)
      )
    )
  )
)
(#eq? @_require "require")

; const { bar } = require('./module')
(lexical_declaration
  (variable_declarator
    name: (object_pattern
      (shorthand_property_identifier_pattern) @import.named
    )
    value: (call_expression
      function: (identifier) @_require
      arguments: (arguments
        (string (string_fragment) @import.source)
      )
    )
  )
)
(#eq? @_require "require")

; const { bar: baz } = require('./module')
(lexical_declaration
  (variable_declarator
    name: (object_pattern
      (pair_pattern
        key: (property_identifier) @import.named
        value: (identifier) @import.alias
      )
    )
    value: (call_expression
      function: (identifier) @_require
      arguments: (arguments
        (string (string_fragment) @import.source)
      )
    )
  )
)
(#eq? @_require "require")

; const bar = require('./module').bar
(lexical_declaration
  (variable_declarator
    name: (identifier) @import.named
    value: (member_expression
      object: (call_expression
        function: (identifier) @_require
        arguments: (arguments
          (string (string_fragment) @import.source)
        )
      )
    )
  )
)
(#eq? @_require "require")

; ===========================================================================
; COMMONJS EXPORTS
; ===========================================================================

; module.exports = value
(assignment_expression
  left: (member_expression
    object: (identifier) @_module
    property: (property_identifier) @_exports
  )
  right: (identifier) @export.default
)
(#eq? @_module "module")
(#eq? @_exports "exports")

; module.exports = { foo, bar }
(assignment_expression
  left: (member_expression
    object: (identifier) @_module
    property: (property_identifier) @_exports
  )
  right: (object
    (shorthand_property_identifier) @export.name
  )
)
(#eq? @_module "module")
(#eq? @_exports "exports")

; module.exports = { foo: value }
(assignment_expression
  left: (member_expression
    object: (identifier) @_module
    property: (property_identifier) @_exports
  )
  right: (object
    (pair
      key: (property_identifier) @export.name
    )
  )
)
(#eq? @_module "module")
(#eq? @_exports "exports")

; exports.foo = value
(assignment_expression
  left: (member_expression
    object: (identifier) @_exports
    property: (property_identifier) @export.name
  )
)
(#eq? @_exports "exports")

; module.exports.foo = value
(assignment_expression
  left: (member_expression
    object: (member_expression
      object: (identifier) @_module
      property: (property_identifier) @_exports
    )
    property: (property_identifier) @export.name
  )
)
(#eq? @_module "module")
(#eq? @_exports "exports")
`
