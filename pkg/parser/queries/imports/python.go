package imports

// PyQueries covers Python's `import`/`from ... import ...` forms. There
// is no export statement in Python — every module-level name not
// prefixed with `_` is implicitly exported (§4.2 export-visibility
// rule), so this package's query set is import-only; export visibility
// is instead computed by pkg/symbolfactory from the binding's own name.
const PyQueries = `
; import foo.bar
(import_statement
  name: (dotted_name) @import.namespace
)

; import foo.bar as fb
(import_statement
  name: (aliased_import
    name: (dotted_name) @import.namespace
    alias: (identifier) @import.alias
  )
)

; from foo.bar import baz
(import_from_statement
  module_name: (dotted_name) @import.source
  name: (dotted_name) @import.named
)

; from foo.bar import baz as b
(import_from_statement
  module_name: (dotted_name) @import.source
  name: (aliased_import
    name: (dotted_name) @import.named
    alias: (identifier) @import.alias
  )
)

; from . import foo / from .. import foo — relative imports; the dots
; themselves are siblings of module_name rather than part of it, so the
; relative-depth counting (§4.7) reads them directly from source text
; around the capture rather than from a dedicated capture.
(import_from_statement
  module_name: (relative_import) @import.source
  name: (dotted_name) @import.named
)

; from foo import *
(import_from_statement
  module_name: (dotted_name) @import.source
  (wildcard_import) @import.namespace
)
`
