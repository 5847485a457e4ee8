package imports

// RustQueries covers `use` declarations. Rust has no export statement;
// visibility is the `pub` keyword on the item itself (§4.2), read by
// pkg/symbolfactory from the definition node's own modifiers rather than
// from an import/export query.
const RustQueries = `
; use std::collections::HashMap;
(use_declaration
  argument: (scoped_identifier
    name: (identifier) @import.named
  )
) @import.source

; use std::collections::HashMap as Map;
(use_declaration
  argument: (use_as_clause
    path: (scoped_identifier
      name: (identifier) @import.named
    )
    alias: (identifier) @import.alias
  )
) @import.source

; use std::collections::{HashMap, HashSet};
(use_declaration
  argument: (use_list
    (identifier) @import.named
  )
) @import.source

(use_declaration
  argument: (scoped_use_list
    list: (use_list
      (identifier) @import.named
    )
  )
) @import.source

; use std::io::*;
(use_declaration
  argument: (use_wildcard) @import.namespace
) @import.source
`
