package symbols

// RustQueries covers Rust's definition and reference shapes. Grounding
// here is thinner than the other three languages: no example repo in the
// corpus targets Rust, so these patterns are built directly from
// tree-sitter-rust's published grammar node types (struct_item,
// impl_item, trait_item, function_item, mod_item) rather than adapted
// from an existing extractor (see DESIGN.md, "Python/Rust grounding").
const RustQueries = `
; ============================================================================
; Structs (Class-family) & Traits (Interface-family)
; ============================================================================

(struct_item
  name: (type_identifier) @definition.class.name
) @definition.class

(enum_item
  name: (type_identifier) @definition.enum.name
) @definition.enum

(trait_item
  name: (type_identifier) @definition.interface.name
) @definition.interface

; Trait method declarations (no body) and default implementations
; (with body) — attached to the trait itself so override detection
; (§4.10) has a base_method to point a re-implementing impl's method at.
(trait_item
  name: (type_identifier) @_impl_target
  body: (declaration_list
    (function_signature_item
      name: (identifier) @definition.method.name
    ) @definition.method
  )
)

(trait_item
  name: (type_identifier) @_impl_target
  body: (declaration_list
    (function_item
      name: (identifier) @definition.method.name
    ) @definition.method
  )
)

(type_item
  name: (type_identifier) @definition.type_alias.name
) @definition.type_alias

; ============================================================================
; Functions & Methods
; ============================================================================

; Functions: this pattern matches every function_item, including those
; inside impl/trait blocks, which the method patterns below also capture
(function_item
  name: (identifier) @definition.function.name
  parameters: (parameters
    (parameter) @definition.parameter
  )?
) @definition.function

; impl Type { fn method(&self...) {...} } — attached to the Self type by
; name during Finalize (§4.4); impl blocks have no definition node of
; their own, only the type name they extend.
(impl_item
  type: (type_identifier) @_impl_target
  body: (declaration_list
    (function_item
      name: (identifier) @definition.method.name
      parameters: (parameters
        (parameter) @definition.parameter
      )?
    ) @definition.method
  )
)

; impl Trait for Type { ... } — same attachment target, but also records
; the trait being implemented for override detection (§4.10).
(impl_item
  trait: (type_identifier) @_impl_trait
  type: (type_identifier) @_impl_target
  body: (declaration_list
    (function_item
      name: (identifier) @definition.method.name
      parameters: (parameters
        (parameter) @definition.parameter
      )?
    ) @definition.method
  )
)

(struct_item
  body: (field_declaration_list
    (field_declaration
      name: (field_identifier) @definition.property.name
    ) @definition.property
  )
)

; ============================================================================
; Variables
; ============================================================================

(let_declaration
  pattern: (identifier) @definition.variable.name
) @definition.variable

; ============================================================================
; References
; ============================================================================

(call_expression
  function: (identifier) @reference.call.name
) @reference.call

(call_expression
  function: (field_expression
    value: (self) @reference.self_reference_call.receiver
    field: (field_identifier) @reference.self_reference_call.name
  )
) @reference.self_reference_call

(call_expression
  function: (field_expression
    field: (field_identifier) @reference.call.name
  )
) @reference.call

(call_expression
  function: (scoped_identifier
    path: (identifier) @_path
    name: (identifier) @reference.constructor.name
  )
) @reference.constructor
(#eq? @_path "Self")
`
