package symbols

// TSQueries contains tree-sitter query patterns for TypeScript definition
// and reference extraction.
//
// Capture names follow the canonical @<family>.<entity> schema validated
// by pkg/capture.Schema: "definition.*" for declarations, "reference.*"
// for use-sites. The enclosing node is always captured alongside the name
// node so handlers can recover the full declaration's Location.
const TSQueries = `
; ============================================================================
; Functions
; ============================================================================

(function_declaration
  name: (identifier) @definition.function.name
  parameters: (formal_parameters
    (_) @definition.parameter
  )?
) @definition.function

(variable_declarator
  name: (identifier) @definition.function.name
  value: (function_expression)
) @definition.function

(variable_declarator
  name: (identifier) @definition.variable.name
  value: (arrow_function)
) @definition.variable

; ============================================================================
; Classes
; ============================================================================

(class_declaration
  name: (type_identifier) @definition.class.name
  (class_heritage
    (extends_clause
      value: (identifier) @definition.class.extends
    )?
    (implements_clause
      (type_identifier) @definition.class.extends
    )?
  )?
) @definition.class

(public_field_definition
  name: (property_identifier) @definition.class.name
  value: (class)
) @definition.class

; ============================================================================
; Methods & Properties
; ============================================================================

(class_declaration
  body: (class_body
    (method_definition
      name: (property_identifier) @definition.method.name
      parameters: (formal_parameters
        (_) @definition.parameter
      )?
    ) @definition.method
  )
)

(class
  body: (class_body
    (method_definition
      name: (property_identifier) @definition.method.name
      parameters: (formal_parameters
        (_) @definition.parameter
      )?
    ) @definition.method
  )
)

(class_declaration
  body: (class_body
    (public_field_definition
      name: (property_identifier) @definition.property.name
    ) @definition.property
  )
)

; ============================================================================
; Variables & Constants
; ============================================================================

(lexical_declaration
  (variable_declarator
    name: (identifier) @definition.variable.name
  ) @definition.variable
)

; ============================================================================
; Types & Interfaces
; ============================================================================

(type_alias_declaration
  name: (type_identifier) @definition.type_alias.name
) @definition.type_alias

(interface_declaration
  name: (type_identifier) @definition.interface.name
  (extends_type_clause
    (type_identifier) @definition.interface.extends
  )?
) @definition.interface

(interface_declaration
  body: (object_type
    (method_signature
      name: (property_identifier) @definition.method.name
    ) @definition.method
  )
)

(interface_declaration
  body: (object_type
    (property_signature
      name: (property_identifier) @definition.property.name
    ) @definition.property
  )
)

; ============================================================================
; Enums
; ============================================================================

(enum_declaration
  name: (identifier) @definition.enum.name
) @definition.enum

; ============================================================================
; References
; ============================================================================

(call_expression
  function: (identifier) @reference.call.name
) @reference.call

(call_expression
  function: (member_expression
    object: (this) @reference.self_reference_call.receiver
    property: (property_identifier) @reference.self_reference_call.name
  )
) @reference.self_reference_call

(call_expression
  function: (member_expression
    object: (_) @_receiver_name
    property: (property_identifier) @reference.call.name
  )
) @reference.call

(new_expression
  constructor: (identifier) @reference.constructor.name
) @reference.constructor

(type_annotation
  (type_identifier) @reference.type.name
) @reference.type
`
