package symbols

// JSQueries mirrors TSQueries without type-only constructs (no type
// aliases, interfaces, or type annotations — JavaScript has none).
const JSQueries = `
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

(generator_function_declaration
  name: (identifier) @definition.function.name
) @definition.function

; ============================================================================
; Classes
; ============================================================================

(class_declaration
  name: (identifier) @definition.class.name
  (class_heritage
    value: (identifier) @definition.class.extends
  )?
) @definition.class

(variable_declarator
  name: (identifier) @definition.class.name
  value: (class)
) @definition.class

; ============================================================================
; Methods & Properties
; ============================================================================

(method_definition
  name: (property_identifier) @definition.method.name
  parameters: (formal_parameters
    (_) @definition.parameter
  )?
) @definition.method

(field_definition
  property: (property_identifier) @definition.property.name
) @definition.property

; ============================================================================
; Variables & Constants
; ============================================================================

(lexical_declaration
  (variable_declarator
    name: (identifier) @definition.variable.name
  ) @definition.variable
)

(variable_declaration
  (variable_declarator
    name: (identifier) @definition.variable.name
  ) @definition.variable
)

; Object-literal method shorthand and arrow-valued properties, used
; pervasively for CommonJS module.exports objects.
(pair
  key: (property_identifier) @definition.function.name
  value: (function_expression)
) @definition.function

(pair
  key: (property_identifier) @definition.function.name
  value: (arrow_function)
) @definition.function

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
`
