package symbols

// PyQueries covers Python's definition and reference shapes using
// tree-sitter-python's grammar node types. Decorated definitions are
// matched through the wrapping `decorated_definition` node so a
// decorator (e.g. `@dataclass`, `@staticmethod`) doesn't hide the
// function/class from the plain, undecorated patterns below it — both
// patterns independently match the same function_definition/
// class_definition node when nested.
const PyQueries = `
; ============================================================================
; Functions
; ============================================================================

(function_definition
  name: (identifier) @definition.function.name
  parameters: (parameters
    (_) @definition.parameter
  )?
) @definition.function

(lambda) @definition.function

; ============================================================================
; Classes
; ============================================================================

(class_definition
  name: (identifier) @definition.class.name
  superclasses: (argument_list
    (identifier) @definition.class.extends
  )?
) @definition.class

; ============================================================================
; Methods
; ============================================================================

(class_definition
  body: (block
    (function_definition
      name: (identifier) @definition.method.name
      parameters: (parameters
        (_) @definition.parameter
      )?
    ) @definition.method
  )
)

(class_definition
  body: (block
    (decorated_definition
      definition: (function_definition
        name: (identifier) @definition.method.name
        parameters: (parameters
          (_) @definition.parameter
        )?
      ) @definition.method
    )
  )
)

; ============================================================================
; Variables
; ============================================================================

(assignment
  left: (identifier) @definition.variable.name
) @definition.variable

; self.x = ... inside a method body — instance attribute, attached to
; the enclosing class as a property rather than indexed as a bare
; variable (§4.4 attachment).
(assignment
  left: (attribute
    object: (identifier) @_self
    attribute: (identifier) @definition.property.name
  )
) @definition.property
(#eq? @_self "self")

; ============================================================================
; References
; ============================================================================

(call
  function: (identifier) @reference.call.name
) @reference.call

(call
  function: (attribute
    object: (identifier) @reference.self_reference_call.receiver
    attribute: (identifier) @reference.self_reference_call.name
  )
) @reference.self_reference_call
(#eq? @reference.self_reference_call.receiver "self")

(call
  function: (attribute
    object: (_) @_receiver_name
    attribute: (identifier) @reference.call.name
  )
) @reference.call
`
