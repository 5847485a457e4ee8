// Package scopes holds the per-language scope-boundary queries: every
// syntactic node that opens a new lexical region, captured independently
// of the definition queries in pkg/parser/queries/symbols. A function
// expression with no name still opens a function scope; a bare block
// does too, even though neither emits a definition capture.
package scopes

// TSQueries captures every scope-opening node in TypeScript/TSX source.
const TSQueries = `
(program) @scope.module

(function_declaration) @scope.function
(function_expression) @scope.function
(arrow_function) @scope.function
(method_definition) @scope.function

(class_declaration) @scope.class
(class) @scope.class

(statement_block) @scope.block
`
