package scopes

// JSQueries mirrors TSQueries; JavaScript's scope-bearing node types are
// identical to TypeScript's (both grammars share the same statement and
// expression shapes).
const JSQueries = `
(program) @scope.module

(function_declaration) @scope.function
(function_expression) @scope.function
(generator_function_declaration) @scope.function
(arrow_function) @scope.function
(method_definition) @scope.function

(class_declaration) @scope.class
(class) @scope.class

(statement_block) @scope.block
`
