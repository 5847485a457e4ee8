package scopes

// PyQueries captures Python's scope-opening nodes, including
// comprehensions — each of `list_comprehension`/`set_comprehension`/
// `dictionary_comprehension`/`generator_expression` introduces its own
// scope in Python 3 (the loop variable does not leak into the enclosing
// scope), which §4.5 requires this indexer to model distinctly from an
// ordinary block.
const PyQueries = `
(module) @scope.module

(function_definition) @scope.function
(lambda) @scope.lambda

(class_definition) @scope.class

(block) @scope.block

(list_comprehension) @scope.comprehension
(set_comprehension) @scope.comprehension
(dictionary_comprehension) @scope.comprehension
(generator_expression) @scope.comprehension
`
