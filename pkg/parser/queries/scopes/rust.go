package scopes

// RustQueries captures Rust's scope-opening nodes. mod_item is treated
// as a module scope like the file root; impl/trait bodies open their own
// class-family scope so associated items resolve against the impl block
// before falling through to the enclosing module.
const RustQueries = `
(source_file) @scope.module
(mod_item) @scope.module

(function_item) @scope.function
(closure_expression) @scope.function

(impl_item) @scope.class
(trait_item) @scope.class
(struct_item) @scope.class

(block) @scope.block
`
