// Package syntax lexes and parses xan-flavored row expressions (the kind
// passed to foreach/map/filter on the command line) into a FunctionCall-
// rooted tree. It is the engine's component B: spec.md treats the parser as
// an external collaborator and doesn't specify its grammar in detail, but a
// runnable module needs one, so this is a small hand-written recursive-
// descent parser in the style of ha1tch-tsqlparser's lexer/token/parser
// split, sized to the engine's actual surface (function calls, lambdas,
// literals, and a handful of infix operators desugared to function calls).
package syntax
