// Package engine implements the expression engine's concrete IR, the
// header-directed concretizer ("comptime"), the per-row evaluator
// ("runtime"), the special-function table driving both, the higher-order
// lambda sub-interpreter, and the two-layer error taxonomy.
//
// The special-function table lives here rather than in pkg/registry because
// its comptime/runtime handlers operate on Expr, the concrete expression IR
// defined in this package — putting it in pkg/registry would create an
// import cycle. pkg/registry holds only the "normal" function library
// (opaque, pure, value.Value -> value.Value callables).
package engine
