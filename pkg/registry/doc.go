// Package registry holds the "normal" function library: opaque, pure,
// pre-arity-checked callables dispatched by name from a Call expression
// (spec.md §1 — "the general function library... is treated as opaque pure
// functions the evaluator dispatches via a registry"). Special forms with
// their own evaluation discipline (if/unless/try/map/filter/col/...) live in
// pkg/engine instead, because they need the concrete expression IR that
// would otherwise create an import cycle with this package.
package registry
