// Package value implements the dynamic value model shared by every stage of
// the expression engine: the tagged sum type produced by reading a CSV cell,
// returned by a function call, or held inside a list.
//
// A Value is one of none, bool, int, float, bytes, or list. Truthiness and
// list coercion are the only implicit conversions the engine performs;
// everything else (arithmetic, comparisons, string functions) is a normal
// function dispatched through pkg/registry.
package value
