// Package header resolves column references — by name, by name with an
// occurrence count (for duplicate header names), or by position (negative
// meaning from the end) — against a fixed CSV header row.
//
// The index is built once per command invocation, before concretization,
// and never changes for the lifetime of that invocation.
package header
