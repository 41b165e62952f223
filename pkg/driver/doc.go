// Package driver is the row pump behind foreach/map/filter: it reads a CSV
// stream, concretizes the expression once against the observed header,
// fans rows out across a worker pool while preserving input order on
// output, applies the configured error policy, and writes survivors back
// out as CSV.
package driver
