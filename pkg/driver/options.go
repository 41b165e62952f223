package driver

import "runtime"

// Parallelization selects the row pump's worker count: no concurrency at
// all, one worker per CPU, or an explicit count.
type Parallelization struct {
	kind  parallelKind
	count int
}

type parallelKind uint8

const (
	parallelNone parallelKind = iota
	parallelAuto
	parallelCount
)

// ParallelNone runs the row pump on a single goroutine.
func ParallelNone() Parallelization { return Parallelization{kind: parallelNone} }

// ParallelAuto sizes the worker pool to runtime.NumCPU().
func ParallelAuto() Parallelization { return Parallelization{kind: parallelAuto} }

// ParallelCount sizes the worker pool to exactly n goroutines.
func ParallelCount(n int) Parallelization { return Parallelization{kind: parallelCount, count: n} }

// Workers reports how many goroutines this setting asks for, always at
// least 1.
func (p Parallelization) Workers() int {
	switch p.kind {
	case parallelAuto:
		if n := runtime.NumCPU(); n > 0 {
			return n
		}
		return 1
	case parallelCount:
		if p.count > 0 {
			return p.count
		}
		return 1
	default:
		return 1
	}
}

// ErrorPolicy governs what happens to a row whose expression evaluation
// fails.
type ErrorPolicy uint8

const (
	// PolicyPanic aborts the run: the error is reported and the process
	// exits non-zero without writing the failing row or any row after it.
	PolicyPanic ErrorPolicy = iota
	// PolicyIgnore substitutes none for the failed cell and continues.
	PolicyIgnore
	// PolicyLog behaves like PolicyIgnore but also logs the row index and
	// error message at warn level.
	PolicyLog
)

// Mode selects which command is driving the pump.
type Mode uint8

const (
	// ModeMap appends the expression's result as a new trailing cell.
	ModeMap Mode = iota
	// ModeFilter keeps a row iff the expression evaluates truthy.
	ModeFilter
	// ModeForeach evaluates the expression for effect, writing no output
	// rows and discarding the produced value — only the error policy matters.
	ModeForeach
)

// Options is the full configuration for one driver.Run invocation.
type Options struct {
	// Expression is the unparsed expression source.
	Expression string

	// Input, when nil, reads from stdin; otherwise names a file path.
	Input *string
	// Output, when nil, writes to stdout; otherwise names a file path.
	Output *string

	// NoHeaders treats the first input row as data, synthesizing a
	// positional "0","1",... header instead.
	NoHeaders bool
	// Delimiter is the CSV field separator. Zero means ','.
	Delimiter byte

	Parallelization Parallelization
	ErrorPolicy     ErrorPolicy
	Mode            Mode
}
