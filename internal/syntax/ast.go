package syntax

import "github.com/tabexcli/tabex/pkg/value"

// Node is any parsed expression node: a Literal, an Identifier, a
// FunctionCall, a ListLiteral, or a Lambda.
type Node interface {
	isNode()
}

// Literal is an immediate constant.
type Literal struct {
	Value value.Value
}

func (Literal) isNode() {}

// Identifier is a bare name — either a lambda parameter reference at
// runtime, or (pre-concretization) a name the concretizer must classify.
type Identifier struct {
	Name string
}

func (Identifier) isNode() {}

// Argument is one (optional-keyword, value) pair in a function call's
// argument list. Name is empty for positional arguments.
type Argument struct {
	Name  string
	Value Node
}

// FunctionCall is a named function application, e.g. col("a"), or an infix
// operator desugared to one, e.g. a + b becomes FunctionCall{Name: "+"}.
type FunctionCall struct {
	Name string
	Args []Argument
}

func (FunctionCall) isNode() {}

// RawArgs returns the argument values in order, discarding keyword names —
// used by the concretizer's static-analysis checks for col/col?/cols/headers.
func (f FunctionCall) RawArgs() []Node {
	out := make([]Node, len(f.Args))
	for i, a := range f.Args {
		out[i] = a.Value
	}
	return out
}

// ListLiteral is a bracketed list expression, e.g. [1, 2, 3].
type ListLiteral struct {
	Items []Node
}

func (ListLiteral) isNode() {}

// Lambda is an unevaluated closure: x => expr, or (x, y) => expr.
type Lambda struct {
	Params []string
	Body   Node
}

func (Lambda) isNode() {}
