package engine

import "github.com/tabexcli/tabex/pkg/value"

// Expr is a concretized expression node: the output of Concretize and the
// input to Evaluate. Unlike syntax.Node, every column reference here has
// already been resolved to a record index (or, when that wasn't statically
// possible, wrapped in a SpecialCallExpr that resolves it per row).
type Expr interface {
	isExpr()
}

// ValueExpr is a constant folded at comptime: a literal, a col?() whose
// column is statically missing (none), or one header name inside the list
// headers() folds to — never a record's per-row contents.
type ValueExpr struct {
	Value value.Value
}

func (ValueExpr) isExpr() {}

// ColumnExpr reads record[Index] at evaluation time. Index was resolved once,
// during concretization, against the header row.
type ColumnExpr struct {
	Index int
}

func (ColumnExpr) isExpr() {}

// ListExpr evaluates each Item and collects the results into a list value.
type ListExpr struct {
	Items []Expr
}

func (ListExpr) isExpr() {}

// CallExpr applies a normal function from pkg/registry: all arguments are
// evaluated first, depth-first, left to right.
type CallExpr struct {
	Name string
	Args []Expr
}

func (CallExpr) isExpr() {}

// SpecialCallExpr applies a special form — one whose evaluation order isn't
// plain depth-first argument evaluation (if/unless/try short-circuit; map/
// filter bind a lambda parameter; col/col?/index read row-local state). Op
// looks up the same table Concretize consulted to produce this node.
type SpecialCallExpr struct {
	Op   string
	Args []Expr
}

func (SpecialCallExpr) isExpr() {}

// LambdaExpr is an unevaluated closure body bound to map/filter's second
// argument. It is never evaluated directly — only unwrapped by TryAsLambda
// and then its Body evaluated under an extended LambdaScope.
type LambdaExpr struct {
	Params []string
	Body   Expr
}

func (LambdaExpr) isExpr() {}

// IdentifierExpr reads a lambda parameter out of the current LambdaScope.
type IdentifierExpr struct {
	Name string
}

func (IdentifierExpr) isExpr() {}
