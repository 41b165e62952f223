package engine

import (
	"github.com/tabexcli/tabex/internal/syntax"
	"github.com/tabexcli/tabex/pkg/header"
	"github.com/tabexcli/tabex/pkg/registry"
	"github.com/tabexcli/tabex/pkg/value"
)

// ComptimeFunc attempts to fold a special call into a simpler Expr while the
// header row is known but no row has been read yet. It returns handled=false
// (with a nil error) to say "this call can't be resolved until runtime, emit
// a SpecialCallExpr instead" — the concretizer falls through to the entry's
// RuntimeFunc in that case. A non-nil error always aborts concretization,
// handled or not.
type ComptimeFunc func(call syntax.FunctionCall, headers header.Index) (expr Expr, handled bool, err error)

// RuntimeFunc evaluates a special call against one row. rowIndex is nil
// outside a foreach/map/filter row loop (there is none in practice, since
// special forms only ever run per row, but the pointer lets index() report
// "no row" uniformly instead of crashing). scope is nil unless this call is
// nested inside a lambda body.
type RuntimeFunc func(rowIndex *int, record []string, ctx *Context, args []Expr, scope *LambdaScope) (value.Value, *EvalError)

// SpecialEntry is one row of the special-function table: a name dispatches
// to an optional comptime folder and/or an optional runtime evaluator,
// gated by a shared arity check the concretizer validates before either
// runs.
type SpecialEntry struct {
	Comptime ComptimeFunc
	Runtime  RuntimeFunc
	Arity    registry.Arity
}

var specialTable map[string]SpecialEntry

func init() {
	specialTable = map[string]SpecialEntry{
		"col": {
			Comptime: comptimeCol,
			Runtime:  runtimeCol(false),
			Arity:    registry.Between(1, 2),
		},
		"col?": {
			Comptime: comptimeUnsureCol,
			Runtime:  runtimeCol(true),
			Arity:    registry.Between(1, 2),
		},
		"cols": {
			Comptime: comptimeCols,
			Arity:    registry.Between(0, 2),
		},
		"headers": {
			Comptime: comptimeHeaders,
			Arity:    registry.Between(0, 2),
		},
		"index": {
			Runtime: runtimeIndex,
			Arity:   registry.Exactly(0),
		},
		"if": {
			Runtime: runtimeIf,
			Arity:   registry.Between(2, 3),
		},
		"unless": {
			Runtime: runtimeUnless,
			Arity:   registry.Between(2, 3),
		},
		"try": {
			Runtime: runtimeTry,
			Arity:   registry.Exactly(1),
		},
		"map": {
			Runtime: runtimeHigherOrder("map", true),
			Arity:   registry.Exactly(2),
		},
		"filter": {
			Runtime: runtimeHigherOrder("filter", false),
			Arity:   registry.Exactly(2),
		},
	}
}

func getSpecial(name string) (SpecialEntry, bool) {
	e, ok := specialTable[name]
	return e, ok
}

// comptimeCol folds col(...) into a ColumnExpr whenever its arguments are
// literals; when they aren't (e.g. col(headers(0))), it reports "not
// handled" so the concretizer emits a runtime SpecialCallExpr instead.
// Column-not-found is still a hard concretization failure, matching the
// source's rule that col() with a statically-known-bad name never reaches a
// single row.
func comptimeCol(call syntax.FunctionCall, headers header.Index) (Expr, bool, error) {
	by, ok := staticColumnBy(call.RawArgs())
	if !ok {
		return nil, false, nil
	}
	idx, found := headers.Find(by)
	if !found {
		return nil, false, &ConcretizationError{Kind: CEKColumnNotFound, Detail: by.String()}
	}
	return ColumnExpr{Index: idx}, true, nil
}

// comptimeUnsureCol is col?'s comptime folder: a column miss folds to none
// rather than aborting concretization — the one place this table treats a
// missing header as a value instead of an error.
func comptimeUnsureCol(call syntax.FunctionCall, headers header.Index) (Expr, bool, error) {
	by, ok := staticColumnBy(call.RawArgs())
	if !ok {
		return nil, false, nil
	}
	idx, found := headers.Find(by)
	if !found {
		return ValueExpr{Value: value.None()}, true, nil
	}
	return ColumnExpr{Index: idx}, true, nil
}

// runtimeCol builds col/col?'s RuntimeFunc, used when the column reference
// couldn't be folded at concretization time (its arguments depend on a
// column's own runtime value). col? turns only a column miss into none;
// arguments that don't name a column are an error for col and col? alike.
func runtimeCol(optional bool) RuntimeFunc {
	fn := "col"
	if optional {
		fn = "col?"
	}
	return func(rowIndex *int, record []string, ctx *Context, args []Expr, scope *LambdaScope) (value.Value, *EvalError) {
		vals := make([]value.Value, len(args))
		for i, a := range args {
			v, err := Evaluate(a, rowIndex, record, ctx, scope)
			if err != nil {
				return value.Value{}, err
			}
			vals[i] = v
		}
		by, ok := dynamicColumnBy(vals)
		if !ok {
			return value.Value{}, newEvalError(fn, EEKCustom, "arguments do not name a column")
		}
		idx, found := ctx.Headers.Find(by)
		if !found {
			if optional {
				return value.None(), nil
			}
			return value.Value{}, newEvalError(fn, EEKColumnNotFound, by.String())
		}
		if idx < 0 || idx >= len(record) {
			if optional {
				return value.None(), nil
			}
			return value.Value{}, newEvalError(fn, EEKColumnNotFound, by.String())
		}
		return value.FromBytes([]byte(record[idx])), nil
	}
}

// comptimeCols folds cols(...) into a ListExpr of ColumnExprs spanning the
// requested (or, with no arguments, every) column. cols has no runtime
// form: both endpoints must be literal, or concretization fails outright —
// there is no row-dependent cols() in this language.
func comptimeCols(call syntax.FunctionCall, headers header.Index) (Expr, bool, error) {
	return comptimeSpan(call, headers, func(i int) Expr { return ColumnExpr{Index: i} })
}

// comptimeHeaders is cols' sibling: instead of the column's per-row value it
// yields the header name itself, folded once at concretization time.
func comptimeHeaders(call syntax.FunctionCall, headers header.Index) (Expr, bool, error) {
	names := headers.Names()
	return comptimeSpan(call, headers, func(i int) Expr {
		return ValueExpr{Value: value.FromString(names[i])}
	})
}

func comptimeSpan(call syntax.FunctionCall, headers header.Index, at func(i int) Expr) (Expr, bool, error) {
	args := call.RawArgs()

	if len(args) == 0 {
		items := make([]Expr, headers.Width())
		for i := range items {
			items[i] = at(i)
		}
		return ListExpr{Items: items}, true, nil
	}

	firstBy, ok := literalBy(args[0])
	if !ok {
		return nil, false, &ConcretizationError{Kind: CEKNotStaticallyAnalyzable, Detail: call.Name}
	}
	firstIdx, found := headers.Find(firstBy)
	if !found {
		return nil, false, &ConcretizationError{Kind: CEKColumnNotFound, Detail: firstBy.String()}
	}

	if len(args) == 1 {
		items := make([]Expr, 0, headers.Width()-firstIdx)
		for i := firstIdx; i < headers.Width(); i++ {
			items = append(items, at(i))
		}
		return ListExpr{Items: items}, true, nil
	}

	secondBy, ok := literalBy(args[1])
	if !ok {
		return nil, false, &ConcretizationError{Kind: CEKNotStaticallyAnalyzable, Detail: call.Name}
	}
	secondIdx, found := headers.Find(secondBy)
	if !found {
		return nil, false, &ConcretizationError{Kind: CEKColumnNotFound, Detail: secondBy.String()}
	}

	var items []Expr
	if firstIdx <= secondIdx {
		for i := firstIdx; i <= secondIdx; i++ {
			items = append(items, at(i))
		}
	} else {
		for i := firstIdx; i >= secondIdx; i-- {
			items = append(items, at(i))
		}
	}
	return ListExpr{Items: items}, true, nil
}

// runtimeIndex reports the current row's 0-based offset within the input.
func runtimeIndex(rowIndex *int, record []string, ctx *Context, args []Expr, scope *LambdaScope) (value.Value, *EvalError) {
	if rowIndex == nil {
		return value.None(), nil
	}
	return value.FromInt(int64(*rowIndex)), nil
}

// runtimeIf implements short-circuit evaluation: the branch not taken is
// never evaluated, so it may raise errors or have side effects the caller
// is explicitly choosing to skip.
func runtimeIf(rowIndex *int, record []string, ctx *Context, args []Expr, scope *LambdaScope) (value.Value, *EvalError) {
	cond, err := Evaluate(args[0], rowIndex, record, ctx, scope)
	if err != nil {
		return value.Value{}, err
	}
	if cond.IsTruthy() {
		return Evaluate(args[1], rowIndex, record, ctx, scope)
	}
	if len(args) == 3 {
		return Evaluate(args[2], rowIndex, record, ctx, scope)
	}
	return value.None(), nil
}

// runtimeUnless is if with the condition inverted.
func runtimeUnless(rowIndex *int, record []string, ctx *Context, args []Expr, scope *LambdaScope) (value.Value, *EvalError) {
	cond, err := Evaluate(args[0], rowIndex, record, ctx, scope)
	if err != nil {
		return value.Value{}, err
	}
	if cond.IsFalsey() {
		return Evaluate(args[1], rowIndex, record, ctx, scope)
	}
	if len(args) == 3 {
		return Evaluate(args[2], rowIndex, record, ctx, scope)
	}
	return value.None(), nil
}

// runtimeTry makes its argument total: any EvalError raised while evaluating
// it is swallowed and replaced with none, rather than propagated to the
// caller's error policy.
func runtimeTry(rowIndex *int, record []string, ctx *Context, args []Expr, scope *LambdaScope) (value.Value, *EvalError) {
	v, err := Evaluate(args[0], rowIndex, record, ctx, scope)
	if err != nil {
		return value.None(), nil
	}
	return v, nil
}

// runtimeHigherOrder builds map and filter's shared RuntimeFunc: both
// evaluate a list, bind a single-parameter lambda over each element, and
// differ only in how they fold the per-element result back into an output
// list.
func runtimeHigherOrder(op string, isMap bool) RuntimeFunc {
	return func(rowIndex *int, record []string, ctx *Context, args []Expr, scope *LambdaScope) (value.Value, *EvalError) {
		listVal, err := Evaluate(args[0], rowIndex, record, ctx, scope)
		if err != nil {
			return value.Value{}, err
		}
		list, convErr := listVal.IntoSharedList()
		if convErr != nil {
			return value.Value{}, newEvalError(op, EEKNotAList, "")
		}

		params, body, lerr := TryAsLambda(args[1])
		if lerr != nil {
			return value.Value{}, lerr
		}
		if arityErr := registry.Exactly(1).Validate(len(params)); arityErr != nil {
			return value.Value{}, wrapEvalError(anonymousFn, EEKInvalidArity, arityErr)
		}

		child := NewLambdaScope()
		if scope != nil {
			child = scope.Fork()
		}
		slot := child.Register(params[0])

		if isMap {
			items := list.TakeItems()
			result := make([]value.Value, len(items))
			for i, item := range items {
				child.Set(slot, item)
				v, err := Evaluate(body, rowIndex, record, ctx, child)
				if err != nil {
					return value.Value{}, err
				}
				result[i] = v
			}
			return value.FromList(result), nil
		}

		items := list.Items()
		var result []value.Value
		for _, item := range items {
			child.Set(slot, item)
			v, err := Evaluate(body, rowIndex, record, ctx, child)
			if err != nil {
				return value.Value{}, err
			}
			if v.IsTruthy() {
				result = append(result, item)
			}
		}
		return value.FromList(result), nil
	}
}
