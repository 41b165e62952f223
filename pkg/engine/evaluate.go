package engine

import (
	"fmt"

	"github.com/tabexcli/tabex/pkg/registry"
	"github.com/tabexcli/tabex/pkg/value"
)

// Evaluate runs a concretized expression against one record. rowIndex is
// nil when the caller doesn't track a row offset (index() then reports
// none); scope is nil outside a lambda body. The *EvalError return, rather
// than a plain error, lets callers inspect FunctionName/Kind without a type
// assertion before deciding what the configured error policy does with it.
func Evaluate(expr Expr, rowIndex *int, record []string, ctx *Context, scope *LambdaScope) (value.Value, *EvalError) {
	switch e := expr.(type) {

	case ValueExpr:
		return e.Value, nil

	case ColumnExpr:
		if e.Index < 0 || e.Index >= len(record) {
			return value.Value{}, newEvalError(anonymousFn, EEKColumnNotFound, fmt.Sprintf("column index %d out of range for a %d-column row", e.Index, len(record)))
		}
		return value.FromBytes([]byte(record[e.Index])), nil

	case IdentifierExpr:
		if scope != nil {
			if v, ok := scope.Get(e.Name); ok {
				return v, nil
			}
		}
		return value.Value{}, newEvalError(anonymousFn, EEKUnknownIdentifier, e.Name)

	case ListExpr:
		items := make([]value.Value, len(e.Items))
		for i, item := range e.Items {
			v, err := Evaluate(item, rowIndex, record, ctx, scope)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}
		return value.FromList(items), nil

	case CallExpr:
		return evaluateCall(e, rowIndex, record, ctx, scope)

	case SpecialCallExpr:
		entry, ok := getSpecial(e.Op)
		if !ok || entry.Runtime == nil {
			panic("engine: concretizer produced a SpecialCallExpr with no runtime handler for " + e.Op)
		}
		return entry.Runtime(rowIndex, record, ctx, e.Args, scope)

	case LambdaExpr:
		return value.Value{}, newEvalError(anonymousFn, EEKCustom, "a lambda cannot be evaluated directly, only passed to map/filter")

	default:
		panic(fmt.Sprintf("engine: unrecognized concrete expression %T", expr))
	}
}

func evaluateCall(e CallExpr, rowIndex *int, record []string, ctx *Context, scope *LambdaScope) (value.Value, *EvalError) {
	entry, ok := registry.Lookup(e.Name)
	if !ok {
		// Concretize already rejects unknown normal functions; this only
		// guards against Expr trees built some other way.
		return value.Value{}, newEvalError(e.Name, EEKCustom, "unknown function")
	}

	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := Evaluate(a, rowIndex, record, ctx, scope)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}

	v, err := entry.Fn(args)
	if err != nil {
		return value.Value{}, wrapEvalError(e.Name, EEKNormalFunctionError, err)
	}
	return v, nil
}
