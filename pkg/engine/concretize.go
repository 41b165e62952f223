package engine

import (
	"fmt"

	"github.com/tabexcli/tabex/internal/syntax"
	"github.com/tabexcli/tabex/pkg/header"
	"github.com/tabexcli/tabex/pkg/registry"
)

// Concretize walks a parsed expression once, against a fixed header row,
// and produces the Expr tree Evaluate will run against every record. Column
// references are resolved to their record index here whenever possible;
// special-form argument counts are checked here too, so a malformed call
// never costs a single row of evaluation before it's reported.
func Concretize(node syntax.Node, headers header.Index) (Expr, error) {
	return concretizeNode(node, headers)
}

func concretizeNode(node syntax.Node, headers header.Index) (Expr, error) {
	switch n := node.(type) {
	case syntax.Literal:
		return ValueExpr{Value: n.Value}, nil

	case syntax.Identifier:
		return IdentifierExpr{Name: n.Name}, nil

	case syntax.ListLiteral:
		items := make([]Expr, len(n.Items))
		for i, item := range n.Items {
			e, err := concretizeNode(item, headers)
			if err != nil {
				return nil, err
			}
			items[i] = e
		}
		return ListExpr{Items: items}, nil

	case syntax.Lambda:
		body, err := concretizeNode(n.Body, headers)
		if err != nil {
			return nil, err
		}
		return LambdaExpr{Params: n.Params, Body: body}, nil

	case syntax.FunctionCall:
		return concretizeCall(n, headers)

	default:
		return nil, &ConcretizationError{Kind: CEKInvalidArgument, Detail: fmt.Sprintf("unrecognized node %T", node)}
	}
}

func concretizeCall(call syntax.FunctionCall, headers header.Index) (Expr, error) {
	if entry, ok := getSpecial(call.Name); ok {
		return concretizeSpecialCall(call, headers, entry)
	}
	return concretizeNormalCall(call, headers)
}

func concretizeSpecialCall(call syntax.FunctionCall, headers header.Index, entry SpecialEntry) (Expr, error) {
	if err := entry.Arity.Validate(len(call.Args)); err != nil {
		return nil, &ConcretizationError{Kind: CEKInvalidArity, Detail: call.Name, Err: err}
	}

	if entry.Comptime != nil {
		expr, handled, err := entry.Comptime(call, headers)
		if err != nil {
			return nil, err
		}
		if handled {
			return expr, nil
		}
	}

	if entry.Runtime == nil {
		// A comptime folder declined to handle this call (e.g. an
		// argument isn't a literal) and the special form has no
		// runtime counterpart — cols/headers are the only such forms,
		// and their comptime folders never return handled=false
		// without also returning an error, so this path is defensive
		// rather than reachable in practice.
		return nil, &ConcretizationError{Kind: CEKNotStaticallyAnalyzable, Detail: call.Name}
	}

	args := make([]Expr, len(call.Args))
	for i, a := range call.Args {
		e, err := concretizeNode(a.Value, headers)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	return SpecialCallExpr{Op: call.Name, Args: args}, nil
}

func concretizeNormalCall(call syntax.FunctionCall, headers header.Index) (Expr, error) {
	entry, ok := registry.Lookup(call.Name)
	if !ok {
		return nil, &ConcretizationError{Kind: CEKUnknownFunction, Detail: call.Name}
	}
	if err := entry.Arity.Validate(len(call.Args)); err != nil {
		return nil, &ConcretizationError{Kind: CEKInvalidArity, Detail: call.Name, Err: err}
	}

	args := make([]Expr, len(call.Args))
	for i, a := range call.Args {
		e, err := concretizeNode(a.Value, headers)
		if err != nil {
			return nil, err
		}
		args[i] = e
	}
	return CallExpr{Name: call.Name, Args: args}, nil
}
