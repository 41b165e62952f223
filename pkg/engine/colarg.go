package engine

import (
	"github.com/tabexcli/tabex/internal/syntax"
	"github.com/tabexcli/tabex/pkg/header"
	"github.com/tabexcli/tabex/pkg/value"
)

// valueBy classifies one already-produced value as a column descriptor: a
// string names a column, an integer positions one. Anything else (a float,
// a list, none, a bool) isn't a valid column argument.
func valueBy(v value.Value) (header.By, bool) {
	switch v.Kind() {
	case value.KindBytes:
		return header.ByName{Name: v.String()}, true
	case value.KindInt:
		i, _ := v.Int()
		return header.ByPosition{Position: int(i)}, true
	default:
		return nil, false
	}
}

// literalBy classifies a parsed argument node the same way valueBy
// classifies a value, but only when the node is an immediate Literal —
// anything else (a column reference, a call, an identifier) means the
// argument can't be resolved without evaluating a row, so col/col? must
// fall back to its runtime form.
func literalBy(n syntax.Node) (header.By, bool) {
	lit, ok := n.(syntax.Literal)
	if !ok {
		return nil, false
	}
	return valueBy(lit.Value)
}

// pairBy combines two column descriptors the way a 2-argument col(name, n)
// call does: the first argument must name a column and the second must
// position the occurrence among same-named columns.
func pairBy(first, second header.By) (header.By, bool) {
	name, isName := first.(header.ByName)
	occ, isPos := second.(header.ByPosition)
	if !isName || !isPos {
		return nil, false
	}
	return header.ByNameOccurrence{Name: name.Name, Occurrence: occ.Position}, true
}

// staticColumnBy resolves col/col?'s arguments to a header.By purely from
// parsed syntax, without evaluating anything — returning false when the
// arguments aren't all literals, which sends concretization down the
// runtime SpecialCallExpr path instead.
func staticColumnBy(args []syntax.Node) (header.By, bool) {
	switch len(args) {
	case 1:
		return literalBy(args[0])
	case 2:
		first, ok1 := literalBy(args[0])
		second, ok2 := literalBy(args[1])
		if !ok1 || !ok2 {
			return nil, false
		}
		return pairBy(first, second)
	default:
		return nil, false
	}
}

// dynamicColumnBy is staticColumnBy's runtime counterpart: it classifies
// already-evaluated argument values instead of parsed literals, used by
// col/col?'s SpecialCallExpr handler when the column reference couldn't be
// folded at concretization time.
func dynamicColumnBy(args []value.Value) (header.By, bool) {
	switch len(args) {
	case 1:
		return valueBy(args[0])
	case 2:
		first, ok1 := valueBy(args[0])
		second, ok2 := valueBy(args[1])
		if !ok1 || !ok2 {
			return nil, false
		}
		return pairBy(first, second)
	default:
		return nil, false
	}
}
