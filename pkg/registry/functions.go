package registry

import (
	"errors"
	"strings"

	"github.com/tabexcli/tabex/pkg/value"
)

// Func is a normal function: an opaque, pure callable that receives its
// already-evaluated arguments and returns a value or an error. Special forms
// with short-circuit or lambda-binding semantics are NOT Funcs — they live
// in pkg/engine as SpecialEntry handlers instead.
type Func func(args []value.Value) (value.Value, error)

// Entry pairs a Func with the arity the concretizer validates against.
type Entry struct {
	Fn    Func
	Arity Arity
}

var normalFunctions map[string]Entry

func init() {
	normalFunctions = map[string]Entry{
		"+":   {Fn: arith(addInt, addFloat), Arity: Exactly(2)},
		"-":   {Fn: arith(subInt, subFloat), Arity: Exactly(2)},
		"*":   {Fn: arith(mulInt, mulFloat), Arity: Exactly(2)},
		"/":   {Fn: divFn, Arity: Exactly(2)},
		"%":   {Fn: arith(modInt, modFloat), Arity: Exactly(2)},
		"neg": {Fn: negFn, Arity: Exactly(1)},

		"==": {Fn: eqFn(true), Arity: Exactly(2)},
		"!=": {Fn: eqFn(false), Arity: Exactly(2)},
		"<":  {Fn: cmpFn(func(c int) bool { return c < 0 }), Arity: Exactly(2)},
		"<=": {Fn: cmpFn(func(c int) bool { return c <= 0 }), Arity: Exactly(2)},
		">":  {Fn: cmpFn(func(c int) bool { return c > 0 }), Arity: Exactly(2)},
		">=": {Fn: cmpFn(func(c int) bool { return c >= 0 }), Arity: Exactly(2)},

		"and": {Fn: andFn, Arity: Exactly(2)},
		"or":  {Fn: orFn, Arity: Exactly(2)},
		"not": {Fn: notFn, Arity: Exactly(1)},

		"upper":  {Fn: stringFn(strings.ToUpper), Arity: Exactly(1)},
		"lower":  {Fn: stringFn(strings.ToLower), Arity: Exactly(1)},
		"trim":   {Fn: stringFn(strings.TrimSpace), Arity: Exactly(1)},
		"concat": {Fn: concatFn, Arity: AtLeast(1)},
		"len":    {Fn: lenFn, Arity: Exactly(1)},
		"split":  {Fn: splitFn, Arity: Exactly(2)},
	}
}

// Lookup returns the normal function registered under name, if any.
func Lookup(name string) (Entry, bool) {
	e, ok := normalFunctions[name]
	return e, ok
}

var (
	// ErrWrongType is returned by normal functions when an argument's kind
	// doesn't suit the operation.
	ErrWrongType = errors.New("argument has the wrong type")
)

func numericPair(a, b value.Value) (aInt, bInt int64, aFloat, bFloat float64, bothInt bool, ok bool) {
	ai, aIsInt := a.Int()
	bi, bIsInt := b.Int()
	af, aIsFloat := a.Float()
	bf, bIsFloat := b.Float()

	if !(aIsInt || aIsFloat) || !(bIsInt || bIsFloat) {
		return 0, 0, 0, 0, false, false
	}
	if aIsInt && bIsInt {
		return ai, bi, 0, 0, true, true
	}
	if !aIsFloat {
		af = float64(ai)
	}
	if !bIsFloat {
		bf = float64(bi)
	}
	return 0, 0, af, bf, false, true
}

func arith(intOp func(a, b int64) int64, floatOp func(a, b float64) float64) Func {
	return func(args []value.Value) (value.Value, error) {
		ai, bi, af, bf, bothInt, ok := numericPair(args[0], args[1])
		if !ok {
			return value.Value{}, ErrWrongType
		}
		if bothInt {
			return value.FromInt(intOp(ai, bi)), nil
		}
		return value.FromFloat(floatOp(af, bf)), nil
	}
}

func addInt(a, b int64) int64     { return a + b }
func addFloat(a, b float64) float64 { return a + b }
func subInt(a, b int64) int64     { return a - b }
func subFloat(a, b float64) float64 { return a - b }
func mulInt(a, b int64) int64     { return a * b }
func mulFloat(a, b float64) float64 { return a * b }
func modInt(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return a % b
}
func modFloat(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	result := a - b*float64(int64(a/b))
	return result
}

func divFn(args []value.Value) (value.Value, error) {
	ai, bi, af, bf, bothInt, ok := numericPair(args[0], args[1])
	if !ok {
		return value.Value{}, ErrWrongType
	}
	if bothInt {
		af, bf = float64(ai), float64(bi)
	}
	if bf == 0 {
		return value.Value{}, errors.New("division by zero")
	}
	return value.FromFloat(af / bf), nil
}

func negFn(args []value.Value) (value.Value, error) {
	if i, ok := args[0].Int(); ok {
		return value.FromInt(-i), nil
	}
	if f, ok := args[0].Float(); ok {
		return value.FromFloat(-f), nil
	}
	return value.Value{}, ErrWrongType
}

func eqFn(wantEqual bool) Func {
	return func(args []value.Value) (value.Value, error) {
		eq := args[0].Equal(args[1])
		return value.FromBool(eq == wantEqual), nil
	}
}

func cmpFn(satisfies func(cmp int) bool) Func {
	return func(args []value.Value) (value.Value, error) {
		ai, bi, af, bf, bothInt, ok := numericPair(args[0], args[1])
		if ok {
			if bothInt {
				af, bf = float64(ai), float64(bi)
			}
			return value.FromBool(satisfies(compareFloat(af, bf))), nil
		}
		aBytes, aOK := asBytes(args[0])
		bBytes, bOK := asBytes(args[1])
		if aOK && bOK {
			return value.FromBool(satisfies(strings.Compare(aBytes, bBytes))), nil
		}
		return value.Value{}, ErrWrongType
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func asBytes(v value.Value) (string, bool) {
	if v.Kind() != value.KindBytes {
		return "", false
	}
	return string(v.Bytes()), true
}

func andFn(args []value.Value) (value.Value, error) {
	return value.FromBool(args[0].IsTruthy() && args[1].IsTruthy()), nil
}

func orFn(args []value.Value) (value.Value, error) {
	return value.FromBool(args[0].IsTruthy() || args[1].IsTruthy()), nil
}

func notFn(args []value.Value) (value.Value, error) {
	return value.FromBool(args[0].IsFalsey()), nil
}

func stringFn(transform func(string) string) Func {
	return func(args []value.Value) (value.Value, error) {
		s, ok := asBytes(args[0])
		if !ok {
			return value.Value{}, ErrWrongType
		}
		return value.FromString(transform(s)), nil
	}
}

func concatFn(args []value.Value) (value.Value, error) {
	var sb strings.Builder
	for _, a := range args {
		sb.WriteString(a.String())
	}
	return value.FromString(sb.String()), nil
}

func lenFn(args []value.Value) (value.Value, error) {
	switch args[0].Kind() {
	case value.KindBytes:
		return value.FromInt(int64(len(args[0].Bytes()))), nil
	case value.KindList:
		list, err := args[0].IntoSharedList()
		if err != nil {
			return value.Value{}, err
		}
		return value.FromInt(int64(list.Len())), nil
	default:
		return value.Value{}, ErrWrongType
	}
}

func splitFn(args []value.Value) (value.Value, error) {
	s, ok := asBytes(args[0])
	if !ok {
		return value.Value{}, ErrWrongType
	}
	sep, ok := asBytes(args[1])
	if !ok {
		return value.Value{}, ErrWrongType
	}
	parts := strings.Split(s, sep)
	items := make([]value.Value, len(parts))
	for i, p := range parts {
		items[i] = value.FromString(p)
	}
	return value.FromList(items), nil
}
