package value

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotAList is returned by IntoSharedList when the value is scalar.
var ErrNotAList = errors.New("value is not a list")

// Kind tags the variant currently held by a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindBytes
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is the tagged dynamic value carried through concretization and
// evaluation. The zero Value is None.
type Value struct {
	kind     Kind
	boolVal  bool
	intVal   int64
	floatVal float64
	bytesVal []byte
	listVal  *List
}

// List is a shared sequence of values. unique marks whether this List is
// known to have a single owner at the moment it was produced — set true by
// constructors that freshly allocate the backing slice (FromList, list
// literal evaluation), and left false once TakeItems has consumed it or
// Share has been called because a second place now holds the same List.
//
// Go's garbage collector already owns the memory; this bit exists purely to
// mirror the source's Arc<Vec<DynamicValue>> uniqueness probe so `map` can
// choose between moving and cloning with identical observable results
// either way (see TakeItems).
type List struct {
	items  []Value
	unique bool
}

// Items returns the list's elements without consuming or cloning them.
// Callers must not mutate the returned slice.
func (l *List) Items() []Value {
	return l.items
}

// Len returns the number of elements in the list.
func (l *List) Len() int {
	return len(l.items)
}

// Share marks the list as no longer uniquely owned, e.g. once a copy of the
// Value holding it has been bound to a second name.
func (l *List) Share() {
	l.unique = false
}

// TakeItems returns the backing slice directly when the list is uniquely
// owned (a move), or a fresh copy otherwise (a clone). The two paths are
// semantically identical to the caller; only allocation differs.
func (l *List) TakeItems() []Value {
	if l.unique {
		items := l.items
		l.items = nil
		l.unique = false
		return items
	}
	cloned := make([]Value, len(l.items))
	copy(cloned, l.items)
	return cloned
}

// None constructs the none value.
func None() Value { return Value{kind: KindNone} }

// FromBool constructs a boolean value.
func FromBool(b bool) Value { return Value{kind: KindBool, boolVal: b} }

// FromInt constructs an integer value.
func FromInt(i int64) Value { return Value{kind: KindInt, intVal: i} }

// FromFloat constructs a floating point value.
func FromFloat(f float64) Value { return Value{kind: KindFloat, floatVal: f} }

// FromBytes constructs a value from a CSV cell's raw bytes, applying the
// same permissive numeric coercion as ParseNumeric: a cell that looks like
// an integer or float is lifted to that kind, otherwise it stays bytes.
// This is the constructor col/col? use to turn a record cell into a Value.
func FromBytes(b []byte) Value {
	return ParseNumeric(b)
}

// FromString constructs a literal string value without numeric coercion —
// used for quoted string literals in parsed expressions and for string
// function results, where "42" must stay a string rather than silently
// becoming an integer.
func FromString(s string) Value {
	return Value{kind: KindBytes, bytesVal: []byte(s)}
}

// FromList constructs a freshly, uniquely owned list value.
func FromList(items []Value) Value {
	return Value{kind: KindList, listVal: &List{items: items, unique: true}}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind { return v.kind }

// IsTruthy implements the engine's truthiness rule: none is false, boolean
// passes through, numeric zero is false, empty string/list is false,
// everything else is true.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindNone:
		return false
	case KindBool:
		return v.boolVal
	case KindInt:
		return v.intVal != 0
	case KindFloat:
		return v.floatVal != 0
	case KindBytes:
		return len(v.bytesVal) != 0
	case KindList:
		return v.listVal != nil && len(v.listVal.items) != 0
	default:
		return false
	}
}

// IsFalsey is the negation of IsTruthy.
func (v Value) IsFalsey() bool { return !v.IsTruthy() }

// Bytes returns the raw bytes held by a KindBytes value, or nil otherwise.
func (v Value) Bytes() []byte {
	if v.kind != KindBytes {
		return nil
	}
	return v.bytesVal
}

// Int returns the integer held by a KindInt value and whether v held one.
func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.intVal, true
}

// Float returns the float held by a KindFloat value and whether v held one.
func (v Value) Float() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.floatVal, true
}

// Bool returns the bool held by a KindBool value and whether v held one.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.boolVal, true
}

// IntoSharedList coerces v into its backing List, failing with ErrNotAList
// when v is scalar.
func (v Value) IntoSharedList() (*List, error) {
	if v.kind != KindList {
		return nil, ErrNotAList
	}
	return v.listVal, nil
}

// ParseNumeric implements the engine's permissive numeric coercion: leading
// and trailing whitespace is trimmed, an empty string becomes none,
// otherwise integer parsing is tried first, then float, falling back to a
// plain string value.
func ParseNumeric(b []byte) Value {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "" {
		return None()
	}
	if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return FromInt(i)
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return FromFloat(f)
	}
	return FromString(trimmed)
}

// Equal implements structural equality, promoting int/float pairs to a
// common numeric comparison.
func (v Value) Equal(other Value) bool {
	switch {
	case v.kind == KindNone && other.kind == KindNone:
		return true
	case v.kind == KindBool && other.kind == KindBool:
		return v.boolVal == other.boolVal
	case isNumeric(v.kind) && isNumeric(other.kind):
		return asFloat(v) == asFloat(other)
	case v.kind == KindBytes && other.kind == KindBytes:
		return string(v.bytesVal) == string(other.bytesVal)
	case v.kind == KindList && other.kind == KindList:
		return listsEqual(v.listVal, other.listVal)
	default:
		return false
	}
}

func isNumeric(k Kind) bool { return k == KindInt || k == KindFloat }

func asFloat(v Value) float64 {
	if v.kind == KindInt {
		return float64(v.intVal)
	}
	return v.floatVal
}

func listsEqual(a, b *List) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.items) != len(b.items) {
		return false
	}
	for i := range a.items {
		if !a.items[i].Equal(b.items[i]) {
			return false
		}
	}
	return true
}

// String renders v the way the driver writes it into an output cell: empty
// for none, "true"/"false" for bool, decimal for numbers, the raw bytes for
// strings, and a bracketed comma-joined list for lists (e.g. "[2,4,6]").
func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return ""
	case KindBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.intVal, 10)
	case KindFloat:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 64)
	case KindBytes:
		return string(v.bytesVal)
	case KindList:
		parts := make([]string, len(v.listVal.items))
		for i, item := range v.listVal.items {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return ""
	}
}
