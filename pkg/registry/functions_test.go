package registry

import (
	"testing"

	"github.com/tabexcli/tabex/pkg/value"
)

func TestArithmetic(t *testing.T) {
	entry, ok := Lookup("+")
	if !ok {
		t.Fatal("expected + to be registered")
	}
	got, err := entry.Fn([]value.Value{value.FromInt(1), value.FromInt(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i, _ := got.Int(); i != 3 {
		t.Errorf("1 + 2 = %v, want 3", got)
	}

	got, err = entry.Fn([]value.Value{value.FromInt(1), value.FromFloat(2.5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f, _ := got.Float(); f != 3.5 {
		t.Errorf("1 + 2.5 = %v, want 3.5", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	entry, _ := Lookup("/")
	_, err := entry.Fn([]value.Value{value.FromInt(1), value.FromInt(0)})
	if err == nil {
		t.Fatal("expected division by zero error")
	}
}

func TestComparisonAndEquality(t *testing.T) {
	gt, _ := Lookup(">")
	got, err := gt.Fn([]value.Value{value.FromInt(2), value.FromInt(1)})
	if err != nil || !got.IsTruthy() {
		t.Errorf("2 > 1 should be true, got %v, err %v", got, err)
	}

	eq, _ := Lookup("==")
	got, err = eq.Fn([]value.Value{value.FromInt(1), value.FromFloat(1.0)})
	if err != nil || !got.IsTruthy() {
		t.Errorf("1 == 1.0 should be true, got %v, err %v", got, err)
	}
}

func TestArityValidation(t *testing.T) {
	if err := Exactly(2).Validate(2); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if err := Exactly(2).Validate(1); err == nil {
		t.Error("expected arity error")
	}
	if err := AtLeast(1).Validate(5); err != nil {
		t.Errorf("expected no error for AtLeast, got %v", err)
	}
}

func TestStringFunctions(t *testing.T) {
	upper, _ := Lookup("upper")
	got, err := upper.Fn([]value.Value{value.FromString("hello")})
	if err != nil || got.String() != "HELLO" {
		t.Errorf("upper(hello) = %v, err %v", got, err)
	}
}
