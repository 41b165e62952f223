package engine

import (
	"testing"

	"github.com/tabexcli/tabex/pkg/header"
	"github.com/tabexcli/tabex/pkg/value"
)

func evalSrc(t *testing.T, src string, headers header.Index, record []string, rowIndex *int) (value.Value, *EvalError) {
	t.Helper()
	expr, err := Concretize(mustParse(t, src), headers)
	if err != nil {
		t.Fatalf("concretize(%q): %v", src, err)
	}
	ctx := NewContext(headers)
	return Evaluate(expr, rowIndex, record, ctx, nil)
}

func TestEvaluateColumnReadsCell(t *testing.T) {
	h := header.New([]string{"name", "age"})
	v, err := evalSrc(t, `col("age")`, h, []string{"Ada", "36"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i, _ := v.Int(); i != 36 {
		t.Errorf("col(age) = %v, want 36", v)
	}
}

func TestEvaluateIfShortCircuitsUnchosenBranch(t *testing.T) {
	h := header.New([]string{"a"})
	v, err := evalSrc(t, `if(true, 1, 1 / col("a"))`, h, []string{"0"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v — the false branch should never have been evaluated", err)
	}
	if i, _ := v.Int(); i != 1 {
		t.Errorf("if(true, 1, ...) = %v, want 1", v)
	}

	v, err = evalSrc(t, `if(false, 1 / col("a"), 2)`, h, []string{"0"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v — the true branch should never have been evaluated", err)
	}
	if i, _ := v.Int(); i != 2 {
		t.Errorf("if(false, ..., 2) = %v, want 2", v)
	}
}

func TestEvaluateUnlessInvertsCondition(t *testing.T) {
	h := header.New([]string{"a"})
	v, err := evalSrc(t, `unless(false, 7, 1 / col("a"))`, h, []string{"0"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i, _ := v.Int(); i != 7 {
		t.Errorf("unless(false, 7, ...) = %v, want 7", v)
	}
}

func TestEvaluateIfWithoutElseYieldsNone(t *testing.T) {
	h := header.New([]string{"a"})
	v, err := evalSrc(t, `if(false, 1)`, h, []string{"1"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != value.KindNone {
		t.Errorf("if(false, 1) = %v, want none", v)
	}
}

func TestEvaluateTryIsTotal(t *testing.T) {
	h := header.New([]string{"a"})
	v, err := evalSrc(t, `try(1 / 0)`, h, []string{"1"}, nil)
	if err != nil {
		t.Fatalf("try must swallow the error, got %v", err)
	}
	if v.Kind() != value.KindNone {
		t.Errorf("try(1/0) = %v, want none", v)
	}

	v, err = evalSrc(t, `try(1 + 1)`, h, []string{"1"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i, _ := v.Int(); i != 2 {
		t.Errorf("try(1+1) = %v, want 2", v)
	}
}

func TestEvaluateMapPreservesLength(t *testing.T) {
	h := header.New([]string{"a"})
	cases := []string{`[]`, `[1]`, `[1,2,3]`, `[1,2,3,4,5]`}
	for _, listSrc := range cases {
		v, err := evalSrc(t, `map(`+listSrc+`, x => x * 2)`, h, []string{"1"}, nil)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", listSrc, err)
		}
		list, lerr := v.IntoSharedList()
		if lerr != nil {
			t.Fatalf("expected a list result: %v", lerr)
		}
		srcLen, _ := evalSrc(t, listSrc, h, []string{"1"}, nil)
		srcList, _ := srcLen.IntoSharedList()
		if list.Len() != srcList.Len() {
			t.Errorf("map(%s).Len() = %d, want %d", listSrc, list.Len(), srcList.Len())
		}
	}
}

func TestEvaluateMapDoublesEachElement(t *testing.T) {
	h := header.New([]string{"a"})
	v, err := evalSrc(t, `map([1,2,3], x => x * 2)`, h, []string{"1"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, _ := v.IntoSharedList()
	want := []int64{2, 4, 6}
	for i, w := range want {
		if got, _ := list.Items()[i].Int(); got != w {
			t.Errorf("item %d = %d, want %d", i, got, w)
		}
	}
}

func TestEvaluateFilterKeepsOnlyTruthy(t *testing.T) {
	h := header.New([]string{"a"})
	v, err := evalSrc(t, `filter([1,2,3,4], x => x > 2)`, h, []string{"1"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, _ := v.IntoSharedList()
	if list.Len() != 2 {
		t.Fatalf("expected 2 survivors, got %d", list.Len())
	}
	if a, _ := list.Items()[0].Int(); a != 3 {
		t.Errorf("first survivor = %d, want 3", a)
	}
}

func TestEvaluateFilterNeverLengthensTheList(t *testing.T) {
	h := header.New([]string{"a"})
	v, err := evalSrc(t, `filter([1,2,3], x => true)`, h, []string{"1"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, _ := v.IntoSharedList()
	if list.Len() != 3 {
		t.Errorf("filter keeping everything should preserve length, got %d", list.Len())
	}
}

func TestEvaluateIndexReportsRowOffset(t *testing.T) {
	h := header.New([]string{"a"})
	row := 4
	v, err := evalSrc(t, `index()`, h, []string{"1"}, &row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i, _ := v.Int(); i != 4 {
		t.Errorf("index() = %v, want 4", v)
	}
}

func TestEvaluateIndexWithoutRowTrackingIsNone(t *testing.T) {
	h := header.New([]string{"a"})
	v, err := evalSrc(t, `index()`, h, []string{"1"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != value.KindNone {
		t.Errorf("index() with no row tracking = %v, want none", v)
	}
}

func TestEvaluateColQuestionMarkSwallowsRuntimeMiss(t *testing.T) {
	h := header.New([]string{"a", "b"})
	// Dynamic column reference: the name comes from the row itself, so the
	// concretizer can't fold it and must emit a runtime SpecialCallExpr.
	v, err := evalSrc(t, `col?(col("a"))`, h, []string{"missing", "x"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind() != value.KindNone {
		t.Errorf("col?(missing) = %v, want none", v)
	}
}

func TestEvaluateMapOverNonListFails(t *testing.T) {
	h := header.New([]string{"a"})
	_, err := evalSrc(t, `map(1, x => x)`, h, []string{"1"}, nil)
	if err == nil || err.Kind != EEKNotAList {
		t.Errorf("expected EEKNotAList, got %v", err)
	}
}
