package header

import "testing"

func TestFindByName(t *testing.T) {
	idx := New([]string{"a", "b", "c"})

	if i, ok := idx.Find(ByName{Name: "b"}); !ok || i != 1 {
		t.Errorf("Find(b) = %d, %v; want 1, true", i, ok)
	}
	if _, ok := idx.Find(ByName{Name: "missing"}); ok {
		t.Error("expected missing column to resolve to false")
	}
}

func TestFindByNameOccurrence(t *testing.T) {
	idx := New([]string{"a", "b", "a", "a"})

	if i, ok := idx.Find(ByNameOccurrence{Name: "a", Occurrence: 0}); !ok || i != 0 {
		t.Errorf("occurrence 0 = %d, %v; want 0, true", i, ok)
	}
	if i, ok := idx.Find(ByNameOccurrence{Name: "a", Occurrence: 2}); !ok || i != 3 {
		t.Errorf("occurrence 2 = %d, %v; want 3, true", i, ok)
	}
	if _, ok := idx.Find(ByNameOccurrence{Name: "a", Occurrence: 3}); ok {
		t.Error("expected out-of-range occurrence to resolve to false")
	}
}

func TestFindByPosition(t *testing.T) {
	idx := New([]string{"a", "b", "c"})

	cases := []struct {
		pos     int
		want    int
		wantOK  bool
	}{
		{0, 0, true},
		{2, 2, true},
		{3, 0, false},
		{-1, 2, true},
		{-3, 0, true},
		{-4, 0, false},
	}

	for _, c := range cases {
		got, ok := idx.Find(ByPosition{Position: c.pos})
		if ok != c.wantOK || (ok && got != c.want) {
			t.Errorf("Find(%d) = %d, %v; want %d, %v", c.pos, got, ok, c.want, c.wantOK)
		}
	}
}

func TestSynthetic(t *testing.T) {
	idx := NewSynthetic(3)
	if idx.Width() != 3 {
		t.Fatalf("expected width 3, got %d", idx.Width())
	}
	if i, ok := idx.Find(ByName{Name: "1"}); !ok || i != 1 {
		t.Errorf("Find(1) = %d, %v; want 1, true", i, ok)
	}
}
