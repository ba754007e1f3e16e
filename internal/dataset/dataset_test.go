package dataset

import (
	"errors"
	"math"
	"testing"
)

func TestNewValidates(t *testing.T) {
	_, err := New(NumericColumn("a", 1, 2), NumericColumn("a", 3, 4))
	var inv *InvalidInputError
	if !errors.As(err, &inv) || inv.Column != "a" {
		t.Fatalf("duplicate name err = %v", err)
	}
	_, err = New(NumericColumn("a", 1, 2), NumericColumn("b", 3))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("length mismatch err = %v", err)
	}
}

func TestNumCellNaNIsMissing(t *testing.T) {
	c := NumericColumn("x", 1, math.NaN(), 3)
	if c.MissingCount() != 1 {
		t.Fatalf("missing = %d, want 1", c.MissingCount())
	}
	if c.Kind() != Numeric {
		t.Fatalf("kind = %s", c.Kind())
	}
	all := NewColumn("y", Null(), Null())
	if all.Kind() != Numeric {
		t.Fatalf("all-missing kind = %s, want numeric", all.Kind())
	}
}

func TestFloatsRejectsCategorical(t *testing.T) {
	c := NewColumn("c", Num(1), Str("x"))
	_, err := c.Floats()
	var inv *InvalidInputError
	if !errors.As(err, &inv) || inv.Column != "c" {
		t.Fatalf("Floats err = %v", err)
	}
}

func TestNumericMatrix(t *testing.T) {
	ds, err := New(NumericColumn("a", 1, 2, 3), StringColumn("s", "x", "y", "z"), NumericColumn("b", 4, math.NaN(), 6))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m, err := ds.NumericMatrix(ds.NumericNames())
	if err != nil {
		t.Fatalf("NumericMatrix: %v", err)
	}
	r, c := m.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("dims = %dx%d", r, c)
	}
	if m.At(2, 1) != 6 || !math.IsNaN(m.At(1, 1)) {
		t.Fatalf("unexpected matrix values")
	}
	if _, err := ds.NumericMatrix([]string{"s"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("categorical matrix err = %v", err)
	}
	empty, _ := New()
	if _, err := empty.NumericMatrix(nil); !errors.Is(err, ErrDegenerate) {
		t.Fatalf("empty matrix err = %v", err)
	}
}

func TestSelectTakeDrop(t *testing.T) {
	ds, _ := New(NumericColumn("a", 1, math.NaN(), 3, 4), NumericColumn("b", 5, 6, math.NaN(), 8))
	sel, err := ds.Select("b")
	if err != nil || !equalStrings(sel.Names(), []string{"b"}) {
		t.Fatalf("Select = %v, %v", sel, err)
	}
	if _, err := ds.Select("zzz"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Select unknown err = %v", err)
	}
	if got := ds.DropIncomplete().Rows(); got != 2 {
		t.Fatalf("DropIncomplete rows = %d, want 2", got)
	}
	dropped := ds.DropRows([]int{0, 3, 99})
	if dropped.Rows() != 2 || dropped.Cell(0, 1).Num != 6 {
		t.Fatalf("DropRows = %d rows", dropped.Rows())
	}
	if _, err := ds.Take([]int{7}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Take out of range err = %v", err)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
