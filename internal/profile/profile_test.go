package profile

import (
	"errors"
	"math"
	"testing"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

func sample(t *testing.T) *dataset.Dataset {
	t.Helper()
	nan := math.NaN()
	ds, err := dataset.New(
		dataset.NumericColumn("code", 0, 1, 2, 1, 0, nan),
		dataset.NumericColumn("amount", 10, 20, 30, 40, 50, 60),
		dataset.NumericColumn("small", -2, 1, 0.5, nan, 1, 2),
		dataset.StringColumn("city", "Rome", "Oslo", "Rome", "Lima", "Oslo", "Rome"),
	)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func TestCategoricalColumns(t *testing.T) {
	card := CategoricalColumns(sample(t), 4)
	if !equal(card.Categorical, []string{"code", "city"}) {
		t.Fatalf("categorical = %#v", card.Categorical)
	}
	if card.CategoricalCount[0] != 3 || card.CategoricalCount[1] != 3 {
		t.Fatalf("categorical counts = %v", card.CategoricalCount)
	}
	if !equal(card.Other, []string{"amount", "small"}) || card.OtherCount[0] != 6 || card.OtherCount[1] != 4 {
		t.Fatalf("other = %#v %v", card.Other, card.OtherCount)
	}
}

func TestStringColumns(t *testing.T) {
	if got := StringColumns(sample(t)); !equal(got, []string{"city"}) {
		t.Fatalf("string columns = %#v", got)
	}
}

func TestLargeMeanColumns(t *testing.T) {
	cols, means := LargeMeanColumns(sample(t), 5)
	if !equal(cols, []string{"amount"}) {
		t.Fatalf("large = %#v", cols)
	}
	if means["amount"] != 35 || means["code"] != 0.8 {
		t.Fatalf("means = %v", means)
	}
	if _, ok := means["city"]; ok {
		t.Fatal("categorical column should have no mean")
	}
}

func TestFindValue(t *testing.T) {
	ds := sample(t)
	if got := FindValue(ds, "Oslo"); !equal(got, []string{"city"}) {
		t.Fatalf("FindValue Oslo = %#v", got)
	}
	if got := FindValue(ds, "1"); !equal(got, []string{"code", "small"}) {
		t.Fatalf("FindValue 1 = %#v", got)
	}
	if got := FindValue(ds, "Paris"); len(got) != 0 {
		t.Fatalf("FindValue Paris = %#v", got)
	}
}

func TestNormalizeMaxAbs(t *testing.T) {
	ds := sample(t)
	num, _ := ds.Select("amount", "small")
	zero, _ := dataset.New(dataset.NumericColumn("z", 0, 0))
	out, err := NormalizeMaxAbs(num)
	if err != nil {
		t.Fatalf("NormalizeMaxAbs: %v", err)
	}
	amount, _ := out.Numeric("amount")
	if amount[0] != 10.0/60 || amount[5] != 1 {
		t.Fatalf("amount = %v", amount)
	}
	small, _ := out.Numeric("small")
	if small[0] != -1 || !math.IsNaN(small[3]) || small[5] != 1 {
		t.Fatalf("small = %v", small)
	}
	z, err := NormalizeMaxAbs(zero)
	if err != nil {
		t.Fatalf("zero column: %v", err)
	}
	if v, _ := z.Numeric("z"); v[0] != 0 {
		t.Fatalf("zero column = %v", v)
	}
	if _, err := NormalizeMaxAbs(ds); !errors.Is(err, dataset.ErrInvalidInput) {
		t.Fatalf("categorical err = %v", err)
	}
}

func TestTopValues(t *testing.T) {
	c, _ := sample(t).Column("city")
	top := TopValues(c, 2)
	if len(top) != 2 || top[0] != (ValueCount{"Rome", 3}) || top[1] != (ValueCount{"Oslo", 2}) {
		t.Fatalf("top = %#v", top)
	}
}

func equal(a, b []string) bool {
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
