package missing

import (
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

var nan = math.NaN()

func sample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		dataset.NumericColumn("full", 1, 2, 3, 4),
		dataset.NumericColumn("empty", nan, nan, nan, nan),
		dataset.NumericColumn("half", 1, nan, 3, nan),
		dataset.NewColumn("cat", dataset.Str("a"), dataset.Null(), dataset.Str("b"), dataset.Str("c")),
	)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func TestColumnMissingness(t *testing.T) {
	rep, err := ColumnMissingness(sample(t))
	if err != nil {
		t.Fatalf("ColumnMissingness: %v", err)
	}
	want := map[string]float64{"full": 0, "empty": 100, "half": 50, "cat": 25}
	for k, v := range want {
		if rep.Percent[k] != v {
			t.Errorf("%s = %v, want %v", k, rep.Percent[k], v)
		}
	}
	for _, p := range rep.Percent {
		if p < 0 || p > 100 {
			t.Fatalf("percent out of range: %v", p)
		}
	}
	if len(rep.Columns) != 4 || rep.Columns[1] != "empty" {
		t.Fatalf("columns = %#v", rep.Columns)
	}
}

func TestColumnsAboveThresholdIsStrict(t *testing.T) {
	ds := sample(t)
	cols, rep, err := ColumnsAboveThreshold(ds, 20)
	if err != nil {
		t.Fatalf("ColumnsAboveThreshold: %v", err)
	}
	if want := []string{"empty", "half", "cat"}; !equal(cols, want) {
		t.Fatalf("cols = %#v, want %#v", cols, want)
	}
	if len(rep.Percent) != 4 {
		t.Fatalf("report should cover every column, got %d", len(rep.Percent))
	}
	cols, _, _ = ColumnsAboveThreshold(ds, 50)
	if want := []string{"empty"}; !equal(cols, want) {
		t.Fatalf("cols at 50 = %#v, want %#v", cols, want)
	}
	if got := rep.NonZero(); len(got) != 3 {
		t.Fatalf("NonZero = %#v", got)
	}
}

func TestRowMissingness(t *testing.T) {
	pct, err := RowMissingness(sample(t))
	if err != nil {
		t.Fatalf("RowMissingness: %v", err)
	}
	want := []float64{25, 75, 25, 50}
	for i := range want {
		if pct[i] != want[i] {
			t.Fatalf("row %d = %v, want %v", i, pct[i], want[i])
		}
	}
}

func TestRowsAboveOrEqualThreshold(t *testing.T) {
	ds := sample(t)
	rows, err := RowsAboveOrEqualThreshold(ds, 50)
	if err != nil {
		t.Fatalf("RowsAboveOrEqualThreshold: %v", err)
	}
	if len(rows) != 2 || rows[0] != 1 || rows[1] != 3 {
		t.Fatalf("rows = %v, want [1 3]", rows)
	}
	all, _ := RowsAboveOrEqualThreshold(ds, 0)
	if len(all) != ds.Rows() {
		t.Fatalf("threshold 0 should select every row, got %v", all)
	}
	none, _ := RowsAboveOrEqualThreshold(ds, 100)
	if len(none) != 0 {
		t.Fatalf("threshold 100 = %v, want none", none)
	}
}

func TestDegenerateDataset(t *testing.T) {
	empty, _ := dataset.New()
	if _, err := ColumnMissingness(empty); !errors.Is(err, dataset.ErrDegenerate) {
		t.Fatalf("no columns err = %v", err)
	}
	noRows, _ := dataset.New(dataset.NumericColumn("a"))
	if _, _, err := ColumnsAboveThreshold(noRows, 20); !errors.Is(err, dataset.ErrDegenerate) {
		t.Fatalf("no rows err = %v", err)
	}
	if _, err := RowsAboveOrEqualThreshold(empty, 0); !errors.Is(err, dataset.ErrDegenerate) {
		t.Fatalf("rows err = %v", err)
	}
}

func TestAuditorLogsCounts(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a := NewAuditor(zap.New(core))
	ds := sample(t)

	if _, _, err := a.Columns(ds, 20); err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if _, err := a.Rows(ds, 50); err != nil {
		t.Fatalf("Rows: %v", err)
	}
	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if got := entries[0].ContextMap()["summary"]; got != "found 3 columns on 4" {
		t.Fatalf("column summary = %v", got)
	}
	if got := entries[1].ContextMap()["summary"]; got != "found 2 rows on 4" {
		t.Fatalf("row summary = %v", got)
	}
}

func TestNilAuditorIsSilent(t *testing.T) {
	var a *Auditor
	cols, _, err := a.Columns(sample(t), 20)
	if err != nil || len(cols) != 3 {
		t.Fatalf("nil auditor = %v, %v", cols, err)
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
