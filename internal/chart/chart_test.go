package chart

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/edakit/internal/correlation"
	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/evaluate"
	"github.com/KaramelBytes/edakit/internal/missing"
)

func assertFile(t *testing.T, path string) {
	t.Helper()
	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if st.Size() == 0 {
		t.Fatalf("%s is empty", path)
	}
}

func sampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	nan := math.NaN()
	ds, err := dataset.New(
		dataset.NumericColumn("a", 1, 2, nan, 4, 5),
		dataset.NumericColumn("b", 2, 1, 4, 3, 6),
		dataset.NumericColumn("c", nan, nan, 1, 7, nan),
	)
	if err != nil {
		t.Fatalf("dataset.New: %v", err)
	}
	return ds
}

func TestMissingCharts(t *testing.T) {
	ds := sampleDataset(t)
	dir := t.TempDir()
	rep, err := missing.ColumnMissingness(ds)
	if err != nil {
		t.Fatalf("ColumnMissingness: %v", err)
	}
	for _, name := range []string{"cols.png", "cols.svg"} {
		path := filepath.Join(dir, name)
		if err := MissingColumns(rep, path); err != nil {
			t.Fatalf("MissingColumns %s: %v", name, err)
		}
		assertFile(t, path)
	}
	rows, _ := missing.RowMissingness(ds)
	path := filepath.Join(dir, "rows.png")
	if err := MissingRows(rows, path); err != nil {
		t.Fatalf("MissingRows: %v", err)
	}
	assertFile(t, path)
}

func TestMissingColumnsNoMissingData(t *testing.T) {
	ds, _ := dataset.New(dataset.NumericColumn("a", 1, 2))
	rep, _ := missing.ColumnMissingness(ds)
	path := filepath.Join(t.TempDir(), "none.png")
	if err := MissingColumns(rep, path); err != nil {
		t.Fatalf("MissingColumns: %v", err)
	}
	assertFile(t, path)
}

func TestCorrelationHeatmap(t *testing.T) {
	m, err := correlation.Compute(sampleDataset(t), correlation.Pearson)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	path := filepath.Join(t.TempDir(), "corr.png")
	if err := CorrelationHeatmap(m, path); err != nil {
		t.Fatalf("CorrelationHeatmap: %v", err)
	}
	assertFile(t, path)
}

func TestVarianceAndCurveCharts(t *testing.T) {
	dir := t.TempDir()
	ev := filepath.Join(dir, "pca.png")
	if err := ExplainedVariance([]float64{60, 90, 100}, ev); err != nil {
		t.Fatalf("ExplainedVariance: %v", err)
	}
	assertFile(t, ev)
	elbow := filepath.Join(dir, "elbow.png")
	if err := Elbow([]int{1, 2, 3}, []float64{120, 8, 5.5}, elbow); err != nil {
		t.Fatalf("Elbow: %v", err)
	}
	assertFile(t, elbow)

	y := []int{0, 0, 1, 1}
	s := []float64{0.1, 0.4, 0.35, 0.8}
	roc, _ := evaluate.ROC(y, s)
	pr, _ := evaluate.PrecisionRecall(y, s)
	rocPath := filepath.Join(dir, "roc.svg")
	if err := ROC([]Named{{Name: "m", Score: evaluate.AUC(roc), Curve: roc}}, rocPath); err != nil {
		t.Fatalf("ROC: %v", err)
	}
	assertFile(t, rocPath)
	prPath := filepath.Join(dir, "pr.png")
	if err := PrecisionRecall([]Named{{Name: "m", Score: 0.83, Curve: pr}}, prPath); err != nil {
		t.Fatalf("PrecisionRecall: %v", err)
	}
	assertFile(t, prPath)
}

func TestChartErrors(t *testing.T) {
	dir := t.TempDir()
	if err := ExplainedVariance(nil, filepath.Join(dir, "x.png")); err == nil {
		t.Fatal("expected error for empty variance")
	}
	if err := Elbow([]int{1, 2}, []float64{3}, filepath.Join(dir, "x.png")); err == nil {
		t.Fatal("expected error for mismatched elbow input")
	}
	if err := ROC(nil, filepath.Join(dir, "x.png")); err == nil {
		t.Fatal("expected error for no curves")
	}
	if err := MissingRows([]float64{1, 2}, filepath.Join(dir, "x.unknown")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
