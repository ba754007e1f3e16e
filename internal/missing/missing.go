// Package missing measures how much of a dataset is absent, per column and
// per row, and selects the columns and rows that exceed a percentage
// threshold.
package missing

import (
	"github.com/KaramelBytes/edakit/internal/dataset"
)

// Report maps each column to the percentage (0-100) of its rows that are
// missing. Columns keeps dataset order for deterministic iteration.
type Report struct {
	Columns []string
	Percent map[string]float64
}

// Above returns the columns whose percentage is strictly greater than
// threshold, in report order.
func (r Report) Above(threshold float64) []string {
	var out []string
	for _, c := range r.Columns {
		if r.Percent[c] > threshold {
			out = append(out, c)
		}
	}
	return out
}

// NonZero returns the columns with at least one missing cell.
func (r Report) NonZero() []string { return r.Above(0) }

// ColumnMissingness computes 100 * missing / rows for every column.
func ColumnMissingness(ds *dataset.Dataset) (Report, error) {
	if ds.Rows() == 0 || ds.Cols() == 0 {
		return Report{}, dataset.ErrDegenerate
	}
	rep := Report{Columns: ds.Names(), Percent: make(map[string]float64, ds.Cols())}
	n := float64(ds.Rows())
	for i := 0; i < ds.Cols(); i++ {
		c := ds.ColumnAt(i)
		rep.Percent[c.Name] = 100 * float64(c.MissingCount()) / n
	}
	return rep, nil
}

// ColumnsAboveThreshold returns the columns with more than threshold percent
// missing, along with the full report they were selected from.
func ColumnsAboveThreshold(ds *dataset.Dataset, threshold float64) ([]string, Report, error) {
	rep, err := ColumnMissingness(ds)
	if err != nil {
		return nil, Report{}, err
	}
	return rep.Above(threshold), rep, nil
}

// RowMissingness computes 100 * missing in row / columns for every row.
func RowMissingness(ds *dataset.Dataset) ([]float64, error) {
	if ds.Rows() == 0 || ds.Cols() == 0 {
		return nil, dataset.ErrDegenerate
	}
	counts := make([]int, ds.Rows())
	for j := 0; j < ds.Cols(); j++ {
		for i, cell := range ds.ColumnAt(j).Cells {
			if cell.Missing {
				counts[i]++
			}
		}
	}
	m := float64(ds.Cols())
	out := make([]float64, len(counts))
	for i, k := range counts {
		out[i] = 100 * float64(k) / m
	}
	return out, nil
}

// RowsAboveOrEqualThreshold returns the ascending indexes of rows with at
// least threshold percent missing. Rows use >= where columns use >.
func RowsAboveOrEqualThreshold(ds *dataset.Dataset, threshold float64) ([]int, error) {
	pct, err := RowMissingness(ds)
	if err != nil {
		return nil, err
	}
	out := []int{}
	for i, p := range pct {
		if p >= threshold {
			out = append(out, i)
		}
	}
	return out, nil
}
