// Package independence tests whether categorical variables are independent
// of a binary target using Pearson's chi-square statistic.
package independence

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

// Result is the outcome of a contingency-table test.
type Result struct {
	Chi2     float64     `json:"chi2"`
	P        float64     `json:"p"`
	DOF      int         `json:"dof"`
	Expected [][]float64 `json:"expected"`
}

// ChiSquare tests independence of the rows and columns of an observed
// frequency table. With one degree of freedom Yates' continuity correction
// is applied. A table with zero degrees of freedom yields chi2 0 and p 1.
func ChiSquare(observed [][]float64) (Result, error) {
	if len(observed) == 0 || len(observed[0]) == 0 {
		return Result{}, dataset.NewInvalidInput("", "empty contingency table")
	}
	r, c := len(observed), len(observed[0])
	rowSum := make([]float64, r)
	colSum := make([]float64, c)
	total := 0.0
	for i, row := range observed {
		if len(row) != c {
			return Result{}, dataset.NewInvalidInput("", "contingency row %d has %d cells, want %d", i, len(row), c)
		}
		for j, v := range row {
			if v < 0 || math.IsNaN(v) {
				return Result{}, dataset.NewInvalidInput("", "invalid frequency %v at (%d,%d)", v, i, j)
			}
			rowSum[i] += v
			colSum[j] += v
			total += v
		}
	}
	expected := make([][]float64, r)
	for i := range expected {
		expected[i] = make([]float64, c)
		for j := range expected[i] {
			expected[i][j] = rowSum[i] * colSum[j] / total
			if expected[i][j] == 0 {
				return Result{}, dataset.NewInvalidInput("", "zero expected frequency at (%d,%d)", i, j)
			}
		}
	}
	dof := (r - 1) * (c - 1)
	res := Result{DOF: dof, Expected: expected}
	if dof == 0 {
		res.P = 1
		return res, nil
	}
	for i := range observed {
		for j, o := range observed[i] {
			e := expected[i][j]
			d := o - e
			if dof == 1 {
				// Shrink each deviation by 0.5 towards zero, never past it.
				ad := math.Min(0.5, math.Abs(d))
				d -= math.Copysign(ad, d)
			}
			res.Chi2 += d * d / e
		}
	}
	res.P = distuv.ChiSquared{K: float64(dof)}.Survival(res.Chi2)
	return res, nil
}

// ColumnResult is the test of one column against the target.
type ColumnResult struct {
	Column string `json:"column"`
	Result
	// Values lists the contingency columns in order.
	Values []string `json:"values"`
	// Skipped explains why a column could not be tested; P is then NaN.
	Skipped string `json:"skipped,omitempty"`
}

// AgainstTarget builds, for every column of ds, the table of target class
// (rows 0 and 1) by column value and tests it. Missing cells are skipped;
// value combinations that never occur count as zero. Columns whose table
// cannot be tested, such as an all-missing column, are reported as Skipped.
func AgainstTarget(ds *dataset.Dataset, target []int) ([]ColumnResult, error) {
	if len(target) != ds.Rows() {
		return nil, dataset.NewInvalidInput("target", "has %d labels for %d rows", len(target), ds.Rows())
	}
	for i, t := range target {
		if t != 0 && t != 1 {
			return nil, dataset.NewInvalidInput("target", "label %d at row %d is not 0 or 1", t, i)
		}
	}
	out := make([]ColumnResult, 0, ds.Cols())
	for j := 0; j < ds.Cols(); j++ {
		col := ds.ColumnAt(j)
		obs, values := contingency(col, target)
		cr := ColumnResult{Column: col.Name, Values: values}
		res, err := ChiSquare(obs)
		if err != nil {
			cr.Result = Result{Chi2: math.NaN(), P: math.NaN()}
			cr.Skipped = err.Error()
		} else {
			cr.Result = res
		}
		out = append(out, cr)
	}
	return out, nil
}

func contingency(col dataset.Column, target []int) ([][]float64, []string) {
	counts := map[string][2]float64{}
	for i, cell := range col.Cells {
		if cell.Missing {
			continue
		}
		k := cell.Key()
		c := counts[k]
		c[target[i]]++
		counts[k] = c
	}
	values := make([]string, 0, len(counts))
	for k := range counts {
		values = append(values, k)
	}
	sort.Strings(values)
	obs := [][]float64{make([]float64, len(values)), make([]float64, len(values))}
	for j, v := range values {
		obs[0][j] = counts[v][0]
		obs[1][j] = counts[v][1]
	}
	return obs, values
}
