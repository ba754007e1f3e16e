package correlation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

// Method selects the correlation coefficient.
type Method string

const (
	Pearson  Method = "pearson"
	Spearman Method = "spearman"
)

// ParseMethod accepts "pearson" or "spearman" in any case. Empty means Pearson.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", Pearson:
		return Pearson, nil
	case Spearman:
		return Spearman, nil
	}
	return "", fmt.Errorf("unknown correlation method %q: %w", s, dataset.ErrInvalidInput)
}

// Compute correlates every pair of numeric columns of ds, skipping
// categorical columns. Each coefficient uses only the rows where both cells
// are present; fewer than two such rows or zero variance yields NaN.
func Compute(ds *dataset.Dataset, method Method) (*Matrix, error) {
	return compute(ds, ds.NumericNames(), method)
}

// ComputeStrict is Compute but fails on the first categorical column.
func ComputeStrict(ds *dataset.Dataset, method Method) (*Matrix, error) {
	for _, name := range ds.Names() {
		c, _ := ds.Column(name)
		if c.Kind() == dataset.Categorical {
			return nil, dataset.NewInvalidInput(name, "non-numeric column")
		}
	}
	return compute(ds, ds.Names(), method)
}

func compute(ds *dataset.Dataset, names []string, method Method) (*Matrix, error) {
	if method == "" {
		method = Pearson
	}
	if method != Pearson && method != Spearman {
		return nil, fmt.Errorf("compute correlation: unknown method %q: %w", method, dataset.ErrInvalidInput)
	}
	cols := make([][]float64, len(names))
	for i, n := range names {
		v, err := ds.Numeric(n)
		if err != nil {
			return nil, fmt.Errorf("compute correlation: %w", err)
		}
		cols[i] = v
	}
	n := len(names)
	vals := make([][]float64, n)
	for i := range vals {
		vals[i] = make([]float64, n)
		vals[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := pairwise(cols[i], cols[j], method)
			vals[i][j] = r
			vals[j][i] = r
		}
	}
	return NewMatrix(append([]string(nil), names...), vals)
}

// pairwise correlates x and y over the rows where both are present.
func pairwise(x, y []float64, method Method) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if method == Spearman {
		xs, ys = rank(xs), rank(ys)
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// rank assigns 1-based ranks, averaging ties.
func rank(v []float64) []float64 {
	idx := make([]int, len(v))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return v[idx[a]] < v[idx[b]] })
	out := make([]float64, len(v))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && v[idx[j+1]] == v[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[idx[k]] = avg
		}
		i = j + 1
	}
	return out
}
