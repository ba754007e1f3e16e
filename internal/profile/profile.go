// Package profile classifies dataset columns by cardinality, type and
// magnitude, and rescales numeric columns.
package profile

import (
	"math"
	"sort"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

// Cardinality splits columns into low-cardinality ("categorical") ones and
// the rest, with the distinct non-missing value count of each.
type Cardinality struct {
	Categorical      []string
	CategoricalCount []int
	Other            []string
	OtherCount       []int
}

// CategoricalColumns puts a column in Categorical when it has fewer than
// threshold distinct non-missing values. Numeric codes such as 0/1/2 count
// as categorical.
func CategoricalColumns(ds *dataset.Dataset, threshold int) Cardinality {
	var out Cardinality
	for i := 0; i < ds.Cols(); i++ {
		c := ds.ColumnAt(i)
		n := Distinct(c)
		if n < threshold {
			out.Categorical = append(out.Categorical, c.Name)
			out.CategoricalCount = append(out.CategoricalCount, n)
		} else {
			out.Other = append(out.Other, c.Name)
			out.OtherCount = append(out.OtherCount, n)
		}
	}
	return out
}

// Distinct counts distinct non-missing values in c.
func Distinct(c dataset.Column) int {
	seen := map[string]struct{}{}
	for _, cell := range c.Cells {
		if cell.Missing {
			continue
		}
		seen[cell.Key()] = struct{}{}
	}
	return len(seen)
}

// StringColumns returns the non-numeric columns sorted by name.
func StringColumns(ds *dataset.Dataset) []string {
	return ds.CategoricalNames()
}

// LargeMeanColumns returns the numeric columns whose mean, skipping missing
// cells, is strictly greater than threshold, with every numeric mean.
// Columns with no present values have a NaN mean and are never selected.
func LargeMeanColumns(ds *dataset.Dataset, threshold float64) ([]string, map[string]float64) {
	means := map[string]float64{}
	var out []string
	for _, name := range ds.NumericNames() {
		vals, _ := ds.Numeric(name)
		m := nanMean(vals)
		means[name] = m
		if m > threshold {
			out = append(out, name)
		}
	}
	return out, means
}

func nanMean(vals []float64) float64 {
	var sum float64
	n := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// FindValue returns, in dataset order, the columns holding at least one
// cell whose text equals needle. Numeric cells compare by their raw text.
func FindValue(ds *dataset.Dataset, needle string) []string {
	var out []string
	for i := 0; i < ds.Cols(); i++ {
		c := ds.ColumnAt(i)
		for _, cell := range c.Cells {
			if !cell.Missing && (cell.Str == needle || cell.Key() == needle) {
				out = append(out, c.Name)
				break
			}
		}
	}
	return out
}

// NormalizeMaxAbs divides every column by its maximum absolute value so
// values fall in [-1, 1]. All-zero columns are left unchanged and missing
// cells stay missing. Categorical columns are rejected.
func NormalizeMaxAbs(ds *dataset.Dataset) (*dataset.Dataset, error) {
	cols := make([]dataset.Column, ds.Cols())
	for i := 0; i < ds.Cols(); i++ {
		c := ds.ColumnAt(i)
		vals, err := c.Floats()
		if err != nil {
			return nil, err
		}
		scale := 0.0
		for _, v := range vals {
			if a := math.Abs(v); !math.IsNaN(v) && a > scale {
				scale = a
			}
		}
		if scale == 0 {
			scale = 1
		}
		for j := range vals {
			vals[j] /= scale
		}
		cols[i] = dataset.NumericColumn(c.Name, vals...)
	}
	return dataset.New(cols...)
}

// TopValues returns up to k (value, count) entries of c ordered by count
// descending then value.
func TopValues(c dataset.Column, k int) []ValueCount {
	counts := map[string]int{}
	for _, cell := range c.Cells {
		if !cell.Missing {
			counts[cell.Key()]++
		}
	}
	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// ValueCount is one entry of TopValues.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}
