// Package correlation computes pairwise correlation matrices over the
// numeric columns of a dataset and extracts the strongly correlated pairs.
package correlation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

// Matrix is a labelled square matrix of coefficients. Values[i][j] is the
// coefficient between Labels[i] and Labels[j]; NaN marks an undefined one.
type Matrix struct {
	Labels []string
	Values [][]float64
	index  map[string]int
}

// NewMatrix validates that values is len(labels) x len(labels) and that
// labels are unique.
func NewMatrix(labels []string, values [][]float64) (*Matrix, error) {
	m := &Matrix{Labels: labels, Values: values, index: make(map[string]int, len(labels))}
	for i, l := range labels {
		if _, dup := m.index[l]; dup {
			return nil, dataset.NewInvalidInput(l, "duplicate matrix label")
		}
		m.index[l] = i
	}
	if len(values) != len(labels) {
		return nil, dataset.NewInvalidInput("", "matrix has %d rows for %d labels", len(values), len(labels))
	}
	for i, row := range values {
		if len(row) != len(labels) {
			return nil, dataset.NewInvalidInput(labels[i], "matrix row has %d values, want %d", len(row), len(labels))
		}
	}
	return m, nil
}

// Len returns the number of labels.
func (m *Matrix) Len() int { return len(m.Labels) }

// At returns the coefficient between two labels.
func (m *Matrix) At(a, b string) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return math.NaN(), false
	}
	j, ok := m.index[b]
	if !ok {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}

// Symmetric reports whether Values[i][j] == Values[j][i] everywhere,
// treating two NaNs as equal.
func (m *Matrix) Symmetric() bool {
	for i := range m.Values {
		for j := i + 1; j < len(m.Values); j++ {
			a, b := m.Values[i][j], m.Values[j][i]
			if math.IsNaN(a) && math.IsNaN(b) {
				continue
			}
			if a != b {
				return false
			}
		}
	}
	return true
}

// Dense copies the coefficients into a gonum matrix.
func (m *Matrix) Dense() *mat.Dense {
	n := len(m.Labels)
	if n == 0 {
		return nil
	}
	d := mat.NewDense(n, n, nil)
	for i, row := range m.Values {
		d.SetRow(i, row)
	}
	return d
}

func (m *Matrix) String() string {
	return fmt.Sprintf("correlation matrix %dx%d %v", len(m.Labels), len(m.Labels), m.Labels)
}
