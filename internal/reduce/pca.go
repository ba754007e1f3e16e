// Package reduce runs principal component analysis over the numeric
// columns of a dataset.
package reduce

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/edakit/internal/dataset"
)

// Options controls the rows PCA is fitted on.
type Options struct {
	// Frac samples this fraction of rows without replacement; values outside
	// (0, 1) mean every row.
	Frac float64
	Seed int64
	// FillNA replaces missing cells with FillValue instead of dropping the
	// rows that hold them.
	FillNA    bool
	FillValue float64
}

// PCA is a fitted decomposition.
type PCA struct {
	Labels []string
	// Vars are the component variances, largest first.
	Vars []float64
	// Vectors holds one loading vector per column, len(Labels) x len(Vars).
	Vectors *mat.Dense
	means   []float64
}

// Ratio returns each component's share of the total variance.
func (p *PCA) Ratio() []float64 {
	total := 0.0
	for _, v := range p.Vars {
		total += v
	}
	out := make([]float64, len(p.Vars))
	for i, v := range p.Vars {
		if total > 0 {
			out[i] = v / total
		}
	}
	return out
}

// Cumulative returns the running percentage (0-100) of explained variance.
func (p *PCA) Cumulative() []float64 {
	ratio := p.Ratio()
	out := make([]float64, len(ratio))
	acc := 0.0
	for i, r := range ratio {
		acc += r
		out[i] = 100 * acc
	}
	return out
}

// Fit selects rows per opt and decomposes the numeric columns of ds.
// Categorical columns are ignored.
func Fit(ds *dataset.Dataset, opt Options) (*PCA, error) {
	x, names, err := Matrix(ds, opt)
	if err != nil {
		return nil, fmt.Errorf("fit pca: %w", err)
	}
	r, _ := x.Dims()
	if r < 2 {
		return nil, fmt.Errorf("fit pca: %d usable rows: %w", r, dataset.ErrDegenerate)
	}
	var pc stat.PC
	if !pc.PrincipalComponents(x, nil) {
		return nil, fmt.Errorf("fit pca: decomposition failed")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	return &PCA{Labels: names, Vars: pc.VarsTo(nil), Vectors: &vecs, means: colMeans(x)}, nil
}

// Matrix packs the numeric columns of ds, in order, after the row sampling
// and missing-value handling of opt. It is the input both PCA and k-means
// fit on.
func Matrix(ds *dataset.Dataset, opt Options) (*mat.Dense, []string, error) {
	names := ds.NumericNames()
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("no numeric columns: %w", dataset.ErrDegenerate)
	}
	x, err := ds.NumericMatrix(names)
	if err != nil {
		return nil, nil, err
	}
	return prepare(x, sampleRows(ds.Rows(), opt), opt), names, nil
}

// ExplainedVariance is Fit followed by Cumulative.
func ExplainedVariance(ds *dataset.Dataset, opt Options) ([]float64, error) {
	p, err := Fit(ds, opt)
	if err != nil {
		return nil, err
	}
	return p.Cumulative(), nil
}

// Transform projects the complete rows of ds onto the first k components.
// ds must carry the columns the PCA was fitted on.
func (p *PCA) Transform(ds *dataset.Dataset, k int) (*mat.Dense, error) {
	_, ncomp := p.Vectors.Dims()
	if k < 1 || k > ncomp {
		return nil, dataset.NewInvalidInput("", "component count %d outside [1, %d]", k, ncomp)
	}
	x, err := ds.NumericMatrix(p.Labels)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	x = prepare(x, nil, Options{})
	r, c := x.Dims()
	if r == 0 {
		return nil, fmt.Errorf("project: no complete rows: %w", dataset.ErrDegenerate)
	}
	centered := mat.NewDense(r, c, nil)
	centered.Apply(func(_, j int, v float64) float64 { return v - p.means[j] }, x)
	var out mat.Dense
	out.Mul(centered, p.Vectors.Slice(0, c, 0, k))
	return &out, nil
}

// Project fits on every complete row of ds and returns their coordinates on
// the first k components.
func Project(ds *dataset.Dataset, k int) (*mat.Dense, error) {
	p, err := Fit(ds, Options{})
	if err != nil {
		return nil, err
	}
	return p.Transform(ds, k)
}

// sampleRows returns the row subset for opt.Frac, or nil for every row.
func sampleRows(n int, opt Options) []int {
	if opt.Frac <= 0 || opt.Frac >= 1 {
		return nil
	}
	k := int(math.Round(opt.Frac * float64(n)))
	rng := rand.New(rand.NewSource(opt.Seed))
	rows := rng.Perm(n)[:k]
	sort.Ints(rows)
	return rows
}

// prepare keeps rows (nil meaning all) then drops or fills NaN rows.
func prepare(x *mat.Dense, rows []int, opt Options) *mat.Dense {
	r, c := x.Dims()
	if rows == nil {
		rows = make([]int, r)
		for i := range rows {
			rows[i] = i
		}
	}
	var data []float64
	kept := 0
	buf := make([]float64, c)
	for _, i := range rows {
		mat.Row(buf, i, x)
		complete := true
		for j, v := range buf {
			if math.IsNaN(v) {
				if !opt.FillNA {
					complete = false
					break
				}
				buf[j] = opt.FillValue
			}
		}
		if !complete {
			continue
		}
		data = append(data, buf...)
		kept++
	}
	if kept == 0 {
		return &mat.Dense{}
	}
	return mat.NewDense(kept, c, data)
}

func colMeans(x *mat.Dense) []float64 {
	_, c := x.Dims()
	out := make([]float64, c)
	for j := range out {
		out[j] = stat.Mean(mat.Col(nil, j, x), nil)
	}
	return out
}
