// Package cluster fits k-means over the numeric columns of a dataset and
// sweeps k for an elbow search.
package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/reduce"
)

const (
	defaultMaxIter  = 300
	defaultRestarts = 10
)

// Options controls the rows k-means is fitted on and the search itself.
// Row sampling, seeding and missing-value handling follow reduce.Options.
type Options struct {
	reduce.Options
	// MaxIter bounds the Lloyd iterations of one restart; 0 means 300.
	MaxIter int
	// Restarts is the number of seeded k-means++ starts; the lowest inertia
	// wins. 0 means 10.
	Restarts int
}

// Result is one fitted k-means model.
type Result struct {
	K int
	// Inertia is the sum of squared distances from each row to its center.
	Inertia    float64
	Centers    *mat.Dense
	Labels     []int
	Sizes      []int
	Iterations int
}

// Elbow is the outcome of a sweep over k.
type Elbow struct {
	Columns []string
	Rows    int
	Results []Result
}

// Ks returns the k of each result in sweep order.
func (e Elbow) Ks() []int {
	out := make([]int, len(e.Results))
	for i, r := range e.Results {
		out[i] = r.K
	}
	return out
}

// Inertias returns the inertia of each result in sweep order.
func (e Elbow) Inertias() []float64 {
	out := make([]float64, len(e.Results))
	for i, r := range e.Results {
		out[i] = r.Inertia
	}
	return out
}

// Search fits one model per k over the numeric columns of ds.
func Search(ds *dataset.Dataset, ks []int, opt Options) (Elbow, error) {
	if len(ks) == 0 {
		return Elbow{}, dataset.NewInvalidInput("k", "no cluster counts given")
	}
	x, names, err := reduce.Matrix(ds, opt.Options)
	if err != nil {
		return Elbow{}, fmt.Errorf("k-means: %w", err)
	}
	n, _ := x.Dims()
	if n == 0 {
		return Elbow{}, fmt.Errorf("k-means: no complete rows: %w", dataset.ErrDegenerate)
	}
	e := Elbow{Columns: names, Rows: n}
	for _, k := range ks {
		r, err := KMeans(x, k, opt)
		if err != nil {
			return Elbow{}, err
		}
		e.Results = append(e.Results, r)
	}
	return e, nil
}

// KMeans clusters the rows of x into k groups. Every restart draws its
// k-means++ start from one generator seeded with opt.Seed, so equal inputs
// give equal results.
func KMeans(x *mat.Dense, k int, opt Options) (Result, error) {
	n, _ := x.Dims()
	if k < 1 || k > n {
		return Result{}, dataset.NewInvalidInput("k", "k=%d outside [1, %d]", k, n)
	}
	maxIter := opt.MaxIter
	if maxIter <= 0 {
		maxIter = defaultMaxIter
	}
	restarts := opt.Restarts
	if restarts <= 0 {
		restarts = defaultRestarts
	}
	rng := rand.New(rand.NewSource(opt.Seed))
	best := Result{Inertia: math.Inf(1)}
	for i := 0; i < restarts; i++ {
		r := lloyd(x, k, maxIter, rng)
		if r.Inertia < best.Inertia {
			best = r
		}
	}
	return best, nil
}

func lloyd(x *mat.Dense, k, maxIter int, rng *rand.Rand) Result {
	n, _ := x.Dims()
	centers := initCenters(x, k, rng)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}
	iter := 0
	for iter < maxIter {
		iter++
		if !assign(x, centers, labels) {
			break
		}
		update(x, centers, labels)
	}
	assign(x, centers, labels)

	sizes := make([]int, k)
	inertia := 0.0
	for i, l := range labels {
		sizes[l]++
		d := floats.Distance(x.RawRowView(i), centers.RawRowView(l), 2)
		inertia += d * d
	}
	return Result{K: k, Inertia: inertia, Centers: centers, Labels: labels, Sizes: sizes, Iterations: iter}
}

// initCenters is k-means++: the first center is a uniform row, each next one
// a row drawn with probability proportional to its squared distance from the
// nearest chosen center.
func initCenters(x *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	n, p := x.Dims()
	centers := mat.NewDense(k, p, nil)
	centers.SetRow(0, x.RawRowView(rng.Intn(n)))
	dist := make([]float64, n)
	for c := 1; c < k; c++ {
		for i := range dist {
			dist[i] = nearest(x.RawRowView(i), centers, c)
		}
		total := floats.Sum(dist)
		pick := rng.Intn(n)
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				acc += d
				if acc >= target && d > 0 {
					pick = i
					break
				}
			}
		}
		centers.SetRow(c, x.RawRowView(pick))
	}
	return centers
}

// nearest is the squared distance from row to the closest of the first c
// centers.
func nearest(row []float64, centers *mat.Dense, c int) float64 {
	best := math.Inf(1)
	for j := 0; j < c; j++ {
		d := floats.Distance(row, centers.RawRowView(j), 2)
		best = math.Min(best, d*d)
	}
	return best
}

// assign labels each row with its closest center and reports whether any
// label changed.
func assign(x *mat.Dense, centers *mat.Dense, labels []int) bool {
	k, _ := centers.Dims()
	changed := false
	for i := range labels {
		row := x.RawRowView(i)
		bestJ, bestD := 0, math.Inf(1)
		for j := 0; j < k; j++ {
			if d := floats.Distance(row, centers.RawRowView(j), 2); d < bestD {
				bestJ, bestD = j, d
			}
		}
		if labels[i] != bestJ {
			labels[i] = bestJ
			changed = true
		}
	}
	return changed
}

// update moves each center to the mean of its rows. A center that lost all
// its rows stays where it was.
func update(x *mat.Dense, centers *mat.Dense, labels []int) {
	k, p := centers.Dims()
	sums := mat.NewDense(k, p, nil)
	counts := make([]float64, k)
	for i, l := range labels {
		floats.Add(sums.RawRowView(l), x.RawRowView(i))
		counts[l]++
	}
	for j := 0; j < k; j++ {
		if counts[j] == 0 {
			continue
		}
		row := sums.RawRowView(j)
		floats.Scale(1/counts[j], row)
		centers.SetRow(j, row)
	}
}
