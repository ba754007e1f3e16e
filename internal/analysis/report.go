package analysis

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/edakit/internal/correlation"
	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/missing"
	"github.com/KaramelBytes/edakit/internal/profile"
)

// Options controls which sections a Report carries.
type Options struct {
	// Missing-data thresholds in percent: columns strictly above
	// ColumnThreshold and rows at or above RowThreshold are flagged.
	ColumnThreshold float64
	RowThreshold    float64
	// Correlations computes pairwise coefficients among numeric columns and
	// lists pairs with |r| >= CorrThreshold.
	Correlations  bool
	CorrThreshold float64
	CorrMethod    correlation.Method
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// GroupBy computes per-group summaries for the given column names.
	GroupBy []string
	// Log receives the missing-data audit entries; nil discards them.
	Log *zap.Logger
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{
		ColumnThreshold:  20,
		RowThreshold:     12,
		Correlations:     true,
		CorrThreshold:    0.7,
		CorrMethod:       correlation.Pearson,
		Outliers:         true,
		OutlierThreshold: 3.5,
		SampleRows:       5,
	}
}

// Report is a markdown-friendly analysis of a tabular dataset.
type Report struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Name    string    `json:"name"`
	Rows    int       `json:"rows"`

	Cols    []ColumnSummary `json:"columns"`
	Samples [][]string      `json:"samples,omitempty"`

	ColumnThreshold float64 `json:"column_threshold"`
	RowThreshold    float64 `json:"row_threshold"`
	MissingColumns  []string `json:"missing_columns"`
	MissingRows     []int    `json:"missing_rows"`

	CorrThreshold float64             `json:"corr_threshold"`
	Corr          *correlation.Matrix `json:"-"`
	Pairs         []correlation.Pair  `json:"pairs,omitempty"`

	Groups   []GroupResult `json:"groups,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name       string  `json:"name"`
	Kind       string  `json:"kind"` // numeric|categorical|empty
	Unit       string  `json:"unit,omitempty"`
	NonNull    int     `json:"non_null"`
	Missing    int     `json:"missing"`
	MissingPct float64 `json:"missing_pct"`
	Unique     int     `json:"unique"`
	// Numeric stats over finite values; Infinite counts the others.
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Infinite int     `json:"infinite,omitempty"`
	// Outliers (robust Z via MAD)
	OutliersCount    int     `json:"outliers,omitempty"`
	OutliersMaxAbsZ  float64 `json:"outliers_max_abs_z,omitempty"`
	OutlierThreshold float64 `json:"outlier_threshold,omitempty"`
	// Categorical top values
	TopValues []profile.ValueCount `json:"top_values,omitempty"`
}

// GroupResult captures aggregated metrics per group key.
type GroupResult struct {
	Key     string                `json:"key"`
	Size    int                   `json:"size"`
	Metrics map[string]NumSummary `json:"metrics"` // by column name
}

// NumSummary is a count/min/max/mean of the present values of a column.
type NumSummary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
}

// Build analyzes ds and returns a Report named name.
func Build(name string, ds *dataset.Dataset, opt Options) (*Report, error) {
	if ds.Cols() == 0 {
		return nil, fmt.Errorf("build report: %w", dataset.ErrDegenerate)
	}
	rep := &Report{
		ID:              uuid.NewString(),
		Created:         time.Now().UTC(),
		Name:            name,
		Rows:            ds.Rows(),
		ColumnThreshold: opt.ColumnThreshold,
		RowThreshold:    opt.RowThreshold,
		CorrThreshold:   opt.CorrThreshold,
		MissingColumns:  []string{},
		MissingRows:     []int{},
	}
	for i := 0; i < ds.Cols(); i++ {
		cs := summarize(ds.ColumnAt(i), ds.Rows(), opt)
		if cs.Infinite > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("column %s has %d infinite values excluded from its statistics", cs.Name, cs.Infinite))
		}
		rep.Cols = append(rep.Cols, cs)
	}
	rep.Samples = samples(ds, opt.SampleRows)
	if ds.Rows() == 0 {
		rep.Warnings = append(rep.Warnings, "dataset has no rows")
		return rep, nil
	}

	audit := missing.NewAuditor(opt.Log)
	cols, _, err := audit.Columns(ds, opt.ColumnThreshold)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	rows, err := audit.Rows(ds, opt.RowThreshold)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	if cols != nil {
		rep.MissingColumns = cols
	}
	rep.MissingRows = rows

	if opt.Correlations && len(ds.NumericNames()) >= 2 {
		m, err := correlation.Compute(ds, opt.CorrMethod)
		if err != nil {
			return nil, fmt.Errorf("build report: %w", err)
		}
		rep.Corr = m
		rep.Pairs = correlation.FilterPairs(m, opt.CorrThreshold)
		if n := undefinedPairs(m); n > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%d column pairs have an undefined correlation (constant or too few overlapping rows)", n))
		}
	}
	if len(opt.GroupBy) > 0 {
		groups, err := groupBy(ds, opt.GroupBy)
		if err != nil {
			return nil, fmt.Errorf("build report: %w", err)
		}
		rep.Groups = groups
	}
	return rep, nil
}

func summarize(c dataset.Column, rows int, opt Options) ColumnSummary {
	miss := c.MissingCount()
	_, unit := splitUnits(c.Name)
	s := ColumnSummary{Name: c.Name, Unit: unit, NonNull: rows - miss, Missing: miss, Unique: profile.Distinct(c)}
	if rows > 0 {
		s.MissingPct = 100 * float64(miss) / float64(rows)
	}
	if s.NonNull == 0 {
		s.Kind = "empty"
		return s
	}
	if c.Kind() == dataset.Categorical {
		s.Kind = "categorical"
		s.TopValues = profile.TopValues(c, 8)
		return s
	}
	s.Kind = "numeric"
	vals, _ := c.Floats()
	present := make([]float64, 0, s.NonNull)
	for _, v := range vals {
		switch {
		case math.IsNaN(v):
		case math.IsInf(v, 0):
			s.Infinite++
		default:
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return s
	}
	s.Min, s.Max = present[0], present[0]
	for _, v := range present {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	s.Mean = stat.Mean(present, nil)
	if len(present) > 1 {
		s.Std = stat.StdDev(present, nil)
	}
	if opt.Outliers && len(present) >= 8 {
		thr := opt.OutlierThreshold
		if thr <= 0 {
			thr = 3.5
		}
		s.OutliersCount, s.OutliersMaxAbsZ = robustOutliers(present, thr)
		s.OutlierThreshold = thr
	}
	return s
}

// robustOutliers counts values with |0.6745 * (v - median) / MAD| > thr.
func robustOutliers(vals []float64, thr float64) (count int, maxAbsZ float64) {
	median, mad := medianMAD(vals)
	if mad == 0 {
		return 0, 0
	}
	for _, v := range vals {
		az := math.Abs(0.6745 * (v - median) / mad)
		if az > thr {
			count++
		}
		if az > maxAbsZ {
			maxAbsZ = az
		}
	}
	return count, maxAbsZ
}

func samples(ds *dataset.Dataset, n int) [][]string {
	if n < 0 {
		n = 0
	}
	if n > ds.Rows() {
		n = ds.Rows()
	}
	out := make([][]string, 0, n)
	for r := 0; r < n; r++ {
		row := make([]string, ds.Cols())
		for c := range row {
			if cell := ds.Cell(r, c); !cell.Missing {
				row[c] = cell.Str
			}
		}
		out = append(out, row)
	}
	return out
}

func undefinedPairs(m *correlation.Matrix) int {
	n := 0
	for i := range m.Values {
		for j := i + 1; j < len(m.Values); j++ {
			if math.IsNaN(m.Values[i][j]) {
				n++
			}
		}
	}
	return n
}

var errNoGroupColumn = errors.New("group-by column not found")

func groupBy(ds *dataset.Dataset, names []string) ([]GroupResult, error) {
	keyCols := make([]dataset.Column, 0, len(names))
	for _, name := range names {
		c, ok := ds.Column(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("%w: %s", errNoGroupColumn, name)
		}
		keyCols = append(keyCols, c)
	}
	numeric := ds.NumericNames()
	groups := map[string]*GroupResult{}
	for r := 0; r < ds.Rows(); r++ {
		parts := make([]string, len(keyCols))
		for i, c := range keyCols {
			parts[i] = fmt.Sprintf("%s=%s", c.Name, safeVal(c.Cells[r].Key()))
		}
		key := strings.Join(parts, " | ")
		g := groups[key]
		if g == nil {
			g = &GroupResult{Key: key, Metrics: map[string]NumSummary{}}
			groups[key] = g
		}
		g.Size++
		for _, name := range numeric {
			col, _ := ds.Column(name)
			cell := col.Cells[r]
			if cell.Missing {
				continue
			}
			ns, ok := g.Metrics[name]
			if !ok {
				ns = NumSummary{Min: cell.Num, Max: cell.Num}
			}
			ns.Count++
			ns.Mean += (cell.Num - ns.Mean) / float64(ns.Count)
			ns.Min = math.Min(ns.Min, cell.Num)
			ns.Max = math.Max(ns.Max, cell.Num)
			g.Metrics[name] = ns
		}
	}
	out := make([]GroupResult, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	if len(out) > 20 {
		out = out[:20]
	}
	return out, nil
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

var unitPatterns = []struct {
	re   *regexp.Regexp
	pick int
}{
	{regexp.MustCompile(`^(.*)\s*\(([^)]+)\)\s*$`), 2},  // e.g., Alpha (%)
	{regexp.MustCompile(`^(.*)\s*\[([^\]]+)\]\s*$`), 2}, // e.g., Mass [mg/L]
	{regexp.MustCompile(`^(.*?)[_\s-]+(mg/L|g/L|ug/L|°[CF]|Brix|%|ppm|ppb)$`), 2},
}

// splitUnits extracts a trailing unit from a header such as "Temp (°F)".
func splitUnits(name string) (clean string, unit string) {
	s := strings.TrimSpace(name)
	for _, p := range unitPatterns {
		if m := p.re.FindStringSubmatch(s); len(m) >= 3 {
			base := strings.TrimSpace(m[1])
			u := strings.TrimSpace(m[p.pick])
			if base != "" && u != "" {
				return base, u
			}
		}
	}
	return s, ""
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
