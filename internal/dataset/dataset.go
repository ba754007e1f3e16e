// Package dataset holds the in-memory rectangular table every analysis in
// edakit consumes: named columns of cells sharing one row count, with missing
// entries marked explicitly.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Kind is the inferred type of a column.
type Kind int

const (
	// Numeric columns hold only numeric or missing cells.
	Numeric Kind = iota
	// Categorical columns hold at least one non-numeric cell.
	Categorical
)

func (k Kind) String() string {
	if k == Categorical {
		return "categorical"
	}
	return "numeric"
}

// Cell is a single entry. Str keeps the raw text for cells read from files.
type Cell struct {
	Missing bool
	IsNum   bool
	Num     float64
	Str     string
}

// Null returns a missing cell.
func Null() Cell { return Cell{Missing: true} }

// Num returns a numeric cell. NaN is recorded as missing.
func Num(v float64) Cell {
	if math.IsNaN(v) {
		return Null()
	}
	return Cell{IsNum: true, Num: v, Str: strconv.FormatFloat(v, 'g', -1, 64)}
}

// Str returns a categorical cell.
func Str(s string) Cell { return Cell{Str: s} }

// Key is a stable textual form used for distinct-value counting.
func (c Cell) Key() string {
	if c.Missing {
		return ""
	}
	if c.IsNum {
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	}
	return c.Str
}

// Column is a named sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// NewColumn builds a column from explicit cells.
func NewColumn(name string, cells ...Cell) Column {
	return Column{Name: name, Cells: cells}
}

// NumericColumn builds a numeric column; NaN values become missing cells.
func NumericColumn(name string, vals ...float64) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = Num(v)
	}
	return Column{Name: name, Cells: cells}
}

// StringColumn builds a categorical column with no missing cells.
func StringColumn(name string, vals ...string) Column {
	cells := make([]Cell, len(vals))
	for i, v := range vals {
		cells[i] = Str(v)
	}
	return Column{Name: name, Cells: cells}
}

// Kind reports Categorical if any present cell is non-numeric.
func (c Column) Kind() Kind {
	for _, cell := range c.Cells {
		if !cell.Missing && !cell.IsNum {
			return Categorical
		}
	}
	return Numeric
}

// MissingCount counts missing cells.
func (c Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.Missing {
			n++
		}
	}
	return n
}

// Floats returns the column as float64 with NaN for missing cells.
func (c Column) Floats() ([]float64, error) {
	out := make([]float64, len(c.Cells))
	for i, cell := range c.Cells {
		switch {
		case cell.Missing:
			out[i] = math.NaN()
		case cell.IsNum:
			out[i] = cell.Num
		default:
			return nil, NewInvalidInput(c.Name, "non-numeric value %q at row %d", cell.Str, i)
		}
	}
	return out, nil
}

// Dataset is an ordered set of equally long, uniquely named columns.
type Dataset struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New validates and assembles columns into a Dataset.
func New(cols ...Column) (*Dataset, error) {
	d := &Dataset{cols: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := d.index[c.Name]; dup {
			return nil, NewInvalidInput(c.Name, "duplicate column name")
		}
		d.index[c.Name] = i
		if i == 0 {
			d.rows = len(c.Cells)
			continue
		}
		if len(c.Cells) != d.rows {
			return nil, NewInvalidInput(c.Name, "has %d rows, want %d", len(c.Cells), d.rows)
		}
	}
	return d, nil
}

// Rows returns the shared row count.
func (d *Dataset) Rows() int { return d.rows }

// Cols returns the number of columns.
func (d *Dataset) Cols() int { return len(d.cols) }

// Names returns column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by name.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return d.cols[i], true
}

// ColumnAt returns the i-th column.
func (d *Dataset) ColumnAt(i int) Column { return d.cols[i] }

// Cell returns the cell at row r of column c.
func (d *Dataset) Cell(r, c int) Cell { return d.cols[c].Cells[r] }

// NumericNames returns names of Numeric columns in order.
func (d *Dataset) NumericNames() []string {
	var out []string
	for _, c := range d.cols {
		if c.Kind() == Numeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// CategoricalNames returns names of Categorical columns sorted by name.
func (d *Dataset) CategoricalNames() []string {
	var out []string
	for _, c := range d.cols {
		if c.Kind() == Categorical {
			out = append(out, c.Name)
		}
	}
	sort.Strings(out)
	return out
}

// Numeric returns a column's values with NaN for missing cells.
func (d *Dataset) Numeric(name string) ([]float64, error) {
	c, ok := d.Column(name)
	if !ok {
		return nil, NewInvalidInput(name, "no such column")
	}
	return c.Floats()
}

// NumericMatrix packs the named columns into a rows x len(names) matrix.
// Missing cells become NaN.
func (d *Dataset) NumericMatrix(names []string) (*mat.Dense, error) {
	if d.rows == 0 || len(names) == 0 {
		return nil, ErrDegenerate
	}
	m := mat.NewDense(d.rows, len(names), nil)
	for j, name := range names {
		vals, err := d.Numeric(name)
		if err != nil {
			return nil, err
		}
		m.SetCol(j, vals)
	}
	return m, nil
}

// Select returns a dataset restricted to the named columns, in that order.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		c, ok := d.Column(n)
		if !ok {
			return nil, NewInvalidInput(n, "no such column")
		}
		cols = append(cols, c)
	}
	return New(cols...)
}

// Take keeps the given row indexes, in the given order.
func (d *Dataset) Take(rows []int) (*Dataset, error) {
	cols := make([]Column, len(d.cols))
	for j, c := range d.cols {
		cells := make([]Cell, len(rows))
		for i, r := range rows {
			if r < 0 || r >= d.rows {
				return nil, fmt.Errorf("take row %d: %w", r, ErrInvalidInput)
			}
			cells[i] = c.Cells[r]
		}
		cols[j] = Column{Name: c.Name, Cells: cells}
	}
	return New(cols...)
}

// DropRows removes the given row indexes. Unknown indexes are ignored.
func (d *Dataset) DropRows(rows []int) *Dataset {
	drop := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		drop[r] = struct{}{}
	}
	keep := make([]int, 0, d.rows)
	for r := 0; r < d.rows; r++ {
		if _, ok := drop[r]; !ok {
			keep = append(keep, r)
		}
	}
	out, _ := d.Take(keep)
	return out
}

// DropIncomplete removes every row holding at least one missing cell.
func (d *Dataset) DropIncomplete() *Dataset {
	keep := make([]int, 0, d.rows)
	for r := 0; r < d.rows; r++ {
		complete := true
		for _, c := range d.cols {
			if c.Cells[r].Missing {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, r)
		}
	}
	out, _ := d.Take(keep)
	return out
}
