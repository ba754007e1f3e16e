package dataset

import (
	"fmt"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// FromDataFrame converts a gota DataFrame. Float and Int series become
// numeric columns; every other series type becomes categorical. NA elements
// and NaN values are missing.
func FromDataFrame(df dataframe.DataFrame) (*Dataset, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("convert dataframe: %w", df.Err)
	}
	names := df.Names()
	cols := make([]Column, len(names))
	for j, name := range names {
		s := df.Col(name)
		numeric := s.Type() == series.Float || s.Type() == series.Int
		cells := make([]Cell, s.Len())
		for i := range cells {
			e := s.Elem(i)
			switch {
			case e.IsNA():
				cells[i] = Null()
			case numeric:
				cells[i] = Num(e.Float())
			default:
				cells[i] = Str(e.String())
			}
		}
		cols[j] = Column{Name: name, Cells: cells}
	}
	return New(cols...)
}

// ToDataFrame converts d to a gota DataFrame. Numeric columns become Float
// series and categorical columns String series; missing cells are NA.
func ToDataFrame(d *Dataset) dataframe.DataFrame {
	ss := make([]series.Series, 0, d.Cols())
	for _, c := range d.cols {
		vals := make([]string, len(c.Cells))
		typ := series.Float
		if c.Kind() == Categorical {
			typ = series.String
		}
		for i, cell := range c.Cells {
			switch {
			case cell.Missing:
				vals[i] = "NaN"
			case typ == series.Float:
				vals[i] = strconv.FormatFloat(cell.Num, 'g', -1, 64)
			default:
				vals[i] = cell.Str
			}
		}
		ss = append(ss, series.New(vals, typ, c.Name))
	}
	return dataframe.New(ss...)
}
