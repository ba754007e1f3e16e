package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/edakit/internal/correlation"
)

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Row 0 is drawn
// at the top so the layout matches the printed matrix.
type corrGrid struct {
	m *correlation.Matrix
}

func (g corrGrid) Dims() (c, r int)   { return g.m.Len(), g.m.Len() }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[g.m.Len()-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// CorrelationHeatmap draws m on a fixed [-1, 1] color scale. Undefined
// coefficients are left blank.
func CorrelationHeatmap(m *correlation.Matrix, path string) error {
	if m.Len() == 0 {
		return fmt.Errorf("correlation heatmap: empty matrix")
	}
	p := plot.New()
	p.Title.Text = "Correlation matrix"
	h := plotter.NewHeatMap(corrGrid{m}, palette.Heat(24, 1))
	h.Min, h.Max = -1, 1
	h.NaN = color.Transparent
	p.Add(h)

	ylabels := make([]string, m.Len())
	for i, l := range m.Labels {
		ylabels[m.Len()-1-i] = l
	}
	p.NominalX(m.Labels...)
	p.NominalY(ylabels...)
	p.X.Tick.Label.Rotation = 0.8
	p.X.Tick.Label.XAlign = -1.0
	side := vg.Length(m.Len())*vg.Points(28) + 3*vg.Inch
	if err := p.Save(side, side, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}
