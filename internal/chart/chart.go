// Package chart renders edakit results with gonum/plot. The output format
// follows the file extension (png, svg, pdf, jpg, eps, tif).
package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/edakit/internal/missing"
)

var (
	width  = 8 * vg.Inch
	height = 5 * vg.Inch
	bins   = 20
)

// MissingColumns draws a histogram of per-column missing percentages above
// a bar chart of the columns that have any missing data.
func MissingColumns(rep missing.Report, path string) error {
	vals := make(plotter.Values, len(rep.Columns))
	for i, c := range rep.Columns {
		vals[i] = rep.Percent[c]
	}
	hist, err := histogram(vals, "% missing data by column", "counts")
	if err != nil {
		return err
	}

	bar := plot.New()
	bar.Y.Label.Text = "% missing data by column"
	nonZero := rep.NonZero()
	if len(nonZero) == 0 {
		bar.Title.Text = "no missing data"
	} else {
		bv := make(plotter.Values, len(nonZero))
		for i, c := range nonZero {
			bv[i] = rep.Percent[c]
		}
		bc, err := plotter.NewBarChart(bv, vg.Points(12))
		if err != nil {
			return fmt.Errorf("missing columns chart: %w", err)
		}
		bc.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
		bar.Add(bc)
		bar.NominalX(nonZero...)
		bar.X.Tick.Label.Font.Size = vg.Points(8)
	}
	return saveTiled([][]*plot.Plot{{hist}, {bar}}, 16*vg.Inch, 8*vg.Inch, path)
}

// MissingRows draws a histogram of per-row missing percentages.
func MissingRows(rowPercent []float64, path string) error {
	p, err := histogram(plotter.Values(rowPercent), "Percentage of missing data in rows", "counts")
	if err != nil {
		return err
	}
	return save(p, path)
}

func histogram(vals plotter.Values, xLabel, yLabel string) (*plot.Plot, error) {
	if len(vals) == 0 {
		return nil, fmt.Errorf("histogram: no values")
	}
	p := plot.New()
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return nil, fmt.Errorf("histogram: %w", err)
	}
	h.FillColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	p.Add(h)
	return p, nil
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("save chart %s: %w", filepath.Base(path), err)
	}
	return nil
}

// saveTiled draws a grid of plots onto one canvas.
func saveTiled(plots [][]*plot.Plot, w, h vg.Length, path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return fmt.Errorf("save chart %s: %w", filepath.Base(path), err)
	}
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 6,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, draw.New(c))
	for i := range plots {
		for j, p := range plots[i] {
			if p != nil {
				p.Draw(canvases[i][j])
			}
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("save chart %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}
