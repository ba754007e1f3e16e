package chart

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/edakit/internal/evaluate"
)

// ExplainedVariance plots cumulative explained variance (percent) against
// the number of components.
func ExplainedVariance(cumulative []float64, path string) error {
	if len(cumulative) == 0 {
		return fmt.Errorf("explained variance chart: no components")
	}
	p := plot.New()
	p.X.Label.Text = "number of components"
	p.Y.Label.Text = "explained variance"
	pts := make(plotter.XYs, len(cumulative))
	for i, v := range cumulative {
		pts[i] = plotter.XY{X: float64(i + 1), Y: v}
	}
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("explained variance chart: %w", err)
	}
	p.Add(l, s)
	p.Y.Min, p.Y.Max = 0, 100
	return save(p, path)
}

// Elbow plots k-means inertia against the number of clusters.
func Elbow(ks []int, inertia []float64, path string) error {
	if len(ks) == 0 || len(ks) != len(inertia) {
		return fmt.Errorf("elbow chart: %d cluster counts for %d inertias", len(ks), len(inertia))
	}
	p := plot.New()
	p.X.Label.Text = "number of clusters"
	p.Y.Label.Text = "inertia"
	pts := make(plotter.XYs, len(ks))
	for i, k := range ks {
		pts[i] = plotter.XY{X: float64(k), Y: inertia[i]}
	}
	l, s, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("elbow chart: %w", err)
	}
	p.Add(l, s)
	p.Y.Min = 0
	return save(p, path)
}

// Named is a model's curve with its summary score for the legend.
type Named struct {
	Name  string
	Score float64
	Curve evaluate.Curve
}

// ROC overlays ROC curves with a dashed chance diagonal.
func ROC(curves []Named, path string) error {
	p := plot.New()
	p.Title.Text = "ROC"
	p.X.Label.Text = "FPR = FP/(FP+TN)"
	p.Y.Label.Text = "TPR = Recall = TP/(TP+FN)"
	if err := addCurves(p, curves, "AUC", false); err != nil {
		return err
	}
	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return fmt.Errorf("roc chart: %w", err)
	}
	chance.Color = color.RGBA{R: 255, A: 204}
	chance.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
	chance.Width = vg.Points(2)
	p.Add(chance)
	p.Legend.Add("Chance", chance)
	p.Legend.Top = false
	p.Legend.Left = false
	p.X.Min, p.X.Max = -0.05, 1.05
	p.Y.Min, p.Y.Max = -0.05, 1.05
	return save(p, path)
}

// PrecisionRecall overlays step-wise precision-recall curves.
func PrecisionRecall(curves []Named, path string) error {
	p := plot.New()
	p.Title.Text = "2-class Precision-Recall curve"
	p.X.Label.Text = "Recall"
	p.Y.Label.Text = "Precision"
	if err := addCurves(p, curves, "AP", true); err != nil {
		return err
	}
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1.05
	return save(p, path)
}

func addCurves(p *plot.Plot, curves []Named, metric string, step bool) error {
	if len(curves) == 0 {
		return fmt.Errorf("curve chart: no curves")
	}
	for i, c := range curves {
		pts := make(plotter.XYs, len(c.Curve.X))
		for k := range pts {
			pts[k] = plotter.XY{X: c.Curve.X[k], Y: c.Curve.Y[k]}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("curve chart %s: %w", c.Name, err)
		}
		l.Color = plotutil.Color(i)
		if step {
			l.StepStyle = plotter.PostStep
		}
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("%s (%s = %.2f)", c.Name, metric, c.Score), l)
	}
	return nil
}
