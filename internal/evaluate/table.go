package evaluate

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Row records the scores of one model.
type Row struct {
	Model     string          `json:"model"`
	Confusion ConfusionMatrix `json:"confusion"`
	AP        float64         `json:"ap"`
	AUC       float64         `json:"auc"`
	ROC       Curve           `json:"-"`
	PR        Curve           `json:"-"`
}

// Table accumulates per-model metrics in insertion order.
type Table struct {
	Rows []Row
}

// Add scores one model and appends its row.
func (t *Table) Add(model string, yTrue []int, score []float64, yPred []int) (Row, error) {
	cm, err := Confusion(yTrue, yPred)
	if err != nil {
		return Row{}, fmt.Errorf("add %s: %w", model, err)
	}
	ap, err := AveragePrecision(yTrue, score)
	if err != nil {
		return Row{}, fmt.Errorf("add %s: %w", model, err)
	}
	roc, err := ROC(yTrue, score)
	if err != nil {
		return Row{}, fmt.Errorf("add %s: %w", model, err)
	}
	pr, err := PrecisionRecall(yTrue, score)
	if err != nil {
		return Row{}, fmt.Errorf("add %s: %w", model, err)
	}
	row := Row{Model: model, Confusion: cm, AP: ap, AUC: AUC(roc), ROC: roc, PR: pr}
	t.Rows = append(t.Rows, row)
	return row, nil
}

// Render writes the table with go-pretty and returns the text.
func (t *Table) Render(w io.Writer) string {
	tw := table.NewWriter()
	if w != nil {
		tw.SetOutputMirror(w)
	}
	tw.SetTitle("MODEL METRICS")
	tw.AppendHeader(table.Row{"model", "tn", "fp", "fn", "tp", "AP", "AUC"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "AP", Align: text.AlignRight},
		{Name: "AUC", Align: text.AlignRight},
	})
	for _, r := range t.Rows {
		c := r.Confusion
		tw.AppendRow(table.Row{r.Model, c.TN, c.FP, c.FN, c.TP, fmt.Sprintf("%.4f", r.AP), fmt.Sprintf("%.4f", r.AUC)})
	}
	return tw.Render()
}
