package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/evaluate"
	"github.com/KaramelBytes/edakit/internal/utils"
)

var (
	evalTrueCol   string
	evalScoreCols []string
	evalPredCol   string
	evalThreshold float64
	evalJSON      bool
)

var evalCmd = &cobra.Command{
	Use:   "eval <file>",
	Short: "Score binary classifier outputs: confusion matrix, AP and ROC AUC",
	Long: `Read true labels (0/1) and one or more score columns and print the
confusion matrix, average precision and ROC AUC of each. Predictions come
from --pred-col when given (single score column only), otherwise from
score >= --threshold.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if evalPredCol != "" && len(evalScoreCols) > 1 {
			return fmt.Errorf("--pred-col needs exactly one --score-col")
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		tbl, err := evaluateModels(ds)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if evalJSON {
			b, err := utils.PrettyJSON(tbl.Rows)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
			return nil
		}
		for _, r := range tbl.Rows {
			if len(tbl.Rows) > 1 {
				fmt.Fprintf(w, "== %s ==\n", r.Model)
			}
			fmt.Fprint(w, r.Confusion.String())
			fmt.Fprintf(w, "Average precision: %.4f\n", r.AP)
			fmt.Fprintf(w, "ROC AUC: %.4f\n\n", r.AUC)
		}
		tbl.Render(w)
		return nil
	},
}

// evaluateModels builds one metrics row per score column.
func evaluateModels(ds *dataset.Dataset) (*evaluate.Table, error) {
	yTrue, err := labels(ds, evalTrueCol)
	if err != nil {
		return nil, err
	}
	var yPredCol []int
	if evalPredCol != "" {
		if yPredCol, err = labels(ds, evalPredCol); err != nil {
			return nil, err
		}
	}
	t := &evaluate.Table{}
	for _, name := range evalScoreCols {
		score, err := ds.Numeric(name)
		if err != nil {
			return nil, err
		}
		yPred := yPredCol
		if yPred == nil {
			yPred = make([]int, len(score))
			for i, s := range score {
				if s >= evalThreshold {
					yPred[i] = 1
				}
			}
		}
		if _, err := t.Add(name, yTrue, score, yPred); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// labels reads a 0/1 column with no missing cells.
func labels(ds *dataset.Dataset, name string) ([]int, error) {
	vals, err := ds.Numeric(name)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(vals))
	for i, v := range vals {
		switch {
		case math.IsNaN(v):
			return nil, dataset.NewInvalidInput(name, "missing label at row %d", i)
		case v == 0 || v == 1:
			out[i] = int(v)
		default:
			return nil, dataset.NewInvalidInput(name, "label %g at row %d is not 0 or 1", v, i)
		}
	}
	return out, nil
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&evalTrueCol, "true-col", "y_true", "column holding the true 0/1 labels")
	evalCmd.Flags().StringSliceVar(&evalScoreCols, "score-col", []string{"y_score"}, "score column(s), one per model (repeatable)")
	evalCmd.Flags().StringVar(&evalPredCol, "pred-col", "", "column holding predicted 0/1 labels")
	evalCmd.Flags().Float64Var(&evalThreshold, "threshold", 0.5, "score threshold for predictions when --pred-col is not set")
	evalCmd.Flags().BoolVar(&evalJSON, "json", false, "print metrics as JSON")
}
