package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edakit/internal/chart"
	"github.com/KaramelBytes/edakit/internal/correlation"
	"github.com/KaramelBytes/edakit/internal/evaluate"
	"github.com/KaramelBytes/edakit/internal/missing"
	"github.com/KaramelBytes/edakit/internal/reduce"
	"github.com/KaramelBytes/edakit/internal/utils"
)

var (
	plotOutput string
	plotMethod string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render charts (png, svg, pdf) of missing data, correlations, PCA and ROC",
}

func plotTarget() (string, error) {
	if plotOutput == "" {
		return "", fmt.Errorf("--output is required")
	}
	if err := utils.EnsureDir(plotOutput); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return plotOutput, nil
}

func wrotePlot(cmd *cobra.Command, path string) {
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
}

var plotMissingCmd = &cobra.Command{
	Use:   "missing <file>",
	Short: "Histogram and bar chart of missing data per column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := plotTarget()
		if err != nil {
			return err
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		rep, err := missing.ColumnMissingness(ds)
		if err != nil {
			return err
		}
		if err := chart.MissingColumns(rep, out); err != nil {
			return err
		}
		wrotePlot(cmd, out)
		return nil
	},
}

var plotRowsCmd = &cobra.Command{
	Use:   "rows <file>",
	Short: "Histogram of missing data per row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := plotTarget()
		if err != nil {
			return err
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		pct, err := missing.RowMissingness(ds)
		if err != nil {
			return err
		}
		if err := chart.MissingRows(pct, out); err != nil {
			return err
		}
		wrotePlot(cmd, out)
		return nil
	},
}

var plotCorrCmd = &cobra.Command{
	Use:   "corr <file>",
	Short: "Heatmap of the correlation matrix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := plotTarget()
		if err != nil {
			return err
		}
		method := settings().CorrMethod
		if cmd.Flags().Changed("method") {
			method = plotMethod
		}
		m, err := correlation.ParseMethod(method)
		if err != nil {
			return err
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		mx, err := correlation.Compute(ds, m)
		if err != nil {
			return err
		}
		if err := chart.CorrelationHeatmap(mx, out); err != nil {
			return err
		}
		wrotePlot(cmd, out)
		return nil
	},
}

var plotPCACmd = &cobra.Command{
	Use:   "pca <file>",
	Short: "Cumulative explained variance curve",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := plotTarget()
		if err != nil {
			return err
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		c := settings()
		cum, err := reduce.ExplainedVariance(ds, reduce.Options{Frac: c.PCAFrac, Seed: c.Seed})
		if err != nil {
			return err
		}
		if err := chart.ExplainedVariance(cum, out); err != nil {
			return err
		}
		wrotePlot(cmd, out)
		return nil
	},
}

// curvesCmd renders one curve per --score-col, reusing the eval flags.
func curvesCmd(use, short string, draw func([]chart.Named, string) error, pick func(evaluate.Row) (float64, evaluate.Curve)) *cobra.Command {
	c := &cobra.Command{
		Use:   use + " <file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := plotTarget()
			if err != nil {
				return err
			}
			ds, err := loadDataset(args[0])
			if err != nil {
				return err
			}
			tbl, err := evaluateModels(ds)
			if err != nil {
				return err
			}
			named := make([]chart.Named, 0, len(tbl.Rows))
			for _, r := range tbl.Rows {
				score, curve := pick(r)
				named = append(named, chart.Named{Name: r.Model, Score: score, Curve: curve})
			}
			if err := draw(named, out); err != nil {
				return err
			}
			wrotePlot(cmd, out)
			return nil
		},
	}
	c.Flags().StringVar(&evalTrueCol, "true-col", "y_true", "column holding the true 0/1 labels")
	c.Flags().StringSliceVar(&evalScoreCols, "score-col", []string{"y_score"}, "score column(s), one per curve (repeatable)")
	return c
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.PersistentFlags().StringVarP(&plotOutput, "output", "o", "", "image path; the extension selects the format (required)")
	plotCorrCmd.Flags().StringVarP(&plotMethod, "method", "m", "pearson", "correlation method: pearson|spearman (default from config)")
	plotCmd.AddCommand(plotMissingCmd, plotRowsCmd, plotCorrCmd, plotPCACmd,
		curvesCmd("roc", "ROC curves with AUC in the legend", chart.ROC,
			func(r evaluate.Row) (float64, evaluate.Curve) { return r.AUC, r.ROC }),
		curvesCmd("pr", "Precision-recall curves with AP in the legend", chart.PrecisionRecall,
			func(r evaluate.Row) (float64, evaluate.Curve) { return r.AP, r.PR }),
	)
}
