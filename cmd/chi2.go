package cmd

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edakit/internal/independence"
	"github.com/KaramelBytes/edakit/internal/profile"
)

var (
	chiTarget  string
	chiColumns []string
	chiAlpha   float64
	chiSort    bool
)

var chi2Cmd = &cobra.Command{
	Use:   "chi2 <file> --target <col>",
	Short: "Chi-square independence of each column against a binary target",
	Long: `Build the contingency table of the 0/1 --target column against every other
column (or the --columns given; by default the categorical candidates) and
report the chi-square statistic and p-value. Columns that cannot be tested
are listed with the reason.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if chiTarget == "" {
			return fmt.Errorf("--target is required")
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		target, err := labels(ds, chiTarget)
		if err != nil {
			return err
		}
		names := chiColumns
		if len(names) == 0 {
			names = profile.CategoricalColumns(ds, settings().CategoricalThreshold).Categorical
		}
		features := make([]string, 0, len(names))
		for _, n := range names {
			if n != chiTarget {
				features = append(features, n)
			}
		}
		sub, err := ds.Select(features...)
		if err != nil {
			return err
		}
		results, err := independence.AgainstTarget(sub, target)
		if err != nil {
			return err
		}
		if chiSort {
			sort.SliceStable(results, func(i, j int) bool {
				if results[i].Skipped != "" || results[j].Skipped != "" {
					return results[j].Skipped != "" && results[i].Skipped == ""
				}
				return results[i].P < results[j].P
			})
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetTitle(fmt.Sprintf("CHI-SQUARE VS %s", chiTarget))
		t.AppendHeader(table.Row{"column", "values", "chi2", "dof", "p", fmt.Sprintf("p < %g", chiAlpha)})
		for _, r := range results {
			if r.Skipped != "" {
				t.AppendRow(table.Row{r.Column, len(r.Values), "", "", "", "skipped: " + r.Skipped})
				continue
			}
			dep := ""
			if r.P < chiAlpha {
				dep = "✓"
			}
			t.AppendRow(table.Row{r.Column, len(r.Values), fmt.Sprintf("%.4f", r.Chi2), r.DOF, fmt.Sprintf("%.4g", r.P), dep})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chi2Cmd)
	chi2Cmd.Flags().StringVar(&chiTarget, "target", "", "binary 0/1 target column (required)")
	chi2Cmd.Flags().StringSliceVar(&chiColumns, "columns", nil, "columns to test (default: categorical candidates)")
	chi2Cmd.Flags().Float64Var(&chiAlpha, "alpha", 0.05, "significance level for the dependence mark")
	chi2Cmd.Flags().BoolVar(&chiSort, "sort", false, "sort by ascending p-value")
}
