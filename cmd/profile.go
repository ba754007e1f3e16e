package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edakit/internal/profile"
)

var (
	profCatThreshold  int
	profMeanThreshold float64
	profFind          string
	profScaledOut     string
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Profile columns: categorical candidates, string columns, large means",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		catThr, meanThr := c.CategoricalThreshold, c.LargeMeanThreshold
		if cmd.Flags().Changed("categorical-threshold") {
			catThr = profCatThreshold
		}
		if cmd.Flags().Changed("mean-threshold") {
			meanThr = profMeanThreshold
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()

		card := profile.CategoricalColumns(ds, catThr)
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle(fmt.Sprintf("DISTINCT VALUES (categorical below %d)", catThr))
		t.AppendHeader(table.Row{"column", "distinct", "categorical"})
		for i, name := range card.Categorical {
			t.AppendRow(table.Row{name, card.CategoricalCount[i], "✓"})
		}
		for i, name := range card.Other {
			t.AppendRow(table.Row{name, card.OtherCount[i], ""})
		}
		t.Render()

		fmt.Fprintf(w, "String columns: %s\n", listOrNone(profile.StringColumns(ds)))
		large, means := profile.LargeMeanColumns(ds, meanThr)
		fmt.Fprintf(w, "Columns with mean > %g: %s\n", meanThr, listOrNone(large))
		for _, name := range large {
			if m := means[name]; !math.IsNaN(m) {
				fmt.Fprintf(w, "  %s: %.4g\n", name, m)
			}
		}
		if profFind != "" {
			fmt.Fprintf(w, "Columns containing %q: %s\n", profFind, listOrNone(profile.FindValue(ds, profFind)))
		}
		if profScaledOut != "" {
			num, err := ds.Select(ds.NumericNames()...)
			if err != nil {
				return err
			}
			scaled, err := profile.NormalizeMaxAbs(num)
			if err != nil {
				return err
			}
			if err := writeCSV(profScaledOut, scaled); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Wrote max-abs scaled numeric columns to %s\n", profScaledOut)
		}
		return nil
	},
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().IntVar(&profCatThreshold, "categorical-threshold", 21, "columns with fewer distinct values are categorical candidates")
	profileCmd.Flags().Float64Var(&profMeanThreshold, "mean-threshold", 5, "report numeric columns whose mean exceeds this")
	profileCmd.Flags().StringVar(&profFind, "find", "", "list the columns that contain this exact value")
	profileCmd.Flags().StringVar(&profScaledOut, "scaled-out", "", "write numeric columns scaled by max |value| to this CSV path")
}
