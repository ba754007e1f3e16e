package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edakit/internal/missing"
)

var (
	missColThreshold float64
	missRowThreshold float64
	missAll          bool
	missDropRows     string
)

var missingCmd = &cobra.Command{
	Use:   "missing <file>",
	Short: "Report missing data per column and per row",
	Long: `Report the percentage of missing cells per column and per row.

Columns strictly above --col-threshold and rows at or above --row-threshold
(both in percent) are listed. --drop-rows writes the dataset without the
flagged rows as CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		colThr, rowThr := c.ColumnThreshold, c.RowThreshold
		if cmd.Flags().Changed("col-threshold") {
			colThr = missColThreshold
		}
		if cmd.Flags().Changed("row-threshold") {
			rowThr = missRowThreshold
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		audit := missing.NewAuditor(log)
		cols, rep, err := audit.Columns(ds, colThr)
		if err != nil {
			return err
		}
		rows, err := audit.Rows(ds, rowThr)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle("MISSING DATA BY COLUMN")
		t.AppendHeader(table.Row{"column", "missing %", "flagged"})
		list := rep.NonZero()
		if missAll {
			list = rep.Columns
		}
		flagged := make(map[string]bool, len(cols))
		for _, name := range cols {
			flagged[name] = true
		}
		for _, name := range list {
			mark := ""
			if flagged[name] {
				mark = "✓"
			}
			t.AppendRow(table.Row{name, fmt.Sprintf("%.2f", rep.Percent[name]), mark})
		}
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
		t.Render()

		fmt.Fprintf(w, "Columns with more than %.1f%% missing: %d of %d\n", colThr, len(cols), ds.Cols())
		if len(cols) > 0 {
			fmt.Fprintf(w, "  %s\n", strings.Join(cols, ", "))
		}
		fmt.Fprintf(w, "Rows with at least %.1f%% missing: %d of %d\n", rowThr, len(rows), ds.Rows())
		if len(rows) > 0 {
			fmt.Fprintf(w, "  %s\n", joinInts(rows, 20))
		}

		if missDropRows != "" {
			kept := ds.DropRows(rows)
			if err := writeCSV(missDropRows, kept); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Wrote %d rows to %s\n", kept.Rows(), missDropRows)
		}
		return nil
	},
}

// joinInts renders up to limit values, then an ellipsis with the remainder.
func joinInts(vals []int, limit int) string {
	parts := make([]string, 0, limit+1)
	for i, v := range vals {
		if i == limit {
			parts = append(parts, fmt.Sprintf("... (%d more)", len(vals)-limit))
			break
		}
		parts = append(parts, fmt.Sprint(v))
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(missingCmd)
	missingCmd.Flags().Float64Var(&missColThreshold, "col-threshold", 20, "flag columns with strictly more than this percent missing")
	missingCmd.Flags().Float64Var(&missRowThreshold, "row-threshold", 12, "flag rows with at least this percent missing")
	missingCmd.Flags().BoolVar(&missAll, "all", false, "list every column, not only those with missing cells")
	missingCmd.Flags().StringVar(&missDropRows, "drop-rows", "", "write the dataset without flagged rows to this CSV path")
}
