package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/reduce"
)

var (
	pcaFrac       float64
	pcaSeed       int64
	pcaFillNA     bool
	pcaFillValue  float64
	pcaComponents int
	pcaProjectOut string
)

var pcaCmd = &cobra.Command{
	Use:   "pca <file>",
	Short: "Cumulative explained variance of the numeric columns",
	Long: `Fit a principal component analysis on the numeric columns and print the
cumulative explained variance per component. Rows with missing cells are
dropped unless --fillna is set. --frac fits on a seeded random sample of rows.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		p, err := reduce.Fit(ds, pcaOptions(cmd))
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle(fmt.Sprintf("EXPLAINED VARIANCE (%d columns)", len(p.Labels)))
		t.AppendHeader(table.Row{"component", "variance", "ratio %", "cumulative %"})
		ratio, cum := p.Ratio(), p.Cumulative()
		for i, v := range p.Vars {
			t.AppendRow(table.Row{fmt.Sprintf("PC%d", i+1), fmt.Sprintf("%.4g", v), fmt.Sprintf("%.2f", 100*ratio[i]), fmt.Sprintf("%.2f", cum[i])})
		}
		t.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
		})
		t.Render()

		if pcaProjectOut != "" {
			coords, err := p.Transform(ds, pcaComponents)
			if err != nil {
				return err
			}
			r, k := coords.Dims()
			cols := make([]dataset.Column, k)
			for j := 0; j < k; j++ {
				vals := make([]float64, r)
				for i := range vals {
					vals[i] = coords.At(i, j)
				}
				cols[j] = dataset.NumericColumn(fmt.Sprintf("PC%d", j+1), vals...)
			}
			out, err := dataset.New(cols...)
			if err != nil {
				return err
			}
			if err := writeCSV(pcaProjectOut, out); err != nil {
				return err
			}
			fmt.Fprintf(w, "✓ Wrote %d rows projected on %d components to %s\n", r, k, pcaProjectOut)
		}
		return nil
	},
}

// pcaOptions merges the pca flags with the configured sampling defaults.
func pcaOptions(cmd *cobra.Command) reduce.Options {
	c := settings()
	opt := reduce.Options{Frac: c.PCAFrac, Seed: c.Seed, FillNA: pcaFillNA, FillValue: pcaFillValue}
	if cmd.Flags().Changed("frac") {
		opt.Frac = pcaFrac
	}
	if cmd.Flags().Changed("seed") {
		opt.Seed = pcaSeed
	}
	return opt
}

func init() {
	rootCmd.AddCommand(pcaCmd)
	pcaCmd.Flags().Float64Var(&pcaFrac, "frac", 1, "fraction of rows to fit on (default from config)")
	pcaCmd.Flags().Int64Var(&pcaSeed, "seed", 0, "random seed for row sampling (default from config)")
	pcaCmd.Flags().BoolVar(&pcaFillNA, "fillna", false, "replace missing cells with --fill-value instead of dropping rows")
	pcaCmd.Flags().Float64Var(&pcaFillValue, "fill-value", 0, "value used by --fillna")
	pcaCmd.Flags().IntVarP(&pcaComponents, "components", "k", 2, "components kept by --project-out")
	pcaCmd.Flags().StringVar(&pcaProjectOut, "project-out", "", "write the complete rows projected on the first k components to this CSV path")
}
