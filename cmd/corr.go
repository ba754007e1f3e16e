package cmd

import (
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/edakit/internal/correlation"
	"github.com/KaramelBytes/edakit/internal/utils"
)

var (
	corrThreshold float64
	corrMethod    string
	corrStrict    bool
	corrTop       int
	corrMatrix    bool
	corrJSON      bool
)

var corrCmd = &cobra.Command{
	Use:   "corr <file>",
	Short: "List strongly correlated column pairs",
	Long: `Compute the correlation matrix of the numeric columns and list every
unordered pair whose absolute coefficient is at least --threshold. Each pair
appears once. Use --strict to fail on non-numeric columns instead of
skipping them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		thr, method := c.CorrThreshold, c.CorrMethod
		if cmd.Flags().Changed("threshold") {
			thr = corrThreshold
		}
		if cmd.Flags().Changed("method") {
			method = corrMethod
		}
		m, err := correlation.ParseMethod(method)
		if err != nil {
			return err
		}
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		compute := correlation.Compute
		if corrStrict {
			compute = correlation.ComputeStrict
		}
		mx, err := compute(ds, m)
		if err != nil {
			return err
		}
		pairs := correlation.FilterPairs(mx, thr)
		if corrTop > 0 {
			pairs = correlation.TopPairs(mx, corrTop)
		}

		w := cmd.OutOrStdout()
		if corrJSON {
			b, err := utils.PrettyJSON(pairs)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
			return nil
		}
		if corrMatrix {
			renderMatrix(w, mx, m)
		}
		t := table.NewWriter()
		t.SetOutputMirror(w)
		if corrTop > 0 {
			t.SetTitle(fmt.Sprintf("TOP %d PAIRS (%s)", corrTop, m))
		} else {
			t.SetTitle(fmt.Sprintf("PAIRS |r| >= %.2f (%s)", thr, m))
		}
		t.AppendHeader(table.Row{"a", "b", "r"})
		for _, p := range pairs {
			t.AppendRow(table.Row{p.A, p.B, fmt.Sprintf("%.4f", p.R)})
		}
		t.Render()
		log.Debug("correlation pairs", zap.Int("count", len(pairs)), zap.Float64("threshold", thr))
		return nil
	},
}

// renderMatrix prints every coefficient of mx, labels on both axes.
func renderMatrix(w io.Writer, mx *correlation.Matrix, m correlation.Method) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("CORRELATION MATRIX (%s)", m))
	header := table.Row{""}
	for _, l := range mx.Labels {
		header = append(header, l)
	}
	t.AppendHeader(header)
	cfgs := make([]table.ColumnConfig, 0, len(mx.Labels))
	for i, l := range mx.Labels {
		row := table.Row{l}
		for _, v := range mx.Values[i] {
			if math.IsNaN(v) {
				row = append(row, "NaN")
				continue
			}
			row = append(row, fmt.Sprintf("%.4f", v))
		}
		t.AppendRow(row)
		cfgs = append(cfgs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	t.SetColumnConfigs(cfgs)
	t.Render()
}

func init() {
	rootCmd.AddCommand(corrCmd)
	corrCmd.Flags().Float64VarP(&corrThreshold, "threshold", "t", 0.7, "minimum absolute correlation (default from config)")
	corrCmd.Flags().StringVarP(&corrMethod, "method", "m", "pearson", "correlation method: pearson|spearman (default from config)")
	corrCmd.Flags().BoolVar(&corrStrict, "strict", false, "fail on non-numeric columns instead of skipping them")
	corrCmd.Flags().IntVar(&corrTop, "top", 0, "list the k strongest pairs regardless of threshold")
	corrCmd.Flags().BoolVar(&corrMatrix, "matrix", false, "print the full correlation matrix")
	corrCmd.Flags().BoolVar(&corrJSON, "json", false, "print pairs as JSON")
}
