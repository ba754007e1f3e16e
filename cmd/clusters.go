package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/KaramelBytes/edakit/internal/chart"
	"github.com/KaramelBytes/edakit/internal/cluster"
	"github.com/KaramelBytes/edakit/internal/reduce"
	"github.com/KaramelBytes/edakit/internal/utils"
)

var (
	clusterKs        []int
	clusterSeed      int64
	clusterFrac      float64
	clusterFillNA    bool
	clusterFillValue float64
	clusterMaxIter   int
	clusterRestarts  int
	clusterCenters   bool
	clusterJSON      bool
	clusterPlot      string
)

// clusterRow is the JSON shape of one fitted k.
type clusterRow struct {
	K          int         `json:"k"`
	Inertia    float64     `json:"inertia"`
	Sizes      []int       `json:"sizes"`
	Iterations int         `json:"iterations"`
	Centers    [][]float64 `json:"centers"`
}

var clustersCmd = &cobra.Command{
	Use:   "clusters <file>",
	Short: "K-means inertia per cluster count for an elbow search",
	Long: `Fit k-means on the numeric columns once per --k value and print the
inertia (sum of squared distances to the nearest center) with the cluster
sizes. Rows with missing cells are dropped unless --fillna is set. The
k-means++ starts are seeded, so reruns with the same --seed agree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := loadDataset(args[0])
		if err != nil {
			return err
		}
		e, err := cluster.Search(ds, clusterKs, clusterOptions(cmd))
		if err != nil {
			return err
		}
		log.Debug("k-means sweep", zap.Ints("k", e.Ks()), zap.Int("rows", e.Rows))

		w := cmd.OutOrStdout()
		if clusterJSON {
			rows := make([]clusterRow, len(e.Results))
			for i, r := range e.Results {
				rows[i] = clusterRow{K: r.K, Inertia: r.Inertia, Sizes: r.Sizes, Iterations: r.Iterations, Centers: denseRows(r.Centers)}
			}
			b, err := utils.PrettyJSON(rows)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
		} else {
			renderInertia(w, e)
			if clusterCenters {
				for _, r := range e.Results {
					renderCenters(w, e.Columns, r)
				}
			}
		}

		if clusterPlot != "" {
			if err := utils.EnsureDir(clusterPlot); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			if err := chart.Elbow(e.Ks(), e.Inertias(), clusterPlot); err != nil {
				return err
			}
			wrotePlot(cmd, clusterPlot)
		}
		return nil
	},
}

func renderInertia(w io.Writer, e cluster.Elbow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("K-MEANS INERTIA (%d rows, %d columns)", e.Rows, len(e.Columns)))
	t.AppendHeader(table.Row{"k", "inertia", "iterations", "sizes"})
	for _, r := range e.Results {
		sizes := make([]string, len(r.Sizes))
		for i, n := range r.Sizes {
			sizes[i] = fmt.Sprint(n)
		}
		t.AppendRow(table.Row{r.K, fmt.Sprintf("%.4f", r.Inertia), r.Iterations, strings.Join(sizes, " ")})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()
}

func renderCenters(w io.Writer, columns []string, r cluster.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("CENTERS (k=%d)", r.K))
	header := table.Row{"cluster"}
	for _, c := range columns {
		header = append(header, c)
	}
	t.AppendHeader(header)
	for i, row := range denseRows(r.Centers) {
		line := table.Row{i}
		for _, v := range row {
			line = append(line, fmt.Sprintf("%.4f", v))
		}
		t.AppendRow(line)
	}
	t.Render()
}

func denseRows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}

// clusterOptions merges the clusters flags with the configured seed.
func clusterOptions(cmd *cobra.Command) cluster.Options {
	opt := cluster.Options{
		Options:  reduce.Options{Frac: clusterFrac, Seed: settings().Seed, FillNA: clusterFillNA, FillValue: clusterFillValue},
		MaxIter:  clusterMaxIter,
		Restarts: clusterRestarts,
	}
	if cmd.Flags().Changed("seed") {
		opt.Seed = clusterSeed
	}
	return opt
}

func init() {
	rootCmd.AddCommand(clustersCmd)
	clustersCmd.Flags().IntSliceVar(&clusterKs, "k", []int{2, 3, 4}, "cluster counts to fit, comma separated")
	clustersCmd.Flags().Int64Var(&clusterSeed, "seed", 0, "random seed for sampling and k-means++ starts (default from config)")
	clustersCmd.Flags().Float64Var(&clusterFrac, "frac", 1, "fraction of rows to fit on")
	clustersCmd.Flags().BoolVar(&clusterFillNA, "fillna", false, "replace missing cells with --fill-value instead of dropping rows")
	clustersCmd.Flags().Float64Var(&clusterFillValue, "fill-value", 0, "value used by --fillna")
	clustersCmd.Flags().IntVar(&clusterMaxIter, "max-iter", 300, "Lloyd iterations per start")
	clustersCmd.Flags().IntVar(&clusterRestarts, "restarts", 10, "k-means++ starts per k; the lowest inertia is kept")
	clustersCmd.Flags().BoolVar(&clusterCenters, "centers", false, "also print the centers of every k")
	clustersCmd.Flags().BoolVar(&clusterJSON, "json", false, "print results as JSON")
	clustersCmd.Flags().StringVarP(&clusterPlot, "plot", "p", "", "write an elbow chart (png/svg/pdf) to this path")
}
