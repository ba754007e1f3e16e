package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edakit/internal/analysis"
	"github.com/KaramelBytes/edakit/internal/correlation"
	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/utils"
)

var (
	anaOutputPath string
	anaFormat     string
	anaSampleRows int
	anaGroupBy    []string
	anaCorr       bool
	anaSheetIndex int
	anaDecimal    string
	anaThousands  string
	anaOutliers   bool
	anaOutlierThr float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV/TSV/XLSX and produce a concise summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ropt, err := readOptions()
		if err != nil {
			return err
		}
		if ropt.DecimalSeparator, err = parseDecimal(anaDecimal); err != nil {
			return err
		}
		if ropt.ThousandsSeparator, err = parseThousands(anaThousands); err != nil {
			return err
		}
		ropt.SheetIndex = anaSheetIndex

		opt, err := reportOptions()
		if err != nil {
			return err
		}
		opt.SampleRows = anaSampleRows
		opt.GroupBy = anaGroupBy
		opt.Correlations = anaCorr
		opt.Outliers = anaOutliers
		if anaOutlierThr > 0 {
			opt.OutlierThreshold = anaOutlierThr
		}

		format := anaFormat
		if !cmd.Flags().Changed("format") {
			format = settings().OutputFormat
		}
		out, err := analyzeFile(path, ropt, opt, format)
		if err != nil {
			return err
		}
		if anaOutputPath != "" {
			if err := utils.EnsureDir(anaOutputPath); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// reportOptions seeds analysis options from the loaded configuration.
func reportOptions() (analysis.Options, error) {
	c := settings()
	opt := analysis.DefaultOptions()
	opt.ColumnThreshold = c.ColumnThreshold
	opt.RowThreshold = c.RowThreshold
	opt.CorrThreshold = c.CorrThreshold
	opt.OutlierThreshold = c.OutlierThreshold
	m, err := correlation.ParseMethod(c.CorrMethod)
	if err != nil {
		return opt, err
	}
	opt.CorrMethod = m
	opt.Log = log
	return opt, nil
}

// analyzeFile reads path, builds its report and renders it in format.
func analyzeFile(path string, ropt dataset.ReadOptions, opt analysis.Options, format string) ([]byte, error) {
	ds, err := loadDatasetWith(path, ropt)
	if err != nil {
		return nil, err
	}
	rep, err := analysis.Build(filepath.Base(path), ds, opt)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "", "markdown", "md":
		return []byte(rep.Markdown()), nil
	case "table":
		return []byte(rep.Table(nil)), nil
	case "json":
		return rep.JSON()
	default:
		return nil, fmt.Errorf("unsupported --format: %s (use markdown|table|json)", format)
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "markdown", "output format: markdown|table|json (default from config)")
	analyzeCmd.Flags().StringVar(&anaDecimal, "decimal", "", "decimal separator for numbers: '.'|'comma' (auto-detect if omitted)")
	analyzeCmd.Flags().StringVar(&anaThousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space' (auto-detect if omitted)")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables samples)")
	analyzeCmd.Flags().StringSliceVar(&anaGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	analyzeCmd.Flags().BoolVar(&anaCorr, "correlations", true, "compute correlations among numeric columns")
	analyzeCmd.Flags().BoolVar(&anaOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	analyzeCmd.Flags().Float64Var(&anaOutlierThr, "outlier-threshold", 0, "robust |z| threshold for outliers (default from config)")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet not provided)")
}
