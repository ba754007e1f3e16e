package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edakit/internal/utils"
)

var (
	abOutDir     string
	abFormat     string
	abSampleRows int
	abGroupBy    []string
	abCorr       bool
	abOutliers   bool
	abOutlierThr float64
	abQuiet      bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files with progress and optional summary files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		ropt, err := readOptions()
		if err != nil {
			return err
		}
		opt, err := reportOptions()
		if err != nil {
			return err
		}
		opt.SampleRows = abSampleRows
		opt.GroupBy = abGroupBy
		opt.Correlations = abCorr
		opt.Outliers = abOutliers
		if abOutlierThr > 0 {
			opt.OutlierThreshold = abOutlierThr
		}
		format := abFormat
		if !cmd.Flags().Changed("format") {
			format = settings().OutputFormat
		}

		w := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(w, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			out, err := analyzeFile(path, ropt, opt, format)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if abOutDir == "" {
				fmt.Fprintln(w, string(out))
				continue
			}
			if err := os.MkdirAll(abOutDir, 0o755); err != nil {
				return err
			}
			outFile := summaryPath(abOutDir, path, format)
			if err := utils.SafeWriteFile(outFile, out); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(w, "✓ Wrote %s\n", outFile)
			}
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist and drops duplicates.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// summaryPath picks <base>.summary.<ext> in dir, adding __2, __3... when taken.
func summaryPath(dir, input, format string) string {
	ext := "md"
	switch strings.ToLower(format) {
	case "json":
		ext = "json"
	case "table":
		ext = "txt"
	}
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	outFile := filepath.Join(dir, fmt.Sprintf("%s.summary.%s", base, ext))
	if _, err := os.Stat(outFile); err != nil {
		return outFile
	}
	for idx := 2; ; idx++ {
		cand := filepath.Join(dir, fmt.Sprintf("%s__%d.summary.%s", base, idx, ext))
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory to write one summary per input (default prints to stdout)")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "markdown", "output format: markdown|table|json (default from config)")
	analyzeBatchCmd.Flags().IntVar(&abSampleRows, "sample-rows", 5, "number of sample rows to include (0 disables samples)")
	analyzeBatchCmd.Flags().StringSliceVar(&abGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	analyzeBatchCmd.Flags().BoolVar(&abCorr, "correlations", true, "compute correlations among numeric columns")
	analyzeBatchCmd.Flags().BoolVar(&abOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	analyzeBatchCmd.Flags().Float64Var(&abOutlierThr, "outlier-threshold", 0, "robust |z| threshold for outliers (default from config)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
