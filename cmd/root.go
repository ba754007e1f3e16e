package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/KaramelBytes/edakit/internal/config"
	"github.com/KaramelBytes/edakit/internal/dataset"
	"github.com/KaramelBytes/edakit/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Reading flags (override config if set)
	flagDelimiter string
	flagMaxRows   int
	flagSheet     string

	// Loaded configuration
	cfg *cfgpkg.Global
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "edakit",
	Short: "edakit: exploratory data analysis for tabular files",
	Long: `edakit reads CSV, TSV and XLSX files and summarizes them: missing data per
column and row, strongly correlated column pairs, column profiles, PCA
explained variance, classifier metrics and chi-square independence tests.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.edakit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagMaxRows, "max-rows", 0, "maximum rows to read, 0 = unlimited (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSheet, "sheet", "", "XLSX: sheet name to read (default first sheet)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("max-rows") && flagMaxRows >= 0 {
		cfg.MaxRows = flagMaxRows
	}

	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	l, err := logging.New(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		l, _ = logging.New("info")
	}
	log = l
}

// settings returns the loaded configuration, or defaults when loading was skipped.
func settings() *cfgpkg.Global {
	if cfg == nil {
		return cfgpkg.Defaults()
	}
	return cfg
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s", s)
	}
}

func parseDecimal(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",", "comma":
		return ',', nil
	case ".", "dot":
		return '.', nil
	case "":
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", s)
	}
}

func parseThousands(s string) (rune, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case ",":
		return ',', nil
	case ".":
		return '.', nil
	case "space", " ":
		return ' ', nil
	case "":
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", s)
	}
}

// readOptions builds dataset reading options from config and global flags.
func readOptions() (dataset.ReadOptions, error) {
	c := settings()
	opt := dataset.DefaultReadOptions()
	if len(c.MissingTokens) > 0 {
		opt.MissingTokens = c.MissingTokens
	}
	d, err := parseDelimiter(c.Delimiter)
	if err != nil {
		return opt, err
	}
	opt.Delimiter = d
	opt.MaxRows = c.MaxRows
	opt.Sheet = flagSheet
	return opt, nil
}

func loadDataset(path string) (*dataset.Dataset, error) {
	opt, err := readOptions()
	if err != nil {
		return nil, err
	}
	return loadDatasetWith(path, opt)
}

func loadDatasetWith(path string, opt dataset.ReadOptions) (*dataset.Dataset, error) {
	ds, err := dataset.ReadFile(path, opt)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded dataset", zap.String("path", path), zap.Int("rows", ds.Rows()), zap.Int("cols", ds.Cols()))
	return ds, nil
}
