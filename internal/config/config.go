package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Missing-data thresholds, in percent.
	ColumnThreshold float64 `mapstructure:"column_threshold" yaml:"column_threshold"`
	RowThreshold    float64 `mapstructure:"row_threshold" yaml:"row_threshold"`

	CorrThreshold float64 `mapstructure:"corr_threshold" yaml:"corr_threshold"`
	CorrMethod    string  `mapstructure:"corr_method" yaml:"corr_method"`

	// Profiling
	CategoricalThreshold int     `mapstructure:"categorical_threshold" yaml:"categorical_threshold"`
	LargeMeanThreshold   float64 `mapstructure:"large_mean_threshold" yaml:"large_mean_threshold"`
	OutlierThreshold     float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`

	// Reading
	MissingTokens []string `mapstructure:"missing_tokens" yaml:"missing_tokens"`
	Delimiter     string   `mapstructure:"delimiter" yaml:"delimiter"`
	MaxRows       int      `mapstructure:"max_rows" yaml:"max_rows"`

	// PCA sampling
	PCAFrac float64 `mapstructure:"pca_frac" yaml:"pca_frac"`
	Seed    int64   `mapstructure:"seed" yaml:"seed"`

	OutputFormat string `mapstructure:"output_format" yaml:"output_format"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() *Global {
	return &Global{
		ColumnThreshold:      20,
		RowThreshold:         12,
		CorrThreshold:        0.7,
		CorrMethod:           "pearson",
		CategoricalThreshold: 21,
		LargeMeanThreshold:   5,
		OutlierThreshold:     3.5,
		MissingTokens:        []string{"NA", "N/A", "NaN", "null", "None", "nan", "<NA>"},
		PCAFrac:              1.0,
		OutputFormat:         "markdown",
		LogLevel:             "info",
	}
}

// DefaultPath returns ~/.edakit/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".edakit", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.edakit/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("EDAKIT")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("column_threshold", d.ColumnThreshold)
	v.SetDefault("row_threshold", d.RowThreshold)
	v.SetDefault("corr_threshold", d.CorrThreshold)
	v.SetDefault("corr_method", d.CorrMethod)
	v.SetDefault("categorical_threshold", d.CategoricalThreshold)
	v.SetDefault("large_mean_threshold", d.LargeMeanThreshold)
	v.SetDefault("outlier_threshold", d.OutlierThreshold)
	v.SetDefault("missing_tokens", d.MissingTokens)
	v.SetDefault("delimiter", "")
	v.SetDefault("max_rows", 0)
	v.SetDefault("pca_frac", d.PCAFrac)
	v.SetDefault("seed", 0)
	v.SetDefault("output_format", d.OutputFormat)
	v.SetDefault("log_level", d.LogLevel)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".edakit"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns a single key by its yaml name. Numeric values are parsed with
// cast; missing_tokens takes a comma-separated list.
func (c *Global) Set(key, value string) error {
	var err error
	switch key {
	case "column_threshold":
		c.ColumnThreshold, err = cast.ToFloat64E(value)
	case "row_threshold":
		c.RowThreshold, err = cast.ToFloat64E(value)
	case "corr_threshold":
		c.CorrThreshold, err = cast.ToFloat64E(value)
	case "corr_method":
		c.CorrMethod = value
	case "categorical_threshold":
		c.CategoricalThreshold, err = cast.ToIntE(value)
	case "large_mean_threshold":
		c.LargeMeanThreshold, err = cast.ToFloat64E(value)
	case "outlier_threshold":
		c.OutlierThreshold, err = cast.ToFloat64E(value)
	case "missing_tokens":
		c.MissingTokens = nil
		for _, t := range strings.Split(value, ",") {
			if t = strings.TrimSpace(t); t != "" {
				c.MissingTokens = append(c.MissingTokens, t)
			}
		}
	case "delimiter":
		c.Delimiter = value
	case "max_rows":
		c.MaxRows, err = cast.ToIntE(value)
	case "pca_frac":
		c.PCAFrac, err = cast.ToFloat64E(value)
	case "seed":
		c.Seed, err = cast.ToInt64E(value)
	case "output_format":
		c.OutputFormat = value
	case "log_level":
		c.LogLevel = value
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Keys lists the settable keys in display order.
func Keys() []string {
	return []string{
		"column_threshold", "row_threshold", "corr_threshold", "corr_method",
		"categorical_threshold", "large_mean_threshold", "outlier_threshold",
		"missing_tokens", "delimiter", "max_rows", "pca_frac", "seed",
		"output_format", "log_level",
	}
}
