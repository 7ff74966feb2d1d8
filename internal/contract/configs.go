package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/bfskpi/schema"
	"github.com/spf13/viper"
)

// Default values for configuration.
const (
	DefaultQuarters        = 4
	DefaultWindowDays      = 90
	DefaultOffsetDays      = 0
	DefaultScaleWindowDays = 180
	DefaultPrecision       = 2
	DefaultOutputDir       = "kpi_outputs"

	MaxQuarters = 40
)

// DateTimeFormat is the timestamp representation used in reports and
// literal query text.
const DateTimeFormat = "2006-01-02 15:04:05"

// Config holds the final, validated runtime configuration.
type Config struct {
	Repos       []string // Tracked repositories, in report order
	ScalingRepo string   // Chart subject, contrasted against the peer average

	Quarters       int           // Number of windows per repository
	WindowDuration time.Duration // Fixed quarter length
	Offset         time.Duration // Shift applied to every anchor date

	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var as this is plaintext

	OutputDir string // Report, debug log and chart destination

	Forecast      bool // Append forecast points to chart series
	ForecastSteps int

	ScaleFactors    bool // Compute per-repo scale factors against the scaling repo
	ScaleWindowDays int

	Weights schema.WeightConfig

	Precision int  // Decimal precision for report columns
	Width     int  // Terminal width override (0 = auto-detect)
	UseColors bool // Enable colored headers in console output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config
// file). Viper unmarshals into this struct.
type ConfigRawInput struct {
	Repos       []string `mapstructure:"repos"`
	ScalingRepo string   `mapstructure:"scaling-repo"`

	Quarters   int `mapstructure:"quarters"`
	WindowDays int `mapstructure:"window-days"`
	OffsetDays int `mapstructure:"offset-days"`

	Backend   string `mapstructure:"backend"`
	DBConnect string `mapstructure:"db-connect"`

	OutputDir string `mapstructure:"output-dir"`

	Forecast      bool `mapstructure:"forecast"`
	ForecastSteps int  `mapstructure:"forecast-steps"`

	ScaleFactors    bool `mapstructure:"scale-factors"`
	ScaleWindowDays int  `mapstructure:"scale-window-days"`

	WeightsFile string `mapstructure:"weights-file"`

	Precision int    `mapstructure:"precision"`
	Width     int    `mapstructure:"width"`
	Color     string `mapstructure:"color"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if len(input.Repos) == 0 {
		return fmt.Errorf("at least one repository must be configured via --repos or the config file")
	}
	cfg.Repos = dedupeRepos(input.Repos)

	cfg.ScalingRepo = input.ScalingRepo
	if cfg.ScalingRepo == "" {
		cfg.ScalingRepo = cfg.Repos[0]
	}
	if !containsRepo(cfg.Repos, cfg.ScalingRepo) {
		return fmt.Errorf("scaling repo %q is not in the tracked repository list", cfg.ScalingRepo)
	}

	if input.Quarters < 0 {
		return fmt.Errorf("quarters cannot be negative, got %d", input.Quarters)
	}
	if input.Quarters > MaxQuarters {
		return fmt.Errorf("quarters cannot exceed %d, got %d", MaxQuarters, input.Quarters)
	}
	cfg.Quarters = input.Quarters

	if input.WindowDays <= 0 {
		return fmt.Errorf("window-days must be positive, got %d", input.WindowDays)
	}
	cfg.WindowDuration = time.Duration(input.WindowDays) * 24 * time.Hour
	cfg.Offset = time.Duration(input.OffsetDays) * 24 * time.Hour

	backend := schema.DatabaseBackend(strings.ToLower(input.Backend))
	if _, ok := schema.ValidBackends[backend]; !ok {
		return fmt.Errorf("unsupported backend %q: must be sqlite, mysql, or postgresql", input.Backend)
	}
	cfg.Backend = backend
	if backend != schema.SQLiteBackend && input.DBConnect == "" {
		return fmt.Errorf("db-connect is required when using %s backend", backend)
	}
	cfg.DBConnect = input.DBConnect

	cfg.OutputDir = input.OutputDir
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}

	cfg.Forecast = input.Forecast
	cfg.ForecastSteps = input.ForecastSteps
	if cfg.ForecastSteps <= 0 {
		cfg.ForecastSteps = 2
	}

	cfg.ScaleFactors = input.ScaleFactors
	cfg.ScaleWindowDays = input.ScaleWindowDays
	if cfg.ScaleWindowDays <= 0 {
		cfg.ScaleWindowDays = DefaultScaleWindowDays
	}

	weights, err := LoadWeights(input.WeightsFile)
	if err != nil {
		return err
	}
	cfg.Weights = weights

	cfg.Precision = input.Precision
	if cfg.Precision < 0 || cfg.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6, got %d", input.Precision)
	}
	cfg.Width = input.Width
	cfg.UseColors = strings.ToLower(input.Color) != "no"

	return nil
}

// LoadWeights builds the weight config from defaults plus an optional ini
// file with an [aggregator] section. A missing path returns pure defaults;
// a configured path that does not exist is an error.
func LoadWeights(path string) (schema.WeightConfig, error) {
	weights := schema.DefaultWeightConfig()
	if path == "" {
		return weights, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return weights, fmt.Errorf("error reading weights file %s: %w", path, err)
	}

	for _, key := range schema.WeightKeys {
		full := "aggregator." + key
		if v.IsSet(full) {
			weights.Set(key, v.GetFloat64(full))
		}
	}
	return weights, nil
}

func dedupeRepos(repos []string) []string {
	seen := make(map[string]struct{}, len(repos))
	out := make([]string, 0, len(repos))
	for _, r := range repos {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func containsRepo(repos []string, name string) bool {
	for _, r := range repos {
		if r == name {
			return true
		}
	}
	return false
}
