package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/bfskpi/schema"
	"github.com/stretchr/testify/assert"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Repos:      []string{"acme/api", "acme/web"},
		Quarters:   DefaultQuarters,
		WindowDays: DefaultWindowDays,
		Backend:    string(schema.SQLiteBackend),
		OutputDir:  DefaultOutputDir,
		Precision:  DefaultPrecision,
		Color:      "yes",
	}
}

// TestProcessAndValidate tests validation across good and bad inputs.
func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConfigRawInput)
		wantErr string
	}{
		{
			name:   "valid input",
			mutate: func(*ConfigRawInput) {},
		},
		{
			name:    "no repos",
			mutate:  func(in *ConfigRawInput) { in.Repos = nil },
			wantErr: "at least one repository",
		},
		{
			name:    "scaling repo outside list",
			mutate:  func(in *ConfigRawInput) { in.ScalingRepo = "acme/other" },
			wantErr: "not in the tracked repository list",
		},
		{
			name:    "negative quarters",
			mutate:  func(in *ConfigRawInput) { in.Quarters = -1 },
			wantErr: "quarters cannot be negative",
		},
		{
			name:    "too many quarters",
			mutate:  func(in *ConfigRawInput) { in.Quarters = MaxQuarters + 1 },
			wantErr: "quarters cannot exceed",
		},
		{
			name:    "zero window days",
			mutate:  func(in *ConfigRawInput) { in.WindowDays = 0 },
			wantErr: "window-days must be positive",
		},
		{
			name:    "unknown backend",
			mutate:  func(in *ConfigRawInput) { in.Backend = "oracle" },
			wantErr: "unsupported backend",
		},
		{
			name: "mysql without connection string",
			mutate: func(in *ConfigRawInput) {
				in.Backend = string(schema.MySQLBackend)
				in.DBConnect = ""
			},
			wantErr: "db-connect is required",
		},
		{
			name:    "precision out of range",
			mutate:  func(in *ConfigRawInput) { in.Precision = 7 },
			wantErr: "precision must be between",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

// TestProcessAndValidateDefaults verifies derived defaults after a minimal
// valid input.
func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	err := ProcessAndValidate(cfg, validInput())

	assert.NoError(t, err)
	assert.Equal(t, "acme/api", cfg.ScalingRepo)
	assert.Equal(t, 90*24*time.Hour, cfg.WindowDuration)
	assert.Equal(t, time.Duration(0), cfg.Offset)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, 2, cfg.ForecastSteps)
	assert.Equal(t, DefaultScaleWindowDays, cfg.ScaleWindowDays)
	assert.Equal(t, schema.DefaultWeightConfig(), cfg.Weights)
	assert.True(t, cfg.UseColors)
}

// TestProcessAndValidateRepoDedupe verifies repeated and blank repo names
// collapse while preserving order.
func TestProcessAndValidateRepoDedupe(t *testing.T) {
	input := validInput()
	input.Repos = []string{"acme/api", " acme/api ", "", "acme/web", "acme/api"}

	cfg := &Config{}
	err := ProcessAndValidate(cfg, input)

	assert.NoError(t, err)
	assert.Equal(t, []string{"acme/api", "acme/web"}, cfg.Repos)
}

// TestProcessAndValidateColorDisabled verifies the "no" value turns colors off.
func TestProcessAndValidateColorDisabled(t *testing.T) {
	input := validInput()
	input.Color = "no"

	cfg := &Config{}
	assert.NoError(t, ProcessAndValidate(cfg, input))
	assert.False(t, cfg.UseColors)
}

// TestLoadWeights verifies ini overrides merge over defaults.
func TestLoadWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.ini")
	content := `[aggregator]
velocity_merges = 0.7
uig_stars = 0.1
sei_mac = 0.9
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	weights, err := LoadWeights(path)

	assert.NoError(t, err)
	assert.InDelta(t, 0.7, weights.VelocityMerges, 0.0001)
	assert.InDelta(t, 0.1, weights.UIGStars, 0.0001)
	assert.InDelta(t, 0.9, weights.SEIMAC, 0.0001)
	// Untouched keys keep their defaults.
	assert.InDelta(t, schema.DefaultVelocityClosedIss, weights.VelocityClosedIss, 0.0001)
}

// TestLoadWeightsEmptyPath verifies pure defaults when no file is configured.
func TestLoadWeightsEmptyPath(t *testing.T) {
	weights, err := LoadWeights("")
	assert.NoError(t, err)
	assert.Equal(t, schema.DefaultWeightConfig(), weights)
}

// TestLoadWeightsMissingFile verifies a configured but absent file is an error.
func TestLoadWeightsMissingFile(t *testing.T) {
	_, err := LoadWeights(filepath.Join(t.TempDir(), "nope.ini"))
	assert.Error(t, err)
}
