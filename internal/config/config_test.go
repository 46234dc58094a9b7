package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 7, cfg.Analysis.HedgeDays)
	assert.Equal(t, 0.95, cfg.Analysis.Confidence)
	assert.Equal(t, 1000000.0, cfg.Analysis.PositionValue)
	assert.Equal(t, 0.0002, cfg.Costs.CommissionRate)
	assert.Equal(t, 0.05, cfg.Costs.FinancingRate)
	assert.Equal(t, 0.0001, cfg.Costs.SlippageRate)
	assert.Equal(t, 0.1, cfg.Costs.MarginRate)
}

func TestDefaultIgnoresEnvironment(t *testing.T) {
	// unprefixed names that envconfig's alt-name lookup would pick up
	t.Setenv("CONFIDENCE", "0.5")
	t.Setenv("LEVEL", "debug")
	t.Setenv("HEDGE_DAYS", "99")

	cfg := Default()
	assert.Equal(t, 0.95, cfg.Analysis.Confidence)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 7, cfg.Analysis.HedgeDays)
}

func TestLoadEnvOverride(t *testing.T) {
	chdirTemp(t)
	t.Setenv("OMNI_ANALYSIS_HEDGE_DAYS", "30")
	t.Setenv("OMNI_COSTS_MARGIN_RATE", "0.15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Analysis.HedgeDays)
	assert.Equal(t, 0.15, cfg.Costs.MarginRate)
	// untouched values keep their defaults
	assert.Equal(t, 0.95, cfg.Analysis.Confidence)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := chdirTemp(t)
	content := []byte("analysis:\n  hedge_days: 15\n  confidence: 0.99\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), content, 0644))

	cfg, err := Load()
	require.NoError(t, err)

	// file values survive the env overlay when no OMNI_* variable is set
	assert.Equal(t, 15, cfg.Analysis.HedgeDays)
	assert.Equal(t, 0.99, cfg.Analysis.Confidence)
	// keys the file does not mention keep their defaults
	assert.Equal(t, 1000000.0, cfg.Analysis.PositionValue)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadLayerPrecedence(t *testing.T) {
	dir := chdirTemp(t)
	content := []byte("analysis:\n  hedge_days: 15\n  confidence: 0.99\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), content, 0644))
	t.Setenv("OMNI_ANALYSIS_CONFIDENCE", "0.90")

	cfg, err := Load()
	require.NoError(t, err)

	// env beats file, file beats defaults
	assert.Equal(t, 0.90, cfg.Analysis.Confidence)
	assert.Equal(t, 15, cfg.Analysis.HedgeDays)
	assert.Equal(t, 1000000.0, cfg.Analysis.PositionValue)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid defaults", mutate: func(c *Config) {}},
		{
			name:    "zero hedge days",
			mutate:  func(c *Config) { c.Analysis.HedgeDays = 0 },
			wantErr: "hedge_days",
		},
		{
			name:    "confidence out of range",
			mutate:  func(c *Config) { c.Analysis.Confidence = 1.5 },
			wantErr: "confidence",
		},
		{
			name:    "negative position",
			mutate:  func(c *Config) { c.Analysis.PositionValue = -1 },
			wantErr: "position_value",
		},
		{
			name:    "margin above one",
			mutate:  func(c *Config) { c.Costs.MarginRate = 1.2 },
			wantErr: "margin_rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
