package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
	Costs    CostConfig     `yaml:"costs" envconfig:"COSTS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir   string `yaml:"data_dir" envconfig:"DATA_DIR"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
}

// AnalysisConfig carries the fixed hedge-analysis parameters consumed by
// cmd/analyze. Position value is in currency units.
type AnalysisConfig struct {
	HedgeDays     int     `yaml:"hedge_days" envconfig:"HEDGE_DAYS"`
	Confidence    float64 `yaml:"confidence" envconfig:"CONFIDENCE"`
	PositionValue float64 `yaml:"position_value" envconfig:"POSITION_VALUE"`
}

// CostConfig carries the cost model rates. Defaults mirror typical Chinese
// commodity futures terms: 2bp commission, 5% annual financing, 1bp
// slippage, 10% margin.
type CostConfig struct {
	CommissionRate float64 `yaml:"commission_rate" envconfig:"COMMISSION_RATE"`
	FinancingRate  float64 `yaml:"financing_rate" envconfig:"FINANCING_RATE"`
	SlippageRate   float64 `yaml:"slippage_rate" envconfig:"SLIPPAGE_RATE"`
	MarginRate     float64 `yaml:"margin_rate" envconfig:"MARGIN_RATE"`
}

const configFileName = "omnihedge.yaml"

// Load builds the configuration in three layers, each overriding the one
// below: built-in defaults, then the optional YAML file, then OMNI_*
// environment variables. The struct carries no envconfig default tags on
// purpose; envconfig writes tag defaults over already-populated fields,
// which would discard the file layer.
func Load() (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(configFileName); err == nil {
		data, err := os.ReadFile(configFileName)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("OMNI", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration. It reads neither file nor
// environment, so callers using it as a fallback get reproducible values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/omnihedge.log",
		},
		Paths: PathsConfig{
			DataDir:   ".",
			OutputDir: "data/processed",
		},
		Analysis: AnalysisConfig{
			HedgeDays:     7,
			Confidence:    0.95,
			PositionValue: 1000000,
		},
		Costs: CostConfig{
			CommissionRate: 0.0002,
			FinancingRate:  0.05,
			SlippageRate:   0.0001,
			MarginRate:     0.1,
		},
	}
}

func (c *Config) validate() error {
	if c.Analysis.HedgeDays <= 0 {
		return fmt.Errorf("analysis.hedge_days must be positive, got %d", c.Analysis.HedgeDays)
	}
	if c.Analysis.Confidence <= 0 || c.Analysis.Confidence >= 1 {
		return fmt.Errorf("analysis.confidence must be in (0, 1), got %v", c.Analysis.Confidence)
	}
	if c.Analysis.PositionValue <= 0 {
		return fmt.Errorf("analysis.position_value must be positive, got %v", c.Analysis.PositionValue)
	}
	if c.Costs.MarginRate < 0 || c.Costs.MarginRate > 1 {
		return fmt.Errorf("costs.margin_rate must be in [0, 1], got %v", c.Costs.MarginRate)
	}
	return nil
}
