// Package config loads and validates the engine configuration. Every knob
// the analytics expose lives here as an explicit parameter; nothing reads
// hidden global state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete engine configuration.
type Config struct {
	Risk     RiskConfig     `json:"risk" yaml:"risk"`
	Options  OptionsConfig  `json:"options" yaml:"options"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Provider ProviderConfig `json:"provider" yaml:"provider"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
}

// RiskConfig parameterizes the VaR estimators.
type RiskConfig struct {
	Confidence   float64 `json:"confidence" yaml:"confidence"`
	HorizonDays  int     `json:"horizon_days" yaml:"horizon_days"`
	Method       string  `json:"method" yaml:"method"` // historical, parametric, monte_carlo_path
	Paths        int     `json:"paths" yaml:"paths"`
	Seed         int64   `json:"seed" yaml:"seed"`
	MinSamples   int     `json:"min_samples" yaml:"min_samples"`
	ReturnMethod string  `json:"return_method" yaml:"return_method"` // simple or log
	Lookback     int     `json:"lookback" yaml:"lookback"`           // price history length
}

// OptionsConfig parameterizes option pricing.
type OptionsConfig struct {
	RiskFreeRate  float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
	DividendYield float64 `json:"dividend_yield" yaml:"dividend_yield"`
}

// BacktestConfig parameterizes the backtest engine.
type BacktestConfig struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	CostRate       float64 `json:"cost_rate" yaml:"cost_rate"`
	Strategy       string  `json:"strategy" yaml:"strategy"`
	Lookback       int     `json:"lookback" yaml:"lookback"`
}

// ProviderConfig selects the market data source. The kind is always an
// explicit choice: a missing CSV directory is an error, not a cue to fall
// back to synthetic data.
type ProviderConfig struct {
	Kind        string   `json:"kind" yaml:"kind"` // synthetic or csv
	Symbols     []string `json:"symbols,omitempty" yaml:"symbols,omitempty"`
	HistoryDir  string   `json:"history_dir,omitempty" yaml:"history_dir,omitempty"`
	Seed        int64    `json:"seed" yaml:"seed"`
	AnnualDrift float64  `json:"annual_drift" yaml:"annual_drift"`
	AnnualVol   float64  `json:"annual_vol" yaml:"annual_vol"`

	// Cache bounds; zero max age disables caching.
	CacheMaxAge     string `json:"cache_max_age,omitempty" yaml:"cache_max_age,omitempty"` // e.g. "10s"
	CacheMaxEntries int    `json:"cache_max_entries,omitempty" yaml:"cache_max_entries,omitempty"`
}

// JournalConfig parameterizes persistence.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
}

// LoadFromFile reads YAML or JSON configuration and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, YAML for .yaml/.yml and JSON
// otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for out-of-domain values.
func (c *Config) Validate() error {
	if c.Risk.Confidence <= 0 || c.Risk.Confidence >= 1 {
		return fmt.Errorf("risk.confidence must be in (0, 1)")
	}
	if c.Risk.HorizonDays < 1 {
		return fmt.Errorf("risk.horizon_days must be >= 1")
	}
	switch c.Risk.Method {
	case "historical", "parametric", "monte_carlo_path":
	default:
		return fmt.Errorf("risk.method must be historical, parametric or monte_carlo_path")
	}
	if c.Risk.Paths < 1 {
		return fmt.Errorf("risk.paths must be >= 1")
	}
	if c.Risk.MinSamples < 2 {
		return fmt.Errorf("risk.min_samples must be >= 2")
	}
	if c.Risk.ReturnMethod != "simple" && c.Risk.ReturnMethod != "log" {
		return fmt.Errorf("risk.return_method must be simple or log")
	}
	if c.Risk.Lookback < c.Risk.MinSamples+1 {
		return fmt.Errorf("risk.lookback must exceed risk.min_samples")
	}
	if c.Options.DividendYield < 0 {
		return fmt.Errorf("options.dividend_yield must be >= 0")
	}
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be positive")
	}
	if c.Backtest.CostRate < 0 {
		return fmt.Errorf("backtest.cost_rate must be >= 0")
	}
	switch c.Provider.Kind {
	case "synthetic":
		if c.Provider.AnnualVol <= 0 {
			return fmt.Errorf("provider.annual_vol must be positive for synthetic data")
		}
	case "csv":
		if c.Provider.HistoryDir == "" {
			return fmt.Errorf("provider.history_dir required for csv provider")
		}
	default:
		return fmt.Errorf("provider.kind must be synthetic or csv")
	}
	switch c.Journal.Type {
	case "none", "":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	case "csv":
		if c.Journal.EquityFile == "" {
			return fmt.Errorf("journal.equity_file required for csv journal")
		}
	default:
		return fmt.Errorf("journal.type must be sqlite, csv or none")
	}
	return nil
}

// Default returns the configuration the CLI starts from.
func Default() *Config {
	return &Config{
		Risk: RiskConfig{
			Confidence:   0.95,
			HorizonDays:  1,
			Method:       "historical",
			Paths:        10_000,
			Seed:         42,
			MinSamples:   30,
			ReturnMethod: "simple",
			Lookback:     252,
		},
		Options: OptionsConfig{
			RiskFreeRate:  0.05,
			DividendYield: 0,
		},
		Backtest: BacktestConfig{
			InitialCapital: 100_000,
			CostRate:       0.0005,
			Strategy:       "equal-weight",
			Lookback:       20,
		},
		Provider: ProviderConfig{
			Kind:        "synthetic",
			Seed:        42,
			AnnualDrift: 0.08,
			AnnualVol:   0.16,
		},
		Journal: JournalConfig{Type: "none"},
	}
}
