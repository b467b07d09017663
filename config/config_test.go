package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.95, cfg.Risk.Confidence)
	assert.Equal(t, "historical", cfg.Risk.Method)
	assert.Equal(t, "synthetic", cfg.Provider.Kind)
	assert.Equal(t, "none", cfg.Journal.Type)
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Risk.Confidence = 0.99
	cfg.Backtest.Strategy = "momentum"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.99, loaded.Risk.Confidence)
	assert.Equal(t, "momentum", loaded.Backtest.Strategy)
	assert.Equal(t, cfg.Backtest.InitialCapital, loaded.Backtest.InitialCapital)
}

func TestSaveLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Risk.Method = "monte_carlo_path"
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "monte_carlo_path", loaded.Risk.Method)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Risk.Confidence = 1.5
	require.NoError(t, cfg.SaveToFile(path))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFromFile("/no/such/config.yaml")
	assert.Error(t, err)
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{{not config"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestValidateCatchesBadFields(t *testing.T) {
	mutations := map[string]func(*Config){
		"bad confidence":       func(c *Config) { c.Risk.Confidence = 0 },
		"bad horizon":          func(c *Config) { c.Risk.HorizonDays = 0 },
		"bad method":           func(c *Config) { c.Risk.Method = "delta-normal" },
		"bad paths":            func(c *Config) { c.Risk.Paths = 0 },
		"bad min samples":      func(c *Config) { c.Risk.MinSamples = 1 },
		"bad return method":    func(c *Config) { c.Risk.ReturnMethod = "geometric" },
		"short lookback":       func(c *Config) { c.Risk.Lookback = 10 },
		"negative dividend":    func(c *Config) { c.Options.DividendYield = -0.1 },
		"zero capital":         func(c *Config) { c.Backtest.InitialCapital = 0 },
		"negative cost":        func(c *Config) { c.Backtest.CostRate = -1 },
		"bad provider":         func(c *Config) { c.Provider.Kind = "broker" },
		"synthetic zero vol":   func(c *Config) { c.Provider.AnnualVol = 0 },
		"csv without dir":      func(c *Config) { c.Provider.Kind = "csv"; c.Provider.HistoryDir = "" },
		"sqlite without path":  func(c *Config) { c.Journal.Type = "sqlite" },
		"csv journal no file":  func(c *Config) { c.Journal.Type = "csv" },
		"unknown journal type": func(c *Config) { c.Journal.Type = "postgres" },
	}
	for name, mutate := range mutations {
		cfg := Default()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}
