package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/quantlab/config"
	"github.com/rustyeddy/quantlab/market"
	"github.com/rustyeddy/quantlab/stats"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "quantlab",
	Short: "Portfolio risk and options analytics engine",
	Long: `Quantlab computes portfolio risk and options analytics from market
snapshots:

  - Historical, parametric, and Monte-Carlo VaR / expected shortfall
  - Black-Scholes pricing, Greeks, and implied-volatility surfaces
  - Factor strategy backtests with equity curves and attribution
  - Monte-Carlo robustness simulation over correlated return paths

Market data comes from a configured provider (synthetic or CSV files);
results can be journaled to SQLite for later comparison.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()

		if cfgFile == "" {
			cfg = config.Default()
			return nil
		}
		var err error
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return err
		}
		log.Debug().Str("file", cfgFile).Msg("loaded config")
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// buildProvider constructs the configured snapshot provider, wrapped in a
// quote cache when one is configured.
func buildProvider(portfolio *market.Portfolio) (market.SnapshotProvider, error) {
	var provider market.SnapshotProvider
	var err error

	switch cfg.Provider.Kind {
	case "synthetic":
		provider, err = market.NewSyntheticProvider(market.SyntheticConfig{
			Symbols:     cfg.Provider.Symbols,
			AnnualDrift: cfg.Provider.AnnualDrift,
			AnnualVol:   cfg.Provider.AnnualVol,
			Seed:        cfg.Provider.Seed,
			Positions:   portfolio,
		}, log)
	case "csv":
		provider, err = market.NewCSVProvider(cfg.Provider.HistoryDir, portfolio, log)
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Provider.Kind)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Provider.CacheMaxAge != "" {
		maxAge, err := time.ParseDuration(cfg.Provider.CacheMaxAge)
		if err != nil {
			return nil, fmt.Errorf("provider.cache_max_age: %w", err)
		}
		entries := cfg.Provider.CacheMaxEntries
		if entries <= 0 {
			entries = 128
		}
		provider = market.NewQuoteCache(provider, maxAge, entries)
	}
	return provider, nil
}

// demoPortfolio is the equal-quantity book used when no positions are
// configured.
func demoPortfolio(symbols []string) *market.Portfolio {
	if len(symbols) == 0 {
		symbols = market.DefaultSymbols
	}
	p := &market.Portfolio{BaseCurrency: "USD"}
	for _, sym := range symbols {
		p.Positions = append(p.Positions, market.Position{
			Symbol: sym, Quantity: 100, AssetClass: market.Equity, Sector: "Unclassified",
		})
	}
	return p
}

// loadAligned fetches histories for the portfolio symbols, derives returns
// with the configured convention, and aligns them.
func loadAligned(ctx context.Context, provider market.SnapshotProvider, portfolio *market.Portfolio) (*stats.Aligned, map[string]float64, error) {
	method := stats.ReturnMethod(cfg.Risk.ReturnMethod)
	series := make(map[string]*stats.ReturnSeries)
	prices := make(map[string]float64)

	for _, sym := range portfolio.Symbols() {
		hist, err := provider.PriceHistory(ctx, sym, cfg.Risk.Lookback)
		if err != nil {
			return nil, nil, err
		}
		last, ok := hist.Last()
		if !ok {
			return nil, nil, fmt.Errorf("empty history for %s", sym)
		}
		prices[sym] = last.Price

		rs, err := stats.Returns(hist, method)
		if err != nil {
			return nil, nil, err
		}
		series[sym] = rs
	}

	aligned, err := stats.Align(series, cfg.Risk.MinSamples)
	if err != nil {
		return nil, nil, err
	}
	return aligned, prices, nil
}
