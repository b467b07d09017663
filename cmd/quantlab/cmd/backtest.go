package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/quantlab/backtest"
	"github.com/rustyeddy/quantlab/journal"
	"github.com/rustyeddy/quantlab/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy backtest over the configured history",
	Long: `Runs a daily-rebalanced strategy backtest over aligned return history
and prints the equity summary and metrics.

Supported strategies: equal-weight, momentum, inverse-vol.

Example:
  quantlab backtest --strategy momentum --lookback 20`,
	RunE: runBacktestCmd,
}

var (
	btStrategy string
	btLookback int
)

func init() {
	rootCmd.AddCommand(backtestCmd)
	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "", "override backtest.strategy")
	backtestCmd.Flags().IntVar(&btLookback, "lookback", 0, "override backtest.lookback")
}

func runBacktestCmd(c *cobra.Command, args []string) error {
	if btStrategy != "" {
		cfg.Backtest.Strategy = btStrategy
	}
	if btLookback != 0 {
		cfg.Backtest.Lookback = btLookback
	}

	ctx := c.Context()
	portfolio := demoPortfolio(cfg.Provider.Symbols)
	provider, err := buildProvider(portfolio)
	if err != nil {
		return err
	}
	aligned, _, err := loadAligned(ctx, provider, portfolio)
	if err != nil {
		return err
	}

	strat, err := strategies.ByName(cfg.Backtest.Strategy, strategies.Params{Lookback: cfg.Backtest.Lookback})
	if err != nil {
		return err
	}

	engine, err := backtest.NewEngine(backtest.Config{
		InitialCapital: cfg.Backtest.InitialCapital,
		Cost:           backtest.CostModel{ProportionalRate: cfg.Backtest.CostRate},
		RiskFreeRate:   cfg.Options.RiskFreeRate,
	})
	if err != nil {
		return err
	}

	res, err := engine.Run(ctx, aligned, strat)
	if err != nil {
		return err
	}

	log.Info().Str("run_id", res.RunID).Str("strategy", res.Strategy).Msg("backtest complete")

	final := res.EquityCurve[len(res.EquityCurve)-1]
	fmt.Printf("Run %s: %s, %s .. %s\n", res.RunID, res.Strategy,
		res.Start.Format("2006-01-02"), res.End.Format("2006-01-02"))
	fmt.Printf("Final equity: %.2f (started %.2f)\n", final.Value, cfg.Backtest.InitialCapital)

	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-18s %12.4f\n", name, res.Metrics[name])
	}

	switch cfg.Journal.Type {
	case "sqlite":
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return err
		}
		defer j.Close()
		if err := j.RecordBacktest(res); err != nil {
			return err
		}
		log.Info().Str("db", cfg.Journal.DBPath).Msg("journaled run")
	case "csv":
		f, err := os.Create(cfg.Journal.EquityFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := journal.ExportEquityCSV(f, res.EquityCurve); err != nil {
			return err
		}
		log.Info().Str("file", cfg.Journal.EquityFile).Msg("exported equity curve")
	}
	return nil
}
