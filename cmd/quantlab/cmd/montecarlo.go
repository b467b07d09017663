package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/quantlab/backtest"
	"github.com/rustyeddy/quantlab/strategies"
)

var mcCmd = &cobra.Command{
	Use:   "montecarlo",
	Short: "Simulate forward strategy performance over synthetic paths",
	Long: `Estimates return moments from the configured history, generates
correlated synthetic paths, runs the strategy on each, and prints the
terminal-equity distribution.

Example:
  quantlab montecarlo --paths 2000 --horizon 252 --strategy inverse-vol`,
	RunE: runMonteCarlo,
}

var (
	mcPaths    int
	mcHorizon  int
	mcStrategy string
)

func init() {
	rootCmd.AddCommand(mcCmd)
	mcCmd.Flags().IntVar(&mcPaths, "paths", 1000, "number of simulated paths")
	mcCmd.Flags().IntVar(&mcHorizon, "horizon", 252, "simulated horizon in trading days")
	mcCmd.Flags().StringVarP(&mcStrategy, "strategy", "s", "", "override backtest.strategy")
}

func runMonteCarlo(c *cobra.Command, args []string) error {
	if mcStrategy != "" {
		cfg.Backtest.Strategy = mcStrategy
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

	dist, err := engine.SimulateTerminalEquity(ctx, aligned, strat, backtest.SimulationConfig{
		Paths:       mcPaths,
		HorizonDays: mcHorizon,
		Seed:        cfg.Risk.Seed,
	})
	if err != nil {
		return err
	}

	log.Info().Int("paths", dist.Paths).Int("horizon_days", dist.HorizonDays).
		Int64("seed", dist.Seed).Msg("simulation complete")

	fmt.Printf("Terminal equity over %d paths, %d days (seed %d):\n",
		dist.Paths, dist.HorizonDays, dist.Seed)
	fmt.Printf("  mean %.2f, stdev %.2f\n", dist.Mean, dist.Stdev)
	for _, p := range []string{"p5", "p25", "p50", "p75", "p95"} {
		fmt.Printf("  %-4s %12.2f\n", p, dist.Percentiles[p])
	}
	return nil
}
