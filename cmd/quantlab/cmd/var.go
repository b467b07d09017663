package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/quantlab/journal"
	"github.com/rustyeddy/quantlab/risk"
)

var varCmd = &cobra.Command{
	Use:   "var",
	Short: "Compute portfolio VaR and expected shortfall",
	Long: `Computes Value-at-Risk and CVaR for the configured portfolio using the
configured method (historical, parametric, or monte_carlo_path).

Example:
  quantlab var --method monte_carlo_path --confidence 0.99 --horizon 10`,
	RunE: runVaR,
}

var (
	varMethod     string
	varConfidence float64
	varHorizon    int
)

func init() {
	rootCmd.AddCommand(varCmd)
	varCmd.Flags().StringVarP(&varMethod, "method", "m", "", "override risk.method")
	varCmd.Flags().Float64Var(&varConfidence, "confidence", 0, "override risk.confidence")
	varCmd.Flags().IntVar(&varHorizon, "horizon", 0, "override risk.horizon_days")
}

func runVaR(c *cobra.Command, args []string) error {
	if varMethod != "" {
		cfg.Risk.Method = varMethod
	}
	if varConfidence != 0 {
		cfg.Risk.Confidence = varConfidence
	}
	if varHorizon != 0 {
		cfg.Risk.HorizonDays = varHorizon
	}

	ctx := c.Context()
	portfolio := demoPortfolio(cfg.Provider.Symbols)
	provider, err := buildProvider(portfolio)
	if err != nil {
		return err
	}

	aligned, prices, err := loadAligned(ctx, provider, portfolio)
	if err != nil {
		return err
	}

	rcfg := risk.Config{
		Confidence:  cfg.Risk.Confidence,
		HorizonDays: cfg.Risk.HorizonDays,
		Paths:       cfg.Risk.Paths,
		Seed:        cfg.Risk.Seed,
	}

	var res risk.Result
	switch risk.Method(cfg.Risk.Method) {
	case risk.MethodHistorical:
		res, err = risk.HistoricalVaR(portfolio, prices, aligned, rcfg)
	case risk.MethodParametric:
		res, err = risk.ParametricVaR(portfolio, prices, aligned, rcfg)
	case risk.MethodMonteCarlo:
		res, err = risk.MonteCarloVaR(ctx, portfolio, prices, aligned, rcfg)
	default:
		return fmt.Errorf("unknown VaR method %q", cfg.Risk.Method)
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("method", string(res.Method)).
		Float64("confidence", res.Confidence).
		Int("horizon_days", res.HorizonDays).
		Msg("computed VaR")

	fmt.Printf("Portfolio value: %12.2f %s\n", res.PortfolioValue, res.Currency)
	fmt.Printf("VaR  (%.0f%%, %dd):  %12.2f %s\n", 100*res.Confidence, res.HorizonDays, res.VaR, res.Currency)
	fmt.Printf("CVaR (%.0f%%, %dd):  %12.2f %s\n", 100*res.Confidence, res.HorizonDays, res.CVaR, res.Currency)

	if cfg.Journal.Type == "sqlite" {
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return err
		}
		defer j.Close()
		if err := j.RecordRiskResult(res); err != nil {
			return err
		}
		log.Info().Str("id", res.ID).Str("db", cfg.Journal.DBPath).Msg("journaled result")
	}
	return nil
}
