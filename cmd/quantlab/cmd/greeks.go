package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/quantlab/options"
)

var greeksCmd = &cobra.Command{
	Use:   "greeks",
	Short: "Price an option and print its Greeks",
	Long: `Prices a European option under Black-Scholes and prints the closed-form
Greeks. Theta is per calendar day; vega and rho are per percentage point.

Example:
  quantlab greeks --spot 185 --strike 180 --days 30 --vol 0.22 --type call`,
	RunE: runGreeks,
}

var (
	gkSpot   float64
	gkStrike float64
	gkDays   int
	gkVol    float64
	gkType   string
)

func init() {
	rootCmd.AddCommand(greeksCmd)
	greeksCmd.Flags().Float64Var(&gkSpot, "spot", 100, "underlying spot price")
	greeksCmd.Flags().Float64Var(&gkStrike, "strike", 100, "strike price")
	greeksCmd.Flags().IntVar(&gkDays, "days", 30, "calendar days to expiry")
	greeksCmd.Flags().Float64Var(&gkVol, "vol", 0.20, "annualized volatility")
	greeksCmd.Flags().StringVar(&gkType, "type", "call", "option type (call or put)")
}

func runGreeks(c *cobra.Command, args []string) error {
	in := options.PricingInput{
		Spot:          gkSpot,
		Strike:        gkStrike,
		TimeToExpiry:  float64(gkDays) / 365,
		Rate:          cfg.Options.RiskFreeRate,
		Vol:           gkVol,
		DividendYield: cfg.Options.DividendYield,
		Type:          options.OptionType(gkType),
	}

	g, err := options.ComputeGreeks(in)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s %.2f exp %s\n", gkType, "K", gkStrike,
		time.Now().AddDate(0, 0, gkDays).Format("2006-01-02"))
	fmt.Printf("  Price: %10.4f\n", g.Price)
	fmt.Printf("  Delta: %10.4f\n", g.Delta)
	fmt.Printf("  Gamma: %10.4f\n", g.Gamma)
	fmt.Printf("  Theta: %10.4f /day\n", g.Theta)
	fmt.Printf("  Vega:  %10.4f /1%%vol\n", g.Vega)
	fmt.Printf("  Rho:   %10.4f /1%%rate\n", g.Rho)
	return nil
}
