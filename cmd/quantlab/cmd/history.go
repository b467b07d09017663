package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/quantlab/journal"
	"github.com/rustyeddy/quantlab/risk"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List journaled risk results",
	Long: `Lists risk results recorded in the SQLite journal, newest first.

Example:
  quantlab history --method historical --days 30`,
	RunE: runHistory,
}

var (
	histMethod string
	histDays   int
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&histMethod, "method", "m", "", "filter by method")
	historyCmd.Flags().IntVar(&histDays, "days", 30, "lookback window in days")
}

func runHistory(c *cobra.Command, args []string) error {
	if cfg.Journal.Type != "sqlite" || cfg.Journal.DBPath == "" {
		return fmt.Errorf("history requires journal.type sqlite with a db_path")
	}

	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	since := time.Now().AddDate(0, 0, -histDays)
	results, err := j.ListRiskResults(risk.Method(histMethod), since)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("no journaled results")
		return nil
	}

	fmt.Printf("%-27s %-17s %5s %4s %14s %14s\n", "ID", "METHOD", "CONF", "HZN", "VAR", "CVAR")
	for _, r := range results {
		fmt.Printf("%-27s %-17s %4.0f%% %3dd %14.2f %14.2f\n",
			r.ID, r.Method, 100*r.Confidence, r.HorizonDays, r.VaR, r.CVaR)
	}
	return nil
}
