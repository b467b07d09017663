package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/quantlab/risk"
	"github.com/rustyeddy/quantlab/stats"
	"github.com/rustyeddy/quantlab/strategies"
)

// Distribution summarizes terminal equity over simulated paths.
type Distribution struct {
	Paths       int
	HorizonDays int
	Seed        int64
	Mean        float64
	Stdev       float64
	Percentiles map[string]float64 // p5, p25, p50, p75, p95
}

// SimulationConfig parameterizes a robustness run.
type SimulationConfig struct {
	Paths       int
	HorizonDays int
	Seed        int64
	Workers     int
}

// SimulateTerminalEquity estimates moments of history from the sample,
// draws correlated synthetic return paths with the risk package's generator,
// runs the same strategy loop on every path, and reports the terminal-equity
// distribution. This is the engine's forward-looking robustness test.
//
// Workers parallelize over paths; each path is deterministic in
// (seed, path index), so results are reproducible for a fixed seed.
// Cancellation between paths discards the run; no partial distribution.
func (e *Engine) SimulateTerminalEquity(ctx context.Context, h *stats.Aligned, strat strategies.Strategy, cfg SimulationConfig) (*Distribution, error) {
	if cfg.Paths <= 0 {
		cfg.Paths = 1000
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 252
	}

	cov, err := stats.CovarianceMatrix(h)
	if err != nil {
		return nil, err
	}
	gen, err := risk.NewPathGenerator(stats.MeanVector(h), cov, cfg.Seed)
	if err != nil {
		return nil, err
	}

	symbols := h.Symbols()
	// Synthetic business-day calendar starting after the sample.
	base := h.Time(h.Len() - 1)
	times := make([]time.Time, cfg.HorizonDays)
	for i := range times {
		times[i] = base.AddDate(0, 0, i+1)
	}

	terminal := make([]float64, cfg.Paths)
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > cfg.Paths {
		workers = cfg.Paths
	}

	grp, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * cfg.Paths / workers
		end := (w + 1) * cfg.Paths / workers
		grp.Go(func() error {
			steps := make([][]float64, cfg.HorizonDays)
			for i := range steps {
				steps[i] = make([]float64, gen.Dim())
			}
			for p := start; p < end; p++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				gen.Path(p, steps)
				path, err := stats.NewAligned(symbols, times, steps)
				if err != nil {
					return err
				}
				res, err := e.Run(ctx, path, strat)
				if err != nil {
					return fmt.Errorf("path %d: %w", p, err)
				}
				terminal[p] = res.EquityCurve[len(res.EquityCurve)-1].Value
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	sorted := make([]float64, len(terminal))
	copy(sorted, terminal)
	sort.Float64s(sorted)

	return &Distribution{
		Paths:       cfg.Paths,
		HorizonDays: cfg.HorizonDays,
		Seed:        cfg.Seed,
		Mean:        stats.Mean(terminal),
		Stdev:       stats.Stdev(terminal),
		Percentiles: map[string]float64{
			"p5":  quantileSorted(sorted, 0.05),
			"p25": quantileSorted(sorted, 0.25),
			"p50": quantileSorted(sorted, 0.50),
			"p75": quantileSorted(sorted, 0.75),
			"p95": quantileSorted(sorted, 0.95),
		},
	}, nil
}

// quantileSorted linearly interpolates between order statistics, the same
// rule the risk package applies to loss distributions.
func quantileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	rank := p * float64(n-1)
	lo := int(rank)
	frac := rank - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
