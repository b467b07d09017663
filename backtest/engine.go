// Package backtest runs factor strategies over daily return history,
// producing equity curves, trades, and performance metrics, plus Monte-Carlo
// robustness runs over synthetic paths and Brinson attribution.
package backtest

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/quantlab/pkg/id"
	"github.com/rustyeddy/quantlab/stats"
	"github.com/rustyeddy/quantlab/strategies"
)

// CostModel charges a proportional fee on turnover (fraction of equity
// traded at each rebalance).
type CostModel struct {
	ProportionalRate float64 // e.g. 0.0005 = 5 bps per unit turnover
}

// Config parameterizes an engine run.
type Config struct {
	InitialCapital float64
	Cost           CostModel
	RiskFreeRate   float64 // annual, used for the sharpe metric
}

// Trade records one rebalance leg: the weight moved in a symbol and the
// cost charged for it.
type Trade struct {
	Time        time.Time
	Symbol      string
	WeightDelta float64
	Value       float64 // currency amount traded
	Cost        float64
}

// EquityPoint is one (date, portfolio value) sample.
type EquityPoint struct {
	Time  time.Time
	Value float64
}

// Result is the immutable output of one backtest run.
type Result struct {
	RunID       string
	Strategy    string
	Start       time.Time
	End         time.Time
	EquityCurve []EquityPoint
	Trades      []Trade
	Metrics     map[string]float64
}

// Engine drives a strategy through aligned history, one date at a time.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("backtest: initial capital must be positive, got %v", cfg.InitialCapital)
	}
	if cfg.Cost.ProportionalRate < 0 {
		return nil, fmt.Errorf("backtest: cost rate must be >= 0, got %v", cfg.Cost.ProportionalRate)
	}
	return &Engine{cfg: cfg}, nil
}

// Run executes the date loop: at each date the strategy sees history
// strictly before that date, the book rebalances to its target weights
// (paying proportional costs on turnover), and that date's returns are
// applied. Output is bit-reproducible for identical inputs; the engine
// itself has no randomness.
func (e *Engine) Run(ctx context.Context, h *stats.Aligned, strat strategies.Strategy) (*Result, error) {
	if h.Len() == 0 {
		return nil, fmt.Errorf("%w: empty return history", stats.ErrInsufficientData)
	}

	symbols := h.Symbols()
	capital := e.cfg.InitialCapital
	current := make(map[string]float64, len(symbols))

	res := &Result{
		RunID:    id.New(),
		Strategy: strat.Name(),
		Start:    h.Time(0),
		End:      h.Time(h.Len() - 1),
	}

	periodReturns := make([]float64, 0, h.Len())
	var totalTurnover, exposureSum float64

	for t := 0; t < h.Len(); t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		target, err := strat.TargetWeights(h.Head(t))
		if err != nil {
			return nil, fmt.Errorf("backtest: strategy %s at %s: %w", strat.Name(), h.Time(t).Format("2006-01-02"), err)
		}
		for sym, w := range target {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("backtest: strategy %s produced weight %v for %s", strat.Name(), w, sym)
			}
		}

		// Rebalance: charge costs on the weight actually moved.
		now := h.Time(t)
		for _, sym := range symbols {
			delta := target[sym] - current[sym]
			if delta == 0 {
				continue
			}
			value := math.Abs(delta) * capital
			cost := value * e.cfg.Cost.ProportionalRate
			res.Trades = append(res.Trades, Trade{
				Time: now, Symbol: sym, WeightDelta: delta, Value: value, Cost: cost,
			})
			totalTurnover += math.Abs(delta)
			capital -= cost
		}

		// Apply this date's returns to the rebalanced book.
		row := h.Row(t)
		var portRet, gross float64
		for i, sym := range symbols {
			portRet += target[sym] * row[i]
			gross += math.Abs(target[sym])
		}
		capital *= 1 + portRet
		periodReturns = append(periodReturns, portRet)
		exposureSum += gross

		// Holdings drift with returns until the next decision.
		if 1+portRet != 0 {
			for i, sym := range symbols {
				current[sym] = target[sym] * (1 + row[i]) / (1 + portRet)
			}
		} else {
			for _, sym := range symbols {
				current[sym] = 0
			}
		}

		res.EquityCurve = append(res.EquityCurve, EquityPoint{Time: now, Value: capital})
	}

	res.Metrics = computeMetrics(e.cfg, res, periodReturns, totalTurnover, exposureSum)
	return res, nil
}

func computeMetrics(cfg Config, res *Result, periodReturns []float64, turnover, exposureSum float64) map[string]float64 {
	equity := make([]float64, len(res.EquityCurve))
	for i, p := range res.EquityCurve {
		equity[i] = p.Value
	}
	final := equity[len(equity)-1]

	m := map[string]float64{
		"total_return": final/cfg.InitialCapital - 1,
		"max_drawdown": stats.MaxDrawdown(equity),
		"trades":       float64(len(res.Trades)),
		"turnover":     turnover,
		"exposure":     exposureSum / float64(len(periodReturns)),
	}

	if len(periodReturns) >= 2 {
		m["annual_volatility"] = stats.AnnualizedVol(periodReturns, stats.TradingDaysPerYear)
		if sharpe, err := stats.SharpeRatio(periodReturns, cfg.RiskFreeRate, stats.TradingDaysPerYear); err == nil {
			m["sharpe_ratio"] = sharpe
		}
	}

	years := float64(len(periodReturns)) / stats.TradingDaysPerYear
	if years > 0 && m["max_drawdown"] < 0 {
		annualized := math.Pow(final/cfg.InitialCapital, 1/years) - 1
		m["calmar_ratio"] = annualized / -m["max_drawdown"]
	}

	var wins, losses int
	var winSum, lossSum float64
	for _, r := range periodReturns {
		if r > 0 {
			wins++
			winSum += r
		} else if r < 0 {
			losses++
			lossSum += r
		}
	}
	if wins+losses > 0 {
		m["win_rate"] = float64(wins) / float64(wins+losses)
	}
	if wins > 0 {
		m["avg_win"] = winSum / float64(wins)
	}
	if losses > 0 {
		m["avg_loss"] = lossSum / float64(losses)
	}
	return m
}
