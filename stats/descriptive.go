package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization convention used throughout.
const TradingDaysPerYear = 252.0

// Mean is the arithmetic mean of xs.
func Mean(xs []float64) float64 { return stat.Mean(xs, nil) }

// Stdev is the sample standard deviation of xs.
func Stdev(xs []float64) float64 { return stat.StdDev(xs, nil) }

// AnnualizedVol scales per-period stdev by sqrt(periodsPerYear).
func AnnualizedVol(returns []float64, periodsPerYear float64) float64 {
	if periodsPerYear <= 0 {
		periodsPerYear = TradingDaysPerYear
	}
	return stat.StdDev(returns, nil) * math.Sqrt(periodsPerYear)
}

// SharpeRatio is the annualized excess return over annualized vol.
// riskFree is an annual rate.
func SharpeRatio(returns []float64, riskFree, periodsPerYear float64) (float64, error) {
	if periodsPerYear <= 0 {
		periodsPerYear = TradingDaysPerYear
	}
	if len(returns) < 2 {
		return 0, fmt.Errorf("%w: sharpe needs at least 2 returns", ErrInsufficientData)
	}
	vol := AnnualizedVol(returns, periodsPerYear)
	if vol < varianceEpsilon {
		return 0, fmt.Errorf("%w: zero volatility", ErrDegenerateInput)
	}
	annRet := stat.Mean(returns, nil) * periodsPerYear
	return (annRet - riskFree) / vol, nil
}

// MaxDrawdown returns the largest peak-to-trough decline of an equity curve
// as a negative fraction (0 when the curve never falls).
func MaxDrawdown(equity []float64) float64 {
	var peak, worst float64
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := v/peak - 1
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}
