package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/quantlab/market"
	"github.com/rustyeddy/quantlab/stats"
)

func day(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func alignedReturns(t *testing.T, symbols []string, rows [][]float64) *stats.Aligned {
	t.Helper()
	times := make([]time.Time, len(rows))
	for i := range rows {
		times[i] = day(i)
	}
	a, err := stats.NewAligned(symbols, times, rows)
	require.NoError(t, err)
	return a
}

func twoAssetPortfolio() (*market.Portfolio, map[string]float64) {
	p := &market.Portfolio{
		BaseCurrency: "USD",
		Positions: []market.Position{
			{Symbol: "A", Quantity: 1, Sector: "Tech"},
			{Symbol: "B", Quantity: 1, Sector: "Energy"},
		},
	}
	return p, map[string]float64{"A": 100, "B": 100}
}

func TestHistoricalVaRKnownScenario(t *testing.T) {
	p, prices := twoAssetPortfolio()
	// Per-date portfolio P&L on 100+100 exposure: 3, -3, 4, -1, 3.
	// Loss sample sorted: -4, -3, -3, 1, 3; 95th percentile rank 3.8 lands
	// between the two worst observations.
	a := alignedReturns(t, []string{"A", "B"}, [][]float64{
		{0.01, 0.02},
		{-0.02, -0.01},
		{0.03, 0.01},
		{-0.01, 0.00},
		{0.02, 0.01},
	})

	res, err := HistoricalVaR(p, prices, a, Config{Confidence: 0.95, HorizonDays: 1})
	require.NoError(t, err)

	assert.Equal(t, MethodHistorical, res.Method)
	assert.InDelta(t, 2.6, res.VaR, 1e-9)
	assert.InDelta(t, 3.0, res.CVaR, 1e-9)
	assert.InDelta(t, 200.0, res.PortfolioValue, 1e-9)
	assert.Equal(t, "USD", res.Currency)
	assert.NotEmpty(t, res.ID)
}

func TestHistoricalVaRHorizonScaling(t *testing.T) {
	p, prices := twoAssetPortfolio()
	a := alignedReturns(t, []string{"A", "B"}, [][]float64{
		{0.02, 0.02},
		{-0.01, -0.01},
		{0.005, 0.005},
		{-0.02, -0.02},
	})

	one, err := HistoricalVaR(p, prices, a, Config{Confidence: 0.95, HorizonDays: 1})
	require.NoError(t, err)
	four, err := HistoricalVaR(p, prices, a, Config{Confidence: 0.95, HorizonDays: 4})
	require.NoError(t, err)

	assert.InDelta(t, 2*one.VaR, four.VaR, 1e-9)
}

func TestHistoricalVaRMonotonicInConfidence(t *testing.T) {
	p, prices := twoAssetPortfolio()
	a := alignedReturns(t, []string{"A", "B"}, [][]float64{
		{0.02, 0.02},
		{0.015, 0.015},
		{0.015, 0.015},
		{-0.005, -0.005},
		{-0.015, -0.015},
	})

	var prev float64
	for i, conf := range []float64{0.90, 0.95, 0.99} {
		res, err := HistoricalVaR(p, prices, a, Config{Confidence: conf})
		require.NoError(t, err)
		if i > 0 {
			assert.GreaterOrEqual(t, res.VaR, prev)
		}
		prev = res.VaR
	}
}

func TestParametricVaRZeroVolDrift(t *testing.T) {
	p, prices := twoAssetPortfolio()
	// Constant +1% daily returns: zero variance, pure drift. A 95% VaR of a
	// certain gain is a certain gain, reported as a negative loss.
	a := alignedReturns(t, []string{"A", "B"}, [][]float64{
		{0.01, 0.01},
		{0.01, 0.01},
		{0.01, 0.01},
	})

	res, err := ParametricVaR(p, prices, a, Config{Confidence: 0.95, HorizonDays: 1})
	require.NoError(t, err)

	assert.Equal(t, MethodParametric, res.Method)
	assert.InDelta(t, -2.0, res.VaR, 1e-9)
	assert.InDelta(t, -2.0, res.CVaR, 1e-9)
	assert.InDelta(t, 2.0, res.Mean, 1e-9)
	assert.InDelta(t, 0.0, res.Stdev, 1e-9)
}

func TestParametricVaRPositiveVol(t *testing.T) {
	p, prices := twoAssetPortfolio()
	a := alignedReturns(t, []string{"A", "B"}, [][]float64{
		{0.02, -0.01},
		{-0.01, 0.02},
		{0.01, 0.0},
		{-0.02, 0.01},
		{0.0, -0.02},
	})

	res, err := ParametricVaR(p, prices, a, Config{Confidence: 0.95})
	require.NoError(t, err)
	assert.Greater(t, res.VaR, 0.0)
	// Expected shortfall is deeper in the tail than VaR.
	assert.Greater(t, res.CVaR, res.VaR)

	// Wider confidence widens the loss quantile.
	res99, err := ParametricVaR(p, prices, a, Config{Confidence: 0.99})
	require.NoError(t, err)
	assert.Greater(t, res99.VaR, res.VaR)
}

func TestVaRRejectsUnalignedPosition(t *testing.T) {
	p := &market.Portfolio{
		BaseCurrency: "USD",
		Positions: []market.Position{
			{Symbol: "A", Quantity: 1},
			{Symbol: "Z", Quantity: 1}, // no history for Z
		},
	}
	prices := map[string]float64{"A": 100, "Z": 50}
	a := alignedReturns(t, []string{"A"}, [][]float64{{0.01}, {-0.01}, {0.02}})

	_, err := HistoricalVaR(p, prices, a, Config{})
	assert.Error(t, err)
}

func TestVaRRejectsMissingPrice(t *testing.T) {
	p, _ := twoAssetPortfolio()
	a := alignedReturns(t, []string{"A", "B"}, [][]float64{{0.01, 0.01}, {-0.01, 0.0}})

	_, err := HistoricalVaR(p, map[string]float64{"A": 100}, a, Config{})
	assert.Error(t, err)
}

func TestConfigNormalize(t *testing.T) {
	cfg, err := Config{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, 0.95, cfg.Confidence)
	assert.Equal(t, 1, cfg.HorizonDays)
	assert.Equal(t, 10_000, cfg.Paths)

	_, err = Config{Confidence: 1.0}.Normalize()
	assert.Error(t, err)
	_, err = Config{Confidence: -0.5}.Normalize()
	assert.Error(t, err)
	_, err = Config{HorizonDays: -1}.Normalize()
	assert.Error(t, err)
	_, err = Config{Paths: -5}.Normalize()
	assert.Error(t, err)
}
