package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanAndStdev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5.0, Mean(xs), 1e-12)
	// Sample stdev with n-1 denominator.
	assert.InDelta(t, math.Sqrt(32.0/7), Stdev(xs), 1e-12)
}

func TestAnnualizedVol(t *testing.T) {
	xs := []float64{0.01, -0.01, 0.02, -0.02}
	daily := Stdev(xs)
	assert.InDelta(t, daily*math.Sqrt(252), AnnualizedVol(xs, 0), 1e-12)
	assert.InDelta(t, daily*math.Sqrt(12), AnnualizedVol(xs, 12), 1e-12)
}

func TestSharpeRatio(t *testing.T) {
	// Constant positive drift plus alternating noise.
	xs := []float64{0.002, 0.0, 0.002, 0.0, 0.002, 0.0}

	sr, err := SharpeRatio(xs, 0.0, 252)
	require.NoError(t, err)

	annRet := Mean(xs) * 252
	annVol := AnnualizedVol(xs, 252)
	assert.InDelta(t, annRet/annVol, sr, 1e-12)

	// Subtracting the risk-free rate lowers it.
	lower, err := SharpeRatio(xs, 0.05, 252)
	require.NoError(t, err)
	assert.Less(t, lower, sr)
}

func TestSharpeRatioErrors(t *testing.T) {
	_, err := SharpeRatio([]float64{0.01}, 0, 252)
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = SharpeRatio([]float64{0.01, 0.01, 0.01}, 0, 252)
	assert.ErrorIs(t, err, ErrDegenerateInput)
}

func TestMaxDrawdown(t *testing.T) {
	// Peak 120, trough 90: drawdown -25%.
	equity := []float64{100, 120, 110, 90, 115, 130}
	assert.InDelta(t, -0.25, MaxDrawdown(equity), 1e-12)

	// Monotone curve never draws down.
	assert.Equal(t, 0.0, MaxDrawdown([]float64{100, 101, 102}))
	assert.Equal(t, 0.0, MaxDrawdown(nil))
}
