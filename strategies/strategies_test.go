package strategies

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/quantlab/stats"
)

func aligned(t *testing.T, symbols []string, rows [][]float64) *stats.Aligned {
	t.Helper()
	times := make([]time.Time, len(rows))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range rows {
		times[i] = base.AddDate(0, 0, i)
	}
	a, err := stats.NewAligned(symbols, times, rows)
	require.NoError(t, err)
	return a
}

func TestEqualWeight(t *testing.T) {
	h := aligned(t, []string{"A", "B", "C", "D"}, [][]float64{{0, 0, 0, 0}})

	w, err := EqualWeight{}.TargetWeights(h)
	require.NoError(t, err)
	require.Len(t, w, 4)
	for sym, v := range w {
		assert.InDelta(t, 0.25, v, 1e-12, sym)
	}
}

func TestMomentumPrefersWinners(t *testing.T) {
	// A trends up at twice B's rate; C trends down and must be excluded.
	h := aligned(t, []string{"A", "B", "C"}, [][]float64{
		{0.02, 0.01, -0.01},
		{0.02, 0.01, -0.01},
		{0.02, 0.01, -0.01},
	})

	strat := &Momentum{Lookback: 3}
	w, err := strat.TargetWeights(h)
	require.NoError(t, err)

	require.Len(t, w, 2)
	assert.InDelta(t, 2.0/3, w["A"], 1e-12)
	assert.InDelta(t, 1.0/3, w["B"], 1e-12)
	_, hasC := w["C"]
	assert.False(t, hasC)
}

func TestMomentumStaysInCash(t *testing.T) {
	strat := &Momentum{Lookback: 5}

	// Not enough history yet.
	short := aligned(t, []string{"A"}, [][]float64{{0.01}, {0.01}})
	w, err := strat.TargetWeights(short)
	require.NoError(t, err)
	assert.Empty(t, w)

	// Everything trending down.
	down := aligned(t, []string{"A"}, [][]float64{
		{-0.01}, {-0.01}, {-0.01}, {-0.01}, {-0.01},
	})
	w, err = strat.TargetWeights(down)
	require.NoError(t, err)
	assert.Empty(t, w)
}

func TestInverseVolFavorsQuietAssets(t *testing.T) {
	// B is twice as volatile as A, so A gets twice B's weight.
	h := aligned(t, []string{"A", "B"}, [][]float64{
		{0.01, 0.02},
		{-0.01, -0.02},
		{0.01, 0.02},
		{-0.01, -0.02},
	})

	strat := &InverseVol{Lookback: 4}
	w, err := strat.TargetWeights(h)
	require.NoError(t, err)

	assert.InDelta(t, 2.0/3, w["A"], 1e-9)
	assert.InDelta(t, 1.0/3, w["B"], 1e-9)
	assert.InDelta(t, 1.0, w["A"]+w["B"], 1e-12)
}

func TestInverseVolSkipsZeroVol(t *testing.T) {
	h := aligned(t, []string{"A", "FLAT"}, [][]float64{
		{0.01, 0.0},
		{-0.01, 0.0},
		{0.01, 0.0},
	})

	strat := &InverseVol{Lookback: 3}
	w, err := strat.TargetWeights(h)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, w["A"], 1e-12)
	_, hasFlat := w["FLAT"]
	assert.False(t, hasFlat)
}

func TestByName(t *testing.T) {
	for name, want := range map[string]string{
		"equal-weight": "equal-weight",
		"EqualWeight":  "equal-weight",
		"momentum":     "momentum",
		" inverse-vol": "inverse-vol",
	} {
		s, err := ByName(name, Params{})
		require.NoError(t, err, name)
		assert.Equal(t, want, s.Name())
	}

	_, err := ByName("alpha-capture", Params{})
	assert.Error(t, err)

	// Default lookback applies when unset.
	s, err := ByName("momentum", Params{})
	require.NoError(t, err)
	assert.Equal(t, 20, s.(*Momentum).Lookback)
}
