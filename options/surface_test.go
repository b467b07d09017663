package options

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func testSurface(t *testing.T) *Surface {
	t.Helper()
	points := []VolatilityPoint{
		{Strike: 90, Expiry: asOf.AddDate(0, 0, 30), Vol: 0.25},
		{Strike: 110, Expiry: asOf.AddDate(0, 0, 30), Vol: 0.22},
		{Strike: 90, Expiry: asOf.AddDate(0, 0, 90), Vol: 0.28},
		{Strike: 110, Expiry: asOf.AddDate(0, 0, 90), Vol: 0.24},
	}
	s, err := NewSurface(100, asOf, points)
	require.NoError(t, err)
	return s
}

func TestSurfaceGridNodes(t *testing.T) {
	s := testSurface(t)

	for _, tc := range []struct {
		strike float64
		days   int
		want   float64
	}{
		{90, 30, 0.25},
		{110, 30, 0.22},
		{90, 90, 0.28},
		{110, 90, 0.24},
	} {
		v, err := s.At(tc.strike, asOf.AddDate(0, 0, tc.days))
		require.NoError(t, err)
		assert.InDelta(t, tc.want, v, 1e-12, "strike %v days %d", tc.strike, tc.days)
	}
}

func TestSurfaceInterpolatesInside(t *testing.T) {
	s := testSurface(t)

	// Midpoint in expiry on a strike node: arithmetic mean of the column.
	v, err := s.At(90, asOf.AddDate(0, 0, 60))
	require.NoError(t, err)
	assert.InDelta(t, 0.265, v, 1e-12)

	// Interior point stays inside the grid's vol range.
	v, err = s.At(100, asOf.AddDate(0, 0, 45))
	require.NoError(t, err)
	assert.Greater(t, v, 0.22)
	assert.Less(t, v, 0.28)
}

func TestSurfaceNoExtrapolation(t *testing.T) {
	s := testSurface(t)

	_, err := s.At(80, asOf.AddDate(0, 0, 30))
	assert.ErrorIs(t, err, ErrOutOfSurfaceRange)

	_, err = s.At(120, asOf.AddDate(0, 0, 30))
	assert.ErrorIs(t, err, ErrOutOfSurfaceRange)

	_, err = s.At(100, asOf.AddDate(0, 0, 10))
	assert.ErrorIs(t, err, ErrOutOfSurfaceRange)

	_, err = s.At(100, asOf.AddDate(0, 0, 180))
	assert.ErrorIs(t, err, ErrOutOfSurfaceRange)
}

func TestSurfaceRequiresFullGrid(t *testing.T) {
	points := []VolatilityPoint{
		{Strike: 90, Expiry: asOf.AddDate(0, 0, 30), Vol: 0.25},
		{Strike: 110, Expiry: asOf.AddDate(0, 0, 30), Vol: 0.22},
		{Strike: 90, Expiry: asOf.AddDate(0, 0, 90), Vol: 0.28},
		// (110, 90d) missing
	}
	_, err := NewSurface(100, asOf, points)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSurfaceRejectsBadPoints(t *testing.T) {
	_, err := NewSurface(100, asOf, nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewSurface(0, asOf, []VolatilityPoint{{Strike: 100, Expiry: asOf.AddDate(0, 0, 30), Vol: 0.2}})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewSurface(100, asOf, []VolatilityPoint{{Strike: 100, Expiry: asOf.AddDate(0, 0, -1), Vol: 0.2}})
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewSurface(100, asOf, []VolatilityPoint{{Strike: 100, Expiry: asOf.AddDate(0, 0, 30), Vol: 0}})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSyntheticChainCalibrates(t *testing.T) {
	cfg := DefaultChainConfig()
	points := SyntheticChain(100, asOf, cfg)
	require.NotEmpty(t, points)

	s, err := NewSurface(100, asOf, points)
	require.NoError(t, err)

	// ATM short-dated vol sits at the base level.
	v, err := s.At(100, asOf.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.InDelta(t, cfg.BaseVol, v, 1e-9)

	// The smile lifts the wings.
	wing, err := s.At(85, asOf.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Greater(t, wing, v)
}
