package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestNewPriceSeries(t *testing.T) {
	s, err := NewPriceSeries("AAPL", []PricePoint{
		{Time: day(0), Price: 100},
		{Time: day(1), Price: 101},
		{Time: day(2), Price: 99.5},
	})
	require.NoError(t, err)
	assert.Equal(t, "AAPL", s.Symbol())
	assert.Equal(t, 3, s.Len())

	last, ok := s.Last()
	assert.True(t, ok)
	assert.Equal(t, 99.5, last.Price)
}

func TestNewPriceSeriesRejectsBadInput(t *testing.T) {
	_, err := NewPriceSeries("AAPL", []PricePoint{{Time: day(0), Price: -1}})
	assert.Error(t, err)

	_, err = NewPriceSeries("AAPL", []PricePoint{
		{Time: day(1), Price: 100},
		{Time: day(0), Price: 101}, // out of order
	})
	assert.Error(t, err)

	_, err = NewPriceSeries("AAPL", []PricePoint{
		{Time: day(0), Price: 100},
		{Time: day(0), Price: 101}, // duplicate timestamp
	})
	assert.Error(t, err)

	_, err = NewPriceSeries("", []PricePoint{{Time: day(0), Price: 100}})
	assert.Error(t, err)
}

func TestPriceSeriesWindow(t *testing.T) {
	s, err := NewPriceSeries("X", []PricePoint{
		{Time: day(0), Price: 1},
		{Time: day(1), Price: 2},
		{Time: day(2), Price: 3},
	})
	require.NoError(t, err)

	w := s.Window(2)
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, 2.0, w.At(0).Price)
	assert.Equal(t, 3.0, w.At(1).Price)

	// Larger than the series returns everything.
	assert.Equal(t, 3, s.Window(10).Len())
}

func TestPriceSeriesImmutable(t *testing.T) {
	points := []PricePoint{{Time: day(0), Price: 1}, {Time: day(1), Price: 2}}
	s, err := NewPriceSeries("X", points)
	require.NoError(t, err)

	points[0].Price = 999
	assert.Equal(t, 1.0, s.At(0).Price)

	prices := s.Prices()
	prices[0] = 999
	assert.Equal(t, 1.0, s.At(0).Price)
}

func TestPortfolioValuation(t *testing.T) {
	p := &Portfolio{
		BaseCurrency: "USD",
		Positions: []Position{
			{Symbol: "AAPL", Quantity: 10, Sector: "Technology"},
			{Symbol: "XOM", Quantity: -5, Sector: "Energy"},
		},
	}
	prices := map[string]float64{"AAPL": 100, "XOM": 50}

	value, err := p.MarketValue(prices)
	require.NoError(t, err)
	assert.InDelta(t, 750.0, value, 1e-12) // 1000 - 250

	weights, err := p.Weights(prices)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, weights["AAPL"], 1e-12)  // 1000/1250 gross
	assert.InDelta(t, -0.2, weights["XOM"], 1e-12)

	sectors, err := p.SectorExposure(prices)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, sectors["Technology"], 1e-12)
	assert.InDelta(t, -250.0, sectors["Energy"], 1e-12)
}

func TestPortfolioMissingPrice(t *testing.T) {
	p := &Portfolio{Positions: []Position{{Symbol: "AAPL", Quantity: 1}}}
	_, err := p.MarketValue(map[string]float64{})
	assert.Error(t, err)
}
