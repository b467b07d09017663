// Package market defines the value objects the analytics engine consumes:
// price series, positions, portfolios, and the snapshot provider boundary
// that supplies them. Nothing in this package performs numeric analysis.
package market

import (
	"fmt"
	"time"
)

// PricePoint is one observation of a traded price.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// PriceSeries is an ordered sequence of price points for one symbol with
// strictly increasing timestamps. It is immutable once constructed; all
// accessors return copies.
type PriceSeries struct {
	symbol string
	points []PricePoint
}

// NewPriceSeries validates and freezes a series. Prices must be positive and
// timestamps strictly increasing; gaps are the caller's concern.
func NewPriceSeries(symbol string, points []PricePoint) (*PriceSeries, error) {
	if symbol == "" {
		return nil, fmt.Errorf("market: series symbol is required")
	}
	for i, p := range points {
		if p.Price <= 0 {
			return nil, fmt.Errorf("market: %s point %d: price %v is not positive", symbol, i, p.Price)
		}
		if p.Time.IsZero() {
			return nil, fmt.Errorf("market: %s point %d: zero timestamp", symbol, i)
		}
		if i > 0 && !p.Time.After(points[i-1].Time) {
			return nil, fmt.Errorf("market: %s point %d: timestamp %s not after %s",
				symbol, i, p.Time.Format(time.RFC3339), points[i-1].Time.Format(time.RFC3339))
		}
	}
	cp := make([]PricePoint, len(points))
	copy(cp, points)
	return &PriceSeries{symbol: symbol, points: cp}, nil
}

func (s *PriceSeries) Symbol() string { return s.symbol }
func (s *PriceSeries) Len() int       { return len(s.points) }

// At returns the i-th point. Panics on out-of-range like a slice would.
func (s *PriceSeries) At(i int) PricePoint { return s.points[i] }

// Last returns the most recent point and false if the series is empty.
func (s *PriceSeries) Last() (PricePoint, bool) {
	if len(s.points) == 0 {
		return PricePoint{}, false
	}
	return s.points[len(s.points)-1], true
}

// Window returns a new series holding the trailing n points (or the whole
// series when n >= Len).
func (s *PriceSeries) Window(n int) *PriceSeries {
	if n >= len(s.points) {
		n = len(s.points)
	}
	cp := make([]PricePoint, n)
	copy(cp, s.points[len(s.points)-n:])
	return &PriceSeries{symbol: s.symbol, points: cp}
}

// Prices returns a copy of the price column.
func (s *PriceSeries) Prices() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Price
	}
	return out
}

// Times returns a copy of the timestamp column.
func (s *PriceSeries) Times() []time.Time {
	out := make([]time.Time, len(s.points))
	for i, p := range s.points {
		out[i] = p.Time
	}
	return out
}
