// Package stats is the statistics kernel: return series, volatility,
// covariance and correlation matrices, and beta. Every function is pure and
// operates on immutable inputs.
package stats

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rustyeddy/quantlab/market"
)

var (
	// ErrInsufficientData means fewer observations than a computation needs.
	ErrInsufficientData = errors.New("stats: insufficient data")
	// ErrDegenerateInput means a zero-variance input made a ratio undefined.
	ErrDegenerateInput = errors.New("stats: degenerate input")
)

// varianceEpsilon is the threshold below which a variance counts as zero.
const varianceEpsilon = 1e-12

// ReturnMethod selects the return convention.
type ReturnMethod string

const (
	Simple ReturnMethod = "simple"
	Log    ReturnMethod = "log"
)

// ReturnPoint is one period return stamped with the period-end time.
type ReturnPoint struct {
	Time  time.Time
	Value float64
}

// ReturnSeries is derived from a PriceSeries: same ordering, first timestamp
// dropped, length = source length - 1. Immutable.
type ReturnSeries struct {
	symbol string
	method ReturnMethod
	points []ReturnPoint
}

func (r *ReturnSeries) Symbol() string       { return r.symbol }
func (r *ReturnSeries) Method() ReturnMethod { return r.method }
func (r *ReturnSeries) Len() int             { return len(r.points) }
func (r *ReturnSeries) At(i int) ReturnPoint { return r.points[i] }

// Values returns a copy of the return column.
func (r *ReturnSeries) Values() []float64 {
	out := make([]float64, len(r.points))
	for i, p := range r.points {
		out[i] = p.Value
	}
	return out
}

// Returns derives period returns from a price series.
func Returns(s *market.PriceSeries, method ReturnMethod) (*ReturnSeries, error) {
	if s.Len() < 2 {
		return nil, fmt.Errorf("%w: %s has %d points, need at least 2", ErrInsufficientData, s.Symbol(), s.Len())
	}
	points := make([]ReturnPoint, s.Len()-1)
	for i := 1; i < s.Len(); i++ {
		prev, cur := s.At(i-1), s.At(i)
		var v float64
		switch method {
		case Simple:
			v = cur.Price/prev.Price - 1
		case Log:
			v = math.Log(cur.Price / prev.Price)
		default:
			return nil, fmt.Errorf("stats: unknown return method %q", method)
		}
		points[i-1] = ReturnPoint{Time: cur.Time, Value: v}
	}
	return &ReturnSeries{symbol: s.Symbol(), method: method, points: points}, nil
}

// RebuildPrices reconstructs the price path from an initial price and a
// return series. Used to verify Returns round-trips.
func RebuildPrices(initial float64, r *ReturnSeries) []float64 {
	out := make([]float64, r.Len()+1)
	out[0] = initial
	for i, p := range r.points {
		switch r.method {
		case Log:
			out[i+1] = out[i] * math.Exp(p.Value)
		default:
			out[i+1] = out[i] * (1 + p.Value)
		}
	}
	return out
}
