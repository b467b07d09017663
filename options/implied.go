package options

import (
	"fmt"
	"math"
)

const (
	volLowerBound = 1e-6
	volUpperBound = 5.0
	maxIterations = 100
	priceTol      = 1e-10
)

// ImpliedVol solves for the volatility that reproduces marketPrice under
// Black-Scholes. in.Vol is ignored. The solve is Newton on vega with a
// bisection fallback, bracketed on [1e-6, 5.0] annualized.
//
// A quote outside the no-arbitrage price band brackets no sign change and
// is reported as ErrNoConvergence; the solver never guesses.
func ImpliedVol(marketPrice float64, in PricingInput) (float64, error) {
	in.Vol = 1 // placeholder so validate() checks the remaining fields
	if err := in.validate(); err != nil {
		return 0, err
	}
	if marketPrice <= 0 {
		return 0, fmt.Errorf("%w: market price %v must be positive", ErrInvalidParameter, marketPrice)
	}

	f := func(vol float64) float64 {
		in.Vol = vol
		return price(in) - marketPrice
	}

	lo, hi := volLowerBound, volUpperBound
	flo, fhi := f(lo), f(hi)
	if flo == 0 {
		return lo, nil
	}
	if fhi == 0 {
		return hi, nil
	}
	if flo*fhi > 0 {
		return 0, fmt.Errorf("%w: price %v brackets no vol in [%v, %v] (arbitrage-violating quote?)",
			ErrNoConvergence, marketPrice, lo, hi)
	}

	vol := 0.2 // standard starting guess
	for iter := 0; iter < maxIterations; iter++ {
		in.Vol = vol
		diff := price(in) - marketPrice
		if math.Abs(diff) < priceTol {
			return vol, nil
		}

		// Maintain the bracket for the fallback step.
		if diff*flo > 0 {
			lo, flo = vol, diff
		} else {
			hi, fhi = vol, diff
		}

		// Newton step on vega (unscaled: dPrice/dVol).
		g, err := ComputeGreeks(in)
		var next float64
		if err == nil && g.Vega*100 > 1e-12 {
			next = vol - diff/(g.Vega*100)
		}
		if next <= lo || next >= hi || math.IsNaN(next) {
			next = (lo + hi) / 2 // bisect when Newton leaves the bracket
		}
		vol = next
	}
	return 0, fmt.Errorf("%w: %d iterations exhausted", ErrNoConvergence, maxIterations)
}
