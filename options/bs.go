// Package options prices European vanilla options (Black-Scholes with a
// continuous dividend yield), computes closed-form Greeks, solves implied
// volatility, and interpolates a calibrated volatility surface.
package options

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrInvalidParameter means a pricing input is outside the model domain.
	ErrInvalidParameter = errors.New("options: invalid parameter")
	// ErrNoConvergence means the implied-vol solve exhausted its budget or
	// the quote admits no solution inside the search bounds.
	ErrNoConvergence = errors.New("options: no convergence")
	// ErrOutOfSurfaceRange means an interpolation request fell outside the
	// calibrated grid; the surface never extrapolates.
	ErrOutOfSurfaceRange = errors.New("options: outside calibrated surface")
)

// OptionType is call or put.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// Style is the exercise style. Only European is supported.
type Style string

const European Style = "european"

// Contract identifies one vanilla option. Immutable.
type Contract struct {
	Underlying string
	Strike     float64
	Expiry     time.Time
	Type       OptionType
	Style      Style
}

// PricingInput is the full Black-Scholes parameter set.
// TimeToExpiry is in years; Rate and DividendYield are continuous annual
// rates; Vol is annualized.
type PricingInput struct {
	Spot          float64
	Strike        float64
	TimeToExpiry  float64
	Rate          float64
	Vol           float64
	DividendYield float64
	Type          OptionType
}

func (in PricingInput) validate() error {
	switch {
	case in.Spot <= 0:
		return fmt.Errorf("%w: spot %v must be positive", ErrInvalidParameter, in.Spot)
	case in.Strike <= 0:
		return fmt.Errorf("%w: strike %v must be positive", ErrInvalidParameter, in.Strike)
	case in.TimeToExpiry <= 0:
		return fmt.Errorf("%w: time to expiry %v must be positive", ErrInvalidParameter, in.TimeToExpiry)
	case in.Vol <= 0:
		return fmt.Errorf("%w: volatility %v must be positive", ErrInvalidParameter, in.Vol)
	case in.DividendYield < 0:
		return fmt.Errorf("%w: dividend yield %v must be >= 0", ErrInvalidParameter, in.DividendYield)
	}
	if in.Type != Call && in.Type != Put {
		return fmt.Errorf("%w: option type %q", ErrInvalidParameter, in.Type)
	}
	return nil
}

func d1d2(in PricingInput) (float64, float64) {
	sqrtT := math.Sqrt(in.TimeToExpiry)
	d1 := (math.Log(in.Spot/in.Strike) + (in.Rate-in.DividendYield+0.5*in.Vol*in.Vol)*in.TimeToExpiry) /
		(in.Vol * sqrtT)
	return d1, d1 - in.Vol*sqrtT
}

// Price returns the Black-Scholes value of the option.
func Price(in PricingInput) (float64, error) {
	if err := in.validate(); err != nil {
		return 0, err
	}
	return price(in), nil
}

func price(in PricingInput) float64 {
	d1, d2 := d1d2(in)
	discS := in.Spot * math.Exp(-in.DividendYield*in.TimeToExpiry)
	discK := in.Strike * math.Exp(-in.Rate*in.TimeToExpiry)
	n := distuv.UnitNormal
	if in.Type == Call {
		return discS*n.CDF(d1) - discK*n.CDF(d2)
	}
	return discK*n.CDF(-d2) - discS*n.CDF(-d1)
}

// Greeks holds the price and first/second-order sensitivities.
// Conventions: Theta is per calendar day (annual / 365); Vega and Rho are
// per one percentage point of vol / rate (annual / 100).
type Greeks struct {
	Price float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// ComputeGreeks evaluates the closed-form derivatives; no finite differences.
func ComputeGreeks(in PricingInput) (Greeks, error) {
	if err := in.validate(); err != nil {
		return Greeks{}, err
	}

	d1, d2 := d1d2(in)
	sqrtT := math.Sqrt(in.TimeToExpiry)
	dq := math.Exp(-in.DividendYield * in.TimeToExpiry)
	dr := math.Exp(-in.Rate * in.TimeToExpiry)
	n := distuv.UnitNormal
	pdf1 := n.Prob(d1)

	g := Greeks{
		Price: price(in),
		Gamma: dq * pdf1 / (in.Spot * in.Vol * sqrtT),
		Vega:  in.Spot * dq * pdf1 * sqrtT / 100,
	}

	// Shared theta term: time decay of the optionality itself.
	thetaAnnual := -in.Spot * dq * pdf1 * in.Vol / (2 * sqrtT)

	if in.Type == Call {
		g.Delta = dq * n.CDF(d1)
		thetaAnnual += in.DividendYield*in.Spot*dq*n.CDF(d1) - in.Rate*in.Strike*dr*n.CDF(d2)
		g.Rho = in.Strike * in.TimeToExpiry * dr * n.CDF(d2) / 100
	} else {
		g.Delta = dq * (n.CDF(d1) - 1)
		thetaAnnual += -in.DividendYield*in.Spot*dq*n.CDF(-d1) + in.Rate*in.Strike*dr*n.CDF(-d2)
		g.Rho = -in.Strike * in.TimeToExpiry * dr * n.CDF(-d2) / 100
	}
	g.Theta = thetaAnnual / 365

	return g, nil
}

// ContractGreeks pairs a contract position with its pricing input.
type ContractGreeks struct {
	Contract Contract
	Quantity float64
	Input    PricingInput
}

// PortfolioGreeks aggregates per-contract Greeks as quantity-weighted sums.
// Aggregation is linear; cross-gamma terms are out of scope.
func PortfolioGreeks(positions []ContractGreeks) (Greeks, error) {
	var total Greeks
	for i, p := range positions {
		g, err := ComputeGreeks(p.Input)
		if err != nil {
			return Greeks{}, fmt.Errorf("position %d (%s): %w", i, p.Contract.Underlying, err)
		}
		total.Price += p.Quantity * g.Price
		total.Delta += p.Quantity * g.Delta
		total.Gamma += p.Quantity * g.Gamma
		total.Theta += p.Quantity * g.Theta
		total.Vega += p.Quantity * g.Vega
		total.Rho += p.Quantity * g.Rho
	}
	return total, nil
}
