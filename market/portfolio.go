package market

import (
	"fmt"
	"math"
	"sort"
)

// AssetClass tags a position for exposure reporting.
type AssetClass string

const (
	Equity AssetClass = "equity"
	Option AssetClass = "option"
	FX     AssetClass = "fx"
	Crypto AssetClass = "crypto"
)

// Position is one holding in a portfolio snapshot. Quantity is signed
// (negative = short). Positions are read-only to the engine.
type Position struct {
	Symbol     string
	Quantity   float64
	EntryPrice float64
	AssetClass AssetClass
	Sector     string
}

// Portfolio is a snapshot of positions plus the base currency every
// valuation is expressed in.
type Portfolio struct {
	BaseCurrency string
	Positions    []Position
}

// Symbols returns the distinct position symbols in sorted order.
func (p *Portfolio) Symbols() []string {
	seen := make(map[string]bool, len(p.Positions))
	var out []string
	for _, pos := range p.Positions {
		if !seen[pos.Symbol] {
			seen[pos.Symbol] = true
			out = append(out, pos.Symbol)
		}
	}
	sort.Strings(out)
	return out
}

// Exposures returns signed currency exposure (quantity x price) per symbol.
// Every position symbol must have a price.
func (p *Portfolio) Exposures(prices map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(p.Positions))
	for _, pos := range p.Positions {
		px, ok := prices[pos.Symbol]
		if !ok {
			return nil, fmt.Errorf("market: no price for %s", pos.Symbol)
		}
		out[pos.Symbol] += pos.Quantity * px
	}
	return out, nil
}

// MarketValue is the signed sum of exposures in the base currency.
func (p *Portfolio) MarketValue(prices map[string]float64) (float64, error) {
	exp, err := p.Exposures(prices)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, v := range exp {
		total += v
	}
	return total, nil
}

// Weights returns signed exposure divided by gross (absolute) exposure,
// so long/short books still produce bounded weights.
func (p *Portfolio) Weights(prices map[string]float64) (map[string]float64, error) {
	exp, err := p.Exposures(prices)
	if err != nil {
		return nil, err
	}
	var gross float64
	for _, v := range exp {
		gross += math.Abs(v)
	}
	if gross == 0 {
		return nil, fmt.Errorf("market: portfolio has zero gross exposure")
	}
	out := make(map[string]float64, len(exp))
	for sym, v := range exp {
		out[sym] = v / gross
	}
	return out, nil
}

// SectorExposure aggregates signed exposure per sector label. Positions
// without a sector are grouped under "Unclassified".
func (p *Portfolio) SectorExposure(prices map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64)
	for _, pos := range p.Positions {
		px, ok := prices[pos.Symbol]
		if !ok {
			return nil, fmt.Errorf("market: no price for %s", pos.Symbol)
		}
		sector := pos.Sector
		if sector == "" {
			sector = "Unclassified"
		}
		out[sector] += pos.Quantity * px
	}
	return out, nil
}
