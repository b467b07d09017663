// Package strategies defines the capability the backtest engine drives:
// given aligned return history up to the decision time, produce target
// portfolio weights. Strategies are deterministic unless they explicitly
// declare a seed of their own.
package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/quantlab/stats"
)

// Strategy produces target weights (by symbol, fractions of equity) from the
// history strictly before the rebalance time. Weights need not sum to 1;
// the remainder stays in cash. Symbols left out get weight 0.
type Strategy interface {
	Name() string
	TargetWeights(history *stats.Aligned) (map[string]float64, error)
}

// Params carries the knobs shared by the shipped strategies.
type Params struct {
	Lookback int // trailing observations a strategy may use
}

// ByName resolves a strategy by its registry name.
func ByName(name string, p Params) (Strategy, error) {
	if p.Lookback <= 0 {
		p.Lookback = 20
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "equal-weight", "equalweight":
		return EqualWeight{}, nil
	case "momentum":
		return &Momentum{Lookback: p.Lookback}, nil
	case "inverse-vol", "inversevol":
		return &InverseVol{Lookback: p.Lookback}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: equal-weight, momentum, inverse-vol)", name)
	}
}
