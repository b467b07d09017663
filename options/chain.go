package options

import "time"

// ChainConfig parameterizes a synthetic calibration chain: strikes spaced
// around spot with a moneyness smile, one column per expiry.
type ChainConfig struct {
	BaseVol    float64 // at-the-money level, e.g. 0.20
	Skew       float64 // smile slope per unit |S-K|/S, e.g. 0.10
	StrikeSpan float64 // half-width around spot as a fraction, e.g. 0.20
	StrikeStep float64 // strike spacing as a fraction of spot, e.g. 0.02
	ExpiryDays []int   // e.g. 7, 14, 30, 60, 90
}

// DefaultChainConfig is the demo chain the CLI surface command calibrates from.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		BaseVol:    0.20,
		Skew:       0.10,
		StrikeSpan: 0.20,
		StrikeStep: 0.02,
		ExpiryDays: []int{7, 14, 30, 60, 90},
	}
}

// SyntheticChain generates calibration points for a full grid around spot.
// Useful for demos and for exercising the surface without market quotes.
func SyntheticChain(spot float64, asOf time.Time, cfg ChainConfig) []VolatilityPoint {
	var points []VolatilityPoint
	for frac := -cfg.StrikeSpan; frac <= cfg.StrikeSpan+1e-9; frac += cfg.StrikeStep {
		strike := spot * (1 + frac)
		mny := frac
		if mny < 0 {
			mny = -mny
		}
		vol := cfg.BaseVol + cfg.Skew*mny
		for _, days := range cfg.ExpiryDays {
			points = append(points, VolatilityPoint{
				Strike: strike,
				Expiry: asOf.AddDate(0, 0, days),
				Vol:    vol,
			})
		}
	}
	return points
}
