package risk

import (
	"fmt"
	"math"

	"github.com/rustyeddy/quantlab/market"
)

// Policy holds the portfolio risk limits the desk monitors. Currency limits
// are in the portfolio base currency; percentage limits are fractions.
type Policy struct {
	// VaR thresholds (positive loss amounts).
	VaRWarning  float64
	VaRCritical float64

	// Concentration limits on absolute weight.
	MaxPositionPct float64 // e.g. 0.25
	MaxSectorPct   float64 // e.g. 0.40

	// Annualized portfolio volatility ceiling, e.g. 0.30.
	MaxAnnualVol float64
}

// Violation is one breached limit.
type Violation struct {
	Code string
	Msg  string
}

// Decision is the outcome of evaluating a risk result against a policy.
type Decision struct {
	Allowed    bool
	Violations []Violation
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// EvaluatePolicy checks a VaR result, the current portfolio shape, and the
// annualized portfolio vol against the policy. Zero-valued limits are
// treated as unset and skipped.
func EvaluatePolicy(pol Policy, res Result, p *market.Portfolio, prices map[string]float64, annualVol float64) (Decision, error) {
	d := Decision{Allowed: true}

	if pol.VaRCritical > 0 && res.VaR >= pol.VaRCritical {
		d.add("VAR_CRITICAL", fmt.Sprintf("VaR %.2f %s breaches critical level %.2f",
			res.VaR, res.Currency, pol.VaRCritical))
	} else if pol.VaRWarning > 0 && res.VaR >= pol.VaRWarning {
		d.add("VAR_WARNING", fmt.Sprintf("VaR %.2f %s breaches warning level %.2f",
			res.VaR, res.Currency, pol.VaRWarning))
	}

	if pol.MaxPositionPct > 0 {
		weights, err := p.Weights(prices)
		if err != nil {
			return Decision{}, err
		}
		for sym, w := range weights {
			if math.Abs(w) > pol.MaxPositionPct {
				d.add("POSITION_CONCENTRATION", fmt.Sprintf("%s weight %.1f%% exceeds max %.1f%%",
					sym, 100*math.Abs(w), 100*pol.MaxPositionPct))
			}
		}
	}

	if pol.MaxSectorPct > 0 {
		value, err := p.MarketValue(prices)
		if err != nil {
			return Decision{}, err
		}
		sectors, err := p.SectorExposure(prices)
		if err != nil {
			return Decision{}, err
		}
		if math.Abs(value) > 0 {
			for sector, exp := range sectors {
				pct := math.Abs(exp / value)
				if pct > pol.MaxSectorPct {
					d.add("SECTOR_CONCENTRATION", fmt.Sprintf("%s exposure %.1f%% exceeds max %.1f%%",
						sector, 100*pct, 100*pol.MaxSectorPct))
				}
			}
		}
	}

	if pol.MaxAnnualVol > 0 && annualVol > pol.MaxAnnualVol {
		d.add("VOL_TOO_HIGH", fmt.Sprintf("annualized vol %.1f%% exceeds max %.1f%%",
			100*annualVol, 100*pol.MaxAnnualVol))
	}

	return d, nil
}
