package strategies

import "github.com/rustyeddy/quantlab/stats"

// InverseVol allocates proportionally to 1/stdev over the trailing Lookback
// window. Assets with (near) zero measured vol are skipped rather than given
// an unbounded weight.
type InverseVol struct {
	Lookback int
}

func (v *InverseVol) Name() string { return "inverse-vol" }

func (v *InverseVol) TargetWeights(history *stats.Aligned) (map[string]float64, error) {
	out := make(map[string]float64)
	if history.Len() < v.Lookback {
		return out, nil
	}

	var total float64
	scores := make(map[string]float64)
	for _, sym := range history.Symbols() {
		col, err := history.Column(sym)
		if err != nil {
			return nil, err
		}
		sd := stats.Stdev(col[len(col)-v.Lookback:])
		if sd > 1e-9 {
			scores[sym] = 1 / sd
			total += 1 / sd
		}
	}
	if total == 0 {
		return out, nil
	}
	for sym, s := range scores {
		out[sym] = s / total
	}
	return out, nil
}
