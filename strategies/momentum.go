package strategies

import "github.com/rustyeddy/quantlab/stats"

// Momentum weights assets by positive trailing mean return over Lookback
// periods, normalized to a fully invested book. Until Lookback observations
// exist, or when nothing trended up, it stays in cash.
type Momentum struct {
	Lookback int
}

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) TargetWeights(history *stats.Aligned) (map[string]float64, error) {
	out := make(map[string]float64)
	if history.Len() < m.Lookback {
		return out, nil
	}

	var total float64
	scores := make(map[string]float64)
	for _, sym := range history.Symbols() {
		col, err := history.Column(sym)
		if err != nil {
			return nil, err
		}
		mean := stats.Mean(col[len(col)-m.Lookback:])
		if mean > 0 {
			scores[sym] = mean
			total += mean
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
