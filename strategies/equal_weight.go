package strategies

import "github.com/rustyeddy/quantlab/stats"

// EqualWeight splits the book evenly over the universe regardless of
// history. The baseline every factor strategy is measured against.
type EqualWeight struct{}

func (EqualWeight) Name() string { return "equal-weight" }

func (EqualWeight) TargetWeights(history *stats.Aligned) (map[string]float64, error) {
	symbols := history.Symbols()
	if len(symbols) == 0 {
		return map[string]float64{}, nil
	}
	w := 1.0 / float64(len(symbols))
	out := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		out[sym] = w
	}
	return out, nil
}
