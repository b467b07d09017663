package market

import "context"

// SnapshotProvider is the engine's input boundary. Implementations may be a
// live feed, a file fixture, or a generator; the analytics never care which,
// and the variant in use is always an explicit configuration choice; the
// engine never falls back from one to another on its own.
type SnapshotProvider interface {
	// PriceHistory returns up to lookback daily points for symbol, oldest
	// first. Fewer points than requested is not an error; the statistics
	// kernel enforces its own minimum-sample rules.
	PriceHistory(ctx context.Context, symbol string, lookback int) (*PriceSeries, error)

	// Positions returns the current portfolio snapshot.
	Positions(ctx context.Context) (*Portfolio, error)
}

// LatestPrices collects the last price of each symbol from a provider.
// It is a convenience for callers that need a valuation map.
func LatestPrices(ctx context.Context, p SnapshotProvider, symbols []string) (map[string]float64, error) {
	out := make(map[string]float64, len(symbols))
	for _, sym := range symbols {
		series, err := p.PriceHistory(ctx, sym, 1)
		if err != nil {
			return nil, err
		}
		last, ok := series.Last()
		if !ok {
			continue
		}
		out[sym] = last.Price
	}
	return out, nil
}
