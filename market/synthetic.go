package market

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// DefaultSymbols is the demo universe used when no symbols are configured.
var DefaultSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "META"}

// SyntheticConfig parameterizes the geometric-brownian-motion generator.
type SyntheticConfig struct {
	Symbols       []string
	InitialPrices map[string]float64 // optional; generated from the seed otherwise
	AnnualDrift   float64            // e.g. 0.08
	AnnualVol     float64            // e.g. 0.16
	TradingDays   float64            // periods per year, default 252
	Seed          int64
	AsOf          time.Time // last point of every generated series
	Positions     *Portfolio
}

// SyntheticProvider generates daily GBM price paths. Histories are a pure
// function of (seed, symbol, lookback, as-of date): two providers built from
// the same config return identical series regardless of call order.
type SyntheticProvider struct {
	cfg SyntheticConfig
	log zerolog.Logger
}

func NewSyntheticProvider(cfg SyntheticConfig, log zerolog.Logger) (*SyntheticProvider, error) {
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = DefaultSymbols
	}
	if cfg.TradingDays <= 0 {
		cfg.TradingDays = 252
	}
	if cfg.AnnualVol <= 0 {
		return nil, fmt.Errorf("market: synthetic annual vol must be positive, got %v", cfg.AnnualVol)
	}
	if cfg.AsOf.IsZero() {
		cfg.AsOf = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return &SyntheticProvider{cfg: cfg, log: log}, nil
}

func (p *SyntheticProvider) PriceHistory(ctx context.Context, symbol string, lookback int) (*PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if lookback < 1 {
		return nil, fmt.Errorf("market: lookback must be >= 1, got %d", lookback)
	}

	rng := rand.New(rand.NewSource(p.symbolSeed(symbol)))

	start := p.initialPrice(symbol, rng)
	dt := 1.0 / p.cfg.TradingDays
	drift := (p.cfg.AnnualDrift - 0.5*p.cfg.AnnualVol*p.cfg.AnnualVol) * dt
	shock := p.cfg.AnnualVol * math.Sqrt(dt)

	// Generate the full lookback path forward so that a longer lookback is a
	// superset of a shorter one ending on the same as-of date.
	points := make([]PricePoint, lookback)
	price := start
	for i := 0; i < lookback; i++ {
		price *= math.Exp(drift + shock*rng.NormFloat64())
		points[i] = PricePoint{
			Time:  p.cfg.AsOf.AddDate(0, 0, i-lookback+1),
			Price: price,
		}
	}

	p.log.Debug().Str("symbol", symbol).Int("lookback", lookback).Msg("generated synthetic history")
	return NewPriceSeries(symbol, points)
}

func (p *SyntheticProvider) Positions(ctx context.Context) (*Portfolio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.cfg.Positions == nil {
		return nil, fmt.Errorf("market: synthetic provider has no portfolio configured")
	}
	return p.cfg.Positions, nil
}

func (p *SyntheticProvider) symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return p.cfg.Seed ^ int64(h.Sum64())
}

func (p *SyntheticProvider) initialPrice(symbol string, rng *rand.Rand) float64 {
	if px, ok := p.cfg.InitialPrices[symbol]; ok && px > 0 {
		return px
	}
	// Seed prices land in the 100..500 band.
	return 100 + 400*rng.Float64()
}
