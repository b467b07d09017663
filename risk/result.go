// Package risk estimates portfolio Value-at-Risk and expected shortfall by
// historical, parametric, and Monte-Carlo methods, and evaluates results
// against configurable limits. All estimators are pure functions over a
// portfolio snapshot and aligned return history.
package risk

import (
	"errors"
	"time"

	"github.com/rustyeddy/quantlab/pkg/id"
)

// ErrNonPositiveDefinite means the covariance matrix failed Cholesky
// decomposition. The caller must remediate explicitly (see Regularize);
// the estimator never patches the matrix silently.
var ErrNonPositiveDefinite = errors.New("risk: covariance matrix not positive definite")

// Method tags how a result was produced. MethodMonteCarlo is explicitly a
// day-by-day path simulation over the horizon, not a sqrt-time scaling of a
// one-day draw.
type Method string

const (
	MethodHistorical Method = "historical"
	MethodParametric Method = "parametric"
	MethodMonteCarlo Method = "monte_carlo_path"
)

// Config is the estimator parameter surface. Zero values take defaults via
// Normalize; there is no hidden global state.
type Config struct {
	Confidence  float64 // e.g. 0.95
	HorizonDays int     // e.g. 1
	Paths       int     // Monte Carlo only
	Seed        int64   // Monte Carlo only; explicit for reproducibility
	Workers     int     // Monte Carlo parallelism, default GOMAXPROCS
}

// DefaultConfig is 95% one-day VaR over 10k Monte-Carlo paths.
func DefaultConfig() Config {
	return Config{Confidence: 0.95, HorizonDays: 1, Paths: 10_000}
}

// Normalize fills unset fields with defaults and reports invalid ones.
func (c Config) Normalize() (Config, error) {
	if c.Confidence == 0 {
		c.Confidence = 0.95
	}
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return c, errors.New("risk: confidence must be in (0, 1)")
	}
	if c.HorizonDays == 0 {
		c.HorizonDays = 1
	}
	if c.HorizonDays < 0 {
		return c, errors.New("risk: horizon days must be positive")
	}
	if c.Paths == 0 {
		c.Paths = 10_000
	}
	if c.Paths < 0 {
		return c, errors.New("risk: path count must be positive")
	}
	return c, nil
}

// Result is an immutable VaR/CVaR record. VaR and CVaR are positive loss
// amounts in the portfolio's base currency.
type Result struct {
	ID             string
	Method         Method
	Confidence     float64
	HorizonDays    int
	VaR            float64
	CVaR           float64
	PortfolioValue float64
	Currency       string
	Mean           float64 // mean of the P&L distribution used
	Stdev          float64 // stdev of the P&L distribution used
	Paths          int     // Monte Carlo only
	Seed           int64   // Monte Carlo only
	ComputedAt     time.Time
}

func newResult(method Method, cfg Config, currency string, value float64) Result {
	return Result{
		ID:             id.New(),
		Method:         method,
		Confidence:     cfg.Confidence,
		HorizonDays:    cfg.HorizonDays,
		Currency:       currency,
		PortfolioValue: value,
		ComputedAt:     time.Now().UTC(),
	}
}
