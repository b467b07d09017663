package risk

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/rustyeddy/quantlab/market"
	"github.com/rustyeddy/quantlab/stats"
)

// exposureVector orders the portfolio's currency exposures like the aligned
// symbol set. Every aligned symbol must be priced; positions without history
// are an input error, not something to skip silently.
func exposureVector(p *market.Portfolio, prices map[string]float64, a *stats.Aligned) ([]float64, float64, error) {
	exp, err := p.Exposures(prices)
	if err != nil {
		return nil, 0, err
	}
	symbols := a.Symbols()
	out := make([]float64, len(symbols))
	var value float64
	for i, sym := range symbols {
		out[i] = exp[sym]
		value += exp[sym]
		delete(exp, sym)
	}
	for sym := range exp {
		return nil, 0, fmt.Errorf("risk: position %s has no aligned return history", sym)
	}
	return out, value, nil
}

// HistoricalVaR simulates portfolio P&L by applying each historical return
// cross-section to current exposures and reads the loss quantile off the
// empirical distribution. Multi-day horizons scale the distribution by
// sqrt(horizon). Deterministic for identical input order.
func HistoricalVaR(p *market.Portfolio, prices map[string]float64, a *stats.Aligned, cfg Config) (Result, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return Result{}, err
	}
	exposures, value, err := exposureVector(p, prices, a)
	if err != nil {
		return Result{}, err
	}

	scale := math.Sqrt(float64(cfg.HorizonDays))
	losses := make([]float64, a.Len())
	for t := 0; t < a.Len(); t++ {
		row := a.Row(t)
		var pnl float64
		for i, r := range row {
			pnl += exposures[i] * r
		}
		losses[t] = -pnl * scale
	}

	res := newResult(MethodHistorical, cfg, p.BaseCurrency, value)
	fillFromLosses(&res, losses, cfg.Confidence)
	return res, nil
}

// ParametricVaR assumes normally distributed portfolio returns with moments
// from the sample covariance: VaR(c) = -(mu*dt - z(c)*sigma*sqrt(dt)) * V.
func ParametricVaR(p *market.Portfolio, prices map[string]float64, a *stats.Aligned, cfg Config) (Result, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return Result{}, err
	}
	exposures, value, err := exposureVector(p, prices, a)
	if err != nil {
		return Result{}, err
	}
	if math.Abs(value) < 1e-12 {
		return Result{}, fmt.Errorf("%w: portfolio value is zero, weights undefined", stats.ErrDegenerateInput)
	}

	cov, err := stats.CovarianceMatrix(a)
	if err != nil {
		return Result{}, err
	}
	mu := stats.MeanVector(a)

	// Weights in return space; mu/sigma become portfolio-return moments.
	w := mat.NewVecDense(len(exposures), nil)
	for i, e := range exposures {
		w.SetVec(i, e/value)
	}
	var muP float64
	for i := range mu {
		muP += w.AtVec(i) * mu[i]
	}
	var tmp mat.VecDense
	tmp.MulVec(cov, w)
	sigmaP := math.Sqrt(mat.Dot(w, &tmp))

	dt := float64(cfg.HorizonDays)
	z := distuv.UnitNormal.Quantile(cfg.Confidence)

	res := newResult(MethodParametric, cfg, p.BaseCurrency, value)
	res.Mean = muP * dt * value
	res.Stdev = sigmaP * math.Sqrt(dt) * math.Abs(value)
	res.VaR = -(muP*dt - z*sigmaP*math.Sqrt(dt)) * value
	// Closed-form expected shortfall under normality.
	res.CVaR = (-muP*dt + sigmaP*math.Sqrt(dt)*distuv.UnitNormal.Prob(z)/(1-cfg.Confidence)) * value
	return res, nil
}

// fillFromLosses sets VaR/CVaR and the distribution moments from a loss
// sample (positive = loss).
func fillFromLosses(res *Result, losses []float64, confidence float64) {
	sorted := sortedCopy(losses)
	res.VaR = percentile(sorted, confidence)
	res.CVaR = tailMean(sorted, res.VaR)
	res.Mean = -stats.Mean(losses)
	res.Stdev = stats.Stdev(losses)
}
