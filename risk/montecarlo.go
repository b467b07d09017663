package risk

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/rustyeddy/quantlab/market"
	"github.com/rustyeddy/quantlab/stats"
)

// PathGenerator draws correlated daily return vectors from a Cholesky
// factorization of a covariance matrix. Each path owns an RNG seeded from
// the run seed plus the path index, so output is bit-reproducible for a
// fixed seed no matter how many workers run or how they are scheduled.
type PathGenerator struct {
	mu   []float64
	low  *mat.TriDense
	seed int64
}

// NewPathGenerator factorizes cov. A matrix that is not positive definite is
// the caller's problem to fix, typically by adding a small diagonal jitter
// via Regularize; the generator never patches it on its own.
func NewPathGenerator(mean []float64, cov *mat.SymDense, seed int64) (*PathGenerator, error) {
	n := cov.SymmetricDim()
	if len(mean) != n {
		return nil, fmt.Errorf("risk: mean vector length %d does not match covariance dim %d", len(mean), n)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return nil, fmt.Errorf("%w: %dx%d matrix failed Cholesky factorization", ErrNonPositiveDefinite, n, n)
	}
	var low mat.TriDense
	chol.LTo(&low)
	mu := make([]float64, n)
	copy(mu, mean)
	return &PathGenerator{mu: mu, low: &low, seed: seed}, nil
}

// Dim is the number of assets per draw.
func (g *PathGenerator) Dim() int { return len(g.mu) }

// Path fills steps (horizon rows of Dim() returns) for one path index.
func (g *PathGenerator) Path(pathIdx int, steps [][]float64) {
	rng := rand.New(rand.NewSource(g.seed + int64(pathIdx)))
	n := len(g.mu)
	z := make([]float64, n)
	for _, row := range steps {
		for i := range z {
			z[i] = rng.NormFloat64()
		}
		for i := 0; i < n; i++ {
			v := g.mu[i]
			for j := 0; j <= i; j++ {
				v += g.low.At(i, j) * z[j]
			}
			row[i] = v
		}
	}
}

// Generate runs visit(pathIdx, steps) for every path across a worker pool.
// The steps buffer is reused per worker: visitors must copy anything they
// keep. Cancellation is checked between paths; on cancellation the error is
// returned and any partial output must be discarded by the caller.
func (g *PathGenerator) Generate(ctx context.Context, paths, horizon, workers int, visit func(pathIdx int, steps [][]float64)) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > paths {
		workers = paths
	}

	grp, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * paths / workers
		end := (w + 1) * paths / workers
		grp.Go(func() error {
			steps := make([][]float64, horizon)
			for i := range steps {
				steps[i] = make([]float64, len(g.mu))
			}
			for p := start; p < end; p++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				g.Path(p, steps)
				visit(p, steps)
			}
			return nil
		})
	}
	return grp.Wait()
}

// Regularize returns cov with jitter added to the diagonal. This is the
// documented remediation for ErrNonPositiveDefinite; applying it is always
// an explicit caller decision.
func Regularize(cov *mat.SymDense, jitter float64) *mat.SymDense {
	n := cov.SymmetricDim()
	out := mat.NewSymDense(n, nil)
	out.CopySym(cov)
	for i := 0; i < n; i++ {
		out.SetSym(i, i, out.At(i, i)+jitter)
	}
	return out
}

// MonteCarloVaR simulates cfg.Paths day-by-day portfolio paths over the
// horizon (hence the monte_carlo_path method tag, no sqrt-time scaling)
// and reads VaR/CVaR off the simulated P&L distribution with the same
// percentile rule as HistoricalVaR.
func MonteCarloVaR(ctx context.Context, p *market.Portfolio, prices map[string]float64, a *stats.Aligned, cfg Config) (Result, error) {
	cfg, err := cfg.Normalize()
	if err != nil {
		return Result{}, err
	}
	exposures, value, err := exposureVector(p, prices, a)
	if err != nil {
		return Result{}, err
	}

	cov, err := stats.CovarianceMatrix(a)
	if err != nil {
		return Result{}, err
	}
	gen, err := NewPathGenerator(stats.MeanVector(a), cov, cfg.Seed)
	if err != nil {
		return Result{}, err
	}

	losses := make([]float64, cfg.Paths)
	err = gen.Generate(ctx, cfg.Paths, cfg.HorizonDays, cfg.Workers, func(pathIdx int, steps [][]float64) {
		v := make([]float64, len(exposures))
		copy(v, exposures)
		for _, day := range steps {
			for i, r := range day {
				v[i] *= 1 + r
			}
		}
		var pnl float64
		for i := range v {
			pnl += v[i] - exposures[i]
		}
		losses[pathIdx] = -pnl
	})
	if err != nil {
		return Result{}, err
	}

	res := newResult(MethodMonteCarlo, cfg, p.BaseCurrency, value)
	res.Paths = cfg.Paths
	res.Seed = cfg.Seed
	fillFromLosses(&res, losses, cfg.Confidence)
	return res, nil
}
