package stats

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CovarianceMatrix computes the sample covariance of an aligned return set.
// The result is symmetric and positive-semidefinite by construction, indexed
// like a.Symbols().
func CovarianceMatrix(a *Aligned) (*mat.SymDense, error) {
	if a.Len() < 2 {
		return nil, fmt.Errorf("%w: covariance needs at least 2 observations, have %d", ErrInsufficientData, a.Len())
	}
	cov := mat.NewSymDense(len(a.symbols), nil)
	stat.CovarianceMatrix(cov, a.data, nil)
	return cov, nil
}

// CorrelationMatrix computes the sample correlation of an aligned return set.
func CorrelationMatrix(a *Aligned) (*mat.SymDense, error) {
	if a.Len() < 2 {
		return nil, fmt.Errorf("%w: correlation needs at least 2 observations, have %d", ErrInsufficientData, a.Len())
	}
	corr := mat.NewSymDense(len(a.symbols), nil)
	stat.CorrelationMatrix(corr, a.data, nil)
	return corr, nil
}

// MeanVector returns the per-symbol mean return, ordered like a.Symbols().
func MeanVector(a *Aligned) []float64 {
	out := make([]float64, len(a.symbols))
	for j := range a.symbols {
		col := mat.Col(nil, j, a.data)
		out[j] = stat.Mean(col, nil)
	}
	return out
}

// Beta is Cov(asset, bench) / Var(bench) over two equal-length return
// slices. A benchmark variance below epsilon makes the ratio undefined.
func Beta(asset, bench []float64) (float64, error) {
	if len(asset) != len(bench) {
		return 0, fmt.Errorf("stats: beta inputs have lengths %d and %d", len(asset), len(bench))
	}
	if len(asset) < 2 {
		return 0, fmt.Errorf("%w: beta needs at least 2 observations, have %d", ErrInsufficientData, len(asset))
	}
	v := stat.Variance(bench, nil)
	if v < varianceEpsilon {
		return 0, fmt.Errorf("%w: benchmark variance %v below epsilon", ErrDegenerateInput, v)
	}
	return stat.Covariance(asset, bench, nil) / v, nil
}
