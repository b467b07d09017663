package backtest

import (
	"fmt"
	"sort"
)

// BucketReturn is one sector/factor bucket's weight and return in either the
// portfolio or the benchmark.
type BucketReturn struct {
	Weight float64
	Return float64
}

// BucketEffect is the Brinson decomposition for one bucket.
type BucketEffect struct {
	Bucket     string
	Allocation float64 // (wp - wb) * rb
	Selection  float64 // wp * (rp - rb)
	Active     float64 // allocation + selection
}

// Attribution decomposes total active return into allocation and selection
// effects per bucket. With selection taken at portfolio weights the two
// effects sum exactly to portfolio return minus benchmark return.
type Attribution struct {
	Buckets         []BucketEffect
	PortfolioReturn float64
	BenchmarkReturn float64
	Allocation      float64
	Selection       float64
	Active          float64
}

// Brinson runs the decomposition over the union of bucket keys. A bucket
// missing from one side contributes with zero weight and that side's return
// taken as zero.
func Brinson(portfolio, benchmark map[string]BucketReturn) (*Attribution, error) {
	if len(portfolio) == 0 && len(benchmark) == 0 {
		return nil, fmt.Errorf("backtest: attribution needs at least one bucket")
	}

	keys := make(map[string]bool)
	for k := range portfolio {
		keys[k] = true
	}
	for k := range benchmark {
		keys[k] = true
	}
	buckets := make([]string, 0, len(keys))
	for k := range keys {
		buckets = append(buckets, k)
	}
	sort.Strings(buckets)

	out := &Attribution{}
	for _, b := range buckets {
		p := portfolio[b]
		bm := benchmark[b]

		eff := BucketEffect{
			Bucket:     b,
			Allocation: (p.Weight - bm.Weight) * bm.Return,
			Selection:  p.Weight * (p.Return - bm.Return),
		}
		eff.Active = eff.Allocation + eff.Selection

		out.Buckets = append(out.Buckets, eff)
		out.PortfolioReturn += p.Weight * p.Return
		out.BenchmarkReturn += bm.Weight * bm.Return
		out.Allocation += eff.Allocation
		out.Selection += eff.Selection
		out.Active += eff.Active
	}
	return out, nil
}
