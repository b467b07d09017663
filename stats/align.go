package stats

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
)

// DefaultMinSamples is the minimum number of aligned observations required
// for cross-sectional statistics.
const DefaultMinSamples = 30

// Aligned holds several return series joined on their common timestamps.
// Rows are time (ascending), columns are symbols (sorted). Immutable.
type Aligned struct {
	symbols []string
	index   map[string]int
	times   []time.Time
	data    *mat.Dense // len(times) x len(symbols)
}

// Align inner-joins the series on timestamps present in every input.
// minSamples <= 0 applies DefaultMinSamples.
func Align(series map[string]*ReturnSeries, minSamples int) (*Aligned, error) {
	if minSamples <= 0 {
		minSamples = DefaultMinSamples
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no series to align", ErrInsufficientData)
	}

	symbols := make([]string, 0, len(series))
	for sym := range series {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	// Count timestamp occurrences across all series; keepers appear in each.
	counts := make(map[int64]int)
	for _, rs := range series {
		for i := 0; i < rs.Len(); i++ {
			counts[rs.At(i).Time.UnixNano()]++
		}
	}
	var keep []int64
	for ts, n := range counts {
		if n == len(series) {
			keep = append(keep, ts)
		}
	}
	if len(keep) < minSamples {
		return nil, fmt.Errorf("%w: %d aligned observations, need %d", ErrInsufficientData, len(keep), minSamples)
	}
	sort.Slice(keep, func(i, j int) bool { return keep[i] < keep[j] })

	rowOf := make(map[int64]int, len(keep))
	times := make([]time.Time, len(keep))
	for i, ts := range keep {
		rowOf[ts] = i
		times[i] = time.Unix(0, ts).UTC()
	}

	data := mat.NewDense(len(keep), len(symbols), nil)
	index := make(map[string]int, len(symbols))
	for col, sym := range symbols {
		index[sym] = col
		rs := series[sym]
		for i := 0; i < rs.Len(); i++ {
			p := rs.At(i)
			if row, ok := rowOf[p.Time.UnixNano()]; ok {
				data.Set(row, col, p.Value)
			}
		}
	}

	return &Aligned{symbols: symbols, index: index, times: times, data: data}, nil
}

// NewAligned builds an aligned set directly from a row-major return matrix
// (rows = observations, in time order). The simulation engine uses this to
// feed synthetic paths through the same code path as historical data.
func NewAligned(symbols []string, times []time.Time, rows [][]float64) (*Aligned, error) {
	if len(times) != len(rows) {
		return nil, fmt.Errorf("stats: %d times but %d rows", len(times), len(rows))
	}
	index := make(map[string]int, len(symbols))
	for col, sym := range symbols {
		index[sym] = col
	}
	if len(rows) == 0 {
		return &Aligned{symbols: append([]string(nil), symbols...), index: index}, nil
	}
	data := mat.NewDense(len(rows), len(symbols), nil)
	for i, row := range rows {
		if len(row) != len(symbols) {
			return nil, fmt.Errorf("stats: row %d has %d values, want %d", i, len(row), len(symbols))
		}
		for j, v := range row {
			data.Set(i, j, v)
		}
	}
	ts := make([]time.Time, len(times))
	copy(ts, times)
	syms := make([]string, len(symbols))
	copy(syms, symbols)
	return &Aligned{symbols: syms, index: index, times: ts, data: data}, nil
}

func (a *Aligned) Len() int          { return len(a.times) }
func (a *Aligned) Symbols() []string { return append([]string(nil), a.symbols...) }

// Time returns the timestamp of row i.
func (a *Aligned) Time(i int) time.Time { return a.times[i] }

// Column returns a copy of the return column for symbol.
func (a *Aligned) Column(symbol string) ([]float64, error) {
	col, ok := a.index[symbol]
	if !ok {
		return nil, fmt.Errorf("stats: symbol %s not in aligned set", symbol)
	}
	if a.data == nil {
		return []float64{}, nil
	}
	return mat.Col(nil, col, a.data), nil
}

// Row returns a copy of the cross-section at row i, ordered like Symbols.
func (a *Aligned) Row(i int) []float64 {
	return mat.Row(nil, i, a.data)
}

// Matrix exposes the observations as a read-only gonum matrix.
func (a *Aligned) Matrix() mat.Matrix { return a.data }

// Head returns a view-copy of the first n rows. Strategies receive this so
// decisions at time t only see history strictly before t.
func (a *Aligned) Head(n int) *Aligned {
	if n > len(a.times) {
		n = len(a.times)
	}
	if n <= 0 {
		return &Aligned{symbols: a.symbols, index: a.index}
	}
	sub := mat.DenseCopyOf(a.data.Slice(0, n, 0, len(a.symbols)))
	return &Aligned{symbols: a.symbols, index: a.index, times: a.times[:n], data: sub}
}
