package options

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// VolatilityPoint is one implied-vol calibration observation.
type VolatilityPoint struct {
	Strike float64
	Expiry time.Time
	Vol    float64
}

// Surface maps (strike, expiry) to implied vol over a rectangular grid and
// fills gaps bilinearly in (log-moneyness, time-to-expiry) space.
// Requests outside the calibrated grid fail; the surface never extrapolates.
type Surface struct {
	spot     float64
	asOf     time.Time
	strikes  []float64 // ascending
	logMny   []float64 // log(strike/spot), same order as strikes
	expiries []float64 // years from asOf, ascending
	grid     [][]float64 // [strike][expiry]
}

// NewSurface calibrates a surface from observations. The points must cover a
// full rectangular grid: every observed strike paired with every observed
// expiry. Duplicate (strike, expiry) observations keep the last value.
func NewSurface(spot float64, asOf time.Time, points []VolatilityPoint) (*Surface, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: spot %v must be positive", ErrInvalidParameter, spot)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no calibration points", ErrInvalidParameter)
	}

	strikeSet := make(map[float64]bool)
	expirySet := make(map[float64]bool)
	vols := make(map[[2]float64]float64)
	for i, p := range points {
		if p.Strike <= 0 {
			return nil, fmt.Errorf("%w: point %d strike %v", ErrInvalidParameter, i, p.Strike)
		}
		if p.Vol <= 0 {
			return nil, fmt.Errorf("%w: point %d vol %v", ErrInvalidParameter, i, p.Vol)
		}
		tte := yearsBetween(asOf, p.Expiry)
		if tte <= 0 {
			return nil, fmt.Errorf("%w: point %d expiry %s not after %s",
				ErrInvalidParameter, i, p.Expiry.Format(time.RFC3339), asOf.Format(time.RFC3339))
		}
		strikeSet[p.Strike] = true
		expirySet[tte] = true
		vols[[2]float64{p.Strike, tte}] = p.Vol
	}

	strikes := sortedKeys(strikeSet)
	expiries := sortedKeys(expirySet)

	grid := make([][]float64, len(strikes))
	for i, k := range strikes {
		grid[i] = make([]float64, len(expiries))
		for j, t := range expiries {
			v, ok := vols[[2]float64{k, t}]
			if !ok {
				return nil, fmt.Errorf("%w: missing observation for strike %v, tte %.4fy", ErrInvalidParameter, k, t)
			}
			grid[i][j] = v
		}
	}

	logMny := make([]float64, len(strikes))
	for i, k := range strikes {
		logMny[i] = math.Log(k / spot)
	}

	return &Surface{spot: spot, asOf: asOf, strikes: strikes, logMny: logMny, expiries: expiries, grid: grid}, nil
}

func (s *Surface) Spot() float64      { return s.spot }
func (s *Surface) Strikes() []float64 { return append([]float64(nil), s.strikes...) }

// Expiries returns the calibrated times to expiry in years.
func (s *Surface) Expiries() []float64 { return append([]float64(nil), s.expiries...) }

// At interpolates the implied vol for an arbitrary (strike, expiry),
// bilinear over the four nearest grid points in (log-moneyness, tte) space.
func (s *Surface) At(strike float64, expiry time.Time) (float64, error) {
	if strike <= 0 {
		return 0, fmt.Errorf("%w: strike %v must be positive", ErrInvalidParameter, strike)
	}
	x := math.Log(strike / s.spot)
	t := yearsBetween(s.asOf, expiry)

	i, err := bracket(s.logMny, x)
	if err != nil {
		return 0, fmt.Errorf("%w: strike %v outside [%v, %v]",
			ErrOutOfSurfaceRange, strike, s.strikes[0], s.strikes[len(s.strikes)-1])
	}
	j, err := bracket(s.expiries, t)
	if err != nil {
		return 0, fmt.Errorf("%w: expiry %.4fy outside [%.4fy, %.4fy]",
			ErrOutOfSurfaceRange, t, s.expiries[0], s.expiries[len(s.expiries)-1])
	}

	fx := fraction(s.logMny, i, x)
	ft := fraction(s.expiries, j, t)

	v00 := s.grid[i][j]
	v10 := s.grid[min(i+1, len(s.strikes)-1)][j]
	v01 := s.grid[i][min(j+1, len(s.expiries)-1)]
	v11 := s.grid[min(i+1, len(s.strikes)-1)][min(j+1, len(s.expiries)-1)]

	return (1-fx)*(1-ft)*v00 + fx*(1-ft)*v10 + (1-fx)*ft*v01 + fx*ft*v11, nil
}

// bracket finds i such that xs[i] <= x <= xs[i+1] (or i = len-1 when x is
// exactly the last node). Outside the hull it errors.
func bracket(xs []float64, x float64) (int, error) {
	if x < xs[0] || x > xs[len(xs)-1] {
		return 0, ErrOutOfSurfaceRange
	}
	i := sort.SearchFloat64s(xs, x)
	if i > 0 && (i == len(xs) || xs[i] != x) {
		i--
	}
	return i, nil
}

// fraction is the interpolation weight of x between xs[i] and xs[i+1].
func fraction(xs []float64, i int, x float64) float64 {
	if i+1 >= len(xs) {
		return 0
	}
	span := xs[i+1] - xs[i]
	if span == 0 {
		return 0
	}
	return (x - xs[i]) / span
}

func yearsBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24 / 365
}

func sortedKeys(set map[float64]bool) []float64 {
	out := make([]float64, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Float64s(out)
	return out
}
