package formation

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/formation/cosmo"
	"github.com/phil-mansfield/formation/math/calc"
)

// Statistic is a summary of the formation redshift distribution.
type Statistic int

const (
	Median Statistic = iota
	// Average is the lower bound of AverageFormation.
	Average
	Peak
)

func (s Statistic) String() string {
	switch s {
	case Median:
		return "median"
	case Average:
		return "average"
	case Peak:
		return "peak"
	}
	return fmt.Sprintf("Statistic(%d)", int(s))
}

// ParseStatistic converts "median", "average" or "peak" into a Statistic.
func ParseStatistic(s string) (Statistic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "median":
		return Median, nil
	case "average", "mean":
		return Average, nil
	case "peak", "mode":
		return Peak, nil
	}
	return Median, fmt.Errorf("%w: unknown statistic '%s'",
		ErrInvalidParameter, s)
}

// AverageBounds is the first moment of the formation redshift density.
// Lower integrates from the first scanned redshift and Upper adds the
// density missing below it.
type AverageBounds struct {
	Lower, Upper float64
	// Correction is Lower - Upper.
	Correction float64
}

// scan integrates a halo observed at z over n redshifts between lo and hi.
func scan(
	bg cosmo.Background, m, z, lo, hi float64, opt Options, sc ScanOptions,
) (zs, ps []float64, err error) {
	if err := sc.validate(); err != nil {
		return nil, nil, err
	}
	opt.ZObs = z
	zs = floats.Span(make([]float64, sc.Points), lo, hi)
	ps, err = ProbabilityBatch(bg, m, zs, opt)
	if err != nil {
		return nil, nil, err
	}
	return zs, ps, nil
}

// MedianFormation returns the largest redshift in a scan of z + 0.1 to
// z + 6 where P(z_f > z) exceeds one half, for a halo of mass m observed
// at z. opt.ZObs is replaced by z. If the curve contains NaN, so does the
// result.
func MedianFormation(
	bg cosmo.Background, m, z float64, opt Options, sc ScanOptions,
) (float64, error) {
	zs, ps, err := scan(bg, m, z, z+0.1, z+6, opt, sc)
	if err != nil {
		return math.NaN(), err
	}
	if floats.HasNaN(ps) {
		return math.NaN(), nil
	}

	for i := len(ps) - 1; i >= 0; i-- {
		if ps[i] > 0.5 {
			return zs[i], nil
		}
	}
	return math.NaN(), fmt.Errorf("%w: M = %g, z = %g to %g",
		ErrNoCrossing, m, zs[0], zs[len(zs)-1])
}

// AverageFormation returns the mean formation redshift of a halo of mass m
// observed at z. The scan runs from z + 1.2 sigma8 / (2.7 + 0.2 log10(m) +
// 0.1 OmegaM) to z + 8.
func AverageFormation(
	bg cosmo.Background, m, z float64, opt Options, sc ScanOptions,
) (AverageBounds, error) {
	p := bg.Params()
	start := z + 1.2*p.Sigma8/(2.7+0.2*math.Log10(m)+0.1*p.OmegaM)
	zs, ps, err := scan(bg, m, z, start, z+8, opt, sc)
	if err != nil {
		return AverageBounds{math.NaN(), math.NaN(), math.NaN()}, err
	}

	dens := calc.CentralDiff(zs, ps)
	dz := zs[1] - zs[0]

	lower := 0.0
	for i, d := range dens {
		lower += zs[i+1] * d
	}
	lower *= -dz
	corr := (zs[0] - z) * dens[0]

	return AverageBounds{Lower: lower, Upper: lower - corr, Correction: corr}, nil
}

// PeakFormation returns the redshift of the maximum of -dP/dz in a scan of
// z + 0.1 to z + 6 for a halo of mass m observed at z.
func PeakFormation(
	bg cosmo.Background, m, z float64, opt Options, sc ScanOptions,
) (float64, error) {
	zs, ps, err := scan(bg, m, z, z+0.1, z+6, opt, sc)
	if err != nil {
		return math.NaN(), err
	}

	dens := calc.CentralDiff(zs, ps)
	if floats.HasNaN(dens) {
		return math.NaN(), nil
	}
	floats.Scale(-1, dens)
	return zs[floats.MaxIdx(dens)+1], nil
}

// Formation evaluates the statistic s for a halo of mass m observed at z.
// Average returns the lower bound.
func Formation(
	bg cosmo.Background, m, z float64, s Statistic,
	opt Options, sc ScanOptions,
) (float64, error) {
	switch s {
	case Median:
		return MedianFormation(bg, m, z, opt, sc)
	case Average:
		avg, err := AverageFormation(bg, m, z, opt, sc)
		return avg.Lower, err
	case Peak:
		return PeakFormation(bg, m, z, opt, sc)
	}
	return math.NaN(), fmt.Errorf("%w: unknown statistic %d",
		ErrInvalidParameter, int(s))
}

// Concentration maps a formation redshift onto the empirical concentration
// proxy 0.7 + 0.77 log10(zf).
func Concentration(zf float64) float64 {
	return 0.7 + 0.77*math.Log10(zf)
}

// SlopeMassLow and SlopeMassHigh are the masses compared by SlopeAge,
// six decades apart.
const (
	SlopeMassLow  = 1e8
	SlopeMassHigh = 1e14
	slopeDecades  = 6
)

// SlopeAge returns (zf(1e8) - zf(1e14)) / 6, the change in formation
// redshift per decade of mass, for halos observed at z.
func SlopeAge(
	bg cosmo.Background, z float64, s Statistic, opt Options, sc ScanOptions,
) (float64, error) {
	lo, err := Formation(bg, SlopeMassLow, z, s, opt, sc)
	if err != nil {
		return math.NaN(), err
	}
	hi, err := Formation(bg, SlopeMassHigh, z, s, opt, sc)
	if err != nil {
		return math.NaN(), err
	}
	return (lo - hi) / slopeDecades, nil
}
