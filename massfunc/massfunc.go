/*
package massfunc implements the Press-Schechter halo mass function on top
of a cosmo.Background. It is used to cross-check the excursion-set kernels
and to weight halo ensembles.
*/
package massfunc

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/phil-mansfield/formation/cosmo"
)

var (
	// ErrShortGrid is returned when a mass grid has fewer than two points.
	ErrShortGrid = errors.New("mass grid is too short")
	// ErrNoMStar is returned when no mass in a grid has a peak height
	// above one.
	ErrNoMStar = errors.New("no mass with peak height above one")
)

// FPS is the Press-Schechter multiplicity function sqrt(2/pi) nu
// exp(-nu^2/2).
func FPS(nu float64) float64 {
	return math.Sqrt(2/math.Pi) * nu * math.Exp(-nu*nu/2)
}

// Nu is the peak height delta_c(z) / sigma(m).
func Nu(bg cosmo.Background, m, z float64) float64 {
	return bg.DeltaC(z) / math.Sqrt(bg.Variance(m))
}

// PressSchechter returns dn/dM in h^4 / (Msun Mpc^3) at redshift z. The
// mass function is evaluated at the len(ms) - 1 midpoints of ms, which are
// returned alongside it.
func PressSchechter(bg cosmo.Background, ms []float64, z float64) (mids, dndm []float64, err error) {
	if len(ms) < 2 {
		return nil, nil, fmt.Errorf("%w: got %d masses", ErrShortGrid, len(ms))
	}

	rho := bg.Params().RhoAverage()
	dc := bg.DeltaC(z)

	sig := make([]float64, len(ms))
	for i := range ms {
		sig[i] = math.Sqrt(bg.Variance(ms[i]))
	}

	mids = make([]float64, len(ms)-1)
	dndm = make([]float64, len(ms)-1)
	for i := range mids {
		dlnSig := math.Log(sig[i+1] / sig[i])
		dlnM := math.Log(ms[i+1] / ms[i])
		s := (sig[i+1] + sig[i]) / 2
		m := (ms[i+1] + ms[i]) / 2

		mids[i] = m
		dndm[i] = -math.Sqrt(2/math.Pi) * rho * dc / (m * m * s) *
			math.Exp(-dc*dc/(2*s*s)) * dlnSig / dlnM
	}
	return mids, dndm, nil
}

// MStar returns the smallest mass on a log grid of npoints masses between
// 10^lMmin and 10^lMmax whose peak height at z exceeds one.
func MStar(bg cosmo.Background, z, lMmin, lMmax float64, npoints int) (float64, error) {
	if npoints < 2 {
		return 0, fmt.Errorf("%w: got %d points", ErrShortGrid, npoints)
	}
	ms := floats.LogSpan(make([]float64, npoints),
		math.Pow(10, lMmin), math.Pow(10, lMmax))
	for _, m := range ms {
		if Nu(bg, m, z) > 1 {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: up to M = %g", ErrNoMStar, ms[len(ms)-1])
}

// Integrated is the number density of halos between 10^lMmin and 10^lMmax,
// in h^3 / Mpc^3, integrated over prec log-spaced masses.
func Integrated(bg cosmo.Background, lMmin, lMmax float64, prec int, z float64) (float64, error) {
	return moment(bg, lMmin, lMmax, prec, z, 0)
}

// MassFraction is the fraction of the mean matter density contained in
// halos between 10^lMmin and 10^lMmax.
func MassFraction(bg cosmo.Background, lMmin, lMmax float64, prec int, z float64) (float64, error) {
	rho, err := moment(bg, lMmin, lMmax, prec, z, 1)
	if err != nil {
		return 0, err
	}
	return rho / bg.Params().RhoAverage(), nil
}

// moment integrates M^(k+1) dn/dM over ln M.
func moment(bg cosmo.Background, lMmin, lMmax float64, prec int, z float64, k int) (float64, error) {
	if prec < 3 {
		return 0, fmt.Errorf("%w: got %d points", ErrShortGrid, prec)
	}
	ms := floats.LogSpan(make([]float64, prec),
		math.Pow(10, lMmin), math.Pow(10, lMmax))
	mids, dndm, err := PressSchechter(bg, ms, z)
	if err != nil {
		return 0, err
	}

	lnM := make([]float64, len(mids))
	f := make([]float64, len(mids))
	for i, m := range mids {
		lnM[i] = math.Log(m)
		f[i] = dndm[i] * math.Pow(m, float64(k+1))
	}
	return integrate.Trapezoidal(lnM, f), nil
}
