package excursion

import (
	"fmt"
	"math"
)

var sqrt2Pi = math.Sqrt(2 * math.Pi)

// K is the first-upcrossing density for a step (dS, dw) for the model m.
// EllipsoidalCollapse has no kernel of this form and returns
// ErrUnsupportedModel; use FEC instead.
//
// dS must be positive. Non-finite values propagate.
func K(dS, dw float64, m Model, st ShethTormenParams) (float64, error) {
	switch m {
	case PressSchechter:
		return KPressSchechter(dS, dw), nil
	case ShethTormen:
		return KShethTormen(dS, dw, st), nil
	}
	return math.NaN(), fmt.Errorf("%w: %s has no upcrossing kernel K",
		ErrUnsupportedModel, m)
}

// KPressSchechter is the Gaussian first passage density of a walk across a
// constant barrier.
func KPressSchechter(dS, dw float64) float64 {
	return dw * math.Exp(-dw*dw/(2*dS)) / math.Sqrt(2*math.Pi*dS*dS*dS)
}

// KShethTormen is the Gaussian first passage density with the rescaled
// barrier and moving-barrier correction of Sheth & Tormen.
func KShethTormen(dS, dw float64, st ShethTormenParams) float64 {
	ndw := math.Sqrt(st.Scaled) * dw
	corr := st.A * (1 + math.Pow(dS/(ndw*ndw), st.P))
	return corr * KPressSchechter(dS, ndw)
}

// FSC is the spherical-collapse conditional density of a walk at (s1, w1)
// given that it starts at (s0, w0).
func FSC(s1, s0, w1, w0 float64) float64 {
	dw, dS := w1-w0, s1-s0
	return dw * math.Pow(dS, -1.5) * math.Exp(-0.5*dw*dw/dS) / sqrt2Pi
}

// FEC is the ellipsoidal-collapse conditional density of Sheth, Mo &
// Tormen (2001), eq. 5, using the fit of Sheth & Tormen (2002) for the
// coefficients. Only meaningful for s0, w0 > 0.
func FEC(s1, s0, w1, w0 float64) float64 {
	dw, dS := w1-w0, s1-s0
	nu0 := w0 * w0 / s0

	a0 := 0.8661 * (1 - 0.133*math.Pow(nu0, -0.615))
	a1 := 0.308 * math.Pow(nu0, -0.115)
	a2 := 0.0373 * math.Pow(nu0, -0.115)

	sBar := dS / s0
	a3 := a0*a0 + 2*a0*a1*math.Sqrt(dS*sBar)/dw

	tail := a2 * math.Pow(sBar, 1.5) * (1 + 2*a1*math.Sqrt(sBar/math.Pi))
	return a0 * dw * math.Pow(dS, -1.5) / sqrt2Pi *
		math.Exp(-0.5*a1*a1*sBar) * (math.Exp(-0.5*a3*dw*dw/dS) + tail)
}

// Mu is the barrier shape (1 + (2^a - 1) st)^(1/a).
func Mu(st, a float64) float64 {
	return math.Pow(1+(math.Pow(2, a)-1)*st, 1/a)
}
