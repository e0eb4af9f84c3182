package cosmo

import (
	"fmt"
	"math"
	"strings"
)

// Window is the filter used to smooth the linear density field.
type Window int

const (
	TopHat Window = iota
	Gauss
	KSharp
)

func (w Window) String() string {
	switch w {
	case TopHat:
		return "TopHat"
	case Gauss:
		return "Gauss"
	case KSharp:
		return "k-Sharp"
	}
	return fmt.Sprintf("Window(%d)", int(w))
}

// ParseWindow converts a window name ("TopHat", "Gauss" or "k-Sharp") into a
// Window.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tophat", "top-hat":
		return TopHat, nil
	case "gauss", "gaussian":
		return Gauss, nil
	case "k-sharp", "ksharp", "sharp-k":
		return KSharp, nil
	}
	return TopHat, fmt.Errorf("I don't recognize the window function '%s'. "+
		"The supported windows are TopHat, Gauss and k-Sharp.", s)
}

// W is the Fourier transform of the window evaluated at x = kR.
func (w Window) W(x float64) float64 {
	switch w {
	case TopHat:
		if x < 1e-3 {
			return 1 - x*x/10
		}
		sin, cos := math.Sincos(x)
		return 3 * (sin - x*cos) / (x * x * x)
	case Gauss:
		return math.Exp(-x * x / 2)
	case KSharp:
		if x <= 1 {
			return 1
		}
		return 0
	}
	panic(fmt.Sprintf("Unknown window %d.", int(w)))
}

// volumeFactor is the constant c in M = c rho R^3 for each window.
func (w Window) volumeFactor() float64 {
	switch w {
	case TopHat:
		return 4 * math.Pi / 3
	case Gauss:
		return math.Pow(2*math.Pi, 1.5)
	case KSharp:
		return 6 * math.Pi * math.Pi
	}
	panic(fmt.Sprintf("Unknown window %d.", int(w)))
}

// Radius returns the Lagrangian radius enclosing the mass m for the window
// w, in Mpc/h.
func Radius(p Params, w Window, m float64) float64 {
	return math.Cbrt(m / (w.volumeFactor() * p.RhoAverage()))
}

// Mass is the inverse of Radius.
func Mass(p Params, w Window, r float64) float64 {
	return w.volumeFactor() * p.RhoAverage() * r * r * r
}

// Transfer is the Eisenstein & Hu (1998) transfer function without baryon
// acoustic oscillations, eqs. 26-31. k is in h/Mpc.
func Transfer(p Params, k float64) float64 {
	h := p.H100
	theta := 2.728 / 2.7
	om := p.OmegaM * h * h
	ob := p.OmegaB * h * h
	fb := p.OmegaB / p.OmegaM

	s := 44.5 * math.Log(9.83/om) / math.Sqrt(1+10*math.Pow(ob, 0.75))
	alpha := 1 - 0.328*math.Log(431*om)*fb + 0.38*math.Log(22.3*om)*fb*fb

	ks := 0.43 * k * h * s
	gamma := p.OmegaM * h * (alpha + (1-alpha)/(1+ks*ks*ks*ks))
	q := k * theta * theta / gamma

	l0 := math.Log(2*math.E + 1.8*q)
	c0 := 14.2 + 731/(1+62.5*q)
	return l0 / (l0 + c0*q*q)
}

// unnormalizedPower is k^ns T(k)^2 without the sigma8 amplitude.
func unnormalizedPower(p Params, k float64) float64 {
	t := Transfer(p, k)
	return math.Pow(k, p.Ns) * t * t
}
