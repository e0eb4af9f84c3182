package cosmo

import (
	"math"
)

// DeltaC0 is the spherical-collapse linear overdensity threshold in an
// Einstein-de Sitter universe.
const DeltaC0 = 1.686

// carrollG is the growth suppression factor of Carroll, Press & Turner
// (1992), eq. 29.
func carrollG(omegaM, omegaL float64) float64 {
	return 2.5 * omegaM / (math.Pow(omegaM, 4.0/7) - omegaL +
		(1+omegaM/2)*(1+omegaL/70))
}

// Growth returns the linear growth factor D(z), normalized to D(0) = 1.
func Growth(p Params, z float64) float64 {
	g0 := carrollG(p.OmegaM, p.OmegaL)
	gz := carrollG(p.OmegaMz(z), p.OmegaLz(z))
	return gz / (g0 * (1 + z))
}

// DeltaC returns the critical linear overdensity for collapse at redshift z,
// extrapolated to z = 0. It increases with z.
func DeltaC(p Params, z float64) float64 {
	return DeltaC0 / Growth(p, z)
}
