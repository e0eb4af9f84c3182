/*
package cosmo contains the cosmological background that the excursion-set
engine consumes: parameter sets, the linear growth factor, the collapse
threshold and the mass variance of the smoothed linear density field.

Distances are in Mpc/h and masses in Msun/h throughout.
*/
package cosmo

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

const (
	MpcMks  = 3.08567758149e22
	GMks    = 6.67408e-11
	MSunMks = 1.98847e30
)

// ErrInvalidParams is returned when a parameter set cannot describe a
// physical cosmology.
var ErrInvalidParams = errors.New("invalid cosmological parameters")

var validate = validator.New()

// Params is a flat Lambda-CDM-like parameter set. It is passed by value
// through every calculation so that evaluations with different cosmologies
// never share state.
type Params struct {
	Sigma8 float64 `validate:"gt=0"`
	H100   float64 `validate:"gt=0"`
	OmegaM float64 `validate:"gt=0,lte=1"`
	OmegaL float64 `validate:"gte=0"`
	OmegaB float64 `validate:"gte=0,ltfield=OmegaM"`
	Ns     float64 `validate:"gt=0"`
}

// Planck15 returns the Planck 2015 parameter set.
func Planck15() Params {
	return Params{
		Sigma8: 0.8159,
		H100:   0.6774,
		OmegaM: 0.3089,
		OmegaL: 0.6911,
		OmegaB: 0.0486,
		Ns:     0.9667,
	}
}

// Validate returns an error wrapping ErrInvalidParams if any parameter is
// out of range.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParams, err.Error())
	}
	return nil
}

// HubbleFrac calculates h(z) = H(z)/H0. Here H(z) is from Hubble's Law,
// H(z)**2 + k (c/a)**2 = H0**2 h100**2 (OmegaR a**-4 + OmegaM a**-3 + OmegaL).
// Assumes k, r = 0.
func HubbleFrac(omegaM, omegaL, z float64) float64 {
	return math.Sqrt(omegaM*math.Pow(1.0+z, 3.0) + omegaL)
}

// OmegaMz is the matter density parameter at redshift z.
func (p Params) OmegaMz(z float64) float64 {
	e := HubbleFrac(p.OmegaM, p.OmegaL, z)
	return p.OmegaM * math.Pow(1+z, 3) / (e * e)
}

// OmegaLz is the dark energy density parameter at redshift z.
func (p Params) OmegaLz(z float64) float64 {
	e := HubbleFrac(p.OmegaM, p.OmegaL, z)
	return p.OmegaL / (e * e)
}

// rhoCriticalMks is the critical density in kg/m^3 for H0 = 100 km/s/Mpc.
func rhoCriticalMks(omegaM, omegaL, z float64) float64 {
	H := HubbleFrac(omegaM, omegaL, z) * (100 * 1000) / MpcMks
	return 3.0 * H * H / (8.0 * math.Pi * GMks)
}

// RhoCritical calculates the critical density of the universe in
// h^2 Msun / Mpc^3.
func (p Params) RhoCritical(z float64) float64 {
	return rhoCriticalMks(p.OmegaM, p.OmegaL, z) * math.Pow(MpcMks, 3) / MSunMks
}

// RhoAverage calculates the comoving average density of matter in
// h^2 Msun / Mpc^3.
func (p Params) RhoAverage() float64 {
	return p.RhoCritical(0) * p.OmegaM
}
