/*
package formation computes the distribution of halo formation redshifts in
excursion-set theory.

The single-halo integrators turn the first-upcrossing kernels of package
excursion into P(z_f > z), the probability that a halo had not yet
assembled a given fraction of its mass by redshift z. EnsembleProbability
averages these curves over a population of halos, and the Formation
functions reduce them to median, average and peak formation redshifts.
*/
package formation

import (
	"errors"

	"github.com/phil-mansfield/formation/excursion"
)

var (
	// ErrInvalidParameter is returned when an input is outside the domain
	// of the integrators: non-positive masses, fractions outside of (0, 1),
	// too-small grids or unsorted redshifts.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnsupportedModel is returned when a barrier model is unknown or
	// has no form for the requested integrator.
	ErrUnsupportedModel = excursion.ErrUnsupportedModel
	// ErrNoCrossing is returned by MedianFormation when the survival
	// probability never exceeds one half on the scanned redshifts.
	ErrNoCrossing = errors.New("probability never exceeds one half")
)
