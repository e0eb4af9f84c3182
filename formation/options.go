package formation

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/phil-mansfield/formation/excursion"
)

var validate = validator.New()

// Options are the settings shared by the single-halo integrators.
type Options struct {
	// Frac is the fraction of the final mass that defines formation.
	Frac float64 `validate:"gt=0,lt=1"`
	// Acc is the number of points in the mass grid.
	Acc int `validate:"gte=4"`
	// ZObs is the redshift at which halos are observed.
	ZObs float64 `validate:"gte=0"`

	Model       excursion.Model
	ShethTormen excursion.ShethTormenParams

	// Metrics receives integration counts and timings. May be nil.
	Metrics *Metrics `validate:"-"`
}

// DefaultOptions returns half-mass formation, a 10^4 point grid and the
// ellipsoidal-collapse barrier.
func DefaultOptions() Options {
	return Options{
		Frac:        0.5,
		Acc:         10000,
		ZObs:        0,
		Model:       excursion.EllipsoidalCollapse,
		ShethTormen: excursion.DefaultShethTormen(),
	}
}

// Validate returns an error wrapping ErrInvalidParameter or
// ErrUnsupportedModel if the options cannot be used.
func (opt Options) Validate() error {
	if !opt.Model.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedModel, opt.Model)
	}
	if err := validate.Struct(opt); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, err.Error())
	}
	return nil
}

// ScanOptions control the redshift scans of the derived statistics.
type ScanOptions struct {
	Points int `validate:"gte=3"`
}

// DefaultScanOptions returns a 10^4 point scan.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{Points: 10000}
}

func (scan ScanOptions) validate() error {
	if err := validate.Struct(scan); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidParameter, err.Error())
	}
	return nil
}
