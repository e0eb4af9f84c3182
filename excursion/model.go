/*
package excursion contains the first-upcrossing kernels of excursion-set
theory: the densities of a random walk in (S, delta) space first crossing
a collapse barrier after a step (dS, dw).
*/
package excursion

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedModel is returned when a barrier model has no form for the
// requested operation, or when a model name cannot be parsed.
var ErrUnsupportedModel = errors.New("unsupported barrier model")

// Model is a barrier family.
type Model int

const (
	PressSchechter Model = iota
	ShethTormen
	EllipsoidalCollapse
)

// String returns the short name of the model: "press", "sheth" or "EC".
func (m Model) String() string {
	switch m {
	case PressSchechter:
		return "press"
	case ShethTormen:
		return "sheth"
	case EllipsoidalCollapse:
		return "EC"
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// Valid returns true if m is one of the known models.
func (m Model) Valid() bool {
	return m >= PressSchechter && m <= EllipsoidalCollapse
}

// ParseModel converts a model name into a Model. Both the short names
// ("press", "sheth", "EC") and the long names ("PressSchechter",
// "ShethTormen", "EllipsoidalCollapse") are accepted, ignoring case.
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "press", "ps", "pressschechter", "press-schechter":
		return PressSchechter, nil
	case "sheth", "st", "shethtormen", "sheth-tormen":
		return ShethTormen, nil
	case "ec", "ellipsoidal", "ellipsoidalcollapse", "ellipsoidal-collapse":
		return EllipsoidalCollapse, nil
	}
	return PressSchechter, fmt.Errorf("%w: '%s'", ErrUnsupportedModel, s)
}

// ShethTormenParams are the parameters of the Sheth & Tormen moving
// barrier.
type ShethTormenParams struct {
	A float64 `validate:"gt=0"`
	// Scaled is the multiplicative rescaling of the peak height, usually
	// written as a.
	Scaled float64 `validate:"gt=0"`
	P      float64 `validate:"gte=0"`
}

// DefaultShethTormen returns A = 0.322, a = 0.707, p = 0.3.
func DefaultShethTormen() ShethTormenParams {
	return ShethTormenParams{A: 0.322, Scaled: 0.707, P: 0.3}
}
