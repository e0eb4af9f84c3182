package formation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/formation/cosmo"
)

// VarianceFloor replaces the zero variance step at the final grid point.
const VarianceFloor = 1e-10

// Grid is the mass grid of a single halo. It is shared by every target
// redshift of a batch, so the variance is only evaluated once per point.
type Grid struct {
	// M is the final halo mass.
	M float64
	// Masses is log-spaced between Frac * M and M.
	Masses []float64
	// DS is S(Masses[i]) - S0. It decreases along the grid and its last
	// entry is VarianceFloor.
	DS []float64
	// S0 = S(M) and W0 = delta_c(ZObs).
	S0, W0 float64
}

// NewGrid evaluates the variance over the mass grid of a halo of mass m.
func NewGrid(bg cosmo.Background, m float64, opt Options) (*Grid, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if !(m > 0) || math.IsInf(m, 0) {
		return nil, fmt.Errorf("%w: halo mass %g is not positive and finite",
			ErrInvalidParameter, m)
	}

	g := &Grid{
		M:      m,
		Masses: floats.LogSpan(make([]float64, opt.Acc), opt.Frac*m, m),
		DS:     make([]float64, opt.Acc),
		S0:     bg.Variance(m),
		W0:     bg.DeltaC(opt.ZObs),
	}
	for i, mi := range g.Masses {
		g.DS[i] = bg.Variance(mi) - g.S0
	}
	g.DS[len(g.DS)-1] = VarianceFloor

	return g, nil
}

// Len returns the number of grid points.
func (g *Grid) Len() int { return len(g.Masses) }

// window returns the range [lo, hi) of points summed by the integrators.
// No point in it has a stencil that reaches the final grid point.
func (g *Grid) window() (lo, hi int) {
	return 1, g.Len() - 2
}

// stepWeights returns the quadrature weights 0.5 (x[i+1] - x[i-1]) / m[i]
// for the window points of the grid variable xs.
func (g *Grid) stepWeights(xs []float64) []float64 {
	lo, hi := g.window()
	w := make([]float64, hi-lo)
	for i := lo; i < hi; i++ {
		w[i-lo] = 0.5 * (xs[i+1] - xs[i-1]) / g.Masses[i]
	}
	return w
}
