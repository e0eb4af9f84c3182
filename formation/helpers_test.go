package formation

import (
	"math"
	"sync"

	"github.com/phil-mansfield/formation/cosmo"
	"github.com/phil-mansfield/formation/excursion"
)

// powerLaw has S(M) = s12 (M / 1e12)^-alpha and an Einstein-de Sitter
// barrier.
type powerLaw struct {
	s12, alpha float64
}

func (pl powerLaw) DeltaC(z float64) float64 { return cosmo.DeltaC0 * (1 + z) }
func (pl powerLaw) Variance(m float64) float64 {
	return pl.s12 * math.Pow(m/1e12, -pl.alpha)
}
func (pl powerLaw) Params() cosmo.Params { return cosmo.Planck15() }

// plateau follows testBackground below 0.9e12 and is flat above it, so
// the variance steps of a 1e12 halo vanish at the top of its grid.
type plateau struct{}

func (plateau) DeltaC(z float64) float64 { return cosmo.DeltaC0 * (1 + z) }
func (plateau) Variance(m float64) float64 {
	return testBackground.Variance(math.Min(m, 0.9e12))
}
func (plateau) Params() cosmo.Params { return cosmo.Planck15() }

var testBackground = powerLaw{s12: 3, alpha: 0.3}

// planck is the analytic Planck 2015 background, built once per test
// binary.
var planck = sync.OnceValues(func() (*cosmo.Analytic, error) {
	return cosmo.NewAnalytic(cosmo.Planck15(), cosmo.DefaultAnalyticConfig())
})

var allModels = []excursion.Model{
	excursion.PressSchechter, excursion.ShethTormen,
	excursion.EllipsoidalCollapse,
}

func testOptions(model excursion.Model, acc int) Options {
	opt := DefaultOptions()
	opt.Model = model
	opt.Acc = acc
	return opt
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
