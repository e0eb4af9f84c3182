package formation

import (
	"fmt"
	"math"
	"time"

	"github.com/phil-mansfield/formation/cosmo"
	"github.com/phil-mansfield/formation/excursion"
)

// LaceyCole returns P(z_f > zs[j]) using the normalized variables of Lacey
// & Cole (1993), eq. 2.27: St = (S - S0) / (Sh - S0) and
// wt = dw / sqrt(Sh - S0), where Sh = S(Frac * m). Only the PressSchechter
// and ShethTormen kernels have this form.
func LaceyCole(bg cosmo.Background, m float64, zs []float64, opt Options) ([]float64, error) {
	if err := checkRedshifts(zs, false); err != nil {
		return nil, err
	}
	if opt.Model == excursion.EllipsoidalCollapse {
		return nil, fmt.Errorf("%w: %s has no normalized Lacey & Cole form",
			ErrUnsupportedModel, opt.Model)
	}
	g, err := NewGrid(bg, m, opt)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	norm := g.DS[0]
	st := make([]float64, g.Len())
	for i := range st {
		st[i] = g.DS[i] / norm
	}
	st[len(st)-1] = VarianceFloor

	wts := make([]float64, len(zs))
	for j, z := range zs {
		wts[j] = (bg.DeltaC(z) - g.W0) / math.Sqrt(norm)
	}

	lo, _ := g.window()
	w := g.stepWeights(st)
	var kernel func(i int, wt float64) float64
	switch opt.Model {
	case excursion.PressSchechter:
		kernel = func(i int, wt float64) float64 {
			return excursion.KPressSchechter(st[i+lo], wt)
		}
	case excursion.ShethTormen:
		kernel = func(i int, wt float64) float64 {
			return excursion.KShethTormen(st[i+lo], wt, opt.ShethTormen)
		}
	default:
		panic(fmt.Sprintf("Unknown model %d.", int(opt.Model)))
	}
	out := g.blockSum(wts, w, -g.M, kernel)
	opt.Metrics.observeIntegration(opt.Model, time.Since(start), out)

	return out, nil
}
