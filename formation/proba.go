package formation

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/formation/cosmo"
	"github.com/phil-mansfield/formation/excursion"
	"github.com/phil-mansfield/formation/massfunc"
)

// maxBlock bounds the number of matrix elements held for a single block of
// target redshifts.
const maxBlock = 1 << 22

// Probability returns P(z_f > z), the probability that a halo of mass m
// observed at opt.ZObs had not yet assembled opt.Frac of its mass by
// redshift z.
func Probability(bg cosmo.Background, m, z float64, opt Options) (float64, error) {
	p, err := ProbabilityBatch(bg, m, []float64{z}, opt)
	if err != nil {
		return math.NaN(), err
	}
	return p[0], nil
}

// ProbabilityBatch returns P(z_f > zs[j]) for every target redshift. zs
// must be non-empty and non-decreasing. The result has the same length as
// zs for every model.
//
// Numerical singularities in the grid are not masked and show up as NaN or
// Inf in the result.
//
// P decreases with z for PressSchechter and ShethTormen. For
// EllipsoidalCollapse it only decreases until the Gaussian term of FEC has
// decayed; past that the power-law tail takes over and P rises again (for
// M = 1e13 on Planck15 the minimum is near z = 2.8). Statistics that need a
// monotone curve should keep their scans below this turnover.
func ProbabilityBatch(bg cosmo.Background, m float64, zs []float64, opt Options) ([]float64, error) {
	if err := checkRedshifts(zs, false); err != nil {
		return nil, err
	}
	g, err := NewGrid(bg, m, opt)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	dws := make([]float64, len(zs))
	for j, z := range zs {
		dws[j] = bg.DeltaC(z) - g.W0
	}
	out := g.integrate(dws, opt.Model, opt.ShethTormen)
	opt.Metrics.observeIntegration(opt.Model, time.Since(start), out)

	return out, nil
}

// integrate sums the model's kernel over the grid for every barrier step
// in dws.
func (g *Grid) integrate(
	dws []float64, model excursion.Model, st excursion.ShethTormenParams,
) []float64 {
	switch model {
	case excursion.EllipsoidalCollapse:
		return g.sumDeltaS(dws, -g.M, func(dS, dw float64) float64 {
			return excursion.FEC(dS+g.S0, g.S0, dw+g.W0, g.W0)
		})
	case excursion.ShethTormen:
		return g.sumDeltaS(dws, -g.M, func(dS, dw float64) float64 {
			return excursion.KShethTormen(dS, dw, st)
		})
	case excursion.PressSchechter:
		return g.sumNu(dws)
	}
	panic(fmt.Sprintf("Unknown model %d.", int(model)))
}

// sumDeltaS integrates over the variance step: sign * sum_i
// 0.5 (dS[i+1] - dS[i-1]) f(dS[i], dw) / m[i].
func (g *Grid) sumDeltaS(
	dws []float64, sign float64, f func(dS, dw float64) float64,
) []float64 {
	lo, _ := g.window()
	w := g.stepWeights(g.DS)
	return g.blockSum(dws, w, sign, func(i int, dw float64) float64 {
		return f(g.DS[i+lo], dw)
	})
}

// sumNu integrates the Press-Schechter multiplicity over the peak height
// nu = dw / sqrt(dS): M sum_i 0.5 (nu[i+1] - nu[i-1]) fps(nu[i]) / nu[i] /
// m[i]. Since nu is separable, the nu step is dw times a grid weight.
func (g *Grid) sumNu(dws []float64) []float64 {
	lo, _ := g.window()
	invSqrt := make([]float64, g.Len())
	for i, dS := range g.DS {
		invSqrt[i] = 1 / math.Sqrt(dS)
	}
	w := g.stepWeights(invSqrt)
	return g.blockSum(dws, w, g.M, func(i int, dw float64) float64 {
		nu := dw * invSqrt[i+lo]
		return dw * massfunc.FPS(nu) / nu
	})
}

// blockSum computes sign * F^T w, where F[i][j] = f(i, dws[j]) runs over
// the window of the grid. Columns are processed in blocks so that F stays
// bounded in size.
func (g *Grid) blockSum(
	dws, w []float64, sign float64, f func(i int, dw float64) float64,
) []float64 {
	rows := len(w)
	cols := maxBlock / rows
	if cols < 1 {
		cols = 1
	}
	if cols > len(dws) {
		cols = len(dws)
	}

	out := make([]float64, len(dws))
	wVec := mat.NewVecDense(rows, w)
	F := mat.NewDense(rows, cols, nil)

	for start := 0; start < len(dws); start += cols {
		end := start + cols
		if end > len(dws) {
			end = len(dws)
		}
		block := F.Slice(0, rows, 0, end-start).(*mat.Dense)
		for i := 0; i < rows; i++ {
			for j := start; j < end; j++ {
				block.Set(i, j-start, f(i, dws[j]))
			}
		}

		res := mat.NewVecDense(end-start, out[start:end])
		res.MulVec(block.T(), wVec)
		res.ScaleVec(sign, res)
	}

	return out
}

// checkRedshifts requires zs to be non-empty, finite and non-decreasing, or
// strictly increasing if strict is set.
func checkRedshifts(zs []float64, strict bool) error {
	if len(zs) == 0 {
		return fmt.Errorf("%w: no target redshifts", ErrInvalidParameter)
	}
	for i, z := range zs {
		if math.IsNaN(z) || math.IsInf(z, 0) {
			return fmt.Errorf("%w: redshift %d is %g",
				ErrInvalidParameter, i, z)
		}
		if i == 0 {
			continue
		}
		if zs[i] < zs[i-1] || (strict && zs[i] == zs[i-1]) {
			return fmt.Errorf("%w: redshifts are not sorted at index %d "+
				"(%g then %g)", ErrInvalidParameter, i, zs[i-1], zs[i])
		}
	}
	return nil
}
