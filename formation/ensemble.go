package formation

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/formation/cosmo"
	"github.com/phil-mansfield/formation/math/calc"
)

// Halo is a single member of an ensemble.
type Halo struct {
	Mass   float64 `yaml:"mass"`
	Weight float64 `yaml:"weight"`
}

// Ensemble is a population of halo masses. Weights is either nil, for
// uniform weighting, or the same length as Masses.
type Ensemble struct {
	Masses  []float64
	Weights []float64
}

// NewEnsemble converts a list of halos into an Ensemble. If no halo has a
// weight, the ensemble is uniformly weighted.
func NewEnsemble(halos []Halo) Ensemble {
	ens := Ensemble{
		Masses:  make([]float64, len(halos)),
		Weights: make([]float64, len(halos)),
	}
	weighted := false
	for i, h := range halos {
		ens.Masses[i], ens.Weights[i] = h.Mass, h.Weight
		weighted = weighted || h.Weight != 0
	}
	if !weighted {
		ens.Weights = nil
	}
	return ens
}

// Len returns the number of halos.
func (ens Ensemble) Len() int { return len(ens.Masses) }

// normWeights returns the weights divided by their sum, or nil for uniform
// weighting.
func (ens Ensemble) normWeights() ([]float64, error) {
	if ens.Len() == 0 {
		return nil, fmt.Errorf("%w: empty ensemble", ErrInvalidParameter)
	}
	if ens.Weights == nil {
		return nil, nil
	}
	if len(ens.Weights) != len(ens.Masses) {
		return nil, fmt.Errorf("%w: %d masses but %d weights",
			ErrInvalidParameter, len(ens.Masses), len(ens.Weights))
	}

	sum := 0.0
	for i, w := range ens.Weights {
		if !(w >= 0) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: weight %d is %g",
				ErrInvalidParameter, i, w)
		}
		sum += w
	}
	if sum == 0 {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrInvalidParameter)
	}

	norm := make([]float64, len(ens.Weights))
	for i, w := range ens.Weights {
		norm[i] = w / sum
	}
	return norm, nil
}

// EnsembleOptions control the ensemble aggregator.
type EnsembleOptions struct {
	// Diff returns the density -dP/dz instead of P. The density is
	// evaluated at zs[1:len(zs)-1].
	Diff bool
	// Workers is the number of halos integrated at once. Values below one
	// use GOMAXPROCS.
	Workers int
}

// EnsembleProbability averages the single-halo curves of every halo in ens
// over the redshifts zs. With eopt.Diff the result has len(zs) - 2 entries.
func EnsembleProbability(
	bg cosmo.Background, ens Ensemble, zs []float64,
	opt Options, eopt EnsembleOptions,
) ([]float64, error) {
	weights, err := ens.normWeights()
	if err != nil {
		return nil, err
	}
	if err := checkRedshifts(zs, eopt.Diff); err != nil {
		return nil, err
	}
	if eopt.Diff && len(zs) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 redshifts to "+
			"differentiate, got %d", ErrInvalidParameter, len(zs))
	}

	workers := eopt.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	curves := make([][]float64, ens.Len())
	var g errgroup.Group
	g.SetLimit(workers)
	for k := range ens.Masses {
		g.Go(func() error {
			m := ens.Masses[k]
			p, err := ProbabilityBatch(bg, m, zs, opt)
			if err != nil {
				return fmt.Errorf("halo %d (M = %g): %w", k, m, err)
			}
			if eopt.Diff {
				p = calc.CentralDiff(zs, p)
				for i := range p {
					p[i] = -p[i]
				}
			}
			curves[k] = p
			slog.Debug("Integrated halo.", "index", k, "mass", m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	opt.Metrics.observeHalos(ens.Len())

	out := make([]float64, len(curves[0]))
	for k, c := range curves {
		w := 1.0
		if weights != nil {
			w = weights[k]
		}
		for i := range out {
			out[i] += w * c[i]
		}
	}
	if weights == nil {
		for i := range out {
			out[i] /= float64(len(curves))
		}
	}

	return out, nil
}
