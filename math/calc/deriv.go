/*
package calc provides the finite-difference routines used to turn
probability curves into densities.
*/
package calc

import (
	"fmt"
)

type derivParams struct{ out []float64 }
type internalDerivOption func(*derivParams)
type DerivOption internalDerivOption

// Out supplies a call to CentralDiff with a slice to write
// derivatives to.
func Out(out []float64) DerivOption {
	return func(p *derivParams) { p.out = out }
}

func (p *derivParams) loadOptions(opts []DerivOption) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *derivParams) buffer(n int) []float64 {
	if p.out == nil {
		return make([]float64, n)
	}
	if len(p.out) != n {
		panic(fmt.Sprintf("Length of out is %d, but %d derivatives are "+
			"computed.", len(p.out), n))
	}
	return p.out
}

// CentralDiff computes the three-point derivative
// (ys[i+1] - ys[i-1]) / (xs[i+1] - xs[i-1]) at every interior point of a
// sequence of (x, y) points. The result has length len(xs) - 2 and element j
// corresponds to xs[j+1]. The points do not need to be uniformly spaced.
func CentralDiff(xs, ys []float64, opts ...DerivOption) []float64 {
	n := len(xs)
	if len(ys) != n {
		panic("Length of ys and xs are not the same.")
	} else if n < 3 {
		panic(fmt.Sprintf("CentralDiff needs at least 3 points, got %d.", n))
	}

	p := new(derivParams)
	p.loadOptions(opts)
	out := p.buffer(n - 2)

	for i := 1; i < n-1; i++ {
		out[i-1] = (ys[i+1] - ys[i-1]) / (xs[i+1] - xs[i-1])
	}
	return out
}
