package excursion

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
)

// Quadrature selects how the barrier integrals are evaluated.
type Quadrature int

const (
	// Legendre uses fixed-order Gauss-Legendre quadrature on [0, 1].
	Legendre Quadrature = iota
	// LogGrid uses central differences over a log-spaced grid on
	// [1e-10, 1].
	LogGrid
)

func (q Quadrature) String() string {
	switch q {
	case Legendre:
		return "legendre"
	case LogGrid:
		return "loggrid"
	}
	return fmt.Sprintf("Quadrature(%d)", int(q))
}

// ParseQuadrature converts "legendre" or "loggrid" into a Quadrature.
func ParseQuadrature(s string) (Quadrature, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legendre", "gauss-legendre":
		return Legendre, nil
	case "loggrid", "log-grid", "manual":
		return LogGrid, nil
	}
	return Legendre, fmt.Errorf("I don't recognize the quadrature '%s'.", s)
}

// BarrierSurvival integrates the Press-Schechter kernel against the barrier
// shape Mu over a unit variance interval:
//
//	-Int_0^1 K(x, wf) Mu(x, a) dx
//
// acc is the number of quadrature nodes or grid points.
func BarrierSurvival(wf, a float64, acc int, q Quadrature) float64 {
	return -barrierIntegral(func(x float64) float64 {
		return KPressSchechter(x, wf) * Mu(x, a)
	}, acc, q)
}

// BarrierSurvivalDeriv is the derivative of BarrierSurvival with respect to
// wf.
func BarrierSurvivalDeriv(wf, a float64, acc int, q Quadrature) float64 {
	return -barrierIntegral(func(x float64) float64 {
		return KPressSchechter(x, wf) * Mu(x, a) * (1/wf - wf/x)
	}, acc, q)
}

func barrierIntegral(f func(float64) float64, acc int, q Quadrature) float64 {
	switch q {
	case Legendre:
		if acc < 1 {
			panic(fmt.Sprintf("Need at least one quadrature node, got %d.", acc))
		}
		return quad.Fixed(f, 0, 1, acc, quad.Legendre{}, 0)
	case LogGrid:
		if acc < 3 {
			panic(fmt.Sprintf("Need at least three grid points, got %d.", acc))
		}
		xs := floats.LogSpan(make([]float64, acc), 1e-10, 1)
		sum := 0.0
		for i := 1; i < acc-1; i++ {
			sum += f(xs[i]) * 0.5 * (xs[i+1] - xs[i-1])
		}
		return sum
	}
	panic(fmt.Sprintf("Unknown quadrature %d.", int(q)))
}
