package massfunc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/phil-mansfield/formation/cosmo"
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

var testBackground = powerLaw{s12: 3, alpha: 0.3}

func TestFPSNormalization(t *testing.T) {
	// Int_0^inf fps(nu) / nu dnu = 1.
	sum := quad.Fixed(func(nu float64) float64 {
		return FPS(nu) / nu
	}, 0, 12, 100, quad.Legendre{}, 0)
	assert.InDelta(t, 1.0, sum, 1e-8)
	assert.Equal(t, 0.0, FPS(0))
}

func TestNu(t *testing.T) {
	nu := Nu(testBackground, 1e12, 0)
	assert.InDelta(t, cosmo.DeltaC0/math.Sqrt(3), nu, 1e-12)
	assert.Greater(t, Nu(testBackground, 1e12, 1), nu)
	assert.Greater(t, Nu(testBackground, 1e13, 0), nu)
}

func TestPressSchechterShape(t *testing.T) {
	ms := []float64{1e10, 1e11, 1e12, 1e13, 1e14, 1e15}
	mids, dndm, err := PressSchechter(testBackground, ms, 0)
	require.NoError(t, err)
	require.Len(t, mids, len(ms)-1)
	require.Len(t, dndm, len(ms)-1)

	for i := range dndm {
		assert.Greater(t, dndm[i], 0.0)
		assert.InDelta(t, (ms[i]+ms[i+1])/2, mids[i], 1e-3*mids[i])
		if i > 0 {
			assert.Less(t, dndm[i], dndm[i-1])
		}
	}

	_, _, err = PressSchechter(testBackground, ms[:1], 0)
	assert.ErrorIs(t, err, ErrShortGrid)
}

func TestMassFraction(t *testing.T) {
	// In Press-Schechter theory the mass fraction above M is
	// erfc(nu / sqrt(2)).
	lo, hi := 10.0, 14.0
	f, err := MassFraction(testBackground, lo, hi, 4000, 0)
	require.NoError(t, err)

	nuLo := Nu(testBackground, math.Pow(10, lo), 0)
	nuHi := Nu(testBackground, math.Pow(10, hi), 0)
	want := math.Erfc(nuLo/math.Sqrt2) - math.Erfc(nuHi/math.Sqrt2)
	assert.InDelta(t, want, f, 2e-3)
}

func TestIntegrated(t *testing.T) {
	whole, err := Integrated(testBackground, 10, 14, 4000, 0)
	require.NoError(t, err)
	low, err := Integrated(testBackground, 10, 12, 2000, 0)
	require.NoError(t, err)
	high, err := Integrated(testBackground, 12, 14, 2000, 0)
	require.NoError(t, err)

	assert.Greater(t, whole, 0.0)
	assert.InEpsilon(t, whole, low+high, 2e-3)
	assert.Greater(t, low, high)

	_, err = Integrated(testBackground, 10, 14, 2, 0)
	assert.ErrorIs(t, err, ErrShortGrid)
}

func TestMStar(t *testing.T) {
	// sigma(M*) = delta_c gives M* = 1e12 (3 / 1.686^2)^(1/0.3).
	want := 1e12 * math.Pow(3/(cosmo.DeltaC0*cosmo.DeltaC0), 1/0.3)
	mStar, err := MStar(testBackground, 0, 6, 15, 10000)
	require.NoError(t, err)
	assert.InEpsilon(t, want, mStar, 3e-3)

	_, err = MStar(testBackground, 0, 6, 9, 100)
	assert.ErrorIs(t, err, ErrNoMStar)
	_, err = MStar(testBackground, 0, 6, 15, 1)
	assert.ErrorIs(t, err, ErrShortGrid)
}
