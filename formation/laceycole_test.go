package formation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/formation/excursion"
)

func TestLaceyColeMatchesDeltaSBranch(t *testing.T) {
	zs := []float64{0.4, 1, 2.5}
	for _, model := range []excursion.Model{
		excursion.PressSchechter, excursion.ShethTormen,
	} {
		opt := testOptions(model, 2000)
		lc, err := LaceyCole(testBackground, 1e12, zs, opt)
		require.NoError(t, err)
		require.Len(t, lc, len(zs))

		g, err := NewGrid(testBackground, 1e12, opt)
		require.NoError(t, err)
		dws := make([]float64, len(zs))
		for j, z := range zs {
			dws[j] = testBackground.DeltaC(z) - g.W0
		}
		direct := g.sumDeltaS(dws, -g.M, func(dS, dw float64) float64 {
			k, err := excursion.K(dS, dw, model, opt.ShethTormen)
			assert.NoError(t, err)
			return k
		})

		for j := range zs {
			assert.InEpsilon(t, direct[j], lc[j], 1e-9, "%s, z = %g", model, zs[j])
		}
	}
}

func TestLaceyColePressSchechter(t *testing.T) {
	zs := []float64{0.5, 1, 2}
	opt := testOptions(excursion.PressSchechter, 2000)
	lc, err := LaceyCole(testBackground, 1e12, zs, opt)
	require.NoError(t, err)
	ps, err := ProbabilityBatch(testBackground, 1e12, zs, opt)
	require.NoError(t, err)

	for j := range zs {
		assert.InEpsilon(t, ps[j], lc[j], 2e-3, "z = %g", zs[j])
	}
}

func TestLaceyColeUnsupported(t *testing.T) {
	opt := testOptions(excursion.EllipsoidalCollapse, 100)
	_, err := LaceyCole(testBackground, 1e12, []float64{1}, opt)
	assert.ErrorIs(t, err, ErrUnsupportedModel)

	opt.Model = excursion.PressSchechter
	_, err = LaceyCole(testBackground, 1e12, nil, opt)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
