package formation

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/formation/excursion"
)

func TestProbabilityMonotone(t *testing.T) {
	for _, model := range allModels {
		zs := []float64{0.1, 0.2, 0.4, 0.7, 1, 1.5, 2, 3, 4}
		if model == excursion.EllipsoidalCollapse {
			// The non-Gaussian term of FEC grows with the barrier step and
			// takes over once the Gaussian term has decayed.
			zs = zs[:5]
		}
		for _, m := range []float64{1e9, 1e12, 1e14} {
			ps, err := ProbabilityBatch(testBackground, m, zs,
				testOptions(model, 2000))
			require.NoError(t, err)
			require.Len(t, ps, len(zs))

			for j := range ps {
				assert.True(t, isFinite(ps[j]), "%s, M = %g", model, m)
				if j > 0 {
					assert.LessOrEqual(t, ps[j], ps[j-1],
						"%s, M = %g, z = %g", model, m, zs[j])
				}
			}
		}
	}
}

func TestProbabilityNormalization(t *testing.T) {
	// Without time to lose mass, the halo has certainly not formed.
	for _, model := range []excursion.Model{
		excursion.PressSchechter, excursion.EllipsoidalCollapse,
	} {
		opt := testOptions(model, 20000)
		p, err := Probability(testBackground, 1e12, 0.02, opt)
		require.NoError(t, err)
		assert.Greater(t, p, 0.9, model.String())
		assert.Less(t, p, 1.1, model.String())
	}
}

func TestProbabilityRange(t *testing.T) {
	opt := testOptions(excursion.PressSchechter, 4000)
	ps, err := ProbabilityBatch(testBackground, 1e12, []float64{0.5, 8}, opt)
	require.NoError(t, err)
	assert.Less(t, ps[1], 1e-3)
	assert.GreaterOrEqual(t, ps[1], 0.0)
	assert.Greater(t, ps[0], 0.1)
}

func TestPressSchechterMatchesSphericalCollapse(t *testing.T) {
	opt := testOptions(excursion.PressSchechter, 2000)
	zs := []float64{0.5, 1, 2}
	ps, err := ProbabilityBatch(testBackground, 1e12, zs, opt)
	require.NoError(t, err)

	g, err := NewGrid(testBackground, 1e12, opt)
	require.NoError(t, err)
	dws := make([]float64, len(zs))
	for j, z := range zs {
		dws[j] = testBackground.DeltaC(z) - g.W0
	}
	sc := g.sumDeltaS(dws, -g.M, func(dS, dw float64) float64 {
		return excursion.FSC(dS+g.S0, g.S0, dw+g.W0, g.W0)
	})

	for j := range zs {
		assert.InEpsilon(t, sc[j], ps[j], 2e-3, "z = %g", zs[j])
	}
}

func TestProbabilityScalarMatchesBatch(t *testing.T) {
	zs := []float64{0.3, 0.9, 1.7}
	for _, model := range allModels {
		opt := testOptions(model, 500)

		one, err := ProbabilityBatch(testBackground, 1e11, zs[1:2], opt)
		require.NoError(t, err)
		p, err := Probability(testBackground, 1e11, zs[1], opt)
		require.NoError(t, err)
		assert.Equal(t, one[0], p, model.String())

		all, err := ProbabilityBatch(testBackground, 1e11, zs, opt)
		require.NoError(t, err)
		assert.InDelta(t, p, all[1], 1e-12, model.String())
	}
}

func TestProbabilityBlocks(t *testing.T) {
	// Enough redshifts that the batch is split into several blocks.
	opt := testOptions(excursion.ShethTormen, 1000)
	n := 2*maxBlock/(opt.Acc-3) + 5
	zs := make([]float64, n)
	for j := range zs {
		zs[j] = 0.1 + 3*float64(j)/float64(n)
	}
	ps, err := ProbabilityBatch(testBackground, 1e12, zs, opt)
	require.NoError(t, err)
	require.Len(t, ps, n)

	for _, j := range []int{0, n / 3, n - 1} {
		p, err := Probability(testBackground, 1e12, zs[j], opt)
		require.NoError(t, err)
		assert.InDelta(t, p, ps[j], 1e-12, "j = %d", j)
	}
}

func TestEllipsoidalScenario(t *testing.T) {
	bg, err := planck()
	require.NoError(t, err)

	opt := DefaultOptions()
	ps, err := ProbabilityBatch(bg, 1e13, []float64{0.5, 1, 2}, opt)
	require.NoError(t, err)
	require.Len(t, ps, 3)

	for j, p := range ps {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		if j > 0 {
			assert.Less(t, p, ps[j-1])
		}
	}
}

func TestProbabilityInvalid(t *testing.T) {
	opt := testOptions(excursion.EllipsoidalCollapse, 100)
	bad := [][]float64{
		{},
		{1, 0.5},
		{0.5, math.NaN()},
		{math.Inf(1)},
	}
	for i, zs := range bad {
		_, err := ProbabilityBatch(testBackground, 1e12, zs, opt)
		assert.ErrorIs(t, err, ErrInvalidParameter, "case %d", i)
	}

	_, err := ProbabilityBatch(testBackground, 1e12, []float64{1, 1, 2}, opt)
	assert.NoError(t, err)

	_, err = Probability(testBackground, -1, 1, opt)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	opt.Model = excursion.Model(-1)
	_, err = Probability(testBackground, 1e12, 1, opt)
	assert.ErrorIs(t, err, ErrUnsupportedModel)
}

func TestProbabilityNonFinite(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	for _, model := range allModels {
		opt := testOptions(model, 100)
		opt.Metrics = metrics
		ps, err := ProbabilityBatch(plateau{}, 1e12, []float64{0.5, 1}, opt)
		require.NoError(t, err)
		for _, p := range ps {
			assert.True(t, math.IsNaN(p), model.String())
		}

		label := model.String()
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Integrations.WithLabelValues(label)))
		assert.Equal(t, 2.0, testutil.ToFloat64(metrics.NonFinite.WithLabelValues(label)))
	}
}

func TestProbabilityMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	opt := testOptions(excursion.EllipsoidalCollapse, 100)
	opt.Metrics = NewMetrics(reg)

	for i := 0; i < 3; i++ {
		_, err := ProbabilityBatch(testBackground, 1e12, []float64{0.5, 1}, opt)
		require.NoError(t, err)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(opt.Metrics.Integrations.WithLabelValues("EC")))
	assert.Equal(t, 0.0, testutil.ToFloat64(opt.Metrics.NonFinite.WithLabelValues("EC")))
	assert.Equal(t, 1, testutil.CollectAndCount(opt.Metrics.Seconds))

	// Failed integrations are not recorded.
	_, err := ProbabilityBatch(testBackground, 1e12, nil, opt)
	require.Error(t, err)
	assert.Equal(t, 3.0, testutil.ToFloat64(opt.Metrics.Integrations.WithLabelValues("EC")))
}
