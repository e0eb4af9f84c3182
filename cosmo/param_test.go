package cosmo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanck15Validates(t *testing.T) {
	require.NoError(t, Planck15().Validate())
}

func TestInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{"zero sigma8", func(p *Params) { p.Sigma8 = 0 }},
		{"negative h", func(p *Params) { p.H100 = -0.7 }},
		{"omegaM above one", func(p *Params) { p.OmegaM = 1.2 }},
		{"negative omegaL", func(p *Params) { p.OmegaL = -0.1 }},
		{"baryons above matter", func(p *Params) { p.OmegaB = 0.5 }},
		{"zero spectral index", func(p *Params) { p.Ns = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Planck15()
			tt.modify(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidParams)
		})
	}
}

func TestDensities(t *testing.T) {
	p := Planck15()
	assert.InEpsilon(t, 2.775e11, p.RhoCritical(0), 1e-3)
	assert.InEpsilon(t, 2.775e11*p.OmegaM, p.RhoAverage(), 1e-3)
	assert.InDelta(t, 1.0, HubbleFrac(p.OmegaM, 1-p.OmegaM, 0), 1e-12)
	assert.InDelta(t, 1.0, p.OmegaMz(0)+p.OmegaLz(0), 1e-12)
	assert.InDelta(t, 1.0, p.OmegaMz(3)+p.OmegaLz(3), 1e-12)
	assert.Greater(t, p.OmegaMz(3), p.OmegaMz(0))
}

func TestGrowth(t *testing.T) {
	p := Planck15()
	assert.InDelta(t, 1.0, Growth(p, 0), 1e-12)
	assert.InDelta(t, DeltaC0, DeltaC(p, 0), 1e-12)

	prev := DeltaC(p, 0)
	for _, z := range []float64{0.1, 0.5, 1, 2, 4, 8} {
		dc := DeltaC(p, z)
		assert.Greater(t, dc, prev, "z = %g", z)
		prev = dc
	}

	// Matter domination at high z gives D proportional to a.
	eds := Params{Sigma8: 0.8, H100: 0.7, OmegaM: 1, OmegaL: 0, OmegaB: 0.04, Ns: 1}
	assert.InDelta(t, 1.0/3, Growth(eds, 2), 1e-12)
}
