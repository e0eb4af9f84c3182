package cmd

import (
	"fmt"

	"github.com/phil-mansfield/formation/cmd/catalog"
	"github.com/phil-mansfield/formation/excursion"
	"github.com/phil-mansfield/formation/logging"
	"github.com/phil-mansfield/formation/parse"
)

// BarrierConfig is the config of the barrier mode, which writes the
// survival integral of the Press-Schechter kernel against the moving barrier
// shape and its derivative.
type BarrierConfig struct {
	omegas     []float64
	wMin, wMax float64
	points     int64
	scale      float64
	acc        int64
	quadrature string
}

var _ Mode = &BarrierConfig{}

func (config *BarrierConfig) ExampleConfig() string {
	return `[barrier.config]

#####################
## Optional Fields ##
#####################

# Omegas lists the barrier heights at which the integral is evaluated. If it
# isn't set, Points heights spaced evenly between WMin and WMax are used.
# Omegas = 0.5, 1, 2
WMin = 0.1
WMax = 4
Points = 40

# Scale is the peak height rescaling a of the barrier shape.
Scale = 0.707

# Acc is the number of quadrature nodes. Quadrature is either legendre, for
# Gauss-Legendre quadrature, or loggrid, for central differences on a log
# spaced grid. loggrid needs many more nodes for the same accuracy.
Acc = 200
Quadrature = legendre`
}

func (config *BarrierConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("barrier.config")

	vars.Floats(&config.omegas, "Omegas", []float64{})
	vars.Float(&config.wMin, "WMin", 0.1)
	vars.Float(&config.wMax, "WMax", 4)
	vars.Int(&config.points, "Points", 40)
	vars.Float(&config.scale, "Scale", 0.707)
	vars.Int(&config.acc, "Acc", 200)
	vars.String(&config.quadrature, "Quadrature", "legendre")

	if fname == "" {
		return nil
	}
	if err := parse.ReadConfig(fname, vars); err != nil {
		return err
	}
	return config.validate()
}

func (config *BarrierConfig) validate() error {
	q, err := excursion.ParseQuadrature(config.quadrature)
	if err != nil {
		return err
	}
	minAcc := int64(1)
	if q == excursion.LogGrid {
		minAcc = 3
	}
	if config.acc < minAcc {
		return fmt.Errorf("The 'Acc' variable is set to %d, but %s "+
			"quadrature needs at least %d nodes.", config.acc, q, minAcc)
	}
	ws, err := config.heights()
	if err != nil {
		return err
	}
	for i, w := range ws {
		if !(w > 0) {
			return fmt.Errorf("Barrier height %d is %g, but heights must "+
				"be positive.", i, w)
		}
	}
	return nil
}

func (config *BarrierConfig) heights() ([]float64, error) {
	return linearGrid(config.omegas, config.wMin, config.wMax, config.points,
		"WMin", "WMax")
}

func (config *BarrierConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	banner("barrier")
	defer logging.Timer("barrier")()

	if err := config.validate(); err != nil {
		return nil, err
	}
	q, _ := excursion.ParseQuadrature(config.quadrature)
	ws, _ := config.heights()

	acc := int(config.acc)
	survival, deriv := make([]float64, len(ws)), make([]float64, len(ws))
	for i, w := range ws {
		survival[i] = excursion.BarrierSurvival(w, config.scale, acc, q)
		deriv[i] = excursion.BarrierSurvivalDeriv(w, config.scale, acc, q)
	}

	lines := catalog.FormatCols(nil, [][]float64{ws, survival, deriv},
		[]int{0, 1, 2})
	header := catalog.CommentString([]string{"w", "S", "dS/dw"},
		[]int{1, 1, 1})
	return append([]string{header}, lines...), nil
}
