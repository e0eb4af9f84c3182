package cmd

import (
	"fmt"
	"strings"

	"github.com/phil-mansfield/formation/cmd/catalog"
	"github.com/phil-mansfield/formation/formation"
	"github.com/phil-mansfield/formation/logging"
	"github.com/phil-mansfield/formation/parse"
)

// CurveConfig is the config of the curve mode, which writes P(z_f > z) for
// a list of halo masses.
type CurveConfig struct {
	masses     []float64
	redshifts  []float64
	zMin, zMax float64
	points     int64
	zObs       float64
	method     string
}

var _ Mode = &CurveConfig{}

func (config *CurveConfig) ExampleConfig() string {
	return `[curve.config]

#####################
## Required Fields ##
#####################

# Masses are the final halo masses, in Msun/h. One column is written for each.
Masses = 1e10, 1e12, 1e14

#####################
## Optional Fields ##
#####################

# Redshifts lists the redshifts at which P(z_f > z) is evaluated. If it isn't
# set, Points redshifts spaced evenly between ZMin and ZMax are used instead.
# Every redshift must be larger than ZObs.
# Redshifts = 0.5, 1, 2
ZMin = 0.1
ZMax = 6
Points = 60

# ZObs is the redshift at which the halos are observed.
ZObs = 0

# Method selects the integrator:
# excursion - The progenitor mass grid integrator. Supports every model.
# laceycole - The Lacey & Cole formula in normalized variables. Doesn't
#             support the EC model.
Method = excursion`
}

func (config *CurveConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("curve.config")

	vars.Floats(&config.masses, "Masses", []float64{})
	vars.Floats(&config.redshifts, "Redshifts", []float64{})
	vars.Float(&config.zMin, "ZMin", 0.1)
	vars.Float(&config.zMax, "ZMax", 6)
	vars.Int(&config.points, "Points", 60)
	vars.Float(&config.zObs, "ZObs", 0)
	vars.String(&config.method, "Method", "excursion")

	if fname == "" {
		return nil
	}
	if err := parse.ReadConfig(fname, vars); err != nil {
		return err
	}
	return config.validate()
}

func (config *CurveConfig) validate() error {
	if len(config.masses) == 0 {
		return fmt.Errorf("The 'Masses' variable isn't set.")
	}
	for i, m := range config.masses {
		if !(m > 0) {
			return fmt.Errorf("Item %d of variable 'Masses' is set to %g, "+
				"but masses must be positive.", i, m)
		}
	}
	if config.zObs < 0 {
		return fmt.Errorf("The 'ZObs' variable is set to the negative "+
			"value %g.", config.zObs)
	}
	if _, err := redshifts(config.redshifts, config.zMin, config.zMax,
		config.points); err != nil {
		return err
	}
	return checkNames("Method", []string{config.method},
		[]string{"excursion", "laceycole"})
}

func (config *CurveConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	banner("curve")
	defer logging.Timer("curve")()

	if err := config.validate(); err != nil {
		return nil, err
	}
	zs, _ := redshifts(config.redshifts, config.zMin, config.zMax,
		config.points)

	bg, err := gConfig.Background()
	if err != nil {
		return nil, err
	}
	opt, err := gConfig.Options()
	if err != nil {
		return nil, err
	}
	opt.ZObs = config.zObs

	cols := [][]float64{zs}
	names, sizes := []string{"z"}, []int{1}
	for _, m := range config.masses {
		var ps []float64
		if strings.EqualFold(config.method, "laceycole") {
			ps, err = formation.LaceyCole(bg, m, zs, opt)
		} else {
			ps, err = formation.ProbabilityBatch(bg, m, zs, opt)
		}
		if err != nil {
			return nil, fmt.Errorf("M = %g: %w", m, err)
		}
		cols = append(cols, ps)
		names = append(names, fmt.Sprintf("P[M=%g]", m))
		sizes = append(sizes, 1)
	}

	lines := catalog.FormatCols(nil, cols, identityOrder(len(cols)))
	return append([]string{catalog.CommentString(names, sizes)}, lines...), nil
}
