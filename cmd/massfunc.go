package cmd

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/formation/cmd/catalog"
	"github.com/phil-mansfield/formation/logging"
	"github.com/phil-mansfield/formation/massfunc"
	"github.com/phil-mansfield/formation/parse"
)

// MassFuncConfig is the config of the massfunc mode, which writes the
// Press-Schechter halo mass function.
type MassFuncConfig struct {
	logMassMin, logMassMax float64
	points                 int64
	redshifts              []float64
}

var _ Mode = &MassFuncConfig{}

func (config *MassFuncConfig) ExampleConfig() string {
	return `[massfunc.config]

#####################
## Optional Fields ##
#####################

# The mass function is evaluated at the midpoints of Points masses spaced
# logarithmically between 10^LogMassMin and 10^LogMassMax Msun/h.
LogMassMin = 8
LogMassMax = 16
Points = 200

# Redshifts are the redshifts at which the mass function is evaluated. Each
# redshift is preceded by a comment line giving M*, the number density of
# halos in the mass range and the fraction of the mean density they contain.
Redshifts = 0`
}

func (config *MassFuncConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("massfunc.config")

	vars.Float(&config.logMassMin, "LogMassMin", 8)
	vars.Float(&config.logMassMax, "LogMassMax", 16)
	vars.Int(&config.points, "Points", 200)
	vars.Floats(&config.redshifts, "Redshifts", []float64{0})

	if fname == "" {
		return nil
	}
	if err := parse.ReadConfig(fname, vars); err != nil {
		return err
	}
	return config.validate()
}

func (config *MassFuncConfig) validate() error {
	if !(config.logMassMax > config.logMassMin) {
		return fmt.Errorf("'LogMassMin' and 'LogMassMax' are set to %g and "+
			"%g, but LogMassMin < LogMassMax is required.",
			config.logMassMin, config.logMassMax)
	}
	if config.points < 3 {
		return fmt.Errorf("The 'Points' variable is set to %d, but it must "+
			"be at least 3.", config.points)
	}
	return checkRedshiftList(config.redshifts)
}

func (config *MassFuncConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	banner("massfunc")
	defer logging.Timer("massfunc")()

	if err := config.validate(); err != nil {
		return nil, err
	}
	bg, err := gConfig.Background()
	if err != nil {
		return nil, err
	}

	n := int(config.points)
	ms := floats.LogSpan(make([]float64, n),
		math.Pow(10, config.logMassMin), math.Pow(10, config.logMassMax))

	lines := []string{catalog.CommentString(
		[]string{"M", "z", "dn/dM"}, []int{1, 1, 1},
	)}
	for _, z := range config.redshifts {
		mids, dndm, err := massfunc.PressSchechter(bg, ms, z)
		if err != nil {
			return nil, err
		}

		mStar, err := massfunc.MStar(bg, z,
			config.logMassMin, config.logMassMax, n)
		if errors.Is(err, massfunc.ErrNoMStar) {
			mStar = math.NaN()
		} else if err != nil {
			return nil, err
		}
		num, err := massfunc.Integrated(bg,
			config.logMassMin, config.logMassMax, n, z)
		if err != nil {
			return nil, err
		}
		frac, err := massfunc.MassFraction(bg,
			config.logMassMin, config.logMassMax, n, z)
		if err != nil {
			return nil, err
		}

		zs := make([]float64, len(mids))
		for i := range zs {
			zs[i] = z
		}
		lines = append(lines, fmt.Sprintf("# z = %g: M* = %.6g, n = %.6g, "+
			"f = %.6g", z, mStar, num, frac))
		lines = append(lines, catalog.FormatCols(
			nil, [][]float64{mids, zs, dndm}, []int{0, 1, 2},
		)...)
	}
	return lines, nil
}
