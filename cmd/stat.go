package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/phil-mansfield/formation/cmd/catalog"
	"github.com/phil-mansfield/formation/cosmo"
	"github.com/phil-mansfield/formation/formation"
	"github.com/phil-mansfield/formation/logging"
	"github.com/phil-mansfield/formation/parse"
)

// StatConfig is the config shared by the median, average and peak modes,
// which write a formation redshift for every combination of halo mass and
// observation redshift.
type StatConfig struct {
	Statistic formation.Statistic

	masses        []float64
	redshifts     []float64
	concentration bool
}

var _ Mode = &StatConfig{}

func (config *StatConfig) name() string { return config.Statistic.String() }

func (config *StatConfig) ExampleConfig() string {
	columns := "M z z_f"
	if config.Statistic == formation.Average {
		columns = "M z z_f z_f,upper correction"
	}

	return fmt.Sprintf(`[%s.config]

#####################
## Required Fields ##
#####################

# Masses are the final halo masses, in Msun/h.
Masses = 1e10, 1e12, 1e14

#####################
## Optional Fields ##
#####################

# Redshifts are the redshifts at which the halos are observed. One line is
# written for each pair of mass and redshift, with the columns
# %s
Redshifts = 0

# If Concentration is true, the concentration proxy 0.7 + 0.77 log10(z_f) is
# written as an extra column.
Concentration = false`, config.name(), columns)
}

func (config *StatConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars(config.name() + ".config")

	vars.Floats(&config.masses, "Masses", []float64{})
	vars.Floats(&config.redshifts, "Redshifts", []float64{0})
	vars.Bool(&config.concentration, "Concentration", false)

	if fname == "" {
		return nil
	}
	if err := parse.ReadConfig(fname, vars); err != nil {
		return err
	}
	return config.validate()
}

func (config *StatConfig) validate() error {
	if len(config.masses) == 0 {
		return fmt.Errorf("The 'Masses' variable isn't set.")
	}
	for i, m := range config.masses {
		if !(m > 0) {
			return fmt.Errorf("Item %d of variable 'Masses' is set to %g, "+
				"but masses must be positive.", i, m)
		}
	}
	return checkRedshiftList(config.redshifts)
}

func (config *StatConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	banner(config.name())
	defer logging.Timer(config.name())()

	if err := config.validate(); err != nil {
		return nil, err
	}

	bg, err := gConfig.Background()
	if err != nil {
		return nil, err
	}
	opt, err := gConfig.Options()
	if err != nil {
		return nil, err
	}
	sc := gConfig.ScanOptions()

	n := len(config.masses) * len(config.redshifts)
	ms, zs := make([]float64, 0, n), make([]float64, 0, n)
	zfs, uppers, corrs := make([]float64, 0, n), make([]float64, 0, n),
		make([]float64, 0, n)

	for _, z := range config.redshifts {
		for _, m := range config.masses {
			zf, upper, corr, err := config.evaluate(bg, m, z, opt, sc)
			if err != nil {
				return nil, fmt.Errorf("M = %g, z = %g: %w", m, z, err)
			}
			if math.IsNaN(zf) {
				slog.Warn("Formation redshift is undefined.",
					"statistic", config.name(), "mass", m, "z", z)
			}
			ms, zs = append(ms, m), append(zs, z)
			zfs, uppers, corrs = append(zfs, zf), append(uppers, upper),
				append(corrs, corr)
		}
	}

	cols := [][]float64{ms, zs, zfs}
	names := []string{"M", "z", "z_f"}
	if config.Statistic == formation.Average {
		cols = append(cols, uppers, corrs)
		names = append(names, "z_f,upper", "correction")
	}
	if config.concentration {
		cs := make([]float64, len(zfs))
		for i := range zfs {
			cs[i] = formation.Concentration(zfs[i])
		}
		cols = append(cols, cs)
		names = append(names, "c")
	}

	sizes := make([]int, len(names))
	for i := range sizes {
		sizes[i] = 1
	}
	lines := catalog.FormatCols(nil, cols, identityOrder(len(cols)))
	return append([]string{catalog.CommentString(names, sizes)}, lines...), nil
}

// evaluate returns the statistic along with, for the average, the upper
// bound and its correction. A median which never crosses the threshold is
// reported as NaN.
func (config *StatConfig) evaluate(
	bg cosmo.Background, m, z float64,
	opt formation.Options, sc formation.ScanOptions,
) (zf, upper, corr float64, err error) {
	if config.Statistic == formation.Average {
		avg, err := formation.AverageFormation(bg, m, z, opt, sc)
		return avg.Lower, avg.Upper, avg.Correction, err
	}

	zf, err = formation.Formation(bg, m, z, config.Statistic, opt, sc)
	if errors.Is(err, formation.ErrNoCrossing) {
		slog.Debug("No median crossing.", "err", err)
		err = nil
	}
	return zf, math.NaN(), math.NaN(), err
}
