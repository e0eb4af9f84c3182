package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/phil-mansfield/formation/cmd/catalog"
	"github.com/phil-mansfield/formation/formation"
	"github.com/phil-mansfield/formation/logging"
	"github.com/phil-mansfield/formation/parse"
)

// EnsembleConfig is the config of the ensemble mode, which averages P(z_f > z)
// over a population of halos.
type EnsembleConfig struct {
	haloFile           string
	massCol, weightCol int64
	redshifts          []float64
	zMin, zMax         float64
	points             int64
	zObs               float64
	diff               bool
}

var _ StdinMode = &EnsembleConfig{}

func (config *EnsembleConfig) ExampleConfig() string {
	return `[ensemble.config]

#####################
## Optional Fields ##
#####################

# HaloFile is the file listing the ensemble. Files ending in .yaml or .yml
# have the form
#
# halos:
#   - mass: 1e12
#     weight: 2
#   - mass: 3e12
#     weight: 1
#
# and any other file is read as whitespace-separated columns, with '#'
# starting a comment. If HaloFile isn't set, the columns are read from stdin.
# HaloFile = halos.yaml

# MassColumn and WeightColumn are the zero-indexed columns of the mass and
# weight in a column file. If WeightColumn is negative every halo is given the
# same weight.
MassColumn = 0
WeightColumn = -1

# Redshifts lists the redshifts at which the ensemble is evaluated. If it
# isn't set, Points redshifts spaced evenly between ZMin and ZMax are used
# instead.
# Redshifts = 0.5, 1, 2
ZMin = 0.1
ZMax = 6
Points = 60

# ZObs is the redshift at which the halos are observed.
ZObs = 0

# If Diff is true, the formation redshift density -dP/dz is written at every
# redshift except the first and the last.
Diff = false`
}

func (config *EnsembleConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("ensemble.config")

	vars.String(&config.haloFile, "HaloFile", "")
	vars.Int(&config.massCol, "MassColumn", 0)
	vars.Int(&config.weightCol, "WeightColumn", -1)
	vars.Floats(&config.redshifts, "Redshifts", []float64{})
	vars.Float(&config.zMin, "ZMin", 0.1)
	vars.Float(&config.zMax, "ZMax", 6)
	vars.Int(&config.points, "Points", 60)
	vars.Float(&config.zObs, "ZObs", 0)
	vars.Bool(&config.diff, "Diff", false)

	if fname == "" {
		return nil
	}
	if err := parse.ReadConfig(fname, vars); err != nil {
		return err
	}
	return config.validate()
}

func (config *EnsembleConfig) validate() error {
	if config.massCol < 0 {
		return fmt.Errorf("The 'MassColumn' variable is set to the "+
			"negative value %d.", config.massCol)
	}
	if config.weightCol == config.massCol {
		return fmt.Errorf("'MassColumn' and 'WeightColumn' are both set "+
			"to %d.", config.massCol)
	}
	if config.zObs < 0 {
		return fmt.Errorf("The 'ZObs' variable is set to the negative "+
			"value %g.", config.zObs)
	}
	_, err := redshifts(config.redshifts, config.zMin, config.zMax,
		config.points)
	return err
}

// NeedsStdin is true when no HaloFile is given.
func (config *EnsembleConfig) NeedsStdin() bool { return config.haloFile == "" }

func (config *EnsembleConfig) halos(stdin []string) ([]formation.Halo, error) {
	if config.haloFile != "" {
		return catalog.ReadHalos(config.haloFile,
			int(config.massCol), int(config.weightCol))
	}
	return catalog.ReadHaloCols(strings.NewReader(strings.Join(stdin, "\n")),
		int(config.massCol), int(config.weightCol))
}

func (config *EnsembleConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	banner("ensemble")
	defer logging.Timer("ensemble")()

	if err := config.validate(); err != nil {
		return nil, err
	}
	zs, _ := redshifts(config.redshifts, config.zMin, config.zMax,
		config.points)

	halos, err := config.halos(stdin)
	if err != nil {
		return nil, err
	}
	if len(halos) == 0 {
		return nil, fmt.Errorf("No input halos.")
	}
	slog.Info("Read ensemble.", "halos", len(halos))

	bg, err := gConfig.Background()
	if err != nil {
		return nil, err
	}
	opt, err := gConfig.Options()
	if err != nil {
		return nil, err
	}
	opt.ZObs = config.zObs

	eopt := formation.EnsembleOptions{Diff: config.diff, Workers: gConfig.Workers()}
	ps, err := formation.EnsembleProbability(bg, formation.NewEnsemble(halos),
		zs, opt, eopt)
	if err != nil {
		return nil, err
	}

	name := "P"
	if config.diff {
		zs, name = zs[1:len(zs)-1], "-dP/dz"
	}
	lines := catalog.FormatCols(nil, [][]float64{zs, ps}, []int{0, 1})
	header := catalog.CommentString([]string{"z", name}, []int{1, 1})
	return append([]string{header}, lines...), nil
}
