package cmd

import (
	"fmt"

	"github.com/phil-mansfield/formation/cmd/catalog"
	"github.com/phil-mansfield/formation/formation"
	"github.com/phil-mansfield/formation/logging"
	"github.com/phil-mansfield/formation/parse"
)

// SlopeConfig is the config of the slope mode, which writes the change in
// formation redshift per decade of halo mass.
type SlopeConfig struct {
	statistics []string
	redshifts  []float64
}

var _ Mode = &SlopeConfig{}

func (config *SlopeConfig) ExampleConfig() string {
	return fmt.Sprintf(`[slope.config]

#####################
## Optional Fields ##
#####################

# Statistics are the formation redshift statistics compared between halos of
# mass %g and %g Msun/h. One column is written for each. The supported
# statistics are median, average and peak.
Statistics = median, peak

# Redshifts are the redshifts at which the halos are observed.
Redshifts = 0, 0.5, 1`, formation.SlopeMassLow, formation.SlopeMassHigh)
}

func (config *SlopeConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("slope.config")

	vars.Strings(&config.statistics, "Statistics", []string{"median"})
	vars.Floats(&config.redshifts, "Redshifts", []float64{0})

	if fname == "" {
		return nil
	}
	if err := parse.ReadConfig(fname, vars); err != nil {
		return err
	}
	return config.validate()
}

func (config *SlopeConfig) validate() error {
	if len(config.statistics) == 0 {
		return fmt.Errorf("The 'Statistics' variable is empty.")
	}
	if _, err := config.parsedStatistics(); err != nil {
		return err
	}
	return checkRedshiftList(config.redshifts)
}

func (config *SlopeConfig) parsedStatistics() ([]formation.Statistic, error) {
	out := make([]formation.Statistic, len(config.statistics))
	for i, name := range config.statistics {
		s, err := formation.ParseStatistic(name)
		if err != nil {
			return nil, fmt.Errorf("Item %d of variable 'Statistics' is set "+
				"to '%s', which I don't recognize.", i, name)
		}
		out[i] = s
	}
	return out, nil
}

func (config *SlopeConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	banner("slope")
	defer logging.Timer("slope")()

	if err := config.validate(); err != nil {
		return nil, err
	}
	stats, _ := config.parsedStatistics()

	bg, err := gConfig.Background()
	if err != nil {
		return nil, err
	}
	opt, err := gConfig.Options()
	if err != nil {
		return nil, err
	}
	sc := gConfig.ScanOptions()

	cols := [][]float64{config.redshifts}
	names, sizes := []string{"z"}, []int{1}
	for _, s := range stats {
		col := make([]float64, len(config.redshifts))
		for i, z := range config.redshifts {
			col[i], err = formation.SlopeAge(bg, z, s, opt, sc)
			if err != nil {
				return nil, fmt.Errorf("%s slope at z = %g: %w", s, z, err)
			}
		}
		cols = append(cols, col)
		names = append(names, "-dz_f/dlog10(M)["+s.String()+"]")
		sizes = append(sizes, 1)
	}

	lines := catalog.FormatCols(nil, cols, identityOrder(len(cols)))
	return append([]string{catalog.CommentString(names, sizes)}, lines...), nil
}
