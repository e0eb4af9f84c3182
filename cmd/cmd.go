/*
package cmd contains code for running formation in its various command
line modes
*/
package cmd

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/formation/cosmo"
	"github.com/phil-mansfield/formation/excursion"
	"github.com/phil-mansfield/formation/formation"
	"github.com/phil-mansfield/formation/parse"
	"github.com/phil-mansfield/formation/version"
)

var ModeNames map[string]Mode = map[string]Mode{
	"curve":    &CurveConfig{},
	"ensemble": &EnsembleConfig{},
	"median":   &StatConfig{Statistic: formation.Median},
	"average":  &StatConfig{Statistic: formation.Average},
	"peak":     &StatConfig{Statistic: formation.Peak},
	"slope":    &SlopeConfig{},
	"massfunc": &MassFuncConfig{},
	"barrier":  &BarrierConfig{},
}

// Mode represents the interface used by the main binary when interacting with
// a given command line mode.
type Mode interface {
	// ReadConfig reads a mode-specific config file and stores its contents
	// within the Mode. The empty string leaves every variable at its
	// default.
	ReadConfig(fname string) error
	// ExampleConfig returns the text of an example config file of this mode.
	ExampleConfig() string
	// Run executes the mode. It takes an initialized GlobalConfig and a
	// slice of lines representing the contents of stdin. It will return a
	// slice of lines that should be written to stdout along with an error if
	// one occurs.
	Run(gConfig *GlobalConfig, stdin []string) ([]string, error)
}

// StdinMode is implemented by modes which read their input from stdin
// under some configurations.
type StdinMode interface {
	Mode
	NeedsStdin() bool
}

// NeedsStdin reports whether mode has been configured to read stdin.
func NeedsStdin(mode Mode) bool {
	sm, ok := mode.(StdinMode)
	return ok && sm.NeedsStdin()
}

// GlobalConfig is a config file used by every mode. It contains the
// cosmology, the power spectrum numerics and the barrier model.
type GlobalConfig struct {
	version string

	sigma8, h100, omegaM, omegaL, omegaB, ns float64

	window string
	kMax   float64
	prec   int64

	model                  string
	frac                   float64
	acc                    int64
	shethA, shetha, shethP float64

	scanPoints int64
	workers    int64

	// Metrics is attached to every Options built from this config. It is
	// set by the main binary, not by the config file.
	Metrics *formation.Metrics
}

var _ Mode = &GlobalConfig{}

// ReadConfig reads a config file and returns an error, if applicable.
func (config *GlobalConfig) ReadConfig(fname string) error {
	p, st := cosmo.Planck15(), excursion.DefaultShethTormen()
	ac, opt := cosmo.DefaultAnalyticConfig(), formation.DefaultOptions()

	vars := parse.NewConfigVars("formation.config")
	vars.String(&config.version, "Version", version.SourceVersion)

	vars.Float(&config.sigma8, "Sigma8", p.Sigma8)
	vars.Float(&config.h100, "H100", p.H100)
	vars.Float(&config.omegaM, "OmegaM", p.OmegaM)
	vars.Float(&config.omegaL, "OmegaL", p.OmegaL)
	vars.Float(&config.omegaB, "OmegaB", p.OmegaB)
	vars.Float(&config.ns, "Ns", p.Ns)

	vars.String(&config.window, "Window", ac.Window.String())
	vars.Float(&config.kMax, "KMax", ac.KMax)
	vars.Int(&config.prec, "Prec", int64(ac.Prec))

	vars.String(&config.model, "Model", opt.Model.String())
	vars.Float(&config.frac, "Frac", opt.Frac)
	vars.Int(&config.acc, "Acc", int64(opt.Acc))
	vars.Float(&config.shethA, "ShethTormenAmp", st.A)
	vars.Float(&config.shetha, "ShethTormenScale", st.Scaled)
	vars.Float(&config.shethP, "ShethTormenP", st.P)

	vars.Int(&config.scanPoints, "ScanPoints",
		int64(formation.DefaultScanOptions().Points))
	vars.Int(&config.workers, "Workers", 0)

	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}

	return config.validate()
}

// validate checks that all the user-generated fields of GlobalConfig are
// properly set.
func (config *GlobalConfig) validate() error {
	if err := version.CheckSource(config.version); err != nil {
		return fmt.Errorf("I couldn't use the 'Version' variable: %s", err)
	}

	if err := config.Params().Validate(); err != nil {
		return fmt.Errorf("The cosmological parameters are invalid: %s", err)
	}

	if _, err := cosmo.ParseWindow(config.window); err != nil {
		return err
	}
	if _, err := config.AnalyticConfig(); err != nil {
		return err
	}

	if _, err := config.Options(); err != nil {
		return err
	}
	if config.scanPoints < 3 {
		return fmt.Errorf("The 'ScanPoints' variable is set to %d, but it "+
			"must be at least 3.", config.scanPoints)
	}
	if config.workers < 0 {
		return fmt.Errorf("The 'Workers' variable is set to the negative "+
			"value %d.", config.workers)
	}

	return nil
}

// Params returns the cosmology described by the config.
func (config *GlobalConfig) Params() cosmo.Params {
	return cosmo.Params{
		Sigma8: config.sigma8,
		H100:   config.h100,
		OmegaM: config.omegaM,
		OmegaL: config.omegaL,
		OmegaB: config.omegaB,
		Ns:     config.ns,
	}
}

// AnalyticConfig returns the power spectrum numerics described by the
// config.
func (config *GlobalConfig) AnalyticConfig() (cosmo.AnalyticConfig, error) {
	ac := cosmo.DefaultAnalyticConfig()
	w, err := cosmo.ParseWindow(config.window)
	if err != nil {
		return ac, err
	}
	ac.Window, ac.KMax, ac.Prec = w, config.kMax, int(config.prec)
	if config.kMax <= ac.KMin {
		return ac, fmt.Errorf("The 'KMax' variable is set to %g, but it "+
			"must be larger than %g.", config.kMax, ac.KMin)
	}
	if config.prec < 3 {
		return ac, fmt.Errorf("The 'Prec' variable is set to %d, but it "+
			"must be at least 3.", config.prec)
	}
	return ac, nil
}

// Background builds the variance table for the config's cosmology.
func (config *GlobalConfig) Background() (*cosmo.Analytic, error) {
	ac, err := config.AnalyticConfig()
	if err != nil {
		return nil, err
	}
	return cosmo.NewAnalytic(config.Params(), ac)
}

// Options returns the integrator settings for halos observed at z = 0.
func (config *GlobalConfig) Options() (formation.Options, error) {
	opt := formation.DefaultOptions()
	model, err := excursion.ParseModel(config.model)
	if err != nil {
		return opt, fmt.Errorf("The 'Model' variable is set to '%s', which "+
			"I don't recognize.", config.model)
	}

	opt.Model, opt.Frac, opt.Acc = model, config.frac, int(config.acc)
	opt.ShethTormen = excursion.ShethTormenParams{
		A: config.shethA, Scaled: config.shetha, P: config.shethP,
	}
	opt.Metrics = config.Metrics

	if err := opt.Validate(); err != nil {
		return opt, fmt.Errorf("The barrier variables are invalid: %s", err)
	}
	return opt, nil
}

// ScanOptions returns the redshift scan settings of the derived statistics.
func (config *GlobalConfig) ScanOptions() formation.ScanOptions {
	return formation.ScanOptions{Points: int(config.scanPoints)}
}

// Workers returns the number of halos integrated at once.
func (config *GlobalConfig) Workers() int { return int(config.workers) }

// ExampleConfig returns an example configuration file.
func (config *GlobalConfig) ExampleConfig() string {
	p, st := cosmo.Planck15(), excursion.DefaultShethTormen()
	ac, opt := cosmo.DefaultAnalyticConfig(), formation.DefaultOptions()

	return fmt.Sprintf(`[formation.config]
# Target version of formation. This option merely allows formation to notice
# when its source and configuration files are not from the same version.
#
# This variable defaults to the source version if not included.
Version = %s

# The cosmology. Every variable defaults to the Planck 2015 value shown here.
# Masses are always in Msun/h.
Sigma8 = %g
H100 = %g
OmegaM = %g
OmegaL = %g
OmegaB = %g
Ns = %g

# Window is the filter used to relate mass and variance. The supported windows
# are TopHat, Gauss and k-Sharp. sigma8 always normalizes the power spectrum
# with a top-hat window.
Window = %s
# KMax is the largest wavenumber, in h/Mpc, included in variance integrals and
# Prec is the number of points in those integrals.
KMax = %g
Prec = %d

# Model is the collapse barrier. The supported models are:
# press - Press & Schechter, spherical collapse.
# sheth - Sheth & Tormen, with the parameters below.
# EC    - The ellipsoidal collapse barrier of Sheth, Mo & Tormen.
Model = %s

# Frac is the fraction of a halo's final mass which defines its formation
# time, and Acc is the number of points in the progenitor mass grid.
Frac = %g
Acc = %d

# Parameters of the "sheth" model: the amplitude A, the peak height scaling a
# and the exponent p. They are ignored by the other models.
ShethTormenAmp = %g
ShethTormenScale = %g
ShethTormenP = %g

# ScanPoints is the number of redshifts used by the median, average, peak and
# slope modes.
ScanPoints = %d

# Workers is the number of halos integrated at once by the ensemble mode. If
# zero, one worker is used per CPU.
Workers = 0`,
		version.SourceVersion,
		p.Sigma8, p.H100, p.OmegaM, p.OmegaL, p.OmegaB, p.Ns,
		ac.Window, ac.KMax, ac.Prec,
		opt.Model, opt.Frac, opt.Acc,
		st.A, st.Scaled, st.P,
		formation.DefaultScanOptions().Points,
	)
}

// Run is a dummy method which allows GlobalConfig to conform to the Mode
// interface for testing purposes.
func (config *GlobalConfig) Run(
	gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	panic("GlobalConfig.Run() should never be executed.")
}

// redshifts returns zs if it is non-empty and a linear grid of n points
// between lo and hi otherwise.
func redshifts(zs []float64, lo, hi float64, n int64) ([]float64, error) {
	return linearGrid(zs, lo, hi, n, "ZMin", "ZMax")
}

// linearGrid returns xs if it is non-empty and a linear grid of n points
// between lo and hi otherwise. loName and hiName are the config variables
// holding lo and hi.
func linearGrid(
	xs []float64, lo, hi float64, n int64, loName, hiName string,
) ([]float64, error) {
	if len(xs) > 0 {
		return xs, nil
	}
	if n < 2 {
		return nil, fmt.Errorf("The 'Points' variable is set to %d, but it "+
			"must be at least 2.", n)
	}
	if !(hi > lo) || lo < 0 {
		return nil, fmt.Errorf("'%s' and '%s' are set to %g and %g, but "+
			"0 <= %s < %s is required.", loName, hiName, lo, hi,
			loName, hiName)
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// checkNames returns an error if any of names is not in valid.
func checkNames(variable string, names, valid []string) error {
	for i, name := range names {
		ok := false
		for _, v := range valid {
			ok = ok || strings.EqualFold(name, v)
		}
		if !ok {
			return fmt.Errorf("Item %d of variable '%s' is set to '%s', "+
				"which I don't recognize.", i, variable, name)
		}
	}
	return nil
}
