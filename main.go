/*
formation computes halo formation redshift distributions from excursion set
theory.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/formation/cmd"
	"github.com/phil-mansfield/formation/formation"
	"github.com/phil-mansfield/formation/logging"
	"github.com/phil-mansfield/formation/version"
)

var modeDescriptions = map[string]string{
	"curve":    "Write P(z_f > z) for a list of halo masses.",
	"ensemble": "Average P(z_f > z) over a weighted population of halos.",
	"median":   "Write median formation redshifts.",
	"average":  "Write mean formation redshifts and their upper bounds.",
	"peak":     "Write the most probable formation redshifts.",
	"slope":    "Write the change in formation redshift per decade of mass.",
	"massfunc": "Write the Press-Schechter halo mass function.",
	"barrier":  "Write the moving-barrier survival integral.",
}

var (
	globalConfig  string
	logMode       string
	metricsAddr   string
	metricsLinger time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "formation",
	Short: "Excursion set halo formation redshifts",
	Long: `formation computes the probability that a halo observed today had
already assembled a fraction of its mass by some earlier redshift, along with
the median, average and peak formation redshifts derived from it.

Every mode reads the global ____.config file given by --config (or
$FORMATION_CONFIG) and an optional mode-specific ____.<mode>.config file.
Example configs are written by 'formation example-config <mode>'.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalConfig, "config",
		os.Getenv("FORMATION_CONFIG"), "global config file")
	rootCmd.PersistentFlags().StringVar(&logMode, "log",
		os.Getenv("FORMATION_LOG"), "logging mode: nil, performance or debug")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this address while running")
	rootCmd.PersistentFlags().DurationVar(&metricsLinger, "metrics-linger", 0,
		"keep serving metrics for this long after the mode finishes")

	names := make([]string, 0, len(cmd.ModeNames))
	for name := range cmd.ModeNames {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rootCmd.AddCommand(&cobra.Command{
			Use:   fmt.Sprintf("%s [____.%s.config]", name, name),
			Short: modeDescriptions[name],
			Args:  cobra.MaximumNArgs(1),
			RunE:  runMode(name),
		})
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "example-config [config | " + strings.Join(names, " | ") + "]",
		Short: "Print an example config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			text, err := exampleConfig(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), text)
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the source version",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			fmt.Fprintf(c.OutOrStdout(), "formation version %s\n",
				version.SourceVersion)
		},
	})
}

func main() {
	_ = godotenv.Load(".env")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// exampleConfig returns the example config of the named mode, or of the
// global config for "config".
func exampleConfig(name string) (string, error) {
	name = strings.TrimSuffix(name, ".config")
	if name == "config" || name == "formation" {
		return new(cmd.GlobalConfig).ExampleConfig(), nil
	}
	mode, ok := cmd.ModeNames[name]
	if !ok {
		return "", fmt.Errorf("I don't recognize the mode '%s'.", name)
	}
	return mode.ExampleConfig(), nil
}

// runMode returns the cobra handler for the named mode.
func runMode(name string) func(c *cobra.Command, args []string) error {
	return func(c *cobra.Command, args []string) error {
		flag, err := logging.ParseFlag(logMode)
		if err != nil {
			return err
		}
		logging.Setup(flag, os.Stderr)

		gConfig := &cmd.GlobalConfig{}
		if err := gConfig.ReadConfig(globalConfig); err != nil {
			return fmt.Errorf("Error running mode %s:\n%w", name, err)
		}

		if metricsAddr != "" {
			stop := serveMetrics(gConfig)
			defer stop()
		}

		mode := cmd.ModeNames[name]
		config := ""
		if len(args) == 1 {
			config = args[0]
		}
		if err := mode.ReadConfig(config); err != nil {
			return fmt.Errorf("Error running mode %s:\n%w", name, err)
		}

		var lines []string
		if cmd.NeedsStdin(mode) {
			if lines, err = stdinLines(c.InOrStdin()); err != nil {
				return err
			}
		}

		out, err := mode.Run(gConfig, lines)
		if err != nil {
			return fmt.Errorf("Error running mode %s:\n%w", name, err)
		}

		w := c.OutOrStdout()
		for i := range out {
			fmt.Fprintln(w, out[i])
		}
		return nil
	}
}

// serveMetrics attaches a fresh registry to gConfig and serves it on
// metricsAddr. The returned function shuts the server down after
// metricsLinger has passed.
func serveMetrics(gConfig *cmd.GlobalConfig) func() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	gConfig.Metrics = formation.NewMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: metricsAddr, Handler: mux}

	go func() {
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed.", "addr", metricsAddr, "err", err)
		}
	}()
	slog.Info("Serving metrics.", "addr", metricsAddr)

	return func() {
		if metricsLinger > 0 {
			time.Sleep(metricsLinger)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// stdinLines reads r and splits it into lines.
func stdinLines(r io.Reader) ([]string, error) {
	bs, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("Error reading stdin: %s.", err.Error())
	}
	lines := strings.Split(string(bs), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}
