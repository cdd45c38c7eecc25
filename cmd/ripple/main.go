package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/vango-dev/ripple/internal/config"
	"github.com/vango-dev/ripple/internal/errors"
	"github.com/vango-dev/ripple/pkg/metrics"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds state shared by subcommands once the root command has loaded
// the configuration.
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	registry   *prometheus.Registry
	collector  *metrics.Collector
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "ripple",
		Short: "Inspect keyed reconciliation and reactivity",
		Long: `ripple drives the keyed-sequence reconciler and the reactivity
runtime from the command line.

  • diff two keyed sequences and print the minimal operations
  • replay a series of sequences through a reactive list
  • compute longest increasing subsequences`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.dumpMetrics(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: ./ripple.json or ./ripple.yaml)")

	rootCmd.AddCommand(
		diffCmd(a),
		simulateCmd(a),
		lisCmd(),
		versionCmd(),
	)

	return rootCmd
}

// setup loads the configuration and builds the logger and metrics registry.
func (a *app) setup(stderr io.Writer) error {
	switch {
	case a.configPath != "":
		cfg, err := config.LoadFile(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	case config.Exists("."):
		cfg, err := config.Load(".")
		if err != nil {
			return err
		}
		a.cfg = cfg
	default:
		a.cfg = config.New()
	}

	opts := &slog.HandlerOptions{Level: a.cfg.Level()}
	if a.cfg.Log.Format == "json" {
		a.logger = slog.New(slog.NewJSONHandler(stderr, opts))
	} else {
		a.logger = slog.New(slog.NewTextHandler(stderr, opts))
	}

	if a.cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.collector = metrics.New(
			metrics.WithRegistry(a.registry),
			metrics.WithNamespace(a.cfg.Metrics.Namespace),
		)
	}
	return nil
}

// dumpMetrics writes the gathered metrics in the Prometheus text format.
func (a *app) dumpMetrics(w io.Writer) error {
	if a.registry == nil {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
