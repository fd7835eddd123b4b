// Package config defines the application configuration and its sources:
// command-line flags, FLUXRUN_* environment variables, and defaults, in
// that priority order.
package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	apperrors "github.com/ozflux/fluxrun/internal/errors"
)

// EnvPrefix is prepended to every environment variable the application reads.
const EnvPrefix = "FLUXRUN_"

// AppConfig holds the validated runtime configuration of a run.
type AppConfig struct {
	// Parallel selects one-worker-per-job execution instead of running jobs
	// one at a time in registration order.
	Parallel bool
	// Quiet suppresses progress display and informational output.
	Quiet bool
	// Verbose enables debug-level logging, including per-report progress
	// diagnostics and resource usage samples.
	Verbose bool
	// TUI renders a live dashboard with one progress bar per job.
	TUI bool
	// NoProgress disables the progress display while keeping other output.
	NoProgress bool
	// Timeout bounds the whole run; zero means no limit. The limit acts on
	// the command processes, not inside the job manager.
	Timeout time.Duration
	// MetricsAddr, when non-empty, serves Prometheus metrics on this
	// address for the duration of the run (e.g. "localhost:9090").
	MetricsAddr string
	// JobSpecs are the positional command specifications, in registration
	// order.
	JobSpecs []string
}

// ParseConfig parses flags and positional job specs from args, applies
// environment overrides for flags not explicitly set, and validates the
// result. Usage and error text go to errWriter.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	cfg := AppConfig{Parallel: true}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [flags] JOB...\n\n", programName)
		fmt.Fprintf(errWriter, "Each JOB is a shell command, optionally weight-prefixed:\n")
		fmt.Fprintf(errWriter, "  'convert a.csv'          weight 1\n")
		fmt.Fprintf(errWriter, "  '3:convert a.csv'        explicit weight 3\n")
		fmt.Fprintf(errWriter, "  '@a.csv:convert a.csv'   weight = size of a.csv\n\n")
		fmt.Fprintf(errWriter, "Flags:\n")
		fs.PrintDefaults()
	}

	fs.BoolVar(&cfg.Parallel, "parallel", cfg.Parallel, "run one worker per job instead of sequentially")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "suppress progress display and informational output")
	fs.BoolVar(&cfg.Quiet, "q", false, "shorthand for -quiet")
	fs.BoolVar(&cfg.Verbose, "v", false, "enable debug-level logging")
	fs.BoolVar(&cfg.TUI, "tui", false, "render a live per-job progress dashboard")
	fs.BoolVar(&cfg.NoProgress, "no-progress", false, "disable the progress display")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "abort the run after this duration (0 = no limit)")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&cfg, fs)
	cfg.JobSpecs = fs.Args()

	if err := validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// validate checks cross-field constraints.
func validate(cfg AppConfig) error {
	if len(cfg.JobSpecs) == 0 {
		return apperrors.NewConfigError("no jobs specified")
	}
	if cfg.TUI && cfg.Quiet {
		return apperrors.NewConfigError("-tui and -quiet are mutually exclusive")
	}
	if cfg.Timeout < 0 {
		return apperrors.NewConfigError("-timeout must not be negative, got %s", cfg.Timeout)
	}
	return nil
}
