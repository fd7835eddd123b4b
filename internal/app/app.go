// Package app wires configuration, the job manager, and the presentation
// layers into the fluxrun application.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ozflux/fluxrun/internal/command"
	"github.com/ozflux/fluxrun/internal/config"
	apperrors "github.com/ozflux/fluxrun/internal/errors"
)

// Application represents the fluxrun application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer) (*Application, error) {
	programName := "fluxrun"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	return &Application{Config: cfg, ErrWriter: errWriter}, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	switch {
	case a.Config.Verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case a.Config.Quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	specs, err := parseSpecs(a.Config.JobSpecs)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	if a.Config.TUI {
		return a.runTUI(ctx, specs)
	}
	return a.runJobs(ctx, out, specs)
}

// parseSpecs parses every positional job specification, failing on the
// first invalid one.
func parseSpecs(raw []string) ([]command.Spec, error) {
	specs := make([]command.Spec, 0, len(raw))
	for _, r := range raw {
		spec, err := command.ParseSpec(r)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
