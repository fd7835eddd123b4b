package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ozflux/fluxrun/internal/cli"
	"github.com/ozflux/fluxrun/internal/command"
	apperrors "github.com/ozflux/fluxrun/internal/errors"
	"github.com/ozflux/fluxrun/internal/jobs"
	"github.com/ozflux/fluxrun/internal/logging"
	"github.com/ozflux/fluxrun/internal/metrics"
	"github.com/ozflux/fluxrun/internal/progress"
	"github.com/ozflux/fluxrun/internal/server"
	"github.com/ozflux/fluxrun/internal/sysmon"
	"github.com/ozflux/fluxrun/internal/tui"
)

// runJobs executes the configured jobs in CLI mode.
func (a *Application) runJobs(ctx context.Context, out io.Writer, specs []command.Spec) int {
	ctx, cleanup := a.setupLifecycle(ctx)
	defer cleanup()

	logger := logging.NewDefaultLogger()

	var opts []jobs.Option
	opts = append(opts, jobs.WithLogger(logger))

	recorder, stopMetrics := a.startMetrics(ctx, logger)
	if recorder != nil {
		opts = append(opts, jobs.WithRecorder(recorder))
		defer stopMetrics()
	}

	if a.Config.Verbose {
		opts = append(opts, jobs.WithObserver(progress.NewLoggingObserver(logger)))
		go sysmon.Monitor(ctx, 0, logger)
	}

	var spinnerSink *cli.SpinnerSink
	if !a.Config.Quiet && !a.Config.NoProgress {
		spinnerSink = cli.NewSpinnerSink()
		opts = append(opts, jobs.WithSink(spinnerSink))
	}

	mgr := jobs.NewManager(a.Config.Parallel, opts...)
	for _, spec := range specs {
		if err := mgr.Add(command.Job(ctx, spec, logger), spec.Weight); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
	}

	if !a.Config.Quiet {
		cli.PrintRunConfig(out, a.Config.Parallel, specs)
	}
	if spinnerSink != nil {
		spinnerSink.Start()
	}

	start := time.Now()
	if a.Config.Parallel {
		results := mgr.RunParallel(ctx)
		walltime := time.Since(start)
		if spinnerSink != nil {
			spinnerSink.Stop()
		}
		return a.finishParallel(ctx, out, specs, results, walltime)
	}

	err := mgr.RunSequential(ctx)
	walltime := time.Since(start)
	if spinnerSink != nil {
		spinnerSink.Stop()
	}
	return a.finishSequential(ctx, out, err, walltime)
}

// setupLifecycle applies the run timeout and signal handling.
func (a *Application) setupLifecycle(ctx context.Context) (context.Context, func()) {
	var cancelTimeout context.CancelFunc = func() {}
	if a.Config.Timeout > 0 {
		ctx, cancelTimeout = context.WithTimeout(ctx, a.Config.Timeout)
	}
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

// startMetrics starts the metrics server when configured. It returns a nil
// recorder when metrics are disabled.
func (a *Application) startMetrics(ctx context.Context, logger logging.Logger) (jobs.Recorder, func()) {
	if a.Config.MetricsAddr == "" {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	jm := metrics.NewJobMetrics(reg)
	srv := server.New(a.Config.MetricsAddr, reg, logger)
	srv.Start()
	return jm, func() {
		if err := srv.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("metrics server shutdown failed", err)
		}
	}
}

// finishSequential maps a sequential run outcome to output and exit code.
func (a *Application) finishSequential(ctx context.Context, out io.Writer, err error, walltime time.Duration) int {
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && apperrors.IsContextError(err) {
			err = ctxErr
		}
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeForRunError(err)
	}
	if !a.Config.Quiet {
		cli.PrintWalltime(out, walltime)
	}
	return apperrors.ExitSuccess
}

// finishParallel maps parallel run results to output and exit code.
func (a *Application) finishParallel(ctx context.Context, out io.Writer, specs []command.Spec, results []jobs.Result, walltime time.Duration) int {
	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
		}
	}

	if !a.Config.Quiet {
		cli.PrintRunSummary(out, specs, results, walltime)
	}

	if failures > 0 {
		if ctx.Err() != nil {
			return apperrors.ExitCodeForRunError(ctx.Err())
		}
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive dashboard.
func (a *Application) runTUI(ctx context.Context, specs []command.Spec) int {
	ctx, cleanup := a.setupLifecycle(ctx)
	defer cleanup()

	logger := logging.NewLogger(io.Discard, "jobs")

	return tui.Run(ctx, specs, Version, func(b *tui.Bridge) tui.DoneMsg {
		mgr := jobs.NewManager(a.Config.Parallel,
			jobs.WithSink(b),
			jobs.WithObserver(b),
			jobs.WithLogger(logger))
		for _, spec := range specs {
			if err := mgr.Add(command.Job(ctx, spec, logger), spec.Weight); err != nil {
				return tui.DoneMsg{Err: err}
			}
		}
		if a.Config.Parallel {
			return tui.DoneMsg{Results: mgr.RunParallel(ctx)}
		}
		return tui.DoneMsg{Err: mgr.RunSequential(ctx)}
	})
}
