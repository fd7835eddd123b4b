// Package command turns shell commands into weighted job work functions.
// Each command runs in its own process; lines it writes to stdout that
// parse as a float in [0, 1] become progress reports, so any tool able to
// print numbers can participate in aggregate progress reporting. All other
// stdout lines are forwarded to the logger.
package command

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	apperrors "github.com/ozflux/fluxrun/internal/errors"
	"github.com/ozflux/fluxrun/internal/jobs"
	"github.com/ozflux/fluxrun/internal/logging"
	"github.com/ozflux/fluxrun/internal/progress"
)

// Spec describes one command job: the shell command to run and its weight
// relative to the other jobs of the run.
type Spec struct {
	// Weight is the job's relative contribution to aggregate progress.
	Weight int
	// Command is the shell command line, executed via "sh -c".
	Command string
}

// ParseSpec parses a command specification of one of three forms:
//
//	"command args..."          weight 1
//	"3:command args..."        explicit weight 3
//	"@input.csv:command..."    weight = size of input.csv in bytes (min 1)
//
// File-size weighting mirrors the common case of per-file conversion jobs,
// where a file's byte count is a usable proxy for its share of the work. A
// colon inside the command itself is left alone: only an all-digit or
// @-path prefix before the first colon is treated as a weight.
func ParseSpec(raw string) (Spec, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Spec{}, apperrors.NewConfigError("empty job specification")
	}

	prefix, rest, found := strings.Cut(raw, ":")
	if found && rest != "" {
		if w, err := strconv.Atoi(prefix); err == nil {
			if w <= 0 {
				return Spec{}, apperrors.NewConfigError("job weight must be positive, got %d", w)
			}
			return Spec{Weight: w, Command: strings.TrimSpace(rest)}, nil
		}
		if path, ok := strings.CutPrefix(prefix, "@"); ok {
			info, err := os.Stat(path)
			if err != nil {
				return Spec{}, apperrors.WrapError(err, "weighting job by size of %q", path)
			}
			weight := int(info.Size())
			if weight < 1 {
				weight = 1
			}
			return Spec{Weight: weight, Command: strings.TrimSpace(rest)}, nil
		}
	}
	return Spec{Weight: 1, Command: raw}, nil
}

// Job binds a command spec to a work function. The command's stderr passes
// through to the parent's stderr; stdout is consumed by the progress
// scanner. The context bounds the command's lifetime: this is where run
// timeouts take effect, since the job manager itself implements none.
func Job(ctx context.Context, spec Spec, logger logging.Logger) jobs.WorkFunc {
	return func(report progress.Callback) error {
		cmd := exec.CommandContext(ctx, "sh", "-c", spec.Command)
		cmd.Stderr = os.Stderr

		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return apperrors.WrapError(err, "opening stdout pipe for %q", spec.Command)
		}
		if err := cmd.Start(); err != nil {
			return apperrors.WrapError(err, "starting %q", spec.Command)
		}

		ScanProgress(stdout, report, logger)

		if err := cmd.Wait(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return apperrors.WrapError(ctxErr, "running %q", spec.Command)
			}
			return apperrors.WrapError(err, "running %q", spec.Command)
		}
		return nil
	}
}

// ScanProgress reads r line by line until EOF. Lines parsing as a float in
// [0, 1] become progress reports; blank lines are skipped; everything else
// is forwarded to the logger as the command's own output.
func ScanProgress(r io.Reader, report progress.Callback, logger logging.Logger) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if v, err := strconv.ParseFloat(line, 64); err == nil && v >= 0 && v <= 1 {
			report(v)
			continue
		}
		logger.Info(line)
	}
}
