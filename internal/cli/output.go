// # Naming Conventions
//
// Functions in this package follow consistent naming patterns:
//
//   - Print* functions write formatted output to an [io.Writer].
//   - Format* functions return a formatted string without performing I/O.

package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ozflux/fluxrun/internal/command"
	"github.com/ozflux/fluxrun/internal/format"
	"github.com/ozflux/fluxrun/internal/jobs"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// PrintRunConfig announces the jobs about to run and the execution mode.
func PrintRunConfig(out io.Writer, parallel bool, specs []command.Spec) {
	mode := "sequential"
	if parallel {
		mode = "parallel"
	}
	fmt.Fprintf(out, "Running %d job(s) in %s mode:\n", len(specs), mode)
	for i, spec := range specs {
		fmt.Fprintf(out, "  [%d] %s %s\n", i, spec.Command,
			dimStyle.Render(fmt.Sprintf("(weight %d)", spec.Weight)))
	}
}

// PrintRunSummary writes the per-job outcome table and the total
// walltime. It returns the number of failed jobs.
func PrintRunSummary(out io.Writer, specs []command.Spec, results []jobs.Result, walltime time.Duration) int {
	failures := 0
	fmt.Fprintln(out)
	for _, res := range results {
		status := okStyle.Render("OK")
		if res.Err != nil {
			status = failedStyle.Render("FAILED")
			failures++
		}
		name := fmt.Sprintf("job %d", res.JobID)
		if res.JobID >= 0 && res.JobID < len(specs) {
			name = specs[res.JobID].Command
		}
		fmt.Fprintf(out, "  %-6s %s  %s\n", status, name,
			dimStyle.Render(format.FormatExecutionDuration(res.Duration)))
		if res.Err != nil {
			fmt.Fprintf(out, "         %v\n", res.Err)
		}
	}
	PrintWalltime(out, walltime)
	return failures
}

// PrintWalltime writes the total elapsed time of the run.
func PrintWalltime(out io.Writer, walltime time.Duration) {
	fmt.Fprintf(out, "Walltime: %s\n", format.FormatExecutionDuration(walltime))
}
