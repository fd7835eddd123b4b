package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ozflux/fluxrun/internal/command"
	"github.com/ozflux/fluxrun/internal/jobs"
)

// TestPrintRunConfig verifies the job announcement lines.
func TestPrintRunConfig(t *testing.T) {
	var buf bytes.Buffer
	specs := []command.Spec{
		{Weight: 1, Command: "convert a.csv"},
		{Weight: 3, Command: "convert b.csv"},
	}

	PrintRunConfig(&buf, true, specs)

	out := buf.String()
	if !strings.Contains(out, "2 job(s) in parallel mode") {
		t.Errorf("output = %q, want mode header", out)
	}
	if !strings.Contains(out, "convert a.csv") || !strings.Contains(out, "convert b.csv") {
		t.Errorf("output = %q, want both commands listed", out)
	}
	if !strings.Contains(out, "weight 3") {
		t.Errorf("output = %q, want weight annotation", out)
	}

	buf.Reset()
	PrintRunConfig(&buf, false, specs[:1])
	if !strings.Contains(buf.String(), "sequential mode") {
		t.Errorf("output = %q, want sequential mode", buf.String())
	}
}

// TestPrintRunSummary verifies the outcome table and failure count.
func TestPrintRunSummary(t *testing.T) {
	specs := []command.Spec{
		{Weight: 1, Command: "convert a.csv"},
		{Weight: 1, Command: "convert b.csv"},
	}
	results := []jobs.Result{
		{JobID: 0, Weight: 1, Duration: 120 * time.Millisecond},
		{JobID: 1, Weight: 1, Duration: 2 * time.Second, Err: errors.New("exit status 1")},
	}

	var buf bytes.Buffer
	failures := PrintRunSummary(&buf, specs, results, 3*time.Second)

	if failures != 1 {
		t.Errorf("failures = %d, want 1", failures)
	}
	out := buf.String()
	if !strings.Contains(out, "OK") || !strings.Contains(out, "FAILED") {
		t.Errorf("output = %q, want OK and FAILED entries", out)
	}
	if !strings.Contains(out, "exit status 1") {
		t.Errorf("output = %q, want failure cause", out)
	}
	if !strings.Contains(out, "120ms") {
		t.Errorf("output = %q, want per-job duration", out)
	}
	if !strings.Contains(out, "Walltime: 3s") {
		t.Errorf("output = %q, want walltime line", out)
	}
}

// TestPrintRunSummaryAllOK verifies a clean run reports zero failures.
func TestPrintRunSummaryAllOK(t *testing.T) {
	specs := []command.Spec{{Weight: 1, Command: "true"}}
	results := []jobs.Result{{JobID: 0, Weight: 1, Duration: time.Millisecond}}

	var buf bytes.Buffer
	if failures := PrintRunSummary(&buf, specs, results, time.Second); failures != 0 {
		t.Errorf("failures = %d, want 0", failures)
	}
}
