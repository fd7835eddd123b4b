package app

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	apperrors "github.com/ozflux/fluxrun/internal/errors"
)

// TestNewParsesConfig verifies argument parsing through New.
func TestNewParsesConfig(t *testing.T) {
	app, err := New([]string{"fluxrun", "-parallel=false", "echo 1"}, io.Discard)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if app.Config.Parallel {
		t.Error("Parallel should be false")
	}
	if len(app.Config.JobSpecs) != 1 {
		t.Errorf("JobSpecs = %v", app.Config.JobSpecs)
	}
}

// TestNewRejectsNoJobs verifies New surfaces configuration errors.
func TestNewRejectsNoJobs(t *testing.T) {
	_, err := New([]string{"fluxrun"}, io.Discard)
	var cerr apperrors.ConfigError
	if !errors.As(err, &cerr) {
		t.Errorf("New error = %v, want ConfigError", err)
	}
}

// TestIsHelpError distinguishes -h from real errors.
func TestIsHelpError(t *testing.T) {
	if !IsHelpError(flag.ErrHelp) {
		t.Error("flag.ErrHelp should be a help error")
	}
	if IsHelpError(errors.New("boom")) {
		t.Error("ordinary errors are not help errors")
	}
}

// TestRunRejectsBadSpec verifies an invalid job spec exits with the
// configuration code before any job runs.
func TestRunRejectsBadSpec(t *testing.T) {
	var errBuf bytes.Buffer
	app, err := New([]string{"fluxrun", "-q", "0:echo hi"}, &errBuf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	code := app.Run(context.Background(), io.Discard)
	if code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if !strings.Contains(errBuf.String(), "weight") {
		t.Errorf("stderr = %q, want weight error", errBuf.String())
	}
}

// TestHasVersionFlag verifies version flag detection.
func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"-version"}, true},
		{[]string{"--version"}, true},
		{[]string{"echo 1"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

// TestPrintVersion verifies the banner contents.
func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.Contains(buf.String(), "fluxrun") || !strings.Contains(buf.String(), Version) {
		t.Errorf("banner = %q", buf.String())
	}
}
