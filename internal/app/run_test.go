package app

import (
	"context"
	"io"
	"testing"

	apperrors "github.com/ozflux/fluxrun/internal/errors"
)

func runApp(t *testing.T, args ...string) int {
	t.Helper()
	app, err := New(append([]string{"fluxrun"}, args...), io.Discard)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return app.Run(context.Background(), io.Discard)
}

// TestRunSequentialSuccess runs real commands one at a time.
func TestRunSequentialSuccess(t *testing.T) {
	code := runApp(t, "-q", "-parallel=false", "echo 0.5; echo 1.0", "true")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
}

// TestRunSequentialFailureAborts verifies a failing command yields the
// generic error code.
func TestRunSequentialFailureAborts(t *testing.T) {
	code := runApp(t, "-q", "-parallel=false", "exit 3", "true")
	if code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
}

// TestRunParallelSuccess runs real commands concurrently.
func TestRunParallelSuccess(t *testing.T) {
	code := runApp(t, "-q", "echo 0.25; echo 1.0", "2:echo 1.0", "true")
	if code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitSuccess)
	}
}

// TestRunParallelFailureCode verifies any failed job fails the run while
// the remaining jobs still complete.
func TestRunParallelFailureCode(t *testing.T) {
	code := runApp(t, "-q", "true", "false", "true")
	if code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
}
