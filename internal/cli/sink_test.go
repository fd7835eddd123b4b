package cli

import (
	"strings"
	"sync"
	"testing"

	"github.com/briandowns/spinner"
	"github.com/ozflux/fluxrun/internal/format"
)

// fakeSpinner records spinner interactions for assertions.
type fakeSpinner struct {
	mu       sync.Mutex
	started  bool
	stopped  bool
	suffixes []string
}

func (f *fakeSpinner) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = true
}

func (f *fakeSpinner) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeSpinner) UpdateSuffix(suffix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suffixes = append(f.suffixes, suffix)
}

func (f *fakeSpinner) lastSuffix() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.suffixes) == 0 {
		return ""
	}
	return f.suffixes[len(f.suffixes)-1]
}

// withFakeSpinner swaps the spinner constructor for the duration of a test.
func withFakeSpinner(t *testing.T) *fakeSpinner {
	t.Helper()
	fake := &fakeSpinner{}
	orig := newSpinner
	newSpinner = func(_ ...spinner.Option) Spinner { return fake }
	t.Cleanup(func() { newSpinner = orig })
	return fake
}

// TestSpinnerSinkLifecycle verifies Start and Stop reach the spinner.
func TestSpinnerSinkLifecycle(t *testing.T) {
	fake := withFakeSpinner(t)
	sink := NewSpinnerSink()

	sink.Start()
	if !fake.started {
		t.Error("Start should start the spinner")
	}

	sink.Stop()
	if !fake.stopped {
		t.Error("Stop should stop the spinner")
	}
}

// TestSpinnerSinkRendersCompletion verifies a 1.0 report always renders a
// full bar, bypassing the refresh rate limit.
func TestSpinnerSinkRendersCompletion(t *testing.T) {
	fake := withFakeSpinner(t)
	sink := NewSpinnerSink()

	sink.Report(0.5)
	sink.Report(1.0)

	last := fake.lastSuffix()
	if !strings.Contains(last, "100.0%") {
		t.Errorf("final suffix = %q, want full bar", last)
	}
}

// TestSpinnerSinkRateLimits verifies intermediate reports inside the
// refresh window do not render.
func TestSpinnerSinkRateLimits(t *testing.T) {
	fake := withFakeSpinner(t)
	sink := NewSpinnerSink()

	for i := 0; i < 100; i++ {
		sink.Report(float64(i) / 200.0)
	}

	fake.mu.Lock()
	n := len(fake.suffixes)
	fake.mu.Unlock()
	if n > 2 {
		t.Errorf("got %d renders for 100 rapid reports, want at most 2", n)
	}
}

// TestSpinnerSinkBarWidth verifies the rendered bar uses the configured width.
func TestSpinnerSinkBarWidth(t *testing.T) {
	fake := withFakeSpinner(t)
	sink := NewSpinnerSink()

	sink.Report(1.0)

	want := format.ProgressBar(1.0, ProgressBarWidth)
	if !strings.Contains(fake.lastSuffix(), want) {
		t.Errorf("suffix = %q, want it to contain %q", fake.lastSuffix(), want)
	}
}
