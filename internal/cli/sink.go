package cli

import (
	"fmt"
	"sync"
	"time"

	"github.com/ozflux/fluxrun/internal/format"
)

// SpinnerSink renders the weighted aggregate progress of a run as a
// spinner with a progress bar and an ETA. It implements the job
// manager's progress sink.
type SpinnerSink struct {
	mu         sync.Mutex
	sp         Spinner
	est        *format.ETAEstimator
	lastRender time.Time
}

// NewSpinnerSink builds a sink around a fresh terminal spinner. Call
// Start before the run and Stop after it.
func NewSpinnerSink() *SpinnerSink {
	return &SpinnerSink{
		sp:  newSpinner(),
		est: format.NewETAEstimator(),
	}
}

// Start begins the spinner animation.
func (s *SpinnerSink) Start() {
	s.sp.UpdateSuffix(" starting...")
	s.sp.Start()
}

// Stop halts the spinner animation.
func (s *SpinnerSink) Stop() {
	s.sp.Stop()
}

// Report renders the aggregate value. Renders are rate-limited to the
// spinner refresh interval; a completion report always renders so the
// bar ends full.
func (s *SpinnerSink) Report(overall float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.est.Observe(overall)

	now := time.Now()
	if overall < 1.0 && now.Sub(s.lastRender) < ProgressRefreshRate {
		return
	}
	s.lastRender = now

	if overall >= 1.0 {
		s.sp.UpdateSuffix(fmt.Sprintf(" [%s] 100.0%% in %s",
			format.ProgressBar(1.0, ProgressBarWidth),
			format.FormatExecutionDuration(s.est.Elapsed())))
		return
	}
	bar := format.FormatProgressBarWithETA(overall, s.est.ETA(), ProgressBarWidth)
	s.sp.UpdateSuffix(fmt.Sprintf(" %s", bar))
}
