package format

import "time"

const (
	// rateSmoothing is the exponential smoothing factor applied to the
	// observed progress rate; higher values favour recent measurements.
	rateSmoothing = 0.3
	// maxETA caps the reported estimate so a near-stalled run does not
	// display absurd remaining times.
	maxETA = 24 * time.Hour
)

// ETAEstimator derives a remaining-time estimate from a stream of overall
// progress observations in [0, 1]. The clock starts at the first
// observation, so setup work done before progress reporting begins does not
// skew the estimate.
//
// Not safe for concurrent use; callers feed it from a single goroutine.
type ETAEstimator struct {
	start   time.Time
	started bool
	last    float64
	lastAt  time.Time
	rate    float64 // smoothed progress per second

	now func() time.Time // test seam
}

// NewETAEstimator creates an estimator with no observations.
func NewETAEstimator() *ETAEstimator {
	return &ETAEstimator{now: time.Now}
}

// Observe records a new overall progress value.
func (e *ETAEstimator) Observe(overall float64) {
	t := e.now()
	if !e.started {
		e.start = t
		e.started = true
		e.last = overall
		e.lastAt = t
		return
	}
	dt := t.Sub(e.lastAt).Seconds()
	if dt <= 0 {
		e.last = overall
		return
	}
	inst := (overall - e.last) / dt
	if e.rate == 0 {
		e.rate = inst
	} else {
		e.rate = rateSmoothing*inst + (1-rateSmoothing)*e.rate
	}
	e.last = overall
	e.lastAt = t
}

// ETA returns the current remaining-time estimate, capped at 24 hours.
// Zero means no estimate is available yet.
func (e *ETAEstimator) ETA() time.Duration {
	remaining := 1.0 - e.last
	if !e.started || remaining <= 0 {
		return 0
	}
	rate := e.rate
	if rate <= 0 {
		// No rate established yet. Fall back to extrapolating from total
		// elapsed time: total = elapsed/progress, remaining = total - elapsed.
		if e.last <= 0 {
			return 0
		}
		elapsed := e.now().Sub(e.start).Seconds()
		rate = e.last / elapsed
		if rate <= 0 {
			return 0
		}
	}
	eta := time.Duration(remaining / rate * float64(time.Second))
	if eta > maxETA {
		eta = maxETA
	}
	return eta
}

// Elapsed returns the time since the first observation, or zero if nothing
// has been observed.
func (e *ETAEstimator) Elapsed() time.Duration {
	if !e.started {
		return 0
	}
	return e.now().Sub(e.start)
}

// Progress returns the most recently observed overall value.
func (e *ETAEstimator) Progress() float64 {
	return e.last
}
