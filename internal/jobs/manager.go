package jobs

import (
	"context"
	"io"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/ozflux/fluxrun/internal/errors"
	"github.com/ozflux/fluxrun/internal/logging"
	"github.com/ozflux/fluxrun/internal/progress"
)

// UpdateBufferMultiplier defines the buffer size multiplier for the shared
// progress channel in parallel mode. A larger buffer reduces the likelihood
// of workers blocking while the collector applies an update.
const UpdateBufferMultiplier = 5

// Recorder receives job lifecycle events for instrumentation. The metrics
// package provides a Prometheus-backed implementation.
type Recorder interface {
	// JobRegistered is called once per successful Add.
	JobRegistered(weight int)
	// JobCompleted is called once per finished job.
	JobCompleted(success bool)
	// ObserveProgress is called for every processed progress report.
	ObserveProgress(jobID int, value, overall float64)
}

// Result describes the outcome of one job in a parallel run. Worker
// failures are deliberately not turned into a Manager-level error: the run
// always completes every job, and the caller inspects Err per entry.
type Result struct {
	// JobID is the registration index of the job.
	JobID int
	// Weight is the job's registered weight.
	Weight int
	// Duration is the time the work function took to return.
	Duration time.Duration
	// Err is the work function's error, or nil on success.
	Err error
}

// Manager owns the registered set of weighted jobs and drives them to
// completion, reporting the weighted aggregate progress
//
//	overall = sum(weight_j * progress_j) / totalWeight
//
// to its sink on every progress event. A single mutex guards registration
// and both run entry points, so the job set is frozen for the duration of a
// run: Add blocks until the run finishes and never feeds work into a run
// already in flight.
type Manager struct {
	mu          sync.Mutex
	jobs        []*job
	totalWeight int

	allowParallel bool
	sink          progress.Sink
	subject       *progress.Subject
	logger        logging.Logger
	recorder      Recorder
	tracer        trace.Tracer
}

// Option configures a Manager during construction.
type Option func(*Manager)

// WithSink sets the sink receiving the weighted aggregate progress.
func WithSink(sink progress.Sink) Option {
	return func(m *Manager) {
		if sink != nil {
			m.sink = sink
		}
	}
}

// WithObserver attaches an observer receiving every per-job update.
func WithObserver(o progress.Observer) Option {
	return func(m *Manager) { m.subject.Attach(o) }
}

// WithLogger sets the structured logger.
func WithLogger(logger logging.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithRecorder sets the instrumentation recorder.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithTracer overrides the tracer used for per-job spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(m *Manager) {
		if tracer != nil {
			m.tracer = tracer
		}
	}
}

// NewManager creates an empty manager. allowParallel is advisory metadata
// recorded for callers choosing between RunSequential and RunParallel; it
// does not gate either entry point.
func NewManager(allowParallel bool, opts ...Option) *Manager {
	m := &Manager{
		allowParallel: allowParallel,
		sink:          progress.NullSink{},
		subject:       progress.NewSubject(),
		logger:        logging.NewLogger(io.Discard, "jobs"),
		tracer:        otel.Tracer("github.com/ozflux/fluxrun/internal/jobs"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AllowParallel reports the advisory parallelism preference the manager was
// constructed with.
func (m *Manager) AllowParallel() bool { return m.allowParallel }

// JobCount returns the number of registered jobs.
func (m *Manager) JobCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

// TotalWeight returns the sum of all registered job weights.
func (m *Manager) TotalWeight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalWeight
}

// Add registers a job with the next sequential id. The weight sets the
// job's relative contribution to aggregate progress and must be positive;
// otherwise Add returns a ValidationError and leaves the job set untouched.
// Safe for concurrent use.
func (m *Manager) Add(fn WorkFunc, weight int) error {
	if weight <= 0 {
		return apperrors.NewValidationError("weight", "must be positive, got %d", weight)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j := &job{id: len(m.jobs), weight: weight, fn: fn}
	m.jobs = append(m.jobs, j)
	m.totalWeight += weight
	if m.recorder != nil {
		m.recorder.JobRegistered(weight)
	}
	m.logger.Debug("job registered", logging.Int("job_id", j.id), logging.Int("weight", weight))
	return nil
}

// RunSequential executes every registered job in registration order on the
// caller's goroutine. The callback handed to job i reports
// (start_i + weight_i*p) / totalWeight, where start_i is the cumulative
// weight of jobs 0..i-1. The first work-function failure aborts the
// remaining jobs and propagates as a JobError.
//
// The context is used for trace propagation only; the manager implements no
// cancellation of its own, so a hung work function blocks the run. Work
// functions needing timeouts must implement them internally.
func (m *Manager) RunSequential(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := 0
	for _, j := range m.jobs {
		_, span := m.tracer.Start(ctx, "jobs.sequential",
			trace.WithAttributes(attribute.Int("job.id", j.id), attribute.Int("job.weight", j.weight)))
		began := time.Now()
		err := j.runLocal(start, m.totalWeight, m.sink, m.subject)
		elapsed := time.Since(began)
		if m.recorder != nil {
			m.recorder.JobCompleted(err == nil)
		}
		if err != nil {
			span.RecordError(err)
			span.End()
			m.logger.Error("job failed", err, logging.Int("job_id", j.id))
			return apperrors.JobError{ID: j.id, Cause: err}
		}
		span.End()
		m.logger.Debug("job finished",
			logging.Int("job_id", j.id), logging.String("duration", elapsed.String()))
		start += j.weight
	}
	return nil
}

// RunParallel starts one worker goroutine per registered job, all
// dispatched before any wait occurs, and blocks until every worker has
// returned and every buffered progress report has been processed. Reports
// arrive on a shared channel tagged with the job id; on each one the
// manager recomputes the weighted aggregate and forwards it to the sink.
//
// A worker failure does not abort the run and is not returned as an error
// here: the failed worker simply stops reporting, and its error is exposed
// in the returned Results. Callers that need to fail the overall run on any
// job failure inspect the result slice.
func (m *Manager) RunParallel(ctx context.Context) []Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	results := make([]Result, len(m.jobs))
	updates := make(chan progress.Update, len(m.jobs)*UpdateBufferMultiplier)

	var g errgroup.Group
	for _, j := range m.jobs {
		j := j
		g.Go(func() error {
			_, span := m.tracer.Start(ctx, "jobs.worker",
				trace.WithAttributes(attribute.Int("job.id", j.id), attribute.Int("job.weight", j.weight)))
			defer span.End()
			began := time.Now()
			err := j.runWorker(updates)
			if err != nil {
				span.RecordError(err)
			}
			results[j.id] = Result{JobID: j.id, Weight: j.weight, Duration: time.Since(began), Err: err}
			return nil
		})
	}

	// Closing the channel is the end-of-stream signal: it happens only
	// after every worker has returned, so draining until closed both
	// observes all reports and joins all workers.
	go func() {
		g.Wait()
		close(updates)
	}()

	for u := range updates {
		m.applyUpdate(u)
	}

	for _, r := range results {
		if m.recorder != nil {
			m.recorder.JobCompleted(r.Err == nil)
		}
		if r.Err != nil {
			m.logger.Error("job failed", r.Err, logging.Int("job_id", r.JobID))
		}
	}
	return results
}

// applyUpdate records one job's report and pushes the recomputed weighted
// aggregate to the sink. Recomputing from scratch keeps the invariant
// overall == sum(w_j*p_j)/W exact regardless of report ordering.
func (m *Manager) applyUpdate(u progress.Update) {
	j := m.jobs[u.JobID]
	j.progress = u.Value
	m.subject.Notify(u)

	var sum float64
	for _, jb := range m.jobs {
		sum += float64(jb.weight) * jb.progress
	}
	overall := sum / float64(m.totalWeight)
	m.sink.Report(overall)
	if m.recorder != nil {
		m.recorder.ObserveProgress(u.JobID, u.Value, overall)
	}
}
