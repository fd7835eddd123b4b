package jobs

import (
	"github.com/ozflux/fluxrun/internal/progress"
)

// WorkFunc is a unit of work. It receives a callback through which it may
// report local progress in [0, 1] any number of times (including never),
// and returns nil on success or an error describing the failure.
type WorkFunc func(report progress.Callback) error

// job binds one registered work function to its id, weight, and the last
// progress value it reported. The progress field is written only by the
// goroutine executing the job in sequential mode, or by the manager's
// collector loop in parallel mode, so it needs no lock of its own.
type job struct {
	id       int
	weight   int
	fn       WorkFunc
	progress float64
}

// runLocal executes the work function on the caller's goroutine. start is
// the cumulative weight of all jobs that completed before this one; every
// report folds into the weighted overall value and goes to the sink
// immediately. Failures propagate synchronously to the caller.
func (j *job) runLocal(start, totalWeight int, sink progress.Sink, subject *progress.Subject) error {
	return j.fn(func(p float64) {
		j.progress = p
		subject.Notify(progress.Update{JobID: j.id, Value: p})
		overall := (float64(start) + float64(j.weight)*p) / float64(totalWeight)
		sink.Report(overall)
	})
}

// runWorker executes the work function for parallel mode, sending tagged
// updates on the shared channel. Sends block until the collector receives
// them; the collector drains until every worker has returned, so a live
// worker can never deadlock here.
func (j *job) runWorker(updates chan<- progress.Update) error {
	return j.fn(func(p float64) {
		updates <- progress.Update{JobID: j.id, Value: p}
	})
}
