package progress

// Callback is the reporting function handed to every work function. A job
// calls it with its local progress in the range [0, 1]; values are ideally
// monotonically increasing, but the runner does not enforce that.
type Callback func(value float64)

// Update is a single tagged progress report from one job. JobID is the
// stable registration index assigned by the job manager.
type Update struct {
	JobID int
	Value float64
}

// Sink consumes the weighted aggregate progress of a whole run. The job
// manager calls Report on every progress event it processes; values are in
// [0, 1] unless a work function misreports, in which case they are passed
// through unchanged (presentation layers clamp for display).
//
// Implementations must be cheap: Report is called once per progress message
// and owns any rate limiting it needs.
type Sink interface {
	Report(overall float64)
}

// SinkFunc adapts a plain function to the Sink interface.
type SinkFunc func(float64)

// Report calls the underlying function.
func (f SinkFunc) Report(overall float64) { f(overall) }

// NullSink discards all aggregate progress reports. Used in quiet mode and
// as the manager's default when no sink is configured.
type NullSink struct{}

// Report discards the value.
func (NullSink) Report(float64) {}
