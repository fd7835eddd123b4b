package progress

import (
	"sync"

	"github.com/ozflux/fluxrun/internal/logging"
)

// Observer receives every per-job progress update, before aggregation.
// Unlike Sink, which only sees the weighted overall value, an Observer can
// track individual jobs; the TUI uses this to drive one bar per job.
type Observer interface {
	OnUpdate(u Update)
}

// Subject fans per-job updates out to a set of observers. Attach is safe to
// call concurrently with Notify, although in practice all observers are
// registered before a run starts.
type Subject struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewSubject creates an empty subject.
func NewSubject() *Subject {
	return &Subject{}
}

// Attach registers an observer. Nil observers are ignored.
func (s *Subject) Attach(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Notify delivers the update to every attached observer, in attachment
// order, on the caller's goroutine.
func (s *Subject) Notify(u Update) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.OnUpdate(u)
	}
}

// ChannelObserver forwards updates to a channel without blocking. Updates
// are dropped when the channel is full; progress reports are advisory, so a
// slow consumer must never stall the run.
type ChannelObserver struct {
	ch chan<- Update
}

// NewChannelObserver creates an observer forwarding to ch.
func NewChannelObserver(ch chan<- Update) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnUpdate sends the update if the channel has capacity.
func (c *ChannelObserver) OnUpdate(u Update) {
	select {
	case c.ch <- u:
	default:
	}
}

// LoggingObserver writes each update to a structured logger at debug level.
// Out-of-range values get their own message so misbehaving work functions
// are visible in diagnostic output, matching the warning the progress line
// renderer used to emit.
type LoggingObserver struct {
	logger logging.Logger
}

// NewLoggingObserver creates an observer writing to logger.
func NewLoggingObserver(logger logging.Logger) *LoggingObserver {
	return &LoggingObserver{logger: logger}
}

// OnUpdate logs the update.
func (l *LoggingObserver) OnUpdate(u Update) {
	if u.Value < 0 || u.Value > 1 {
		l.logger.Debug("progress report out of range",
			logging.Int("job_id", u.JobID), logging.Float64("value", u.Value))
		return
	}
	l.logger.Debug("progress report",
		logging.Int("job_id", u.JobID), logging.Float64("value", u.Value))
}

// NoOpObserver ignores all updates.
type NoOpObserver struct{}

// OnUpdate does nothing.
func (NoOpObserver) OnUpdate(Update) {}
