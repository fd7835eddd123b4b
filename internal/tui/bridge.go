package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ozflux/fluxrun/internal/progress"
)

// programRef is a shared reference to the tea.Program.
// Because bubbletea copies the model on every Update, we need a pointer
// that survives copies so the bridge goroutines can send messages.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

// SetProgram sets the tea.Program reference (thread-safe).
func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send sends a message to the bubbletea program (thread-safe).
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Bridge forwards job progress into the dashboard as bubbletea messages.
// It serves as both the manager's progress sink and a per-job observer.
type Bridge struct {
	ref *programRef
}

// Verify interface compliance.
var (
	_ progress.Sink     = (*Bridge)(nil)
	_ progress.Observer = (*Bridge)(nil)
)

// Report forwards the weighted aggregate value.
func (b *Bridge) Report(overall float64) {
	b.ref.Send(OverallMsg{Value: overall})
}

// OnUpdate forwards one per-job progress report.
func (b *Bridge) OnUpdate(u progress.Update) {
	b.ref.Send(ProgressMsg{JobID: u.JobID, Value: u.Value})
}

// Done forwards the run outcome.
func (b *Bridge) Done(msg DoneMsg) {
	b.ref.Send(msg)
}
