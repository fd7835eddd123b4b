package tui

import (
	"time"

	"github.com/ozflux/fluxrun/internal/jobs"
)

// ProgressMsg carries one per-job progress report into the dashboard.
type ProgressMsg struct {
	JobID int
	Value float64
}

// OverallMsg carries the weighted aggregate progress of the run.
type OverallMsg struct {
	Value float64
}

// DoneMsg signals the end of the run with its outcome.
type DoneMsg struct {
	Results []jobs.Result
	Err     error
}

// TickMsg drives the elapsed clock and resource sampling.
type TickMsg time.Time

// SysStatsMsg carries a system-wide resource snapshot.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}
