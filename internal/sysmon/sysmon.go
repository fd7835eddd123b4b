// Package sysmon provides system-wide CPU and memory usage sampling,
// logged periodically during verbose runs so resource pressure from the
// job workers is visible alongside their progress.
package sysmon

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/ozflux/fluxrun/internal/logging"
)

// DefaultInterval is how often Monitor samples when no interval is given.
const DefaultInterval = 5 * time.Second

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

func (s Stats) String() string {
	return fmt.Sprintf("cpu %.1f%% mem %.1f%%", s.CPUPercent, s.MemPercent)
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// Monitor logs a resource snapshot every interval until ctx is done.
// It blocks; run it in its own goroutine.
func Monitor(ctx context.Context, interval time.Duration, logger logging.Logger) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	// Prime the CPU delta so the first logged sample is meaningful.
	Sample()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := Sample()
			logger.Debug("resource usage",
				logging.Float64("cpu_percent", s.CPUPercent),
				logging.Float64("mem_percent", s.MemPercent))
		}
	}
}
