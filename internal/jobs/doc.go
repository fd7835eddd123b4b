// Package jobs coordinates execution of weighted units of work and
// aggregates their progress into a single overall value. A Manager owns the
// registered job set and drives either sequential in-caller execution or
// parallel execution with one worker per job, forwarding the weighted
// aggregate to a progress.Sink on every report. It decouples coordination
// from presentation via the progress.Sink and progress.Observer interfaces.
package jobs
