// Package progress defines the progress-reporting contracts shared by the
// job manager, the work functions it runs, and the presentation layers. A
// Sink receives the weighted aggregate of a whole run; Observers receive
// per-job updates before aggregation.
package progress
