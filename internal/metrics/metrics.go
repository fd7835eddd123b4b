// Package metrics exposes Prometheus collectors for job and progress
// state. It implements the job manager's Recorder interface so a run can
// be observed from an external scraper while it is in flight.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics holds the collectors describing one run.
type JobMetrics struct {
	registered  prometheus.Counter
	weightTotal prometheus.Counter
	completed   *prometheus.CounterVec
	jobProgress *prometheus.GaugeVec
	overall     prometheus.Gauge
}

// NewJobMetrics creates and registers the collectors on reg.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	m := &JobMetrics{
		registered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fluxrun_jobs_registered_total",
			Help: "Number of jobs registered with the manager.",
		}),
		weightTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fluxrun_jobs_weight_total",
			Help: "Sum of the weights of all registered jobs.",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fluxrun_jobs_completed_total",
			Help: "Number of finished jobs by status.",
		}, []string{"status"}),
		jobProgress: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fluxrun_job_progress",
			Help: "Last reported local progress per job, in [0, 1].",
		}, []string{"job_id"}),
		overall: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fluxrun_overall_progress",
			Help: "Weighted aggregate progress of the run, in [0, 1].",
		}),
	}
	reg.MustRegister(m.registered, m.weightTotal, m.completed, m.jobProgress, m.overall)
	return m
}

// JobRegistered records a successful job registration.
func (m *JobMetrics) JobRegistered(weight int) {
	m.registered.Inc()
	m.weightTotal.Add(float64(weight))
}

// JobCompleted records a finished job.
func (m *JobMetrics) JobCompleted(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	m.completed.WithLabelValues(status).Inc()
}

// ObserveProgress records one processed progress report and the resulting
// aggregate.
func (m *JobMetrics) ObserveProgress(jobID int, value, overall float64) {
	m.jobProgress.WithLabelValues(strconv.Itoa(jobID)).Set(value)
	m.overall.Set(overall)
}
