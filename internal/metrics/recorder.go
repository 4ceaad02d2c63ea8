// Package metrics records pipeline observability counters and histograms.
package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// Job outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder exposes Prometheus metrics for documentation jobs. A nil Recorder
// is valid and records nothing, so wiring stays optional.
type Recorder struct {
	jobsTotal          *prom.CounterVec
	filesProcessed     prom.Counter
	generationFailures *prom.CounterVec
	jobDuration        prom.Histogram
	cloneDuration      prom.Histogram
}

// NewRecorder constructs and registers metrics on reg (a fresh registry when nil).
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}

	r := &Recorder{
		jobsTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "reposcribe",
			Name:      "jobs_total",
			Help:      "Documentation jobs by final outcome",
		}, []string{"outcome"}),
		filesProcessed: prom.NewCounter(prom.CounterOpts{
			Namespace: "reposcribe",
			Name:      "files_processed_total",
			Help:      "Repository files run through per-file generation",
		}),
		generationFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "reposcribe",
			Name:      "generation_failures_total",
			Help:      "Failed generation calls by template kind",
		}, []string{"template"}),
		jobDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "reposcribe",
			Name:      "job_duration_seconds",
			Help:      "End-to-end duration of documentation jobs",
			Buckets:   prom.ExponentialBuckets(1, 2, 12),
		}),
		cloneDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "reposcribe",
			Name:      "clone_duration_seconds",
			Help:      "Duration of repository clone operations",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(r.jobsTotal, r.filesProcessed, r.generationFailures, r.jobDuration, r.cloneDuration)
	return r
}

// JobFinished records one job outcome and its duration in seconds.
func (r *Recorder) JobFinished(outcome string, seconds float64) {
	if r == nil {
		return
	}
	r.jobsTotal.WithLabelValues(outcome).Inc()
	r.jobDuration.Observe(seconds)
}

// FilesProcessed adds n processed files.
func (r *Recorder) FilesProcessed(n int) {
	if r == nil {
		return
	}
	r.filesProcessed.Add(float64(n))
}

// GenerationFailed records one failed generation call for a template kind.
func (r *Recorder) GenerationFailed(template string) {
	if r == nil {
		return
	}
	r.generationFailures.WithLabelValues(template).Inc()
}

// CloneFinished records one clone duration in seconds.
func (r *Recorder) CloneFinished(seconds float64) {
	if r == nil {
		return
	}
	r.cloneDuration.Observe(seconds)
}
