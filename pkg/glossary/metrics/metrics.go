// Package metrics exposes pipeline instrumentation. A nil *Metrics is
// valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors of one engine
type Metrics struct {
	StageDuration      *prometheus.HistogramVec
	StageCandidates    *prometheus.GaugeVec
	EnrichmentAttempts *prometheus.CounterVec
	EnrichmentInFlight prometheus.Gauge
	TermsSaved         prometheus.Counter
	RunsSkipped        *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg creates unregistered
// collectors.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "glossary_stage_duration_seconds",
			Help:    "Time spent in each pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"stage"}),
		StageCandidates: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "glossary_stage_candidates",
			Help: "Candidates leaving each stage in the last run",
		}, []string{"stage"}),
		EnrichmentAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "glossary_enrichment_attempts_total",
			Help: "Enrichment service calls by outcome",
		}, []string{"outcome"}),
		EnrichmentInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "glossary_enrichment_in_flight",
			Help: "Enrichment calls currently admitted by the gate",
		}),
		TermsSaved: f.NewCounter(prometheus.CounterOpts{
			Name: "glossary_terms_saved_total",
			Help: "Glossary rows inserted",
		}),
		RunsSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "glossary_runs_skipped_total",
			Help: "Runs ended early because of unusable input",
		}, []string{"reason"}),
	}
}

// ObserveStage records a stage duration and its output size.
func (m *Metrics) ObserveStage(stage string, started time.Time, out int) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
	m.StageCandidates.WithLabelValues(stage).Set(float64(out))
}

// Attempt counts one enrichment call outcome.
func (m *Metrics) Attempt(outcome string) {
	if m == nil {
		return
	}
	m.EnrichmentAttempts.WithLabelValues(outcome).Inc()
}

// InFlight adjusts the in-flight gauge by delta.
func (m *Metrics) InFlight(delta float64) {
	if m == nil {
		return
	}
	m.EnrichmentInFlight.Add(delta)
}

// Saved adds n inserted rows.
func (m *Metrics) Saved(n int) {
	if m == nil {
		return
	}
	m.TermsSaved.Add(float64(n))
}

// Skipped counts a run skipped for reason.
func (m *Metrics) Skipped(reason string) {
	if m == nil {
		return
	}
	m.RunsSkipped.WithLabelValues(reason).Inc()
}
