package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveStage("merge", time.Now(), 12)
	m.Attempt("success")
	m.Attempt("failure")
	m.Attempt("failure")
	m.InFlight(1)
	m.Saved(3)
	m.Skipped("empty")

	if got := testutil.ToFloat64(m.StageCandidates.WithLabelValues("merge")); got != 12 {
		t.Errorf("stage candidates = %v", got)
	}
	if got := testutil.ToFloat64(m.EnrichmentAttempts.WithLabelValues("failure")); got != 2 {
		t.Errorf("failure attempts = %v", got)
	}
	if got := testutil.ToFloat64(m.TermsSaved); got != 3 {
		t.Errorf("saved = %v", got)
	}
	if got := testutil.ToFloat64(m.EnrichmentInFlight); got != 1 {
		t.Errorf("in flight = %v", got)
	}

	count, err := testutil.GatherAndCount(reg, "glossary_stage_duration_seconds")
	if err != nil || count != 1 {
		t.Errorf("expected one duration series, got %d (%v)", count, err)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveStage("x", time.Now(), 1)
	m.Attempt("success")
	m.InFlight(1)
	m.Saved(1)
	m.Skipped("x")
}
