package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Acquisition run outcomes.
const (
	OutcomeFound     = "found"
	OutcomeExhausted = "exhausted"
	OutcomeStopped   = "stopped"
)

// ScanMetrics records tag acquisition runs on the reader.
type ScanMetrics struct {
	duration prometheus.Histogram
	runs     *prometheus.CounterVec
	readErrs prometheus.Counter
}

// NewScanMetrics registers the scan metrics on the provided registerer.
func NewScanMetrics(reg prometheus.Registerer) *ScanMetrics {
	if reg == nil {
		return &ScanMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scan_run_duration_seconds",
		Help:    "Duration of tag acquisition runs in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_runs_total",
		Help: "Completed tag acquisition runs by outcome.",
	}, []string{"outcome"})
	readErrs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scan_read_errors_total",
		Help: "Tag read attempts that failed at the reader.",
	})
	reg.MustRegister(duration, runs, readErrs)
	return &ScanMetrics{
		duration: duration,
		runs:     runs,
		readErrs: readErrs,
	}
}

// ObserveRun records one completed run with its outcome and duration.
func (m *ScanMetrics) ObserveRun(outcome string, duration time.Duration) {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.WithLabelValues(normalizeOutcome(outcome)).Inc()
	m.duration.Observe(duration.Seconds())
}

// IncReadError counts a failed read attempt inside a run.
func (m *ScanMetrics) IncReadError() {
	if m == nil || m.readErrs == nil {
		return
	}
	m.readErrs.Inc()
}

func normalizeOutcome(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
