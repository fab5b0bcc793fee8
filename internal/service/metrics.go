package service

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AnalysisMetrics records analysis outcomes per provider
type AnalysisMetrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewAnalysisMetrics registers the collectors on reg
func NewAnalysisMetrics(reg prometheus.Registerer) *AnalysisMetrics {
	m := &AnalysisMetrics{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "snapcal",
			Name:      "analysis_total",
			Help:      "Food photo analyses by provider and outcome.",
		}, []string{"provider", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "snapcal",
			Name:      "analysis_duration_seconds",
			Help:      "Time spent in the vision provider call.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"provider"}),
	}
	reg.MustRegister(m.total, m.duration)
	return m
}

// Observe records one analysis. A nil receiver is a no-op.
func (m *AnalysisMetrics) Observe(p Provider, started time.Time, err error) {
	if m == nil {
		return
	}
	m.total.WithLabelValues(string(p), outcomeLabel(err)).Inc()
	m.duration.WithLabelValues(string(p)).Observe(time.Since(started).Seconds())
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	var aerr *AnalysisError
	if errors.As(err, &aerr) {
		return string(aerr.Kind)
	}
	return "error"
}
