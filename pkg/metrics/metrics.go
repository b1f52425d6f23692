package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector provides Prometheus metrics collection for generation runs
type MetricsCollector struct {
	generationsTotal *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
	errorsTotal      *prometheus.CounterVec
	repairsTotal     *prometheus.CounterVec
	registry         *prometheus.Registry
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *MetricsCollector {
	registry := prometheus.NewRegistry()

	generationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpath_generations_total",
			Help: "Total number of generation runs by use case and status",
		},
		[]string{"use_case", "status"},
	)

	stageDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "learnpath_generation_stage_duration_seconds",
			Help:    "Duration of generation stages by use case",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
		[]string{"use_case", "stage"},
	)

	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpath_generation_errors_total",
			Help: "Total number of errors by use case and error type",
		},
		[]string{"use_case", "error_type"},
	)

	repairsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "learnpath_extraction_repairs_total",
			Help: "Total number of replies that needed the tolerant repair parse",
		},
		[]string{"use_case"},
	)

	registry.MustRegister(generationsTotal)
	registry.MustRegister(stageDuration)
	registry.MustRegister(errorsTotal)
	registry.MustRegister(repairsTotal)

	return &MetricsCollector{
		generationsTotal: generationsTotal,
		stageDuration:    stageDuration,
		errorsTotal:      errorsTotal,
		repairsTotal:     repairsTotal,
		registry:         registry,
	}
}

// RecordGeneration records the completion of a generation run
func (m *MetricsCollector) RecordGeneration(ctx context.Context, useCase string, status string, durationMs int64) {
	m.generationsTotal.WithLabelValues(useCase, status).Inc()
}

// RecordStage records the duration of a specific stage within a run
func (m *MetricsCollector) RecordStage(ctx context.Context, useCase string, stage string, durationMs int64) {
	m.stageDuration.WithLabelValues(useCase, stage).Observe(float64(durationMs) / 1000.0)
}

// RecordError records an error occurrence
func (m *MetricsCollector) RecordError(ctx context.Context, useCase string, errorType string) {
	m.errorsTotal.WithLabelValues(useCase, errorType).Inc()
}

// RecordRepair records a reply rescued by the tolerant parse
func (m *MetricsCollector) RecordRepair(ctx context.Context, useCase string) {
	m.repairsTotal.WithLabelValues(useCase).Inc()
}

// Registry returns the Prometheus registry for HTTP exposure
func (m *MetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}
