package metrics

import "context"

// Collector is the interface for metrics collection. Implementations include
// the Prometheus-backed collector and the no-op collector used in tests and
// when metrics are disabled.
type Collector interface {
	RecordGeneration(ctx context.Context, useCase string, status string, durationMs int64)
	RecordStage(ctx context.Context, useCase string, stage string, durationMs int64)
	RecordError(ctx context.Context, useCase string, errorType string)
	RecordRepair(ctx context.Context, useCase string)
}
