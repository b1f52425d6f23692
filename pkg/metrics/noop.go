package metrics

import "context"

// NoopCollector is a no-op implementation for tests and disabled metrics.
type NoopCollector struct{}

// NewNoopCollector creates a no-op collector
func NewNoopCollector() *NoopCollector {
	return &NoopCollector{}
}

// RecordGeneration does nothing when metrics are disabled
func (n *NoopCollector) RecordGeneration(ctx context.Context, useCase string, status string, durationMs int64) {
}

// RecordStage does nothing when metrics are disabled
func (n *NoopCollector) RecordStage(ctx context.Context, useCase string, stage string, durationMs int64) {
}

// RecordError does nothing when metrics are disabled
func (n *NoopCollector) RecordError(ctx context.Context, useCase string, errorType string) {
}

// RecordRepair does nothing when metrics are disabled
func (n *NoopCollector) RecordRepair(ctx context.Context, useCase string) {
}
