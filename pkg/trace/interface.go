package trace

import (
	"context"
	"time"
)

// Exporter defines the interface for exporting generation traces.
// Implementations must be safe for concurrent use.
type Exporter interface {
	// Export writes a trace record to the configured destination.
	// Returns error if export fails.
	Export(ctx context.Context, record *TraceRecord) error

	// Close flushes any buffered records and releases resources.
	// Should be called during graceful shutdown.
	Close() error
}

// TraceRecord represents one generation run ready for export. It carries
// timings and identifiers only, never prompt text, reply text or API keys.
type TraceRecord struct {
	// Timestamp is the run start time
	Timestamp time.Time `json:"timestamp"`

	// OperationID uniquely identifies this run (for correlation)
	OperationID string `json:"operationId"`

	// UseCase is one of: roadmap, courses, projects, quiz, step_description
	UseCase string `json:"useCase"`

	// DurationMs is the total run duration in milliseconds
	DurationMs int64 `json:"durationMs"`

	// Status is "success" or "error"
	Status string `json:"status"`

	// Spans contains per-stage timing and status
	Spans []SpanRecord `json:"spans"`

	// ErrorType classifies the error (if Status == "error")
	// Values: config, unavailable, extraction, validation, unknown
	ErrorType string `json:"errorType,omitempty"`
}

// SpanRecord represents a single stage within a run.
type SpanRecord struct {
	// Name is the stage name (render, generate, extract, postprocess)
	Name string `json:"name"`

	// DurationMs is the stage duration in milliseconds
	DurationMs int64 `json:"durationMs"`

	// OK indicates success (true) or failure (false)
	OK bool `json:"ok"`

	// ErrorType classifies the error (if OK == false)
	ErrorType string `json:"errorType,omitempty"`
}

// FileExporterOption configures a FileExporter.
// This type is available in both tracing and non-tracing builds to maintain API compatibility.
type FileExporterOption func(interface{})
