//go:build !tracing

package trace

import "context"

// NoopExporter discards every record. It is what the default build ships:
// generation tracing costs a file write per run, so the real exporter only
// compiles in with the tracing tag.
type NoopExporter struct{}

// NewFileExporter returns the discarding exporter in non-tracing builds. The
// signature matches the file-backed constructor so callers wire traces the
// same way in every build.
func NewFileExporter(filePath string, opts ...FileExporterOption) (Exporter, error) {
	return &NoopExporter{}, nil
}

// Export discards the record.
func (n *NoopExporter) Export(ctx context.Context, record *TraceRecord) error {
	return nil
}

// Close is a no-op.
func (n *NoopExporter) Close() error {
	return nil
}
