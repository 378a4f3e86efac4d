package export

import "github.com/okian/swc/pkg/logger"

// Option configures an Exporter.
type Option func(*Exporter)

// WithFormat selects csv or parquet output.
func WithFormat(format string) Option {
	return func(e *Exporter) { e.format = format }
}

// WithBatchSize sets the page size used to read from the source.
func WithBatchSize(n int) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.batch = n
		}
	}
}

// WithLogger sets the exporter logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}
