package postgresengine

import (
	"github.com/bookhaven/libraryapi/library"
)

// storeConfig collects the configurable parts of a store before construction.
type storeConfig struct {
	tableName      string
	booksTableName string
	logger         library.Logger
	metrics        library.MetricsCollector
}

// Option defines a functional option for configuring a store.
type Option func(*storeConfig) error

// WithTableName sets the table the store reads and writes.
func WithTableName(tableName string) Option {
	return func(cfg *storeConfig) error {
		if tableName == "" {
			return library.ErrEmptyTableName
		}

		cfg.tableName = tableName

		return nil
	}
}

// WithBooksTableName sets the books table a LoanStore joins against.
// It has no effect on a BookStore, which is configured via WithTableName.
func WithBooksTableName(tableName string) Option {
	return func(cfg *storeConfig) error {
		if tableName == "" {
			return library.ErrEmptyTableName
		}

		cfg.booksTableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the store.
//
// Debug level: SQL statements with execution timing (development use)
// Info level: operational messages (production-safe)
// Warn level: non-critical issues like cleanup failures
// Error level: failures that cause the operation to fail.
func WithLogger(logger library.Logger) Option {
	return func(cfg *storeConfig) error {
		cfg.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector receiving per-statement timings and counts.
func WithMetrics(metrics library.MetricsCollector) Option {
	return func(cfg *storeConfig) error {
		cfg.metrics = metrics
		return nil
	}
}

func applyOptions(defaultTable string, defaultBooksTable string, options []Option) (storeConfig, error) {
	cfg := storeConfig{
		tableName:      defaultTable,
		booksTableName: defaultBooksTable,
	}

	for _, option := range options {
		if err := option(&cfg); err != nil {
			return storeConfig{}, err
		}
	}

	return cfg, nil
}
