package postgresengine

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/bookhaven/libraryapi/library"
	"github.com/bookhaven/libraryapi/library/postgresengine/internal/adapters"
)

const (
	logMsgDBQueryFailed      = "database query execution failed"
	logMsgDBExecFailed       = "database statement execution failed"
	logMsgCloseRowsFailed    = "failed to close database rows"
	logMsgRowsAffectedFailed = "failed to get rows affected count"
	logMsgSQLExecuted        = "executed sql for: "
	logAttrError             = "error"
	logAttrQuery             = "query"
	logAttrDurationMS        = "duration_ms"

	metricQueryDuration = "librarystore_query_duration_seconds"
	metricQueriesTotal  = "librarystore_queries_total"
	labelStore          = "store"
	labelOperation      = "operation"
	labelOutcome        = "outcome"
	outcomeSuccess      = "success"
	outcomeError        = "error"

	dialectPostgres = "postgres"
)

type sqlQueryString = string

// engine carries the pieces both stores share: the database adapter and the
// optional observability hooks. Store-specific state (table names) lives in
// the store structs themselves.
type engine struct {
	db      adapters.DBAdapter
	store   string
	logger  library.Logger
	metrics library.MetricsCollector
}

// query runs a SELECT-shaped statement with debug logging and timing metrics.
// Callers own the returned rows and must close them via closeRows.
func (e engine) query(ctx context.Context, operation string, sqlQuery sqlQueryString) (adapters.DBRows, error) {
	start := time.Now()
	rows, queryErr := e.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	e.logQueryWithDuration(sqlQuery, operation, duration)
	e.observe(operation, duration, queryErr != nil)

	if queryErr != nil {
		if e.logger != nil {
			e.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		return nil, errors.Join(library.ErrQueryingStoreFailed, queryErr)
	}

	return rows, nil
}

// exec runs a mutating statement and returns the number of rows affected.
func (e engine) exec(ctx context.Context, operation string, sqlQuery sqlQueryString) (int64, error) {
	start := time.Now()
	result, execErr := e.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	e.logQueryWithDuration(sqlQuery, operation, duration)
	e.observe(operation, duration, execErr != nil)

	if execErr != nil {
		if e.logger != nil {
			e.logger.Error(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		}

		return 0, errors.Join(library.ErrExecutingStoreFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		if e.logger != nil {
			e.logger.Error(logMsgRowsAffectedFailed, logAttrError, rowsAffectedErr.Error())
		}

		return 0, errors.Join(library.ErrExecutingStoreFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// closeRows safely closes database rows and logs any errors.
func (e engine) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if e.logger != nil {
			e.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (e engine) logQueryWithDuration(sqlQuery sqlQueryString, operation string, duration time.Duration) {
	if e.logger != nil {
		e.logger.Debug(logMsgSQLExecuted+operation, logAttrDurationMS, e.durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// observe reports timing and outcome of one statement if metrics are configured.
func (e engine) observe(operation string, duration time.Duration, failed bool) {
	if e.metrics == nil {
		return
	}

	outcome := outcomeSuccess
	if failed {
		outcome = outcomeError
	}

	labels := map[string]string{
		labelStore:     e.store,
		labelOperation: operation,
		labelOutcome:   outcome,
	}

	e.metrics.RecordDuration(metricQueryDuration, duration, labels)
	e.metrics.IncrementCounter(metricQueriesTotal, labels)
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (e engine) durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
