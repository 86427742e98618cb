// Package postgresengine implements the BookStore and LoanStore on Postgres.
// Queries are built with goqu and executed through a small adapter layer, so
// the stores work with a pgx pool, a database/sql handle, or a sqlx handle.
package postgresengine
