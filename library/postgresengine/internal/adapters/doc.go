// Package adapters isolates the library stores from the concrete database
// client. The stores build complete SQL strings and only need the narrow
// Query/Exec surface below, so the same store code runs against a pgx pool,
// a plain database/sql handle, or a sqlx handle.
package adapters
