package library

import (
	"errors"
)

var ErrDuplicateISBN = errors.New("Isbn ja cadastrado!")
var ErrBookAlreadyLoaned = errors.New("Book already loaned")
var ErrBookNotFoundForISBN = errors.New("Book not found for passed isbn")
var ErrMissingID = errors.New("entity id must be set")
var ErrNilDatabaseConnection = errors.New("nil database connection supplied")
var ErrEmptyTableName = errors.New("empty table name supplied")
var ErrNoRowsAffected = errors.New("no rows were affected")
var ErrBuildingQueryFailed = errors.New("building sql query failed")
var ErrQueryingStoreFailed = errors.New("database query execution failed")
var ErrExecutingStoreFailed = errors.New("database statement execution failed")
var ErrScanningDBRowFailed = errors.New("failed to scan database row")

// IsBusinessRuleViolation reports whether err is one of the domain rule
// violations that callers should surface as a client error rather than
// a server fault.
func IsBusinessRuleViolation(err error) bool {
	return errors.Is(err, ErrDuplicateISBN) ||
		errors.Is(err, ErrBookAlreadyLoaned) ||
		errors.Is(err, ErrBookNotFoundForISBN)
}
