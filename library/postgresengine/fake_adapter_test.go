package postgresengine

import (
	"context"
	"fmt"
	"time"

	"github.com/bookhaven/libraryapi/library/postgresengine/internal/adapters"
)

// fakeDB implements adapters.DBAdapter in memory: it records every statement
// it receives and replays canned results, so the stores' SQL building and row
// scanning are testable without a database.
type fakeDB struct {
	queries []string
	execs   []string

	queryResults [][][]any // one row set per expected Query call
	execResults  []int64   // one rows-affected count per expected Exec call
}

func (db *fakeDB) expectRows(rows ...[]any) {
	db.queryResults = append(db.queryResults, rows)
}

func (db *fakeDB) expectRowsAffected(count int64) {
	db.execResults = append(db.execResults, count)
}

func (db *fakeDB) Query(_ context.Context, query string) (adapters.DBRows, error) {
	db.queries = append(db.queries, query)

	if len(db.queryResults) == 0 {
		return &fakeRows{}, nil
	}

	rows := db.queryResults[0]
	db.queryResults = db.queryResults[1:]

	return &fakeRows{rows: rows}, nil
}

func (db *fakeDB) Exec(_ context.Context, query string) (adapters.DBResult, error) {
	db.execs = append(db.execs, query)

	if len(db.execResults) == 0 {
		return fakeResult{}, nil
	}

	count := db.execResults[0]
	db.execResults = db.execResults[1:]

	return fakeResult{rowsAffected: count}, nil
}

type fakeRows struct {
	rows [][]any
	pos  int
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}

	r.pos++

	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]

	if len(dest) != len(row) {
		return fmt.Errorf("scan expects %d destinations, got %d", len(row), len(dest))
	}

	for i, value := range row {
		switch d := dest[i].(type) {
		case *int64:
			*d = value.(int64)
		case *string:
			*d = value.(string)
		case *bool:
			*d = value.(bool)
		case *time.Time:
			*d = value.(time.Time)
		default:
			return fmt.Errorf("unsupported scan destination %T", dest[i])
		}
	}

	return nil
}

func (r *fakeRows) Close() error {
	return nil
}

type fakeResult struct {
	rowsAffected int64
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}

func newFakeBookStore(db *fakeDB) BookStore {
	store, err := newBookStore(db)
	if err != nil {
		panic(err)
	}

	return store
}

func newFakeLoanStore(db *fakeDB) LoanStore {
	store, err := newLoanStore(db)
	if err != nil {
		panic(err)
	}

	return store
}
