package postgresengine

import (
	"context"
	"fmt"
)

// CreateSchema creates the books table and its unique ISBN index if they do
// not exist. The BookService checks ISBN uniqueness before inserting to
// produce a friendly error; the index makes the rule hold under concurrent
// writers as well.
func (s BookStore) CreateSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				title TEXT NOT NULL,
				author TEXT NOT NULL,
				isbn TEXT NOT NULL
			)`,
			s.tableName,
		),
		fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS %s_isbn_uq ON %s (isbn)`,
			s.tableName, s.tableName,
		),
	}

	return s.execStatements(ctx, statements)
}

// CreateSchema creates the loans table if it does not exist, including the
// partial unique index that allows at most one unreturned loan per book.
// The LoanService performs the same check before inserting to produce a
// friendly error; the index closes the check-then-act window between two
// concurrent loan creations for the same book.
func (s LoanStore) CreateSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				book_id BIGINT NOT NULL REFERENCES %s (id),
				customer TEXT NOT NULL,
				customer_email TEXT NOT NULL DEFAULT '',
				loan_date DATE NOT NULL,
				returned BOOLEAN NOT NULL DEFAULT FALSE
			)`,
			s.tableName, s.booksTableName,
		),
		fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS %s_outstanding_book_uq ON %s (book_id) WHERE NOT returned`,
			s.tableName, s.tableName,
		),
	}

	return s.execStatements(ctx, statements)
}

// execStatements runs DDL statements one at a time: the pgx adapter uses the
// extended protocol, which rejects multi-statement strings.
func (e engine) execStatements(ctx context.Context, statements []string) error {
	for _, statement := range statements {
		if _, err := e.exec(ctx, "create_schema", statement); err != nil {
			return err
		}
	}

	return nil
}
