package postgresengine

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/bookhaven/libraryapi/library"
	"github.com/bookhaven/libraryapi/library/postgresengine/internal/adapters"
)

const (
	defaultBooksTableName = "books"

	colID     = "id"
	colTitle  = "title"
	colAuthor = "author"
	colISBN   = "isbn"

	opInsertBook = "insert_book"
	opUpdateBook = "update_book"
	opSelectBook = "select_book"
	opDeleteBook = "delete_book"
	opCountBooks = "count_books"
	opListBooks  = "list_books"
)

// BookStore persists library.Book records in a Postgres table.
type BookStore struct {
	engine
	tableName string
}

// NewBookStoreFromPGXPool creates a BookStore using a pgx pool with optional configuration.
func NewBookStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (BookStore, error) {
	if db == nil {
		return BookStore{}, library.ErrNilDatabaseConnection
	}

	return newBookStore(adapters.NewPGXAdapter(db), options...)
}

// NewBookStoreFromSQLDB creates a BookStore using a sql.DB with optional configuration.
func NewBookStoreFromSQLDB(db *sql.DB, options ...Option) (BookStore, error) {
	if db == nil {
		return BookStore{}, library.ErrNilDatabaseConnection
	}

	return newBookStore(adapters.NewSQLAdapter(db), options...)
}

// NewBookStoreFromSQLX creates a BookStore using a sqlx.DB with optional configuration.
func NewBookStoreFromSQLX(db *sqlx.DB, options ...Option) (BookStore, error) {
	if db == nil {
		return BookStore{}, library.ErrNilDatabaseConnection
	}

	return newBookStore(adapters.NewSQLXAdapter(db), options...)
}

func newBookStore(db adapters.DBAdapter, options ...Option) (BookStore, error) {
	cfg, err := applyOptions(defaultBooksTableName, defaultBooksTableName, options)
	if err != nil {
		return BookStore{}, err
	}

	return BookStore{
		engine: engine{
			db:      db,
			store:   "books",
			logger:  cfg.logger,
			metrics: cfg.metrics,
		},
		tableName: cfg.tableName,
	}, nil
}

// Save persists the book. A book without an ID is inserted and returned with
// the assigned ID; a book with an ID overwrites the existing row. Updating a
// row that does not exist fails with library.ErrNoRowsAffected - Save never
// resurrects a deleted book.
func (s BookStore) Save(ctx context.Context, book library.Book) (library.Book, error) {
	if book.ID == 0 {
		return s.insert(ctx, book)
	}

	return s.update(ctx, book)
}

func (s BookStore) insert(ctx context.Context, book library.Book) (library.Book, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tableName).
		Rows(goqu.Record{
			colTitle:  book.Title,
			colAuthor: book.Author,
			colISBN:   book.ISBN,
		}).
		Returning(colID)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return library.Book{}, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := s.query(ctx, opInsertBook, sqlQuery)
	if queryErr != nil {
		return library.Book{}, queryErr
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return library.Book{}, library.ErrNoRowsAffected
	}

	if scanErr := rows.Scan(&book.ID); scanErr != nil {
		return library.Book{}, errors.Join(library.ErrScanningDBRowFailed, scanErr)
	}

	return book, nil
}

func (s BookStore) update(ctx context.Context, book library.Book) (library.Book, error) {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(s.tableName).
		Set(goqu.Record{
			colTitle:  book.Title,
			colAuthor: book.Author,
			colISBN:   book.ISBN,
		}).
		Where(goqu.Ex{colID: book.ID})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return library.Book{}, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, execErr := s.exec(ctx, opUpdateBook, sqlQuery)
	if execErr != nil {
		return library.Book{}, execErr
	}

	if rowsAffected == 0 {
		return library.Book{}, library.ErrNoRowsAffected
	}

	return book, nil
}

// FindByID looks a book up by its ID. Absence is reported via the bool, not an error.
func (s BookStore) FindByID(ctx context.Context, id int64) (library.Book, bool, error) {
	return s.findOne(ctx, goqu.Ex{colID: id})
}

// FindByISBN looks a book up by its exact ISBN.
func (s BookStore) FindByISBN(ctx context.Context, isbn string) (library.Book, bool, error) {
	return s.findOne(ctx, goqu.Ex{colISBN: isbn})
}

func (s BookStore) findOne(ctx context.Context, where goqu.Ex) (library.Book, bool, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(colID, colTitle, colAuthor, colISBN).
		Where(where).
		Limit(1)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return library.Book{}, false, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := s.query(ctx, opSelectBook, sqlQuery)
	if queryErr != nil {
		return library.Book{}, false, queryErr
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return library.Book{}, false, nil
	}

	var book library.Book
	if scanErr := rows.Scan(&book.ID, &book.Title, &book.Author, &book.ISBN); scanErr != nil {
		return library.Book{}, false, errors.Join(library.ErrScanningDBRowFailed, scanErr)
	}

	return book, true, nil
}

// ExistsByISBN reports whether a book with the given ISBN exists.
func (s BookStore) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	count, err := s.countWhere(ctx, goqu.Ex{colISBN: isbn})
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Delete removes the book's row. Deleting an ID that no longer exists is
// accepted; only a zero ID is rejected.
func (s BookStore) Delete(ctx context.Context, book library.Book) error {
	if book.ID == 0 {
		return library.ErrMissingID
	}

	deleteStmt := goqu.Dialect(dialectPostgres).
		Delete(s.tableName).
		Where(goqu.Ex{colID: book.ID})

	sqlQuery, _, toSQLErr := deleteStmt.ToSQL()
	if toSQLErr != nil {
		return errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	_, execErr := s.exec(ctx, opDeleteBook, sqlQuery)

	return execErr
}

// FindAll returns the page of books matching the filter-by-example, ordered
// by ID, together with the total match count.
func (s BookStore) FindAll(ctx context.Context, filter library.BookFilter, page library.PageRequest) (library.Page[library.Book], error) {
	var empty library.Page[library.Book]

	where := s.filterExpressions(filter)

	total, countErr := s.countWhere(ctx, nil, where...)
	if countErr != nil {
		return empty, countErr
	}

	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(colID, colTitle, colAuthor, colISBN).
		Where(where...).
		Order(goqu.I(colID).Asc()).
		Limit(uint(page.Size)).
		Offset(uint(page.Offset()))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return empty, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := s.query(ctx, opListBooks, sqlQuery)
	if queryErr != nil {
		return empty, queryErr
	}
	defer s.closeRows(rows)

	content := make([]library.Book, 0, page.Size)

	for rows.Next() {
		var book library.Book
		if scanErr := rows.Scan(&book.ID, &book.Title, &book.Author, &book.ISBN); scanErr != nil {
			return empty, errors.Join(library.ErrScanningDBRowFailed, scanErr)
		}

		content = append(content, book)
	}

	return library.Page[library.Book]{
		Content:       content,
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: total,
	}, nil
}

// filterExpressions translates the filter-by-example into WHERE clauses:
// empty fields constrain nothing, non-empty fields match case-insensitively
// on any substring.
func (s BookStore) filterExpressions(filter library.BookFilter) []goqu.Expression {
	expressions := make([]goqu.Expression, 0, 2)

	if filter.Title != "" {
		expressions = append(expressions, goqu.C(colTitle).ILike("%"+filter.Title+"%"))
	}

	if filter.Author != "" {
		expressions = append(expressions, goqu.C(colAuthor).ILike("%"+filter.Author+"%"))
	}

	return expressions
}

func (s BookStore) countWhere(ctx context.Context, ex goqu.Ex, expressions ...goqu.Expression) (int64, error) {
	countStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(goqu.COUNT(goqu.Star()))

	if ex != nil {
		countStmt = countStmt.Where(ex)
	}

	if len(expressions) > 0 {
		countStmt = countStmt.Where(expressions...)
	}

	sqlQuery, _, toSQLErr := countStmt.ToSQL()
	if toSQLErr != nil {
		return 0, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := s.query(ctx, opCountBooks, sqlQuery)
	if queryErr != nil {
		return 0, queryErr
	}
	defer s.closeRows(rows)

	var count int64

	if rows.Next() {
		if scanErr := rows.Scan(&count); scanErr != nil {
			return 0, errors.Join(library.ErrScanningDBRowFailed, scanErr)
		}
	}

	return count, nil
}
