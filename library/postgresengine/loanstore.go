package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/bookhaven/libraryapi/library"
	"github.com/bookhaven/libraryapi/library/postgresengine/internal/adapters"
)

const (
	defaultLoansTableName = "loans"

	colBookID        = "book_id"
	colCustomer      = "customer"
	colCustomerEmail = "customer_email"
	colLoanDate      = "loan_date"
	colReturned      = "returned"

	opInsertLoan       = "insert_loan"
	opUpdateLoan       = "update_loan"
	opSelectLoan       = "select_loan"
	opCountLoans       = "count_loans"
	opListLoans        = "list_loans"
	opCountOutstanding = "count_outstanding_loans"
	opListOverdue      = "list_overdue_loans"
)

// LoanStore persists library.Loan records in a Postgres table. Reads join the
// books table so every returned loan carries its fully hydrated book.
type LoanStore struct {
	engine
	tableName      string
	booksTableName string
}

// NewLoanStoreFromPGXPool creates a LoanStore using a pgx pool with optional configuration.
func NewLoanStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (LoanStore, error) {
	if db == nil {
		return LoanStore{}, library.ErrNilDatabaseConnection
	}

	return newLoanStore(adapters.NewPGXAdapter(db), options...)
}

// NewLoanStoreFromSQLDB creates a LoanStore using a sql.DB with optional configuration.
func NewLoanStoreFromSQLDB(db *sql.DB, options ...Option) (LoanStore, error) {
	if db == nil {
		return LoanStore{}, library.ErrNilDatabaseConnection
	}

	return newLoanStore(adapters.NewSQLAdapter(db), options...)
}

// NewLoanStoreFromSQLX creates a LoanStore using a sqlx.DB with optional configuration.
func NewLoanStoreFromSQLX(db *sqlx.DB, options ...Option) (LoanStore, error) {
	if db == nil {
		return LoanStore{}, library.ErrNilDatabaseConnection
	}

	return newLoanStore(adapters.NewSQLXAdapter(db), options...)
}

func newLoanStore(db adapters.DBAdapter, options ...Option) (LoanStore, error) {
	cfg, err := applyOptions(defaultLoansTableName, defaultBooksTableName, options)
	if err != nil {
		return LoanStore{}, err
	}

	return LoanStore{
		engine: engine{
			db:      db,
			store:   "loans",
			logger:  cfg.logger,
			metrics: cfg.metrics,
		},
		tableName:      cfg.tableName,
		booksTableName: cfg.booksTableName,
	}, nil
}

// Save persists the loan. A loan without an ID is inserted and returned with
// the assigned ID; a loan with an ID overwrites the existing row (this is how
// a return is recorded). Updating a nonexistent ID fails with
// library.ErrNoRowsAffected.
func (s LoanStore) Save(ctx context.Context, loan library.Loan) (library.Loan, error) {
	if loan.ID == 0 {
		return s.insert(ctx, loan)
	}

	return s.update(ctx, loan)
}

func (s LoanStore) insert(ctx context.Context, loan library.Loan) (library.Loan, error) {
	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tableName).
		Rows(s.loanRecord(loan)).
		Returning(colID)

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return library.Loan{}, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := s.query(ctx, opInsertLoan, sqlQuery)
	if queryErr != nil {
		return library.Loan{}, queryErr
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return library.Loan{}, library.ErrNoRowsAffected
	}

	if scanErr := rows.Scan(&loan.ID); scanErr != nil {
		return library.Loan{}, errors.Join(library.ErrScanningDBRowFailed, scanErr)
	}

	return loan, nil
}

func (s LoanStore) update(ctx context.Context, loan library.Loan) (library.Loan, error) {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(s.tableName).
		Set(s.loanRecord(loan)).
		Where(goqu.Ex{colID: loan.ID})

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return library.Loan{}, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	rowsAffected, execErr := s.exec(ctx, opUpdateLoan, sqlQuery)
	if execErr != nil {
		return library.Loan{}, execErr
	}

	if rowsAffected == 0 {
		return library.Loan{}, library.ErrNoRowsAffected
	}

	return loan, nil
}

func (s LoanStore) loanRecord(loan library.Loan) goqu.Record {
	return goqu.Record{
		colBookID:        loan.Book.ID,
		colCustomer:      loan.Customer,
		colCustomerEmail: loan.CustomerEmail,
		colLoanDate:      library.DateOnly(loan.LoanDate),
		colReturned:      loan.Status.Returned(),
	}
}

// FindByID looks a loan up by its ID. Absence is reported via the bool, not an error.
func (s LoanStore) FindByID(ctx context.Context, id int64) (library.Loan, bool, error) {
	var empty library.Loan

	selectStmt := s.selectJoined().
		Where(s.loanCol(colID).Eq(id)).
		Limit(1)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return empty, false, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := s.query(ctx, opSelectLoan, sqlQuery)
	if queryErr != nil {
		return empty, false, queryErr
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		return empty, false, nil
	}

	loan, scanErr := s.scanLoan(rows)
	if scanErr != nil {
		return empty, false, scanErr
	}

	return loan, true, nil
}

// ExistsOutstandingByBook reports whether the book currently has an
// unreturned loan. This is the read side of the single-outstanding-loan
// rule; the partial unique index created by CreateSchema closes the gap
// between this check and the following insert.
func (s LoanStore) ExistsOutstandingByBook(ctx context.Context, book library.Book) (bool, error) {
	countStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(goqu.COUNT(goqu.Star())).
		Where(
			goqu.C(colBookID).Eq(book.ID),
			goqu.C(colReturned).IsFalse(),
		)

	sqlQuery, _, toSQLErr := countStmt.ToSQL()
	if toSQLErr != nil {
		return false, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	count, countErr := s.scanCount(ctx, opCountOutstanding, sqlQuery)
	if countErr != nil {
		return false, countErr
	}

	return count > 0, nil
}

// FindByBookISBNOrCustomer returns the page of loans whose book has the given
// ISBN or whose customer matches - the union, not the intersection. Empty
// filter fields constrain nothing; a fully empty filter returns all loans.
func (s LoanStore) FindByBookISBNOrCustomer(ctx context.Context, isbn string, customer string, page library.PageRequest) (library.Page[library.Loan], error) {
	expressions := make([]goqu.Expression, 0, 2)

	if isbn != "" {
		expressions = append(expressions, s.bookCol(colISBN).Eq(isbn))
	}

	if customer != "" {
		expressions = append(expressions, s.loanCol(colCustomer).Eq(customer))
	}

	var where goqu.Expression = goqu.And()
	if len(expressions) > 0 {
		where = goqu.Or(expressions...)
	}

	return s.findPage(ctx, where, page)
}

// FindByBook returns the page of loans referencing the given book.
func (s LoanStore) FindByBook(ctx context.Context, book library.Book, page library.PageRequest) (library.Page[library.Loan], error) {
	return s.findPage(ctx, s.loanCol(colBookID).Eq(book.ID), page)
}

// FindOverdue returns every unreturned loan with a loan date on or before the
// cutoff, oldest first. The result is unpaginated: it feeds the periodic scan,
// not a user-facing listing.
func (s LoanStore) FindOverdue(ctx context.Context, cutoff time.Time) ([]library.Loan, error) {
	selectStmt := s.selectJoined().
		Where(
			s.loanCol(colLoanDate).Lte(library.DateOnly(cutoff)),
			s.loanCol(colReturned).IsFalse(),
		).
		Order(s.loanCol(colID).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return nil, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := s.query(ctx, opListOverdue, sqlQuery)
	if queryErr != nil {
		return nil, queryErr
	}
	defer s.closeRows(rows)

	loans := make([]library.Loan, 0)

	for rows.Next() {
		loan, scanErr := s.scanLoan(rows)
		if scanErr != nil {
			return nil, scanErr
		}

		loans = append(loans, loan)
	}

	return loans, nil
}

func (s LoanStore) findPage(ctx context.Context, where goqu.Expression, page library.PageRequest) (library.Page[library.Loan], error) {
	var empty library.Page[library.Loan]

	countStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		InnerJoin(goqu.T(s.booksTableName), s.joinCondition()).
		Select(goqu.COUNT(goqu.Star())).
		Where(where)

	countSQL, _, countSQLErr := countStmt.ToSQL()
	if countSQLErr != nil {
		return empty, errors.Join(library.ErrBuildingQueryFailed, countSQLErr)
	}

	total, countErr := s.scanCount(ctx, opCountLoans, countSQL)
	if countErr != nil {
		return empty, countErr
	}

	selectStmt := s.selectJoined().
		Where(where).
		Order(s.loanCol(colID).Asc()).
		Limit(uint(page.Size)).
		Offset(uint(page.Offset()))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return empty, errors.Join(library.ErrBuildingQueryFailed, toSQLErr)
	}

	rows, queryErr := s.query(ctx, opListLoans, sqlQuery)
	if queryErr != nil {
		return empty, queryErr
	}
	defer s.closeRows(rows)

	content := make([]library.Loan, 0, page.Size)

	for rows.Next() {
		loan, scanErr := s.scanLoan(rows)
		if scanErr != nil {
			return empty, scanErr
		}

		content = append(content, loan)
	}

	return library.Page[library.Loan]{
		Content:       content,
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: total,
	}, nil
}

// selectJoined builds the SELECT every loan read shares: loans joined with
// their book, columns in scanLoan order.
func (s LoanStore) selectJoined() *goqu.SelectDataset {
	return goqu.Dialect(dialectPostgres).
		From(s.tableName).
		InnerJoin(goqu.T(s.booksTableName), s.joinCondition()).
		Select(
			s.loanCol(colID),
			s.loanCol(colCustomer),
			s.loanCol(colCustomerEmail),
			s.loanCol(colLoanDate),
			s.loanCol(colReturned),
			s.bookCol(colID),
			s.bookCol(colTitle),
			s.bookCol(colAuthor),
			s.bookCol(colISBN),
		)
}

func (s LoanStore) joinCondition() exp.JoinCondition {
	return goqu.On(s.loanCol(colBookID).Eq(s.bookCol(colID)))
}

func (s LoanStore) loanCol(column string) exp.IdentifierExpression {
	return goqu.I(s.tableName + "." + column)
}

func (s LoanStore) bookCol(column string) exp.IdentifierExpression {
	return goqu.I(s.booksTableName + "." + column)
}

func (s LoanStore) scanLoan(rows adapters.DBRows) (library.Loan, error) {
	var loan library.Loan
	var loanDate time.Time
	var returned bool

	scanErr := rows.Scan(
		&loan.ID,
		&loan.Customer,
		&loan.CustomerEmail,
		&loanDate,
		&returned,
		&loan.Book.ID,
		&loan.Book.Title,
		&loan.Book.Author,
		&loan.Book.ISBN,
	)
	if scanErr != nil {
		return library.Loan{}, errors.Join(library.ErrScanningDBRowFailed, scanErr)
	}

	loan.LoanDate = library.DateOnly(loanDate)
	loan.Status = library.StatusFromReturned(returned)

	return loan, nil
}

func (s LoanStore) scanCount(ctx context.Context, operation string, sqlQuery sqlQueryString) (int64, error) {
	rows, queryErr := s.query(ctx, operation, sqlQuery)
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
