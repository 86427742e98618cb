package service

import (
	"context"
	"time"

	"github.com/bookhaven/libraryapi/library"
)

// LoanStore defines the persistence operations the LoanService needs.
type LoanStore interface {
	Save(ctx context.Context, loan library.Loan) (library.Loan, error)
	FindByID(ctx context.Context, id int64) (library.Loan, bool, error)
	ExistsOutstandingByBook(ctx context.Context, book library.Book) (bool, error)
	FindByBookISBNOrCustomer(ctx context.Context, isbn string, customer string, page library.PageRequest) (library.Page[library.Loan], error)
	FindByBook(ctx context.Context, book library.Book, page library.PageRequest) (library.Page[library.Loan], error)
}

// LoanService enforces the single-outstanding-loan rule on creation and
// forwards the remaining operations to the store.
type LoanService struct {
	loans  LoanStore
	logger library.Logger
	now    func() time.Time
}

// LoanServiceOption configures a LoanService.
type LoanServiceOption func(*LoanService)

// WithLoanLogger sets the logger for the LoanService.
func WithLoanLogger(logger library.Logger) LoanServiceOption {
	return func(s *LoanService) {
		s.logger = logger
	}
}

// WithLoanClock replaces the clock used to stamp loan dates. Tests use this
// to make the loan date deterministic.
func WithLoanClock(now func() time.Time) LoanServiceOption {
	return func(s *LoanService) {
		s.now = now
	}
}

// NewLoanService creates a LoanService with optional configuration.
func NewLoanService(loans LoanStore, options ...LoanServiceOption) *LoanService {
	s := &LoanService{
		loans: loans,
		now:   time.Now,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Create validates the loan and persists it with today's date and
// outstanding status. It fails with library.ErrBookAlreadyLoaned while the
// referenced book has an unreturned loan. The check here produces the
// friendly error; the store's partial unique index makes the rule hold
// when two creations race past the check.
func (s *LoanService) Create(ctx context.Context, loan library.Loan) (library.Loan, error) {
	if err := library.ValidateNewLoan(loan); err != nil {
		return library.Loan{}, err
	}

	outstanding, existsErr := s.loans.ExistsOutstandingByBook(ctx, loan.Book)
	if existsErr != nil {
		return library.Loan{}, existsErr
	}

	if outstanding {
		return library.Loan{}, library.ErrBookAlreadyLoaned
	}

	loan.ID = 0 // the store assigns the identity
	loan.LoanDate = library.DateOnly(s.now())
	loan.Status = library.LoanOutstanding

	created, saveErr := s.loans.Save(ctx, loan)
	if saveErr != nil {
		return library.Loan{}, saveErr
	}

	s.log("loan created", "loan_id", created.ID, "book_id", created.Book.ID, "customer", created.Customer)

	return created, nil
}

// GetByID returns the loan, or found=false when no loan has this ID.
func (s *LoanService) GetByID(ctx context.Context, id int64) (library.Loan, bool, error) {
	return s.loans.FindByID(ctx, id)
}

// Update persists the full loan record. Its one caller uses it to flip the
// status to returned; setting an already-returned loan to returned again is
// a no-op, not an error.
func (s *LoanService) Update(ctx context.Context, loan library.Loan) (library.Loan, error) {
	if loan.ID == 0 {
		return library.Loan{}, library.ErrMissingID
	}

	updated, err := s.loans.Save(ctx, loan)
	if err != nil {
		return library.Loan{}, err
	}

	s.log("loan updated", "loan_id", updated.ID, "status", updated.Status.String())

	return updated, nil
}

// Find returns the page of loans matching the filter. The two filter fields
// combine with OR: loans on a book with the given ISBN plus loans by the
// given customer.
func (s *LoanService) Find(ctx context.Context, filter library.LoanFilter, page library.PageRequest) (library.Page[library.Loan], error) {
	return s.loans.FindByBookISBNOrCustomer(ctx, filter.ISBN, filter.Customer, page)
}

// LoansByBook returns the page of loans referencing the given book.
func (s *LoanService) LoansByBook(ctx context.Context, book library.Book, page library.PageRequest) (library.Page[library.Loan], error) {
	return s.loans.FindByBook(ctx, book, page)
}

func (s *LoanService) log(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
