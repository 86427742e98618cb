package memorystore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bookhaven/libraryapi/library"
)

// LoanStore is an in-memory implementation of the loan store contract.
type LoanStore struct {
	mu     sync.Mutex
	nextID int64
	loans  map[int64]library.Loan
}

// NewLoanStore creates an empty in-memory loan store.
func NewLoanStore() *LoanStore {
	return &LoanStore{loans: make(map[int64]library.Loan)}
}

func (s *LoanStore) Save(_ context.Context, loan library.Loan) (library.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if loan.ID == 0 {
		s.nextID++
		loan.ID = s.nextID
		s.loans[loan.ID] = loan

		return loan, nil
	}

	if _, exists := s.loans[loan.ID]; !exists {
		return library.Loan{}, library.ErrNoRowsAffected
	}

	s.loans[loan.ID] = loan

	return loan, nil
}

func (s *LoanStore) FindByID(_ context.Context, id int64) (library.Loan, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, found := s.loans[id]

	return loan, found, nil
}

func (s *LoanStore) ExistsOutstandingByBook(_ context.Context, book library.Book) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, loan := range s.loans {
		if loan.Book.ID == book.ID && !loan.Status.Returned() {
			return true, nil
		}
	}

	return false, nil
}

func (s *LoanStore) FindByBookISBNOrCustomer(_ context.Context, isbn string, customer string, page library.PageRequest) (library.Page[library.Loan], error) {
	return s.findPage(page, func(loan library.Loan) bool {
		if isbn == "" && customer == "" {
			return true
		}

		return (isbn != "" && loan.Book.ISBN == isbn) || (customer != "" && loan.Customer == customer)
	})
}

func (s *LoanStore) FindByBook(_ context.Context, book library.Book, page library.PageRequest) (library.Page[library.Loan], error) {
	return s.findPage(page, func(loan library.Loan) bool {
		return loan.Book.ID == book.ID
	})
}

func (s *LoanStore) FindOverdue(_ context.Context, cutoff time.Time) ([]library.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff = library.DateOnly(cutoff)
	overdue := make([]library.Loan, 0)

	for _, loan := range s.loans {
		if !loan.Status.Returned() && !loan.LoanDate.After(cutoff) {
			overdue = append(overdue, loan)
		}
	}

	sort.Slice(overdue, func(i, j int) bool { return overdue[i].ID < overdue[j].ID })

	return overdue, nil
}

func (s *LoanStore) findPage(page library.PageRequest, matches func(library.Loan) bool) (library.Page[library.Loan], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matching := make([]library.Loan, 0, len(s.loans))

	for _, loan := range s.loans {
		if matches(loan) {
			matching = append(matching, loan)
		}
	}

	sort.Slice(matching, func(i, j int) bool { return matching[i].ID < matching[j].ID })

	return library.Page[library.Loan]{
		Content:       pageSlice(matching, page),
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: int64(len(matching)),
	}, nil
}
