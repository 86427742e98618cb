package library

import (
	"strings"
	"time"
)

// LoanStatus replaces the nullable boolean the original data kept for the
// "returned" flag: a loan is either still out or it has been returned.
type LoanStatus int

const (
	LoanOutstanding LoanStatus = iota
	LoanReturned
)

func (s LoanStatus) String() string {
	if s == LoanReturned {
		return "returned"
	}

	return "outstanding"
}

// Returned reports whether the loan has been given back.
func (s LoanStatus) Returned() bool {
	return s == LoanReturned
}

// StatusFromReturned maps the wire/storage boolean onto the enum.
func StatusFromReturned(returned bool) LoanStatus {
	if returned {
		return LoanReturned
	}

	return LoanOutstanding
}

// Loan records one lending of a book to a customer. A loan references exactly
// one book; at most one loan per book may be outstanding at any instant
// (enforced by the LoanService check plus a partial unique index in storage).
type Loan struct {
	ID            int64
	Book          Book
	Customer      string
	CustomerEmail string
	LoanDate      time.Time // calendar date, always normalized via DateOnly
	Status        LoanStatus
}

// LoanFilter matches loans whose book ISBN equals ISBN OR whose customer
// equals Customer. The OR is intentional and part of the query contract.
type LoanFilter struct {
	ISBN     string
	Customer string
}

// IsEmpty reports whether the filter constrains nothing.
func (f LoanFilter) IsEmpty() bool {
	return f.ISBN == "" && f.Customer == ""
}

// ValidateNewLoan checks the required fields for loan creation.
func ValidateNewLoan(loan Loan) error {
	ve := &ValidationError{}

	if strings.TrimSpace(loan.Customer) == "" {
		ve.add("customer is required")
	}

	if loan.Book.ID == 0 {
		ve.add("book is required")
	}

	return ve.orNil()
}

// DateOnly truncates a timestamp to its UTC calendar date. Loan dates are
// calendar dates; comparing them at any finer granularity would make the
// overdue cutoff ambiguous.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
