package library_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/libraryapi/library"
)

func Test_ValidateNewBook_Success(t *testing.T) {
	// arrange
	book := library.Book{Title: "Domain-Driven Design", Author: "Eric Evans", ISBN: "978-0321125217"}

	// act
	err := library.ValidateNewBook(book)

	// assert
	assert.NoError(t, err)
}

func Test_ValidateNewBook_ReportsEveryMissingField(t *testing.T) {
	// act
	err := library.ValidateNewBook(library.Book{Title: "   "})

	// assert
	require.Error(t, err)

	var validationErr *library.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.Messages, 3, "blank title plus missing author and isbn")
}

func Test_ValidateNewLoan_Success(t *testing.T) {
	// arrange
	loan := library.Loan{Customer: "Will", Book: library.Book{ID: 1}}

	// act
	err := library.ValidateNewLoan(loan)

	// assert
	assert.NoError(t, err)
}

func Test_ValidateNewLoan_RequiresCustomerAndBook(t *testing.T) {
	// act
	err := library.ValidateNewLoan(library.Loan{})

	// assert
	require.Error(t, err)

	var validationErr *library.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Len(t, validationErr.Messages, 2)
}

func Test_LoanStatus_FromReturnedFlag(t *testing.T) {
	assert.Equal(t, library.LoanReturned, library.StatusFromReturned(true))
	assert.Equal(t, library.LoanOutstanding, library.StatusFromReturned(false))
	assert.True(t, library.LoanReturned.Returned())
	assert.False(t, library.LoanOutstanding.Returned())
}

func Test_DateOnly_TruncatesToUTCCalendarDate(t *testing.T) {
	// arrange
	loc := time.FixedZone("UTC+2", 2*60*60)
	stamp := time.Date(2024, time.March, 1, 1, 30, 0, 0, loc) // 2024-02-29 23:30 UTC

	// act
	date := library.DateOnly(stamp)

	// assert
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), date)
}

func Test_IsBusinessRuleViolation(t *testing.T) {
	assert.True(t, library.IsBusinessRuleViolation(library.ErrDuplicateISBN))
	assert.True(t, library.IsBusinessRuleViolation(library.ErrBookAlreadyLoaned))
	assert.True(t, library.IsBusinessRuleViolation(library.ErrBookNotFoundForISBN))
	assert.False(t, library.IsBusinessRuleViolation(library.ErrMissingID))
	assert.False(t, library.IsBusinessRuleViolation(errors.New("boom")))
}
