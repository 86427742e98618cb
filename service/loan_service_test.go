package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/libraryapi/library"
	"github.com/bookhaven/libraryapi/service"
	"github.com/bookhaven/libraryapi/testutil/memorystore"
)

var fixedClock = func() time.Time {
	return time.Date(2024, time.June, 15, 13, 45, 0, 0, time.UTC)
}

func newLoanService() (*service.LoanService, *memorystore.LoanStore) {
	store := memorystore.NewLoanStore()
	return service.NewLoanService(store, service.WithLoanClock(fixedClock)), store
}

func someBook() library.Book {
	return library.Book{ID: 1, Title: "Teste", Author: "Teste", ISBN: "1234"}
}

func Test_LoanService_Create_StampsDateAndStatus(t *testing.T) {
	// arrange
	ctx := context.Background()
	svc, _ := newLoanService()

	// act
	created, err := svc.Create(ctx, library.Loan{Book: someBook(), Customer: "Will"})

	// assert
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, library.LoanOutstanding, created.Status)
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), created.LoanDate)
}

func Test_LoanService_Create_RejectsSecondOutstandingLoan(t *testing.T) {
	// arrange
	ctx := context.Background()
	svc, _ := newLoanService()

	_, err := svc.Create(ctx, library.Loan{Book: someBook(), Customer: "Will"})
	require.NoError(t, err)

	// act
	_, err = svc.Create(ctx, library.Loan{Book: someBook(), Customer: "Someone Else"})

	// assert
	assert.ErrorIs(t, err, library.ErrBookAlreadyLoaned)
}

func Test_LoanService_Create_ReleasedAfterReturn(t *testing.T) {
	// arrange
	ctx := context.Background()
	svc, _ := newLoanService()

	first, err := svc.Create(ctx, library.Loan{Book: someBook(), Customer: "Will"})
	require.NoError(t, err)

	first.Status = library.LoanReturned
	_, err = svc.Update(ctx, first)
	require.NoError(t, err)

	// act
	second, err := svc.Create(ctx, library.Loan{Book: someBook(), Customer: "Will"})

	// assert
	require.NoError(t, err, "returning the book releases the invariant")
	assert.NotEqual(t, first.ID, second.ID)
}

func Test_LoanService_Create_OtherBookUnaffected(t *testing.T) {
	// arrange
	ctx := context.Background()
	svc, _ := newLoanService()

	_, err := svc.Create(ctx, library.Loan{Book: someBook(), Customer: "Will"})
	require.NoError(t, err)

	otherBook := library.Book{ID: 2, Title: "Outro", Author: "Outro", ISBN: "5678"}

	// act
	_, err = svc.Create(ctx, library.Loan{Book: otherBook, Customer: "Will"})

	// assert
	assert.NoError(t, err, "the invariant is per book, not per customer")
}

func Test_LoanService_Create_RejectsMissingCustomer(t *testing.T) {
	// arrange
	ctx := context.Background()
	svc, _ := newLoanService()

	// act
	_, err := svc.Create(ctx, library.Loan{Book: someBook()})

	// assert
	var validationErr *library.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func Test_LoanService_Update_ReturnIsIdempotent(t *testing.T) {
	// arrange
	ctx := context.Background()
	svc, _ := newLoanService()

	loan, err := svc.Create(ctx, library.Loan{Book: someBook(), Customer: "Will"})
	require.NoError(t, err)

	loan.Status = library.LoanReturned

	// act
	_, err = svc.Update(ctx, loan)
	require.NoError(t, err)
	_, err = svc.Update(ctx, loan)

	// assert
	require.NoError(t, err, "returning twice is a no-op, not an error")

	stored, found, getErr := svc.GetByID(ctx, loan.ID)
	require.NoError(t, getErr)
	require.True(t, found)
	assert.Equal(t, library.LoanReturned, stored.Status)
}

func Test_LoanService_Update_RequiresID(t *testing.T) {
	// arrange
	ctx := context.Background()
	svc, _ := newLoanService()

	// act
	_, err := svc.Update(ctx, library.Loan{Book: someBook(), Customer: "Will"})

	// assert
	assert.ErrorIs(t, err, library.ErrMissingID)
}

func Test_LoanService_Find_ORSemantics(t *testing.T) {
	// arrange
	ctx := context.Background()
	svc, _ := newLoanService()

	bookA := library.Book{ID: 1, ISBN: "1111"}
	bookB := library.Book{ID: 2, ISBN: "2222"}
	bookC := library.Book{ID: 3, ISBN: "3333"}

	_, err := svc.Create(ctx, library.Loan{Book: bookA, Customer: "Will"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, library.Loan{Book: bookB, Customer: "Anna"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, library.Loan{Book: bookC, Customer: "Cleo"})
	require.NoError(t, err)

	// act: isbn of Anna's book OR customer Will - the union, not the intersection
	page, err := svc.Find(ctx, library.LoanFilter{ISBN: "2222", Customer: "Will"}, library.NewPageRequest(0, 10))

	// assert
	require.NoError(t, err)
	require.Len(t, page.Content, 2)

	customers := []string{page.Content[0].Customer, page.Content[1].Customer}
	assert.Contains(t, customers, "Will")
	assert.Contains(t, customers, "Anna")
	assert.Equal(t, int64(2), page.TotalElements)
}

func Test_LoanService_Find_PaginationEchoesRequest(t *testing.T) {
	// arrange
	ctx := context.Background()
	svc, _ := newLoanService()

	for i := int64(1); i <= 5; i++ {
		book := library.Book{ID: i, ISBN: "isbn"}
		_, err := svc.Create(ctx, library.Loan{Book: book, Customer: "Will"})
		require.NoError(t, err)
	}

	// act
	page, err := svc.Find(ctx, library.LoanFilter{Customer: "Will"}, library.NewPageRequest(1, 2))

	// assert
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 2, page.Size)
	assert.Equal(t, int64(5), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages())
}

func Test_LoanService_LoansByBook(t *testing.T) {
	// arrange
	ctx := context.Background()
	svc, _ := newLoanService()

	book := someBook()

	loan, err := svc.Create(ctx, library.Loan{Book: book, Customer: "Will"})
	require.NoError(t, err)

	loan.Status = library.LoanReturned
	_, err = svc.Update(ctx, loan)
	require.NoError(t, err)

	_, err = svc.Create(ctx, library.Loan{Book: book, Customer: "Anna"})
	require.NoError(t, err)

	// act
	page, err := svc.LoansByBook(ctx, book, library.NewPageRequest(0, 10))

	// assert
	require.NoError(t, err)
	assert.Len(t, page.Content, 2, "loans-by-book spans returned and outstanding loans")
}
