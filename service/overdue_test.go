package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/libraryapi/library"
	"github.com/bookhaven/libraryapi/service"
	"github.com/bookhaven/libraryapi/testutil/memorystore"
)

type recordingNotifier struct {
	subject    string
	recipients []string
	calls      int
	err        error
}

func (n *recordingNotifier) Notify(_ context.Context, subject string, recipients []string) error {
	n.calls++
	n.subject = subject
	n.recipients = recipients

	return n.err
}

func seedLoan(t *testing.T, store *memorystore.LoanStore, daysAgo int, email string, status library.LoanStatus) {
	t.Helper()

	_, err := store.Save(context.Background(), library.Loan{
		Book:          library.Book{ID: int64(daysAgo + 1), ISBN: "isbn"},
		Customer:      "Customer",
		CustomerEmail: email,
		LoanDate:      library.DateOnly(fixedClock()).AddDate(0, 0, -daysAgo),
		Status:        status,
	})
	require.NoError(t, err)
}

func Test_OverdueScanner_Cutoff(t *testing.T) {
	// arrange
	scanner := service.NewOverdueScanner(
		memorystore.NewLoanStore(),
		&recordingNotifier{},
		service.WithOverdueClock(fixedClock),
	)

	// assert: today is 2024-06-15, default threshold 3 days
	assert.Equal(t, time.Date(2024, time.June, 12, 0, 0, 0, 0, time.UTC), scanner.Cutoff())
}

func Test_OverdueScanner_ScanOnce_NotifiesOverdueCustomers(t *testing.T) {
	// arrange
	store := memorystore.NewLoanStore()
	seedLoan(t, store, 5, "late@example.com", library.LoanOutstanding)     // overdue
	seedLoan(t, store, 3, "boundary@example.com", library.LoanOutstanding) // exactly on the cutoff: overdue
	seedLoan(t, store, 0, "fresh@example.com", library.LoanOutstanding)    // loaned today: not overdue
	seedLoan(t, store, 10, "back@example.com", library.LoanReturned)       // returned: never overdue

	notifier := &recordingNotifier{}
	scanner := service.NewOverdueScanner(store, notifier, service.WithOverdueClock(fixedClock))

	// act
	err := scanner.ScanOnce(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, service.DefaultOverdueSubject, notifier.subject)
	assert.ElementsMatch(t, []string{"late@example.com", "boundary@example.com"}, notifier.recipients)
}

func Test_OverdueScanner_ScanOnce_SkipsLoansWithoutEmail(t *testing.T) {
	// arrange
	store := memorystore.NewLoanStore()
	seedLoan(t, store, 5, "", library.LoanOutstanding)

	notifier := &recordingNotifier{}
	scanner := service.NewOverdueScanner(store, notifier, service.WithOverdueClock(fixedClock))

	// act
	err := scanner.ScanOnce(context.Background())

	// assert
	require.NoError(t, err)
	assert.Zero(t, notifier.calls, "no reachable recipients, nothing to dispatch")
}

func Test_OverdueScanner_ScanOnce_NothingOverdue(t *testing.T) {
	// arrange
	notifier := &recordingNotifier{}
	scanner := service.NewOverdueScanner(memorystore.NewLoanStore(), notifier, service.WithOverdueClock(fixedClock))

	// act
	err := scanner.ScanOnce(context.Background())

	// assert
	require.NoError(t, err)
	assert.Zero(t, notifier.calls)
}

func Test_OverdueScanner_ScanOnce_NotifierFailureIsSwallowed(t *testing.T) {
	// arrange
	store := memorystore.NewLoanStore()
	seedLoan(t, store, 5, "late@example.com", library.LoanOutstanding)

	notifier := &recordingNotifier{err: errors.New("smtp down")}
	scanner := service.NewOverdueScanner(store, notifier, service.WithOverdueClock(fixedClock))

	// act
	err := scanner.ScanOnce(context.Background())

	// assert
	assert.NoError(t, err, "notification failures must not fail the scan")
}

func Test_OverdueScanner_CustomThreshold(t *testing.T) {
	// arrange
	store := memorystore.NewLoanStore()
	seedLoan(t, store, 5, "late@example.com", library.LoanOutstanding)

	notifier := &recordingNotifier{}
	scanner := service.NewOverdueScanner(
		store,
		notifier,
		service.WithOverdueClock(fixedClock),
		service.WithOverdueThresholdDays(7),
	)

	// act
	err := scanner.ScanOnce(context.Background())

	// assert
	require.NoError(t, err)
	assert.Zero(t, notifier.calls, "five days out is within a seven-day threshold")
}

func Test_OverdueScanner_Run_StopsOnContextCancel(t *testing.T) {
	// arrange
	scanner := service.NewOverdueScanner(memorystore.NewLoanStore(), &recordingNotifier{})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})

	go func() {
		scanner.Run(ctx, time.Hour)
		close(done)
	}()

	// act
	cancel()

	// assert
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scanner did not stop after context cancellation")
	}
}
