package service

import (
	"context"
	"time"

	"github.com/bookhaven/libraryapi/library"
)

const (
	// DefaultOverdueThresholdDays is how many days a loan may be out before
	// the scan flags it for follow-up.
	DefaultOverdueThresholdDays = 3

	// DefaultOverdueSubject is the notification subject for overdue loans.
	DefaultOverdueSubject = "Book with overdue loan"
)

// OverdueLoanStore is the read-only slice of the loan store the scan needs.
type OverdueLoanStore interface {
	FindOverdue(ctx context.Context, cutoff time.Time) ([]library.Loan, error)
}

// OverdueScanner periodically looks for loans that have been outstanding
// longer than the threshold and hands the customers' addresses to the
// notifier. The scan only reads; it never mutates loans, and notifier
// failures never fail a scan.
type OverdueScanner struct {
	loans         OverdueLoanStore
	notifier      Notifier
	logger        library.Logger
	thresholdDays int
	subject       string
	now           func() time.Time
}

// OverdueScannerOption configures an OverdueScanner.
type OverdueScannerOption func(*OverdueScanner)

// WithOverdueThresholdDays sets how many days a loan may be out before it
// counts as overdue.
func WithOverdueThresholdDays(days int) OverdueScannerOption {
	return func(s *OverdueScanner) {
		s.thresholdDays = days
	}
}

// WithOverdueSubject sets the notification subject.
func WithOverdueSubject(subject string) OverdueScannerOption {
	return func(s *OverdueScanner) {
		s.subject = subject
	}
}

// WithOverdueLogger sets the logger for the scanner.
func WithOverdueLogger(logger library.Logger) OverdueScannerOption {
	return func(s *OverdueScanner) {
		s.logger = logger
	}
}

// WithOverdueClock replaces the clock used to compute the cutoff date.
func WithOverdueClock(now func() time.Time) OverdueScannerOption {
	return func(s *OverdueScanner) {
		s.now = now
	}
}

// NewOverdueScanner creates an OverdueScanner with optional configuration.
func NewOverdueScanner(loans OverdueLoanStore, notifier Notifier, options ...OverdueScannerOption) *OverdueScanner {
	s := &OverdueScanner{
		loans:         loans,
		notifier:      notifier,
		thresholdDays: DefaultOverdueThresholdDays,
		subject:       DefaultOverdueSubject,
		now:           time.Now,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Cutoff returns the loan date at or before which an unreturned loan counts
// as overdue: today minus the threshold.
func (s *OverdueScanner) Cutoff() time.Time {
	return library.DateOnly(s.now()).AddDate(0, 0, -s.thresholdDays)
}

// ScanOnce runs a single scan: fetch overdue unreturned loans and notify
// their customers. Only the store read can fail the scan; a failing notifier
// is logged and swallowed.
func (s *OverdueScanner) ScanOnce(ctx context.Context) error {
	overdue, findErr := s.loans.FindOverdue(ctx, s.Cutoff())
	if findErr != nil {
		return findErr
	}

	s.log("overdue scan completed", "overdue_count", len(overdue))

	if len(overdue) == 0 {
		return nil
	}

	recipients := make([]string, 0, len(overdue))

	for _, loan := range overdue {
		if loan.CustomerEmail == "" {
			continue
		}

		recipients = append(recipients, loan.CustomerEmail)
	}

	if len(recipients) == 0 {
		return nil
	}

	if notifyErr := s.notifier.Notify(ctx, s.subject, recipients); notifyErr != nil {
		if s.logger != nil {
			s.logger.Warn("overdue notification failed", "error", notifyErr.Error())
		}
	}

	return nil
}

// Run scans once per interval until the context is canceled. Scan failures
// are logged and the loop keeps running; the next tick gets a fresh chance.
func (s *OverdueScanner) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if err := s.ScanOnce(ctx); err != nil {
				if s.logger != nil {
					s.logger.Error("overdue scan failed", "error", err.Error())
				}
			}
		}
	}
}

func (s *OverdueScanner) log(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, args...)
	}
}
