package service

import (
	"context"

	"github.com/bookhaven/libraryapi/library"
)

// Notifier delivers a message to a list of recipients. Per-recipient
// delivery failures stay inside the implementation; the scan only sees a
// single error, and even that is logged rather than propagated.
type Notifier interface {
	Notify(ctx context.Context, subject string, recipients []string) error
}

// LogNotifier is the default Notifier: it writes the would-be notification
// to the log. Wire a real mail transport in its place when one is available.
type LogNotifier struct {
	logger library.Logger
}

// NewLogNotifier creates a Notifier that logs instead of delivering.
func NewLogNotifier(logger library.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the subject and recipient count.
func (n *LogNotifier) Notify(_ context.Context, subject string, recipients []string) error {
	if n.logger != nil {
		n.logger.Info("notification dispatched", "subject", subject, "recipient_count", len(recipients))
	}

	return nil
}

var _ Notifier = (*LogNotifier)(nil)
