package notifier

import (
	"context"

	"github.com/smallbiznis/convtrack/internal/conversion/domain"
)

// Notifier delivers formatted conversion notifications and reports to the
// configured chat destination. Every method makes at most one send attempt;
// delivery failures are returned to the caller, which logs and drops them.
type Notifier interface {
	Notify(ctx context.Context, conversion domain.Conversion) error
	NotifyGroupedReport(ctx context.Context, rows []domain.GroupTotal, title string) error
	NotifyStatusReport(ctx context.Context, summary domain.StatusSummary, title string) error
}

// NoOp is used when no chat credentials are configured and in tests.
type NoOp struct{}

func (NoOp) Notify(ctx context.Context, conversion domain.Conversion) error { return nil }

func (NoOp) NotifyGroupedReport(ctx context.Context, rows []domain.GroupTotal, title string) error {
	return nil
}

func (NoOp) NotifyStatusReport(ctx context.Context, summary domain.StatusSummary, title string) error {
	return nil
}
