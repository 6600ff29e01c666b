package domain

import "context"

type Service interface {
	// Ingest appends the record and pushes the notification. The two side
	// effects are attempted independently; a failure in either is logged and
	// reflected in the result, never returned as an error.
	Ingest(ctx context.Context, conversion Conversion) IngestResult

	GroupedReport(ctx context.Context, filter ReportFilter) ([]GroupTotal, error)
	StatusReport(ctx context.Context, startDate, endDate string) (StatusSummary, error)
}
