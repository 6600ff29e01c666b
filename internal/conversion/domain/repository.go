package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, conversion *Conversion) error
	GroupTotals(ctx context.Context, db *gorm.DB, filter ReportFilter) ([]GroupTotal, error)
	StatusSummary(ctx context.Context, db *gorm.DB, startDate, endDate string) (StatusSummary, error)
}
