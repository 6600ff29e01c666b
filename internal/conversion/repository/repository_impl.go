package repository

import (
	"context"

	"github.com/smallbiznis/convtrack/internal/conversion/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, conversion *domain.Conversion) error {
	return db.WithContext(ctx).Create(conversion).Error
}

func (r *repo) GroupTotals(ctx context.Context, db *gorm.DB, filter domain.ReportFilter) ([]domain.GroupTotal, error) {
	var totals []domain.GroupTotal
	stmt := db.WithContext(ctx).
		Model(&domain.Conversion{}).
		Select("program_name, offer_id, COALESCE(SUM(revenue), 0) AS revenue, COUNT(*) AS count")
	stmt = applyFilter(stmt, filter)
	err := stmt.
		Group("program_name, offer_id").
		Order("program_name, offer_id").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *repo) StatusSummary(ctx context.Context, db *gorm.DB, startDate, endDate string) (domain.StatusSummary, error) {
	var summary domain.StatusSummary
	stmt := db.WithContext(ctx).
		Model(&domain.Conversion{}).
		Select(`COUNT(*) AS count,
		        COALESCE(SUM(revenue), 0) AS revenue,
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS approved,
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending,
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS rejected`,
			domain.StatusApproved,
			domain.StatusPending,
			domain.StatusRejected,
		)
	stmt = applyFilter(stmt, domain.ReportFilter{StartDate: startDate, EndDate: endDate})
	if err := stmt.Scan(&summary).Error; err != nil {
		return domain.StatusSummary{}, err
	}
	return summary, nil
}

// applyFilter narrows by the optional report filter fields. Date bounds are
// inclusive lexicographic comparisons on conversion_date.
func applyFilter(stmt *gorm.DB, filter domain.ReportFilter) *gorm.DB {
	if filter.StartDate != "" {
		stmt = stmt.Where("conversion_date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		stmt = stmt.Where("conversion_date <= ?", filter.EndDate)
	}
	if filter.OfferID != "" {
		stmt = stmt.Where("offer_id = ?", filter.OfferID)
	}
	if filter.ProgramName != "" {
		stmt = stmt.Where("program_name = ?", filter.ProgramName)
	}
	return stmt
}
