package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/convtrack/internal/conversion/domain"
	"github.com/smallbiznis/convtrack/internal/notifier"
	obsmetrics "github.com/smallbiznis/convtrack/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Notifier notifier.Notifier
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	notifier notifier.Notifier
	metrics  *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("conversion.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		notifier: p.Notifier,
		metrics:  p.Metrics,
	}
}

// Ingest appends the record, then pushes the notification. Neither side
// effect depends on the other succeeding: a storage failure still notifies,
// a delivery failure still leaves the stored row in place.
func (s *Service) Ingest(ctx context.Context, conversion domain.Conversion) domain.IngestResult {
	conversion.ID = s.genID.Generate()
	conversion.CreatedAt = time.Now().UTC()

	result := domain.IngestResult{ID: conversion.ID}

	if err := s.repo.Insert(ctx, s.db, &conversion); err != nil {
		s.metrics.IncStoreFailure()
		s.log.Error("conversion append failed",
			zap.Error(err),
			zap.String("program_name", conversion.ProgramName),
			zap.String("offer_id", conversion.OfferID),
			zap.String("conversion_id", conversion.ConversionID),
		)
	} else {
		result.Stored = true
		s.metrics.IncConversionStored()
	}

	if err := s.notifier.Notify(ctx, conversion); err != nil {
		s.metrics.IncNotification(obsmetrics.OutcomeFailed)
		s.log.Error("conversion notification failed",
			zap.Error(err),
			zap.String("offer_id", conversion.OfferID),
			zap.String("conversion_id", conversion.ConversionID),
		)
	} else {
		result.Notified = true
		s.metrics.IncNotification(obsmetrics.OutcomeSent)
	}

	return result
}

func (s *Service) GroupedReport(ctx context.Context, filter domain.ReportFilter) ([]domain.GroupTotal, error) {
	totals, err := s.repo.GroupTotals(ctx, s.db, filter)
	if err != nil {
		s.log.Error("grouped report query failed", zap.Error(err))
		return nil, err
	}
	return totals, nil
}

func (s *Service) StatusReport(ctx context.Context, startDate, endDate string) (domain.StatusSummary, error) {
	summary, err := s.repo.StatusSummary(ctx, s.db, startDate, endDate)
	if err != nil {
		s.log.Error("status report query failed", zap.Error(err))
		return domain.StatusSummary{}, err
	}
	return summary, nil
}
