package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/convtrack/internal/conversion/domain"
	"github.com/smallbiznis/convtrack/internal/conversion/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type notifierStub struct {
	mu      sync.Mutex
	calls   int
	lastRec domain.Conversion
	err     error
}

func (n *notifierStub) Notify(ctx context.Context, conversion domain.Conversion) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	n.lastRec = conversion
	return n.err
}

func (n *notifierStub) NotifyGroupedReport(ctx context.Context, rows []domain.GroupTotal, title string) error {
	return n.err
}

func (n *notifierStub) NotifyStatusReport(ctx context.Context, summary domain.StatusSummary, title string) error {
	return n.err
}

func (n *notifierStub) Calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

type failingRepo struct {
	inserts int
}

func (r *failingRepo) Insert(ctx context.Context, db *gorm.DB, conversion *domain.Conversion) error {
	r.inserts++
	return errors.New("disk full")
}

func (r *failingRepo) GroupTotals(ctx context.Context, db *gorm.DB, filter domain.ReportFilter) ([]domain.GroupTotal, error) {
	return nil, errors.New("disk full")
}

func (r *failingRepo) StatusSummary(ctx context.Context, db *gorm.DB, startDate, endDate string) (domain.StatusSummary, error) {
	return domain.StatusSummary{}, errors.New("disk full")
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&domain.Conversion{}))
	return db
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)
	return node
}

func newService(t *testing.T, db *gorm.DB, repo domain.Repository, n *notifierStub) domain.Service {
	t.Helper()
	return New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    mustNode(t),
		Repo:     repo,
		Notifier: n,
	})
}

func TestIngestStoresAndNotifies(t *testing.T) {
	db := newTestDB(t)
	stub := &notifierStub{}
	svc := newService(t, db, repository.Provide(), stub)

	record := domain.Normalize(map[string]string{
		"offer_id":        "42",
		"status":          "approved",
		"revenue":         "12.5",
		"currency":        "USD",
		"conversion_date": "2024-05-01",
	})

	result := svc.Ingest(context.Background(), record)
	assert.True(t, result.Stored)
	assert.True(t, result.Notified)
	assert.Equal(t, 1, stub.Calls())

	var rows []domain.Conversion
	assert.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 1)
	assert.Equal(t, "42", rows[0].OfferID)
	assert.Equal(t, 12.5, rows[0].Revenue)
	assert.Equal(t, "approved", rows[0].Status)
}

func TestIngestStoreFailureStillNotifies(t *testing.T) {
	db := newTestDB(t)
	repo := &failingRepo{}
	stub := &notifierStub{}
	svc := newService(t, db, repo, stub)

	result := svc.Ingest(context.Background(), domain.Normalize(nil))
	assert.False(t, result.Stored)
	assert.True(t, result.Notified)
	assert.Equal(t, 1, repo.inserts)
	assert.Equal(t, 1, stub.Calls())
}

func TestIngestNotifyFailureStillStores(t *testing.T) {
	db := newTestDB(t)
	stub := &notifierStub{err: errors.New("telegram down")}
	svc := newService(t, db, repository.Provide(), stub)

	result := svc.Ingest(context.Background(), domain.Normalize(map[string]string{"offer_id": "9"}))
	assert.True(t, result.Stored)
	assert.False(t, result.Notified)
	assert.Equal(t, 1, stub.Calls())

	var count int64
	assert.NoError(t, db.Model(&domain.Conversion{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func seedReportFixture(t *testing.T, svc domain.Service) {
	t.Helper()
	fixtures := []map[string]string{
		{"program_name": "A", "offer_id": "1", "revenue": "10", "conversion_date": "2024-01-01", "status": "approved"},
		{"program_name": "A", "offer_id": "1", "revenue": "5", "conversion_date": "2024-01-02", "status": "pending"},
		{"program_name": "B", "offer_id": "2", "revenue": "7", "conversion_date": "2024-01-01", "status": "rejected"},
	}
	for _, fixture := range fixtures {
		result := svc.Ingest(context.Background(), domain.Normalize(fixture))
		assert.True(t, result.Stored)
	}
}

func TestGroupedReport(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, repository.Provide(), &notifierStub{})
	seedReportFixture(t, svc)

	groups, err := svc.GroupedReport(context.Background(), domain.ReportFilter{})
	assert.NoError(t, err)
	assert.Equal(t, []domain.GroupTotal{
		{ProgramName: "A", OfferID: "1", Revenue: 15, Count: 2},
		{ProgramName: "B", OfferID: "2", Revenue: 7, Count: 1},
	}, groups)
}

func TestGroupedReportDateFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, repository.Provide(), &notifierStub{})
	seedReportFixture(t, svc)

	groups, err := svc.GroupedReport(context.Background(), domain.ReportFilter{StartDate: "2024-01-02"})
	assert.NoError(t, err)
	assert.Equal(t, []domain.GroupTotal{
		{ProgramName: "A", OfferID: "1", Revenue: 5, Count: 1},
	}, groups)
}

func TestGroupedReportOfferFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, repository.Provide(), &notifierStub{})
	seedReportFixture(t, svc)

	groups, err := svc.GroupedReport(context.Background(), domain.ReportFilter{OfferID: "2", ProgramName: "B"})
	assert.NoError(t, err)
	assert.Equal(t, []domain.GroupTotal{
		{ProgramName: "B", OfferID: "2", Revenue: 7, Count: 1},
	}, groups)
}

func TestStatusReport(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, repository.Provide(), &notifierStub{})
	seedReportFixture(t, svc)

	summary, err := svc.StatusReport(context.Background(), "2024-01-01", "2024-01-31")
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusSummary{
		Count:    3,
		Revenue:  22,
		Approved: 1,
		Pending:  1,
		Rejected: 1,
	}, summary)
}

func TestReportQueryFailurePropagates(t *testing.T) {
	db := newTestDB(t)
	svc := newService(t, db, &failingRepo{}, &notifierStub{})

	_, err := svc.GroupedReport(context.Background(), domain.ReportFilter{})
	assert.Error(t, err)

	_, err = svc.StatusReport(context.Background(), "", "")
	assert.Error(t, err)
}
