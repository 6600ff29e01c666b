package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smallbiznis/convtrack/internal/config"
	conversiondomain "github.com/smallbiznis/convtrack/internal/conversion/domain"
	"github.com/smallbiznis/convtrack/internal/notifier"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type reportStub struct {
	filters []conversiondomain.ReportFilter
	rows    []conversiondomain.GroupTotal
	err     error
}

func (s *reportStub) Ingest(ctx context.Context, conversion conversiondomain.Conversion) conversiondomain.IngestResult {
	return conversiondomain.IngestResult{}
}

func (s *reportStub) GroupedReport(ctx context.Context, filter conversiondomain.ReportFilter) ([]conversiondomain.GroupTotal, error) {
	s.filters = append(s.filters, filter)
	return s.rows, s.err
}

func (s *reportStub) StatusReport(ctx context.Context, startDate, endDate string) (conversiondomain.StatusSummary, error) {
	return conversiondomain.StatusSummary{}, s.err
}

type sentMessage struct {
	Text string `json:"text"`
}

func newTestBot(t *testing.T, svc conversiondomain.Service, sent *[]string) *Bot {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/sendMessage") {
			var msg sentMessage
			_ = json.NewDecoder(r.Body).Decode(&msg)
			*sent = append(*sent, msg.Text)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "result": []any{}})
	}))
	t.Cleanup(srv.Close)

	cfg := config.Config{
		TelegramBotToken:  "test-token",
		TelegramChatID:    "12345",
		TelegramAPIURL:    srv.URL,
		TelegramParseMode: config.ParseModePlain,
		TelegramTimeout:   5 * time.Second,
		BotPollTimeout:    time.Second,
	}
	b := New(Params{
		Cfg:           cfg,
		Log:           zap.NewNop(),
		Telegram:      notifier.NewTelegram(cfg, zap.NewNop()),
		ConversionSvc: svc,
	})
	b.now = func() time.Time {
		// Wednesday, May 15th
		return time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)
	}
	return b
}

func TestDateRanges(t *testing.T) {
	b := newTestBot(t, &reportStub{}, &[]string{})

	assert.Equal(t, "2024-05-15", b.todayStart())
	assert.Equal(t, "2024-05-13", b.weekStart())
	assert.Equal(t, "2024-05-01", b.monthStart())
}

func TestWeekStartOnSunday(t *testing.T) {
	b := newTestBot(t, &reportStub{}, &[]string{})
	b.now = func() time.Time {
		return time.Date(2024, 5, 19, 8, 0, 0, 0, time.UTC) // Sunday
	}
	assert.Equal(t, "2024-05-13", b.weekStart())
}

func TestStatsTodayCommand(t *testing.T) {
	stub := &reportStub{rows: []conversiondomain.GroupTotal{
		{ProgramName: "A", OfferID: "1", Revenue: 15, Count: 2},
	}}
	var sent []string
	b := newTestBot(t, stub, &sent)

	b.handleCommand(context.Background(), "/stats_today")

	assert.Equal(t, []conversiondomain.ReportFilter{{StartDate: "2024-05-15"}}, stub.filters)
	assert.Len(t, sent, 1)
	assert.Contains(t, sent[0], "Stats for today")
	assert.Contains(t, sent[0], "A / offer 1")
}

func TestStatsMonthCommandWithBotSuffix(t *testing.T) {
	stub := &reportStub{}
	var sent []string
	b := newTestBot(t, stub, &sent)

	b.handleCommand(context.Background(), "/stats_month@convtrack_bot")

	assert.Equal(t, []conversiondomain.ReportFilter{{StartDate: "2024-05-01"}}, stub.filters)
	assert.Len(t, sent, 1)
	assert.Equal(t, notifier.NoDataMessage, sent[0])
}

func TestHelpCommand(t *testing.T) {
	var sent []string
	b := newTestBot(t, &reportStub{}, &sent)

	b.handleCommand(context.Background(), "/help")

	assert.Len(t, sent, 1)
	assert.Contains(t, sent[0], "/stats_today")
}

func TestUnknownCommandIgnored(t *testing.T) {
	var sent []string
	b := newTestBot(t, &reportStub{}, &sent)

	b.handleCommand(context.Background(), "hello there")
	b.handleCommand(context.Background(), "/unknown")

	assert.Empty(t, sent)
}

func TestMuteUnmuteCallbacks(t *testing.T) {
	var sent []string
	b := newTestBot(t, &reportStub{}, &sent)

	b.handleCallback(context.Background(), "mute")
	assert.True(t, b.telegram.Muted())

	b.handleCallback(context.Background(), "unmute")
	assert.False(t, b.telegram.Muted())

	assert.Len(t, sent, 2)
	assert.Contains(t, sent[0], "muted")
	assert.Contains(t, sent[1], "enabled")
}

func TestUpdatesFromOtherChatsIgnored(t *testing.T) {
	stub := &reportStub{}
	var sent []string
	b := newTestBot(t, stub, &sent)

	b.handleUpdate(context.Background(), notifier.Update{
		Message: &notifier.Message{Text: "/stats_today", Chat: notifier.Chat{ID: 999}},
	})

	assert.Empty(t, stub.filters)
	assert.Empty(t, sent)
}
