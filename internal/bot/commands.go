package bot

import (
	"context"
	"strings"
	"time"

	conversiondomain "github.com/smallbiznis/convtrack/internal/conversion/domain"
	"github.com/smallbiznis/convtrack/internal/notifier"
	"go.uber.org/zap"
)

const helpText = `📋 Commands:
/start - show the action keyboard
/help - this message
/stats_today - today's totals per program and offer
/stats_week - this week's totals
/stats_month - this month's totals`

func (b *Bot) handleCommand(ctx context.Context, text string) {
	command := strings.ToLower(strings.TrimSpace(text))
	if i := strings.Index(command, "@"); i > 0 {
		command = command[:i]
	}

	switch command {
	case "/start":
		b.metrics.IncBotCommand("start")
		b.sendStartKeyboard(ctx)
	case "/help":
		b.metrics.IncBotCommand("help")
		b.reply(ctx, helpText)
	case "/stats_today":
		b.metrics.IncBotCommand("stats_today")
		b.sendGroupedStats(ctx, b.todayStart(), "Stats for today")
	case "/stats_week":
		b.metrics.IncBotCommand("stats_week")
		b.sendGroupedStats(ctx, b.weekStart(), "Stats for this week")
	case "/stats_month":
		b.metrics.IncBotCommand("stats_month")
		b.sendGroupedStats(ctx, b.monthStart(), "Stats for this month")
	}
}

func (b *Bot) handleCallback(ctx context.Context, data string) {
	switch data {
	case "stats_today":
		b.metrics.IncBotCommand("stats_today")
		b.sendGroupedStats(ctx, b.todayStart(), "Stats for today")
	case "stats_month":
		b.metrics.IncBotCommand("stats_month")
		b.sendGroupedStats(ctx, b.monthStart(), "Stats for this month")
	case "mute":
		b.metrics.IncBotCommand("mute")
		b.telegram.SetMuted(true)
		b.reply(ctx, "🔕 Notifications muted.")
	case "unmute":
		b.metrics.IncBotCommand("unmute")
		b.telegram.SetMuted(false)
		b.reply(ctx, "🔔 Notifications enabled.")
	case "help":
		b.metrics.IncBotCommand("help")
		b.reply(ctx, helpText)
	}
}

func (b *Bot) sendStartKeyboard(ctx context.Context) {
	keyboard := &notifier.InlineKeyboardMarkup{
		InlineKeyboard: [][]notifier.InlineKeyboardButton{
			{{Text: "Stats for today", CallbackData: "stats_today"}},
			{{Text: "Stats for this month", CallbackData: "stats_month"}},
			{{Text: "Mute notifications", CallbackData: "mute"}},
			{{Text: "Enable notifications", CallbackData: "unmute"}},
			{{Text: "Help", CallbackData: "help"}},
		},
	}
	if err := b.telegram.SendMessage(ctx, b.telegram.ChatID(), "Choose an action:", keyboard); err != nil {
		b.log.Warn("start keyboard send failed", zap.Error(err))
	}
}

func (b *Bot) sendGroupedStats(ctx context.Context, startDate, title string) {
	rows, err := b.conversionSvc.GroupedReport(ctx, conversiondomain.ReportFilter{StartDate: startDate})
	if err != nil {
		b.reply(ctx, "⚠️ Stats are unavailable right now.")
		return
	}
	if err := b.telegram.NotifyGroupedReport(ctx, rows, title); err != nil {
		b.log.Warn("stats reply failed", zap.Error(err), zap.String("title", title))
	}
}

func (b *Bot) reply(ctx context.Context, text string) {
	if err := b.telegram.SendMessage(ctx, b.telegram.ChatID(), text, nil); err != nil {
		b.log.Warn("reply failed", zap.Error(err))
	}
}

const dateLayout = "2006-01-02"

func (b *Bot) todayStart() string {
	return b.now().Format(dateLayout)
}

// weekStart is the Monday of the current ISO week.
func (b *Bot) weekStart() string {
	now := b.now()
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return now.AddDate(0, 0, -(weekday - 1)).Format(dateLayout)
}

func (b *Bot) monthStart() string {
	now := b.now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}
