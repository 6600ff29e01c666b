package bot

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/smallbiznis/convtrack/internal/config"
	conversiondomain "github.com/smallbiznis/convtrack/internal/conversion/domain"
	"github.com/smallbiznis/convtrack/internal/notifier"
	obsmetrics "github.com/smallbiznis/convtrack/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Bot serves the Telegram command surface over a getUpdates long poll. Only
// updates from the configured chat are honored.
type Bot struct {
	cfg           config.Config
	log           *zap.Logger
	telegram      *notifier.Telegram
	conversionSvc conversiondomain.Service
	metrics       *obsmetrics.Metrics

	pollTimeout time.Duration
	now         func() time.Time
}

type Params struct {
	fx.In

	Cfg           config.Config
	Log           *zap.Logger
	Telegram      *notifier.Telegram
	ConversionSvc conversiondomain.Service
	Metrics       *obsmetrics.Metrics `optional:"true"`
}

func New(p Params) *Bot {
	pollTimeout := p.Cfg.BotPollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 25 * time.Second
	}
	return &Bot{
		cfg:           p.Cfg,
		log:           p.Log.Named("bot"),
		telegram:      p.Telegram,
		conversionSvc: p.ConversionSvc,
		metrics:       p.Metrics,
		pollTimeout:   pollTimeout,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Run polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := b.telegram.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			b.log.Warn("getUpdates failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update notifier.Update) {
	switch {
	case update.Message != nil:
		if !b.fromConfiguredChat(update.Message.Chat) {
			return
		}
		b.handleCommand(ctx, update.Message.Text)
	case update.CallbackQuery != nil:
		if update.CallbackQuery.Message != nil && !b.fromConfiguredChat(update.CallbackQuery.Message.Chat) {
			return
		}
		if err := b.telegram.AnswerCallbackQuery(ctx, update.CallbackQuery.ID); err != nil {
			b.log.Warn("answerCallbackQuery failed", zap.Error(err))
		}
		b.handleCallback(ctx, update.CallbackQuery.Data)
	}
}

func (b *Bot) fromConfiguredChat(chat notifier.Chat) bool {
	return strconv.FormatInt(chat.ID, 10) == b.cfg.TelegramChatID
}

// Module starts the poll loop when credentials are configured.
var Module = fx.Module("bot",
	fx.Provide(New),
	fx.Invoke(run),
)

func run(lc fx.Lifecycle, cfg config.Config, b *Bot, log *zap.Logger) {
	if !cfg.BotPollEnabled || !cfg.TelegramEnabled() {
		log.Info("bot polling disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				b.Run(ctx)
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
