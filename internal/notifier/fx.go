package notifier

import (
	"github.com/smallbiznis/convtrack/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("notifier",
	fx.Provide(NewTelegram),
	fx.Provide(ProvideNotifier),
)

// ProvideNotifier falls back to the NoOp provider when no bot credentials are
// configured, so the webhook keeps storing conversions either way.
func ProvideNotifier(cfg config.Config, telegram *Telegram, log *zap.Logger) Notifier {
	if !cfg.TelegramEnabled() {
		log.Warn("telegram credentials missing, notifications disabled")
		return NoOp{}
	}
	return telegram
}
