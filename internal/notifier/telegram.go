package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/smallbiznis/convtrack/internal/config"
	"github.com/smallbiznis/convtrack/internal/conversion/domain"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("telegram_not_configured")

// Telegram delivers messages through the Telegram Bot API. One bounded HTTP
// call per send; no retries, no delivery tracking beyond the returned error.
type Telegram struct {
	baseURL  string
	token    string
	chatID   string
	renderer Renderer
	client   *http.Client
	log      *zap.Logger

	muted atomic.Bool
}

// NewTelegram builds the Bot API client from configuration.
func NewTelegram(cfg config.Config, log *zap.Logger) *Telegram {
	mode := ModeHTML
	if cfg.TelegramParseMode == config.ParseModePlain {
		mode = ModePlain
	}
	timeout := cfg.TelegramTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Telegram{
		baseURL:  cfg.TelegramAPIURL,
		token:    cfg.TelegramBotToken,
		chatID:   cfg.TelegramChatID,
		renderer: Renderer{Mode: mode},
		client:   &http.Client{Timeout: timeout},
		log:      log.Named("notifier.telegram"),
	}
}

// SetMuted toggles suppression of per-conversion notifications. Report
// replies are never suppressed.
func (t *Telegram) SetMuted(muted bool) { t.muted.Store(muted) }

func (t *Telegram) Muted() bool { return t.muted.Load() }

func (t *Telegram) Notify(ctx context.Context, conversion domain.Conversion) error {
	if t.Muted() {
		t.log.Debug("notification muted", zap.String("offer_id", conversion.OfferID))
		return nil
	}
	return t.SendMessage(ctx, t.chatID, t.renderer.Conversion(conversion), nil)
}

func (t *Telegram) NotifyGroupedReport(ctx context.Context, rows []domain.GroupTotal, title string) error {
	return t.SendMessage(ctx, t.chatID, t.renderer.GroupedReport(rows, title), nil)
}

func (t *Telegram) NotifyStatusReport(ctx context.Context, summary domain.StatusSummary, title string) error {
	return t.SendMessage(ctx, t.chatID, t.renderer.StatusReport(summary, title), nil)
}

// Renderer exposes the configured renderer for callers composing their own
// replies (the bot command surface).
func (t *Telegram) Renderer() Renderer { return t.renderer }

// ChatID returns the configured destination chat.
func (t *Telegram) ChatID() string { return t.chatID }

// InlineKeyboardButton is one button of an inline keyboard.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// InlineKeyboardMarkup is the reply_markup payload for sendMessage.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// Update is one long-poll result from getUpdates.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	Data    string   `json:"data"`
	Message *Message `json:"message"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// SendMessage posts one message to the given chat.
func (t *Telegram) SendMessage(ctx context.Context, chatID, text string, keyboard *InlineKeyboardMarkup) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if mode := t.renderer.ParseMode(); mode != "" {
		payload["parse_mode"] = mode
	}
	if keyboard != nil {
		payload["reply_markup"] = keyboard
	}
	_, err := t.call(ctx, "sendMessage", payload)
	return err
}

// GetUpdates long-polls for bot updates past the given offset.
func (t *Telegram) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	seconds := int(timeout / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	result, err := t.call(ctx, "getUpdates", map[string]any{
		"offset":          offset,
		"timeout":         seconds,
		"allowed_updates": []string{"message", "callback_query"},
	})
	if err != nil {
		return nil, err
	}
	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	return updates, nil
}

// AnswerCallbackQuery acknowledges an inline keyboard press.
func (t *Telegram) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	_, err := t.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
	})
	return err
}

func (t *Telegram) call(ctx context.Context, method string, payload map[string]any) (json.RawMessage, error) {
	if t.token == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := t.baseURL + "/bot" + t.token + "/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("telegram %s: status %d: %w", method, resp.StatusCode, err)
	}
	if !apiResp.OK {
		return nil, fmt.Errorf("telegram %s: %s", method, apiResp.Description)
	}
	return apiResp.Result, nil
}
