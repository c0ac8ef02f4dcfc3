package telegram

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/autopost/internal/modules/message/domain"
	apperrors "github.com/reshetovitsme/autopost/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const updateBuffer = 64

// Settings for the Telegram bot
type Settings struct {
	Token string
	// APIURL overrides the Bot API server, e.g. a local bot-api instance.
	APIURL string
	// WebhookURL switches from long polling to webhook delivery.
	WebhookURL    string
	WebhookSecret string
}

// Channel is a message transport backed by the Telegram Bot API.
// Inbound updates are converted and buffered until a consumer reads them.
type Channel struct {
	bot      *bot.Bot
	settings Settings
	updates  chan *domain.Message
	logger   *slog.Logger

	mu      sync.Mutex
	stopped bool
}

// New creates a Telegram channel. Updates are delivered once Start is running.
func New(settings Settings, logger *slog.Logger, extra ...bot.Option) (*Channel, error) {
	if settings.Token == "" {
		return nil, oops.Wrap(apperrors.ErrMissingBotToken)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Channel{
		settings: settings,
		updates:  make(chan *domain.Message, updateBuffer),
		logger:   logger,
	}

	opts := []bot.Option{bot.WithDefaultHandler(c.handleUpdate)}
	if settings.APIURL != "" {
		opts = append(opts, bot.WithServerURL(settings.APIURL))
	}
	if settings.WebhookSecret != "" {
		opts = append(opts, bot.WithWebhookSecretToken(settings.WebhookSecret))
	}
	opts = append(opts, extra...)

	b, err := bot.New(settings.Token, opts...)
	if err != nil {
		return nil, oops.With("context", "failed to create telegram bot").Wrap(authCause(err))
	}
	c.bot = b

	return c, nil
}

// Start receives updates until ctx is done, then closes the update stream.
// Pending updates from before the run are dropped so stale trigger phrases are ignored.
func (c *Channel) Start(ctx context.Context) error {
	defer c.close()

	if c.settings.WebhookURL == "" {
		if _, err := c.bot.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			return apperrors.ChannelFailure(oops.With("context", "failed to reset webhook").Wrap(err))
		}
		c.logger.Info("Telegram long polling started")
		c.bot.Start(ctx)
		return nil
	}

	if _, err := c.bot.SetWebhook(ctx, &bot.SetWebhookParams{
		URL:                c.settings.WebhookURL,
		SecretToken:        c.settings.WebhookSecret,
		DropPendingUpdates: true,
	}); err != nil {
		return apperrors.ChannelFailure(oops.With("webhook_url", c.settings.WebhookURL).Wrap(err))
	}
	c.logger.Info("Telegram webhook registered", "url", c.settings.WebhookURL)
	c.bot.StartWebhook(ctx)
	return nil
}

// WebhookHandler serves webhook deliveries when a webhook URL is configured
func (c *Channel) WebhookHandler() http.Handler {
	return c.bot.WebhookHandler()
}

// Webhook reports whether updates arrive through WebhookHandler
func (c *Channel) Webhook() bool {
	return c.settings.WebhookURL != ""
}

func (c *Channel) Updates() <-chan *domain.Message {
	return c.updates
}

func (c *Channel) Send(ctx context.Context, chatID int64, text string, buttons [][]domain.Button) (int, error) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if markup := keyboard(buttons); markup != nil {
		params.ReplyMarkup = markup
	}

	msg, err := c.bot.SendMessage(ctx, params)
	if err != nil {
		return 0, authCause(err)
	}
	return msg.ID, nil
}

// Edit replaces a message's text. The inline keyboard is dropped because no markup is sent.
func (c *Channel) Edit(ctx context.Context, chatID int64, messageID int, text string) error {
	_, err := c.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
	})
	return authCause(err)
}

func (c *Channel) Acknowledge(ctx context.Context, callbackID, text string) error {
	_, err := c.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	return authCause(err)
}

func (c *Channel) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	msg := convertUpdate(update)
	if msg == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}

	select {
	case c.updates <- msg:
	default:
		c.logger.Warn("Update buffer full, dropping message",
			"chat_id", msg.ChatID,
			"message_id", msg.ID)
	}
}

func (c *Channel) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stopped {
		c.stopped = true
		close(c.updates)
	}
}

// convertUpdate maps text messages and button presses; everything else is ignored.
func convertUpdate(update *models.Update) *domain.Message {
	if update == nil {
		return nil
	}

	if cb := update.CallbackQuery; cb != nil {
		msg := &domain.Message{
			Kind:         domain.KindCallback,
			UserID:       cb.From.ID,
			Username:     cb.From.Username,
			CallbackID:   cb.ID,
			CallbackData: cb.Data,
			Date:         time.Now(),
		}
		switch {
		case cb.Message.Message != nil:
			msg.ChatID = cb.Message.Message.Chat.ID
			msg.ReplyToMessageID = cb.Message.Message.ID
		case cb.Message.InaccessibleMessage != nil:
			msg.ChatID = cb.Message.InaccessibleMessage.Chat.ID
			msg.ReplyToMessageID = cb.Message.InaccessibleMessage.MessageID
		}
		return msg
	}

	m := update.Message
	if m == nil || m.Text == "" {
		return nil
	}

	msg := &domain.Message{
		ID:     m.ID,
		Kind:   domain.KindText,
		ChatID: m.Chat.ID,
		Text:   m.Text,
		Date:   time.Unix(int64(m.Date), 0),
	}
	if m.From != nil {
		msg.UserID = m.From.ID
		msg.Username = m.From.Username
	}
	return msg
}

func keyboard(buttons [][]domain.Button) *models.InlineKeyboardMarkup {
	if len(buttons) == 0 {
		return nil
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: lo.Map(buttons, func(row []domain.Button, _ int) []models.InlineKeyboardButton {
			return lo.Map(row, func(b domain.Button, _ int) models.InlineKeyboardButton {
				return models.InlineKeyboardButton{Text: b.Text, CallbackData: b.Data}
			})
		}),
	}
}

// authCause tags rejected tokens with the shared auth sentinel.
func authCause(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, bot.ErrorUnauthorized) || errors.Is(err, bot.ErrorForbidden) {
		return errors.Join(apperrors.ErrAuthFailure, err)
	}
	return err
}
