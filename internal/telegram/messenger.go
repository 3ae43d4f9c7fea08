package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tb "gopkg.in/telebot.v3"

	"github.com/olexh/taxiscout/internal/service"
)

const btnTextOpenOrder = "Открыть заказ"

// API is the slice of the telebot client the messenger needs.
type API interface {
	Send(to tb.Recipient, what interface{}, opts ...interface{}) (*tb.Message, error)
	Edit(msg tb.Editable, what interface{}, opts ...interface{}) (*tb.Message, error)
}

// Messenger delivers order notifications over the Telegram Bot API. Messages
// are HTML with the link preview disabled and carry one inline button
// pointing at the newest source posting.
type Messenger struct {
	api API

	log *slog.Logger
}

// NewBot builds the shared telebot client: the messenger sends through it
// and the listener polls it for group postings.
func NewBot(token string) (*tb.Bot, error) {
	bot, err := tb.NewBot(tb.Settings{
		Token:  token,
		Poller: &tb.LongPoller{Timeout: 5 * time.Second}, //nolint:mnd
	})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return bot, nil
}

func NewWithAPI(api API, log *slog.Logger) *Messenger {
	return &Messenger{
		api: api,
		log: log.With("component", "telegram"),
	}
}

// Send delivers a new notification and returns its Telegram message ID.
func (m *Messenger) Send(ctx context.Context, driverID int64, text, link string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err //nolint:wrapcheck // context error passes through
	}

	msg, err := m.api.Send(tb.ChatID(driverID), text, sendOptions(link))
	if err != nil {
		return 0, mapError(err)
	}

	m.log.DebugContext(ctx, "sent notification", "driverID", driverID, "messageID", msg.ID)
	return msg.ID, nil
}

// Edit replaces the text and button of a previously sent notification.
func (m *Messenger) Edit(ctx context.Context, driverID int64, messageID int, text, link string) error {
	if err := ctx.Err(); err != nil {
		return err //nolint:wrapcheck // context error passes through
	}

	stored := tb.StoredMessage{
		MessageID: strconv.Itoa(messageID),
		ChatID:    driverID,
	}
	if _, err := m.api.Edit(stored, text, sendOptions(link)); err != nil {
		return mapError(err)
	}

	m.log.DebugContext(ctx, "edited notification", "driverID", driverID, "messageID", messageID)
	return nil
}

func sendOptions(link string) *tb.SendOptions {
	opts := &tb.SendOptions{
		ParseMode:             tb.ModeHTML,
		DisableWebPagePreview: true,
	}

	if link != "" {
		markup := &tb.ReplyMarkup{}
		markup.Inline(markup.Row(markup.URL(btnTextOpenOrder, link)))
		opts.ReplyMarkup = markup
	}

	return opts
}

// mapError folds the telebot errors that mean "this chat is unreachable for
// good" into service.ErrRecipientGone; everything else is a transient
// delivery failure.
func mapError(err error) error {
	switch {
	case errors.Is(err, tb.ErrBlockedByUser),
		errors.Is(err, tb.ErrUserIsDeactivated),
		errors.Is(err, tb.ErrChatNotFound):
		return fmt.Errorf("%w: %w", service.ErrRecipientGone, err)
	default:
		return fmt.Errorf("telegram: %w", err)
	}
}
