package telegram

import (
	"context"
	"log/slog"

	tb "gopkg.in/telebot.v3"

	"github.com/olexh/taxiscout/internal/ingest"
)

// Listener turns group messages seen by the bot into ingest events. The bot
// has to be a member of the observed groups; private chats and channels are
// ignored.
type Listener struct {
	bot *tb.Bot

	log *slog.Logger
}

func NewListener(bot *tb.Bot, log *slog.Logger) *Listener {
	return &Listener{
		bot: bot,
		log: log.With("component", "telegram").With("listener", "groups"),
	}
}

// Listen registers the text handler and polls until ctx is done. A full
// pipeline never blocks polling: when the channel is saturated the posting
// is dropped with a warning.
func (l *Listener) Listen(ctx context.Context, out chan<- ingest.Event) error {
	l.bot.Handle(tb.OnText, func(c tb.Context) error {
		m := c.Message()
		if m == nil || m.Chat == nil {
			return nil
		}
		if m.Chat.Type != tb.ChatGroup && m.Chat.Type != tb.ChatSuperGroup {
			return nil
		}

		e := ingest.Event{
			GroupID:       m.Chat.ID,
			GroupTitle:    m.Chat.Title,
			GroupUsername: m.Chat.Username,
			MessageID:     m.ID,
			Text:          m.Text,
			ObservedAt:    m.Time(),
		}
		if m.Sender != nil {
			e.AuthorID = m.Sender.ID
			e.AuthorUsername = m.Sender.Username
			e.AuthorFirstName = m.Sender.FirstName
		}

		select {
		case out <- e:
		default:
			l.log.Warn("ingest channel is full, dropping posting",
				"groupID", e.GroupID, "messageID", e.MessageID)
		}
		return nil
	})

	go func() {
		<-ctx.Done()
		l.bot.Stop()
	}()

	l.log.InfoContext(ctx, "starting group listener")
	l.bot.Start()
	l.log.InfoContext(ctx, "group listener stopped")

	return nil
}
