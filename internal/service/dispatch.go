package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olexh/taxiscout/internal/dal"
)

//go:generate mockgen -package mocks -destination mocks/messenger.go . Messenger

// ErrRecipientGone marks a recipient that can no longer be messaged (blocked
// the bot, deactivated the account). The dispatcher purges such drivers.
var ErrRecipientGone = errors.New("recipient gone")

type (
	NotificationStore interface {
		GetNotification(driverID int64, routeKey string) (dal.Notification, bool, error)
		PutNotification(n dal.Notification) error
		CleanupNotifications(olderThan time.Duration) error
	}

	Messenger interface {
		Send(ctx context.Context, driverID int64, text, link string) (int, error)
		Edit(ctx context.Context, driverID int64, messageID int, text, link string) error
	}
)

// DispatchAction is what happened to one recipient during a dispatch round.
type DispatchAction string

const (
	ActionSent    DispatchAction = "sent"
	ActionEdited  DispatchAction = "edited"
	ActionSkipped DispatchAction = "skipped"
	ActionFailed  DispatchAction = "failed"
)

type DispatchOutcome struct {
	DriverID int64
	Action   DispatchAction
	Reason   string
}

// Dispatcher delivers a merged order to its matched drivers, keeping at most
// one live Telegram message per (route key, driver) per merge window.
//
// First sight within a window sends a new message; later postings edit it in
// place. A record from a previous window of the same route key does not
// count as live, so the driver gets a fresh message. Failures never advance
// the state machine: a failed send stays unsent, a failed edit keeps the
// prior message as is, and either is retried only when the next posting of
// the route arrives.
type Dispatcher struct {
	notifications NotificationStore
	drivers       DriverStore
	messenger     Messenger
	renderer      *Renderer
	selector      *Selector
	clock         Clock

	sendTimeout      time.Duration
	notificationsTTL time.Duration
	log              *slog.Logger
}

func NewDispatcher(
	notifications NotificationStore,
	drivers DriverStore,
	messenger Messenger,
	renderer *Renderer,
	selector *Selector,
	clock Clock,
	sendTimeout time.Duration,
	notificationsTTL time.Duration,
	log *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		notifications:    notifications,
		drivers:          drivers,
		messenger:        messenger,
		renderer:         renderer,
		selector:         selector,
		clock:            clock,
		sendTimeout:      sendTimeout,
		notificationsTTL: notificationsTTL,
		log:              log.With("component", "service").With("service", "dispatcher"),
	}
}

// Dispatch notifies every matched driver about the window's current state,
// then fans the order out to admins who did not match as subscribers. The
// pipeline holds the route-key lock for the whole call, so per-key delivery
// is serialized.
func (s *Dispatcher) Dispatch(ctx context.Context, decision MergeDecision, w dal.MergeWindow, matches []Match) []DispatchOutcome {
	now := s.clock.Now()
	outcomes := make([]DispatchOutcome, 0, len(matches))

	notified := make(map[int64]struct{}, len(matches))
	for _, m := range matches {
		notified[m.Driver.TelegramID] = struct{}{}
		outcomes = append(outcomes, s.deliver(ctx, w, m, false, now))
	}

	outcomes = append(outcomes, s.fanOutToAdmins(ctx, w, notified, now)...)

	s.log.InfoContext(ctx, "dispatched order",
		"routeKey", w.RouteKey,
		"decision", decision,
		"recipients", len(outcomes))
	return outcomes
}

// fanOutToAdmins sends the tagged copy to admins the subscriber path did not
// reach. Admin preferences (price, radius) still apply; an admin already
// notified as a subscriber gets nothing extra.
func (s *Dispatcher) fanOutToAdmins(ctx context.Context, w dal.MergeWindow, notified map[int64]struct{}, now time.Time) []DispatchOutcome {
	drivers, err := s.drivers.GetAllDrivers()
	if err != nil {
		s.log.ErrorContext(ctx, "failed to load drivers for admin fan-out", "error", err)
		return nil
	}

	var outcomes []DispatchOutcome
	for _, d := range drivers {
		if !d.IsAdmin || !d.Active || !d.Authorized {
			continue
		}
		if _, ok := notified[d.TelegramID]; ok {
			continue
		}
		m, ok := s.selector.MatchPreferences(d, w)
		if !ok {
			continue
		}
		outcomes = append(outcomes, s.deliver(ctx, w, m, true, now))
	}
	return outcomes
}

func (s *Dispatcher) deliver(ctx context.Context, w dal.MergeWindow, m Match, admin bool, now time.Time) DispatchOutcome {
	d := m.Driver
	log := s.log.With("driverID", d.TelegramID, "routeKey", w.RouteKey)

	if reason := skipReason(d, w, now); reason != "" {
		log.DebugContext(ctx, "skipping driver", "reason", reason)
		return DispatchOutcome{DriverID: d.TelegramID, Action: ActionSkipped, Reason: reason}
	}

	text, err := s.renderer.Render(w, d, m.DistanceKm, admin)
	if err != nil {
		log.ErrorContext(ctx, "failed to render message", "error", err)
		return DispatchOutcome{DriverID: d.TelegramID, Action: ActionFailed, Reason: "render"}
	}

	rec, found, err := s.notifications.GetNotification(d.TelegramID, w.RouteKey)
	if err != nil {
		log.ErrorContext(ctx, "failed to get notification record", "error", err)
		return DispatchOutcome{DriverID: d.TelegramID, Action: ActionFailed, Reason: "store"}
	}

	link := NewestSourceLink(w)

	// a record from an earlier window of the same route is stale, not live
	if found && rec.WindowStart.Equal(w.WindowStart) {
		return s.edit(ctx, log, rec, d, text, link, now)
	}
	return s.send(ctx, log, w, d, text, link, now)
}

func (s *Dispatcher) send(ctx context.Context, log *slog.Logger, w dal.MergeWindow, d dal.Driver, text, link string, now time.Time) DispatchOutcome {
	sctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	msgID, err := s.messenger.Send(sctx, d.TelegramID, text, link)
	if err != nil {
		if errors.Is(err, ErrRecipientGone) {
			s.purge(ctx, log, d.TelegramID)
			return DispatchOutcome{DriverID: d.TelegramID, Action: ActionFailed, Reason: "recipient gone"}
		}
		log.ErrorContext(ctx, "failed to send notification", "error", err)
		return DispatchOutcome{DriverID: d.TelegramID, Action: ActionFailed, Reason: "send"}
	}

	err = s.notifications.PutNotification(dal.Notification{
		RouteKey:    w.RouteKey,
		DriverID:    d.TelegramID,
		MessageID:   msgID,
		State:       dal.DeliverySent,
		SentAt:      now,
		WindowStart: w.WindowStart,
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to store notification record", "error", err)
	}

	return DispatchOutcome{DriverID: d.TelegramID, Action: ActionSent}
}

func (s *Dispatcher) edit(ctx context.Context, log *slog.Logger, rec dal.Notification, d dal.Driver, text, link string, now time.Time) DispatchOutcome {
	sctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.messenger.Edit(sctx, d.TelegramID, rec.MessageID, text, link); err != nil {
		if errors.Is(err, ErrRecipientGone) {
			s.purge(ctx, log, d.TelegramID)
			return DispatchOutcome{DriverID: d.TelegramID, Action: ActionFailed, Reason: "recipient gone"}
		}
		// the already-delivered message stays as is; no fallback send
		log.ErrorContext(ctx, "failed to edit notification", "messageID", rec.MessageID, "error", err)
		return DispatchOutcome{DriverID: d.TelegramID, Action: ActionFailed, Reason: "edit"}
	}

	rec.State = dal.DeliveryEdited
	rec.EditedAt = now
	if err := s.notifications.PutNotification(rec); err != nil {
		log.ErrorContext(ctx, "failed to store notification record", "error", err)
	}

	return DispatchOutcome{DriverID: d.TelegramID, Action: ActionEdited}
}

func (s *Dispatcher) purge(ctx context.Context, log *slog.Logger, driverID int64) {
	log.InfoContext(ctx, "recipient is gone, purging driver data")
	if err := s.drivers.PurgeDriver(driverID); err != nil {
		log.ErrorContext(ctx, "failed to purge driver", "error", err)
	}
}

// Cleanup drops notification records whose send time fell out of the TTL.
func (s *Dispatcher) Cleanup(ctx context.Context) error {
	s.log.InfoContext(ctx, "cleaning up")
	if err := s.notifications.CleanupNotifications(s.notificationsTTL); err != nil {
		return fmt.Errorf("cleanup notifications: %w", err)
	}
	return nil
}

func skipReason(d dal.Driver, w dal.MergeWindow, now time.Time) string {
	switch {
	case d.Busy:
		return "busy"
	case d.InQuietHours(now):
		return "quiet hours"
	case d.BlacklistedAuthor(w.Author.ID):
		return "author blacklisted"
	case allGroupsBlacklisted(d, w):
		return "group blacklisted"
	}
	return ""
}

// allGroupsBlacklisted is true only when every contributing group is on the
// driver's blacklist; a single clean group keeps the notification flowing.
func allGroupsBlacklisted(d dal.Driver, w dal.MergeWindow) bool {
	if len(w.Links) == 0 {
		return false
	}
	for _, l := range w.Links {
		if !d.BlacklistedGroup(l.GroupID) {
			return false
		}
	}
	return true
}
