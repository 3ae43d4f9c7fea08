package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/olexh/taxiscout/internal/dal"
)

//go:generate mockgen -package mocks -destination mocks/stores.go . MergeWindowStore,NotificationStore,DriverStore

// MergeDecision tells the dispatch path whether a candidate opened a fresh
// notification cycle or joined an already-announced one.
type MergeDecision string

const (
	DecisionNewWindow MergeDecision = "new_window"
	DecisionMerged    MergeDecision = "merged_into_existing"
)

type MergeWindowStore interface {
	GetMergeWindow(routeKey string) (dal.MergeWindow, bool, error)
	PutMergeWindow(w dal.MergeWindow) error
	CleanupMergeWindows(olderThan time.Duration) error
}

// Merges is the duplicate merge store: it folds independently-observed
// postings of the same route into one merge window per 2-hour cycle.
//
// Upsert performs an unguarded read-modify-write; the pipeline serializes
// calls per route key, so two postings of the same route never race here
// while distinct routes proceed in parallel.
type Merges struct {
	store MergeWindowStore

	windowsTTL time.Duration
	log        *slog.Logger
}

func NewMerges(store MergeWindowStore, windowsTTL time.Duration, log *slog.Logger) *Merges {
	return &Merges{
		store:      store,
		windowsTTL: windowsTTL,
		log:        log.With("component", "service").With("service", "merges"),
	}
}

// Upsert records the posting under its route key and returns the decision
// together with the updated window.
//
// A missing or expired window starts a new one at the candidate's
// observation time; the window end is fixed at start+2h and never slides.
// Otherwise the posting joins the open window: its group link is attached
// idempotently and the authoritative author is filled only if still empty.
func (s *Merges) Upsert(routeKey RouteKey, c CandidateOrder) (MergeDecision, dal.MergeWindow, error) {
	w, found, err := s.store.GetMergeWindow(string(routeKey))
	if err != nil {
		return "", dal.MergeWindow{}, fmt.Errorf("get merge window: %w", err)
	}

	if !found || w.Expired(c.ObservedAt) {
		w = dal.MergeWindow{
			RouteKey:     string(routeKey),
			PointA:       c.PointA,
			PointB:       c.PointB,
			Price:        c.Price,
			Seats:        c.Seats,
			OriginalText: c.OriginalText,
			Confidence:   string(c.Confidence),
			WindowStart:  c.ObservedAt,
			WindowEnd:    c.ObservedAt.Add(dal.WindowDuration),
		}
		w.AttachLink(c.GroupLink())
		w.AttachAuthor(c.Author)

		if err := s.store.PutMergeWindow(w); err != nil {
			return "", dal.MergeWindow{}, fmt.Errorf("put merge window: %w", err)
		}

		s.log.Debug("opened merge window",
			"routeKey", routeKey,
			"windowStart", w.WindowStart,
			"expiredPrevious", found)
		return DecisionNewWindow, w, nil
	}

	w.AttachLink(c.GroupLink())
	w.AttachAuthor(c.Author)
	// price and seats are monotonic: a later posting may fill a gap but
	// never overwrites what the window already knows
	if w.Price == nil && c.Price != nil {
		w.Price = c.Price
	}
	if w.Seats == nil && c.Seats != nil {
		w.Seats = c.Seats
	}

	if err := s.store.PutMergeWindow(w); err != nil {
		return "", dal.MergeWindow{}, fmt.Errorf("put merge window: %w", err)
	}

	s.log.Debug("merged posting into window",
		"routeKey", routeKey,
		"groups", len(w.Links))
	return DecisionMerged, w, nil
}

// Cleanup drops windows that expired long ago. Correctness does not depend
// on it: expiry is re-checked on every Upsert.
func (s *Merges) Cleanup() error {
	return s.store.CleanupMergeWindows(s.windowsTTL) //nolint:wrapcheck // it's ok
}
