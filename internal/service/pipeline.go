package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/olexh/taxiscout/internal/ingest"
	"github.com/olexh/taxiscout/internal/parser"
)

// keyedMutex serializes work per route key while letting distinct keys
// proceed in parallel. Entries are refcounted and dropped on last unlock, so
// the map does not grow with the set of keys ever seen.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*keyedMutexEntry
}

type keyedMutexEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{entries: make(map[string]*keyedMutexEntry)}
}

func (k *keyedMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &keyedMutexEntry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

func (k *keyedMutex) Unlock(key string) {
	k.mu.Lock()
	e := k.entries[key]
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}

// Pipeline drives a posting event end to end: parse, derive the route key,
// merge, match, dispatch. A fixed worker pool consumes the ingest channel;
// each worker takes the route-key lock before touching merge or dispatch
// state, which is the only serialization the merge store relies on.
type Pipeline struct {
	merges     *Merges
	selector   *Selector
	dispatcher *Dispatcher
	clock      Clock

	workers int
	keys    *keyedMutex
	log     *slog.Logger
}

func NewPipeline(
	merges *Merges,
	selector *Selector,
	dispatcher *Dispatcher,
	clock Clock,
	workers int,
	log *slog.Logger,
) *Pipeline {
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		merges:     merges,
		selector:   selector,
		dispatcher: dispatcher,
		clock:      clock,
		workers:    workers,
		keys:       newKeyedMutex(),
		log:        log.With("component", "service").With("service", "pipeline"),
	}
}

// Run consumes posting events until the channel closes or the context is
// canceled, then waits for in-flight work to finish.
func (s *Pipeline) Run(ctx context.Context, events <-chan ingest.Event) {
	s.log.InfoContext(ctx, "starting pipeline", "workers", s.workers)

	wg := &sync.WaitGroup{}
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case e, ok := <-events:
					if !ok {
						return
					}
					s.Process(ctx, e)
				}
			}
		}()
	}

	wg.Wait()
	s.log.InfoContext(ctx, "pipeline stopped")
}

// Process handles one posting event. Non-order text is dropped silently;
// everything past parsing is logged but never aborts other events.
func (s *Pipeline) Process(ctx context.Context, e ingest.Event) {
	order, ok := parser.Parse(e.Text)
	if !ok {
		return
	}

	if e.ObservedAt.IsZero() {
		e.ObservedAt = s.clock.Now()
	}

	c := NewCandidateOrder(order, e)
	routeKey := DeriveRouteKey(c.PointA, c.PointB)
	log := s.log.With("routeKey", routeKey, "groupID", c.GroupID, "messageID", c.MessageID)

	s.keys.Lock(string(routeKey))
	defer s.keys.Unlock(string(routeKey))

	decision, w, err := s.merges.Upsert(routeKey, c)
	if err != nil {
		log.ErrorContext(ctx, "failed to upsert merge window", "error", err)
		return
	}

	matches, err := s.selector.Select(w)
	if err != nil {
		log.ErrorContext(ctx, "failed to select drivers", "error", err)
		return
	}
	if len(matches) == 0 && decision == DecisionNewWindow {
		log.DebugContext(ctx, "no matching drivers")
	}

	s.dispatcher.Dispatch(ctx, decision, w, matches)
}

// Cleanup runs storage hygiene for merge windows and notification records.
func (s *Pipeline) Cleanup(ctx context.Context) error {
	if err := s.merges.Cleanup(); err != nil {
		return fmt.Errorf("cleanup merge windows: %w", err)
	}
	if err := s.dispatcher.Cleanup(ctx); err != nil {
		return fmt.Errorf("cleanup notifications: %w", err)
	}
	return nil
}
