package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Event is one raw posting observed by a group listening session.
type Event struct {
	GroupID       int64
	GroupTitle    string
	GroupUsername string
	MessageID     int
	Text          string

	AuthorID        int64
	AuthorUsername  string
	AuthorFirstName string

	ObservedAt time.Time
}

// SourceLink builds the public t.me link of the posting. Public groups link
// by username; private supergroups use the /c/ form with the -100 marker
// stripped off the ID.
func (e Event) SourceLink() string {
	if e.GroupUsername != "" {
		return fmt.Sprintf("https://t.me/%s/%d", e.GroupUsername, e.MessageID)
	}

	id := e.GroupID
	if id < 0 {
		id = -id
	}
	const supergroupMarker = 1_000_000_000_000
	if id > supergroupMarker {
		id -= supergroupMarker
	}
	return fmt.Sprintf("https://t.me/c/%d/%d", id, e.MessageID)
}

// Source is one long-lived listening session (one per authorized driver)
// pushing observed postings into the shared channel until ctx is done.
type Source interface {
	Listen(ctx context.Context, out chan<- Event) error
}

// FanIn merges postings from all listening sessions into a single channel
// consumed by the pipeline. A failing session is logged and does not stop
// the others.
type FanIn struct {
	sources []Source
	buffer  int

	log *slog.Logger
}

func NewFanIn(buffer int, log *slog.Logger) *FanIn {
	return &FanIn{
		buffer: buffer,
		log:    log.With("component", "ingest"),
	}
}

func (f *FanIn) Add(s Source) {
	f.sources = append(f.sources, s)
}

// Run starts every source and returns the merged event channel. The channel
// is closed after all sources return.
func (f *FanIn) Run(ctx context.Context) <-chan Event {
	out := make(chan Event, f.buffer)

	wg := &sync.WaitGroup{}
	for i, src := range f.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			err := src.Listen(ctx, out)
			if err != nil && !errors.Is(err, context.Canceled) {
				f.log.ErrorContext(ctx, "Listening session stopped", "session", i, "error", err)
				return
			}
			f.log.InfoContext(ctx, "Listening session finished", "session", i)
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
