package dal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func (s *BoltDBTestSuite) TestBoltDB_Get_Put_Delete_MergeWindow() {
	const routeKey = "челябинск:екатеринбург"
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	price := 3500

	_, ok, err := s.store.GetMergeWindow(routeKey)
	s.Require().NoError(err)
	s.False(ok, "merge window should not be present initially")

	w := MergeWindow{
		RouteKey:    routeKey,
		PointA:      "Челябинск",
		PointB:      "Екатеринбург",
		Price:       &price,
		WindowStart: start,
		WindowEnd:   start.Add(WindowDuration),
		Links: []GroupLink{{
			GroupID:    -1001234,
			GroupTitle: "Межгород 74",
			SourceLink: "https://t.me/c/1234/55",
			MessageID:  55,
			Author:     Author{ID: 42, Username: "petrov"},
			AddedAt:    start,
		}},
		Author: Author{ID: 42, Username: "petrov"},
	}
	s.Require().NoError(s.store.PutMergeWindow(w))

	got, ok, err := s.store.GetMergeWindow(routeKey)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(routeKey, got.RouteKey)
	s.Require().NotNil(got.Price)
	s.Equal(3500, *got.Price)
	s.Nil(got.Seats)
	s.Len(got.Links, 1)
	s.Equal(start, got.WindowStart.UTC())
	s.Equal(start.Add(WindowDuration), got.WindowEnd.UTC())

	count, err := s.store.CountMergeWindows()
	s.Require().NoError(err)
	s.Equal(1, count)

	s.Require().NoError(s.store.DeleteMergeWindow(routeKey))
	_, ok, err = s.store.GetMergeWindow(routeKey)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *BoltDBTestSuite) TestBoltDB_CleanupMergeWindows() {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	s.now.Set(now)

	stale := MergeWindow{
		RouteKey:    "a:b",
		WindowStart: now.Add(-50 * time.Hour),
		WindowEnd:   now.Add(-48 * time.Hour),
	}
	fresh := MergeWindow{
		RouteKey:    "c:d",
		WindowStart: now.Add(-time.Hour),
		WindowEnd:   now.Add(time.Hour),
	}
	s.Require().NoError(s.store.PutMergeWindow(stale))
	s.Require().NoError(s.store.PutMergeWindow(fresh))

	s.Require().NoError(s.store.CleanupMergeWindows(24 * time.Hour))

	_, ok, err := s.store.GetMergeWindow("a:b")
	s.Require().NoError(err)
	s.False(ok, "long-expired window should be removed")

	_, ok, err = s.store.GetMergeWindow("c:d")
	s.Require().NoError(err)
	s.True(ok, "open window should survive cleanup")

	// non-positive TTL disables cleanup
	s.Require().NoError(s.store.PutMergeWindow(stale))
	s.Require().NoError(s.store.CleanupMergeWindows(0))
	_, ok, err = s.store.GetMergeWindow("a:b")
	s.Require().NoError(err)
	s.True(ok)
}

func TestMergeWindow_Expired(t *testing.T) {
	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	w := MergeWindow{WindowStart: start, WindowEnd: start.Add(WindowDuration)}

	assert.False(t, w.Expired(start))
	assert.False(t, w.Expired(start.Add(WindowDuration)), "window end itself still merges")
	assert.True(t, w.Expired(start.Add(WindowDuration+time.Second)))
}

func TestMergeWindow_AttachLink_Idempotent(t *testing.T) {
	w := MergeWindow{}

	w.AttachLink(GroupLink{GroupID: -100, MessageID: 1, SourceLink: "https://t.me/c/100/1"})
	w.AttachLink(GroupLink{GroupID: -200, MessageID: 5, SourceLink: "https://t.me/c/200/5"})
	assert.Len(t, w.Links, 2)

	// same group again: updated in place, not duplicated
	w.AttachLink(GroupLink{GroupID: -100, MessageID: 9, SourceLink: "https://t.me/c/100/9", Author: Author{ID: 7}})
	assert.Len(t, w.Links, 2)
	assert.Equal(t, 9, w.Links[0].MessageID)
	assert.Equal(t, "https://t.me/c/100/9", w.Links[0].SourceLink)
	assert.Equal(t, int64(7), w.Links[0].Author.ID)
}

func TestMergeWindow_AttachAuthor_SetOnce(t *testing.T) {
	w := MergeWindow{}

	w.AttachAuthor(Author{})
	assert.True(t, w.Author.Empty())

	w.AttachAuthor(Author{ID: 42, Username: "petrov"})
	assert.Equal(t, int64(42), w.Author.ID)

	// later postings never overwrite or clear the author
	w.AttachAuthor(Author{})
	assert.Equal(t, int64(42), w.Author.ID)
	w.AttachAuthor(Author{ID: 99, Username: "other"})
	assert.Equal(t, int64(42), w.Author.ID)
	assert.Equal(t, "petrov", w.Author.Username)
}
