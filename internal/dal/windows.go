package dal

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// WindowDuration is how long postings of one route keep merging into the
// same window. Fixed from the first observation; later postings do not
// slide it.
const WindowDuration = 2 * time.Hour

// Author is the snapshot of whoever posted an order in a group.
type Author struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
}

func (a Author) Empty() bool {
	return a.ID == 0
}

// GroupLink is one observed posting of a route inside a group.
type GroupLink struct {
	GroupID    int64     `json:"group_id"`
	GroupTitle string    `json:"group_title"`
	SourceLink string    `json:"source_link"`
	MessageID  int       `json:"message_id"`
	Author     Author    `json:"author"`
	AddedAt    time.Time `json:"added_at"`
}

// MergeWindow collects all postings of one route key observed within a
// fixed 2-hour window, together with the set-once authoritative author.
type MergeWindow struct {
	RouteKey string `json:"route_key"`

	PointA string `json:"point_a"`
	PointB string `json:"point_b"`
	Price  *int   `json:"price,omitempty"`
	Seats  *int   `json:"seats,omitempty"`

	// OriginalText keeps the first posting's raw text; drivers see the order
	// as it was actually worded.
	OriginalText string `json:"original_text"`
	// Confidence records how the first posting was parsed ("pattern"/"ai");
	// forwarded for display only.
	Confidence string `json:"confidence,omitempty"`

	Author Author      `json:"author"`
	Links  []GroupLink `json:"links"`

	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

func (w MergeWindow) Expired(at time.Time) bool {
	return at.After(w.WindowEnd)
}

// AttachLink appends a group link. Inserting a link for a group that already
// contributed updates that link's message ID and author snapshot in place
// instead of duplicating the group in the rendered list.
func (w *MergeWindow) AttachLink(l GroupLink) {
	for i := range w.Links {
		if w.Links[i].GroupID == l.GroupID {
			w.Links[i].MessageID = l.MessageID
			w.Links[i].SourceLink = l.SourceLink
			w.Links[i].Author = l.Author
			return
		}
	}
	w.Links = append(w.Links, l)
}

// AttachAuthor records the authoritative author. The field is set-once:
// postings that arrive later without author info never clear it, and
// postings with a different author never overwrite it.
func (w *MergeWindow) AttachAuthor(a Author) {
	if w.Author.Empty() && !a.Empty() {
		w.Author = a
	}
}

func (s *BoltDB) CountMergeWindows() (int, error) {
	var res int
	err := s.db.View(func(tx *bbolt.Tx) error {
		res = tx.Bucket([]byte(mergeWindowsBucket)).Stats().KeyN
		return nil
	})
	return res, err
}

func (s *BoltDB) GetMergeWindow(routeKey string) (MergeWindow, bool, error) {
	var res MergeWindow
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(mergeWindowsBucket)).Get([]byte(routeKey))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &res)
	})

	return res, found, err
}

func (s *BoltDB) PutMergeWindow(w MergeWindow) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(&w)
		if err != nil {
			return fmt.Errorf("marshal merge window routeKey=%s: %w", w.RouteKey, err)
		}
		if err := tx.Bucket([]byte(mergeWindowsBucket)).Put([]byte(w.RouteKey), data); err != nil {
			return fmt.Errorf("put merge window routeKey=%s: %w", w.RouteKey, err)
		}
		return nil
	})
}

func (s *BoltDB) DeleteMergeWindow(routeKey string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(mergeWindowsBucket)).Delete([]byte(routeKey)); err != nil {
			return fmt.Errorf("delete merge window routeKey=%s: %w", routeKey, err)
		}
		return nil
	})
}

// CleanupMergeWindows removes windows that expired more than olderThan ago.
// Expiry itself is lazy (checked on upsert); this is storage hygiene only.
func (s *BoltDB) CleanupMergeWindows(olderThan time.Duration) error {
	if olderThan <= 0 {
		return nil
	}

	cutoff := s.now().Add(-olderThan)
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(mergeWindowsBucket))
		return b.ForEach(func(k, v []byte) error {
			var w MergeWindow
			if err := json.Unmarshal(v, &w); err != nil {
				return fmt.Errorf("unmarshal merge window key=%s: %w", k, err)
			}
			if w.WindowEnd.After(cutoff) {
				return nil
			}
			return b.Delete(k)
		})
	})
}
