package dal

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// DeliveryState tracks the send/edit machine per (route key, driver).
type DeliveryState string

const (
	DeliverySent   DeliveryState = "sent"
	DeliveryEdited DeliveryState = "edited"
)

// Notification is the single live outbound message a driver has for a route
// key within one merge window. Later postings of the route edit the same
// Telegram message instead of creating a second record.
type Notification struct {
	RouteKey    string        `json:"route_key"`
	DriverID    int64         `json:"driver_id"`
	MessageID   int           `json:"message_id"`
	State       DeliveryState `json:"state"`
	SentAt      time.Time     `json:"sent_at"`
	EditedAt    time.Time     `json:"edited_at,omitempty"`
	WindowStart time.Time     `json:"window_start"`
}

// CountNotifications total number of notification records
func (s *BoltDB) CountNotifications() (int, error) {
	res := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		res = tx.Bucket([]byte(notificationsBucket)).Stats().KeyN
		return nil
	})
	return res, err
}

// GetNotification retrieves the notification record for a driver and route key
func (s *BoltDB) GetNotification(driverID int64, routeKey string) (Notification, bool, error) {
	var res Notification
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(notificationsBucket)).Get(notificationKey(driverID, routeKey))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &res)
	})

	return res, found, err
}

// PutNotification stores the notification record for a driver and route key
func (s *BoltDB) PutNotification(n Notification) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(&n)
		if err != nil {
			return fmt.Errorf("marshal notification driverID=%d routeKey=%s: %w", n.DriverID, n.RouteKey, err)
		}
		if err := tx.Bucket([]byte(notificationsBucket)).Put(notificationKey(n.DriverID, n.RouteKey), data); err != nil {
			return fmt.Errorf("put notification driverID=%d routeKey=%s: %w", n.DriverID, n.RouteKey, err)
		}
		return nil
	})
}

// DeleteNotifications removes all notification records of a driver
func (s *BoltDB) DeleteNotifications(driverID int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return s.deleteNotifications(tx, driverID)
	})
}

// CleanupNotifications removes records sent more than olderThan ago
func (s *BoltDB) CleanupNotifications(olderThan time.Duration) error {
	if olderThan <= 0 {
		return nil
	}

	cutoff := s.now().Add(-olderThan)
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(notificationsBucket))
		return b.ForEach(func(k, v []byte) error {
			var n Notification
			if err := json.Unmarshal(v, &n); err != nil {
				return fmt.Errorf("unmarshal notification key=%s: %w", k, err)
			}
			if n.SentAt.IsZero() || n.SentAt.After(cutoff) {
				return nil
			}
			return b.Delete(k)
		})
	})
}

func (s *BoltDB) deleteNotifications(tx *bbolt.Tx, driverID int64) error {
	b := tx.Bucket([]byte(notificationsBucket))

	prefix := fmt.Sprintf("%d_", driverID)
	c := b.Cursor()

	for k, _ := c.Seek([]byte(prefix)); k != nil && len(k) >= len(prefix) && string(k[:len(prefix)]) == prefix; k, _ = c.Next() {
		if err := b.Delete(k); err != nil {
			return fmt.Errorf("delete notification key=%s: %w", k, err)
		}
	}

	return nil
}

func notificationKey(driverID int64, routeKey string) []byte {
	return []byte(fmt.Sprintf("%d_%s", driverID, routeKey))
}
