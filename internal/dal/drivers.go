package dal

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// Driver is an authorized driver profile together with everything the
// matching and dispatch paths need: location, filters, group subscriptions
// and personal suppression lists.
type Driver struct {
	TelegramID int64  `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"first_name,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	CityName  string   `json:"city_name,omitempty"`
	RadiusKm  float64  `json:"radius_km"`
	MinPrice  int      `json:"min_price"`

	Active     bool `json:"active"`
	Authorized bool `json:"authorized"`
	IsAdmin    bool `json:"is_admin"`
	Busy       bool `json:"busy"`

	// Quiet hours in local "HH:MM" form; both empty means no quiet hours.
	// The interval may cross midnight (e.g. 23:00 - 07:00).
	QuietFrom string `json:"quiet_from,omitempty"`
	QuietTo   string `json:"quiet_to,omitempty"`

	Groups             map[int64]struct{}  `json:"groups,omitempty"`
	BlacklistedAuthors map[int64]struct{}  `json:"blacklisted_authors,omitempty"`
	BlacklistedGroups  map[int64]struct{}  `json:"blacklisted_groups,omitempty"`
	FavoriteRoutes     map[string]struct{} `json:"favorite_routes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (d Driver) HasLocation() bool {
	return d.Latitude != nil && d.Longitude != nil
}

// SubscribedTo reports whether the driver follows the group. Telegram
// supergroup IDs show up both as -100-prefixed and bare positive values
// depending on the API that produced them, so all sign variants match.
func (d Driver) SubscribedTo(groupID int64) bool {
	if groupID == 0 || len(d.Groups) == 0 {
		return false
	}
	abs := groupID
	if abs < 0 {
		abs = -abs
	}
	for _, id := range []int64{groupID, abs, -abs} {
		if _, ok := d.Groups[id]; ok {
			return true
		}
	}
	return false
}

func (d Driver) BlacklistedAuthor(authorID int64) bool {
	_, ok := d.BlacklistedAuthors[authorID]
	return authorID != 0 && ok
}

func (d Driver) BlacklistedGroup(groupID int64) bool {
	_, ok := d.BlacklistedGroups[groupID]
	return groupID != 0 && ok
}

func (d Driver) FavoriteRoute(routeKey string) bool {
	_, ok := d.FavoriteRoutes[routeKey]
	return ok
}

// InQuietHours reports whether now falls inside the driver's quiet interval.
// Unparseable bounds disable quiet hours rather than suppressing dispatch.
func (d Driver) InQuietHours(now time.Time) bool {
	if d.QuietFrom == "" || d.QuietTo == "" {
		return false
	}
	from, err := time.Parse("15:04", d.QuietFrom)
	if err != nil {
		return false
	}
	to, err := time.Parse("15:04", d.QuietTo)
	if err != nil {
		return false
	}

	cur := now.Hour()*60 + now.Minute()
	start := from.Hour()*60 + from.Minute()
	end := to.Hour()*60 + to.Minute()

	if start <= end {
		return cur >= start && cur < end
	}
	// Interval crosses midnight.
	return cur >= start || cur < end
}

func (s *BoltDB) CountDrivers() (int, error) {
	var res int
	err := s.db.View(func(tx *bbolt.Tx) error {
		res = tx.Bucket([]byte(driversBucket)).Stats().KeyN
		return nil
	})
	return res, err
}

func (s *BoltDB) GetDriver(telegramID int64) (Driver, bool, error) {
	var res Driver
	found := false

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(driversBucket)).Get(i64tob(telegramID))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &res)
	})

	return res, found, err
}

func (s *BoltDB) GetAllDrivers() ([]Driver, error) {
	var res []Driver

	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(driversBucket)).Cursor()

		for k, v := c.First(); k != nil; k, v = c.Next() {
			var d Driver
			if err := json.Unmarshal(v, &d); err != nil {
				return fmt.Errorf("unmarshal driver: %w", err)
			}
			res = append(res, d)
		}

		return nil
	})

	return res, err
}

func (s *BoltDB) PutDriver(d Driver) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(driversBucket))

		if prev := b.Get(i64tob(d.TelegramID)); prev != nil {
			var existing Driver
			if err := json.Unmarshal(prev, &existing); err != nil {
				return fmt.Errorf("unmarshal existing driver: %w", err)
			}
			// created at is owned by the first write
			d.CreatedAt = existing.CreatedAt
		} else {
			d.CreatedAt = s.now()
		}

		data, err := json.Marshal(&d)
		if err != nil {
			return fmt.Errorf("marshal driver telegramID=%d: %w", d.TelegramID, err)
		}
		if err := b.Put(i64tob(d.TelegramID), data); err != nil {
			return fmt.Errorf("put driver telegramID=%d: %w", d.TelegramID, err)
		}

		return nil
	})
}

// PurgeDriver removes the profile and all notification records of a driver,
// e.g. after the driver blocked the bot.
func (s *BoltDB) PurgeDriver(telegramID int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket([]byte(driversBucket)).Delete(i64tob(telegramID)); err != nil {
			return fmt.Errorf("delete driver telegramID=%d: %w", telegramID, err)
		}
		return s.deleteNotifications(tx, telegramID)
	})
}
