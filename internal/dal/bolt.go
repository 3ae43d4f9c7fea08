package dal

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	driversBucket       = "drivers"
	mergeWindowsBucket  = "merge_windows"
	notificationsBucket = "notifications"
)

// BoltDB is the persistence layer. All entities are JSON-encoded values in
// dedicated buckets; buckets are created by migrations before the store is
// constructed.
type BoltDB struct {
	db *bbolt.DB

	now func() time.Time
}

func NewBoltDB(db *bbolt.DB) (*BoltDB, error) {
	err := db.View(func(tx *bbolt.Tx) error {
		for _, name := range []string{driversBucket, mergeWindowsBucket, notificationsBucket} {
			if tx.Bucket([]byte(name)) == nil {
				return fmt.Errorf("bucket %q not found: run migrations first", name)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BoltDB{
		db:  db,
		now: time.Now,
	}, nil
}

func i64tob(id int64) []byte {
	return []byte(fmt.Sprintf("%d", id))
}
