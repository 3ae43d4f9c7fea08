package v1

import (
	"go.etcd.io/bbolt"
)

// MigrationV1 creates the core buckets: drivers, merge_windows, notifications.
type MigrationV1 struct{}

func (m *MigrationV1) Version() int {
	return 1
}

func (m *MigrationV1) Description() string {
	return "Create drivers, merge_windows and notifications buckets"
}

func (m *MigrationV1) Up(db *bbolt.DB) error {
	return db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{"drivers", "merge_windows", "notifications"} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
}

func New() *MigrationV1 {
	return &MigrationV1{}
}
