package dal

import (
	"time"
)

func (s *BoltDBTestSuite) TestBoltDB_Get_Put_Notification() {
	const routeKey1 = "челябинск:екатеринбург"
	const routeKey2 = "екатеринбург:челябинск"
	sentAt := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	keys := []struct {
		driverID int64
		routeKey string
	}{
		{1, routeKey1},
		{1, routeKey2},
		{2, routeKey1},
	}

	for _, k := range keys {
		_, ok, err := s.store.GetNotification(k.driverID, k.routeKey)
		s.Require().NoErrorf(err, "GetNotification err for driverID=%d routeKey=%s", k.driverID, k.routeKey)
		s.Falsef(ok, "notification should not be present for driverID=%d routeKey=%s", k.driverID, k.routeKey)
	}

	for i, k := range keys {
		n := Notification{
			RouteKey:    k.routeKey,
			DriverID:    k.driverID,
			MessageID:   100 + i,
			State:       DeliverySent,
			SentAt:      sentAt,
			WindowStart: sentAt,
		}
		s.Require().NoErrorf(s.store.PutNotification(n), "PutNotification err for driverID=%d routeKey=%s", k.driverID, k.routeKey)
	}

	for i, k := range keys {
		n, ok, err := s.store.GetNotification(k.driverID, k.routeKey)
		s.Require().NoErrorf(err, "GetNotification err for driverID=%d routeKey=%s", k.driverID, k.routeKey)
		s.Require().Truef(ok, "notification should be present for driverID=%d routeKey=%s", k.driverID, k.routeKey)
		s.Equal(100+i, n.MessageID)
		s.Equal(DeliverySent, n.State)
	}

	// transition SENT -> EDITED keeps a single record
	n, _, err := s.store.GetNotification(1, routeKey1)
	s.Require().NoError(err)
	n.State = DeliveryEdited
	n.EditedAt = sentAt.Add(30 * time.Minute)
	s.Require().NoError(s.store.PutNotification(n))

	count, err := s.store.CountNotifications()
	s.Require().NoError(err)
	s.Equal(len(keys), count)

	got, ok, err := s.store.GetNotification(1, routeKey1)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(DeliveryEdited, got.State)
	s.Equal(sentAt.Add(30*time.Minute), got.EditedAt.UTC())
}

func (s *BoltDBTestSuite) TestBoltDB_DeleteNotifications() {
	sentAt := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	for _, k := range []struct {
		driverID int64
		routeKey string
	}{
		{1, "a:b"}, {1, "c:d"}, {12, "a:b"}, {2, "a:b"},
	} {
		s.Require().NoError(s.store.PutNotification(Notification{
			RouteKey: k.routeKey, DriverID: k.driverID, MessageID: 1, State: DeliverySent, SentAt: sentAt,
		}))
	}

	s.Require().NoError(s.store.DeleteNotifications(1))

	// driver 1 records are gone; prefix match must not touch driver 12
	for _, k := range []string{"a:b", "c:d"} {
		_, ok, err := s.store.GetNotification(1, k)
		s.Require().NoError(err)
		s.False(ok)
	}
	_, ok, err := s.store.GetNotification(12, "a:b")
	s.Require().NoError(err)
	s.True(ok)
	_, ok, err = s.store.GetNotification(2, "a:b")
	s.Require().NoError(err)
	s.True(ok)
}

func (s *BoltDBTestSuite) TestBoltDB_CleanupNotifications() {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	s.now.Set(now)

	s.Require().NoError(s.store.PutNotification(Notification{
		RouteKey: "a:b", DriverID: 1, MessageID: 1, State: DeliverySent, SentAt: now.Add(-48 * time.Hour),
	}))
	s.Require().NoError(s.store.PutNotification(Notification{
		RouteKey: "c:d", DriverID: 1, MessageID: 2, State: DeliverySent, SentAt: now.Add(-time.Hour),
	}))

	s.Require().NoError(s.store.CleanupNotifications(24 * time.Hour))

	_, ok, err := s.store.GetNotification(1, "a:b")
	s.Require().NoError(err)
	s.False(ok, "stale record should be removed")

	_, ok, err = s.store.GetNotification(1, "c:d")
	s.Require().NoError(err)
	s.True(ok, "recent record should survive cleanup")
}
