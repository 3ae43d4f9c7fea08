package service

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/olexh/taxiscout/internal/dal"
	"github.com/olexh/taxiscout/internal/geo"
)

type DriverStore interface {
	GetAllDrivers() ([]dal.Driver, error)
	PurgeDriver(telegramID int64) error
}

// Match is a driver that passed every filter, with the distance to the
// order's point A when it could be computed.
type Match struct {
	Driver     dal.Driver
	DistanceKm *float64
}

// Selector filters the driver set down to those whose preferences a merged
// order satisfies: active + authorized, subscribed to at least one of the
// window's contributing groups (admins see designated service groups without
// a subscription), price floor, geo radius around point A.
//
// Matching runs against the whole window, not the triggering posting: a
// driver subscribed to a group that contributed earlier still gets the
// updated notification when another group posts the same route.
type Selector struct {
	drivers       DriverStore
	serviceGroups map[int64]struct{}

	log *slog.Logger
}

func NewSelector(drivers DriverStore, serviceGroupIDs []int64, log *slog.Logger) *Selector {
	groups := make(map[int64]struct{}, len(serviceGroupIDs))
	for _, id := range serviceGroupIDs {
		groups[normGroupID(id)] = struct{}{}
	}
	return &Selector{
		drivers:       drivers,
		serviceGroups: groups,
		log:           log.With("component", "service").With("service", "selector"),
	}
}

// IsServiceGroup reports whether the group is one of "our" designated
// groups, matching either sign form of the ID.
func (s *Selector) IsServiceGroup(groupID int64) bool {
	if groupID == 0 {
		return false
	}
	_, ok := s.serviceGroups[normGroupID(groupID)]
	return ok
}

// Select returns drivers matching the window, closest first.
func (s *Selector) Select(w dal.MergeWindow) ([]Match, error) {
	drivers, err := s.drivers.GetAllDrivers()
	if err != nil {
		return nil, fmt.Errorf("get all drivers: %w", err)
	}

	pointA, hasPointA := geoPointA(w)

	var res []Match
	for _, d := range drivers {
		if !d.Active || !d.Authorized {
			continue
		}
		if !s.subscribedToWindow(d, w) {
			continue
		}
		m, ok := matchPreferences(d, w, pointA, hasPointA)
		if !ok {
			continue
		}
		res = append(res, m)
	}

	sort.SliceStable(res, func(i, j int) bool {
		di, dj := res[i].DistanceKm, res[j].DistanceKm
		if di == nil || dj == nil {
			return dj == nil && di != nil
		}
		return *di < *dj
	})

	return res, nil
}

// MatchPreferences checks only the price and geo filters, ignoring group
// subscription. The dispatcher uses it to qualify admins for fan-out.
func (s *Selector) MatchPreferences(d dal.Driver, w dal.MergeWindow) (Match, bool) {
	pointA, hasPointA := geoPointA(w)
	return matchPreferences(d, w, pointA, hasPointA)
}

func (s *Selector) subscribedToWindow(d dal.Driver, w dal.MergeWindow) bool {
	for _, l := range w.Links {
		if d.SubscribedTo(l.GroupID) {
			return true
		}
		if d.IsAdmin && s.IsServiceGroup(l.GroupID) {
			return true
		}
	}
	return false
}

func matchPreferences(d dal.Driver, w dal.MergeWindow, pointA geo.Point, hasPointA bool) (Match, bool) {
	// unknown price never excludes a driver
	if w.Price != nil && d.MinPrice > 0 && *w.Price < d.MinPrice {
		return Match{}, false
	}

	if !hasPointA {
		// point A could not be geocoded: fail open
		return Match{Driver: d}, true
	}

	if !d.HasLocation() {
		return Match{}, false
	}
	dist := geo.Distance(geo.Point{Lat: *d.Latitude, Lon: *d.Longitude}, pointA)
	radius := d.RadiusKm
	if radius <= 0 {
		radius = defaultRadiusKm
	}
	if dist > radius {
		return Match{}, false
	}

	return Match{Driver: d, DistanceKm: &dist}, true
}

const defaultRadiusKm = 50

func geoPointA(w dal.MergeWindow) (geo.Point, bool) {
	_, pt, ok := geo.Resolve(w.PointA)
	return pt, ok
}

func normGroupID(id int64) int64 {
	if id < 0 {
		return -id
	}
	return id
}
