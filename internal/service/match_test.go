package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/olexh/taxiscout/internal/dal"
	"github.com/olexh/taxiscout/internal/dal/testutil"
	"github.com/olexh/taxiscout/internal/service"
	"github.com/olexh/taxiscout/internal/service/mocks"
)

func driverStoreWith(ctrl *gomock.Controller, drivers ...dal.Driver) service.DriverStore {
	res := mocks.NewMockDriverStore(ctrl)
	res.EXPECT().GetAllDrivers().Return(drivers, nil).AnyTimes()
	return res
}

// matchWindow is a single-group window: Челябинск → Екатеринбург for 3500,
// posted in group 100.
func matchWindow() dal.MergeWindow {
	return testutil.NewMergeWindow(string(routeKey), t0).
		WithRoute("Челябинск", "Екатеринбург").
		WithPrice(3500).
		WithLink(testutil.NewGroupLink(100, 1)).
		Build()
}

func TestSelector_Select_Filters(t *testing.T) {
	w := matchWindow()

	tests := []struct {
		name    string
		driver  dal.Driver
		matched bool
	}{
		{
			name:    "subscribed_active_in_radius",
			driver:  testutil.NewDriver(1).WithGroups(100).Build(),
			matched: true,
		},
		{
			name:    "not_subscribed",
			driver:  testutil.NewDriver(1).WithGroups(200).Build(),
			matched: false,
		},
		{
			name:    "inactive",
			driver:  testutil.NewDriver(1).WithGroups(100).Inactive().Build(),
			matched: false,
		},
		{
			name:    "unauthorized",
			driver:  testutil.NewDriver(1).WithGroups(100).Unauthorized().Build(),
			matched: false,
		},
		{
			name:    "price_floor_above_order_price",
			driver:  testutil.NewDriver(1).WithGroups(100).WithMinPrice(4000).Build(),
			matched: false,
		},
		{
			name:    "price_floor_below_order_price",
			driver:  testutil.NewDriver(1).WithGroups(100).WithMinPrice(3000).Build(),
			matched: true,
		},
		{
			name: "outside_radius",
			// Yekaterinburg is ~193 km from the order's point A
			driver:  testutil.NewDriver(1).WithGroups(100).WithLocation(56.8389, 60.6057).WithRadius(100).Build(),
			matched: false,
		},
		{
			name:    "no_location",
			driver:  testutil.NewDriver(1).WithGroups(100).WithoutLocation().Build(),
			matched: false,
		},
		{
			name:    "subscribed_via_sign_variant",
			driver:  testutil.NewDriver(1).WithGroups(-100).Build(),
			matched: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			s := service.NewSelector(driverStoreWith(ctrl, tt.driver), nil, testLogger())

			matches, err := s.Select(w)
			require.NoError(t, err)

			if tt.matched {
				require.Len(t, matches, 1)
				assert.Equal(t, tt.driver.TelegramID, matches[0].Driver.TelegramID)
			} else {
				assert.Empty(t, matches)
			}
		})
	}
}

func TestSelector_Select_AnyContributingGroupQualifies(t *testing.T) {
	ctrl := gomock.NewController(t)

	// subscribed only to the group that contributed first
	d := testutil.NewDriver(1).WithGroups(100).Build()
	s := service.NewSelector(driverStoreWith(ctrl, d), nil, testLogger())

	w := testutil.NewMergeWindow(string(routeKey), t0).
		WithRoute("Челябинск", "Екатеринбург").
		WithLink(testutil.NewGroupLink(100, 1)).
		WithLink(testutil.NewGroupLink(200, 7)).
		Build()

	matches, err := s.Select(w)
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestSelector_Select_UnknownPriceNeverExcludes(t *testing.T) {
	ctrl := gomock.NewController(t)

	d := testutil.NewDriver(1).WithGroups(100).WithMinPrice(5000).Build()
	s := service.NewSelector(driverStoreWith(ctrl, d), nil, testLogger())

	w := matchWindow()
	w.Price = nil

	matches, err := s.Select(w)
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestSelector_Select_UngeocodablePointAFailsOpen(t *testing.T) {
	ctrl := gomock.NewController(t)

	d := testutil.NewDriver(1).WithGroups(100).WithRadius(5).Build()
	s := service.NewSelector(driverStoreWith(ctrl, d), nil, testLogger())

	w := matchWindow()
	w.PointA = "пос. Дальний"

	matches, err := s.Select(w)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Nil(t, matches[0].DistanceKm)
}

func TestSelector_Select_AdminSeesServiceGroupWithoutSubscription(t *testing.T) {
	ctrl := gomock.NewController(t)

	admin := testutil.NewDriver(1).Admin().Build()
	regular := testutil.NewDriver(2).Build()
	s := service.NewSelector(driverStoreWith(ctrl, admin, regular), []int64{100}, testLogger())

	matches, err := s.Select(matchWindow())
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, int64(1), matches[0].Driver.TelegramID)
}

func TestSelector_Select_SortedByDistance(t *testing.T) {
	ctrl := gomock.NewController(t)

	near := testutil.NewDriver(1).WithGroups(100).Build() // Chelyabinsk itself
	// Miass, ~85 km away
	far := testutil.NewDriver(2).WithGroups(100).WithLocation(55.0456, 60.1084).WithRadius(100).Build()
	s := service.NewSelector(driverStoreWith(ctrl, far, near), nil, testLogger())

	matches, err := s.Select(matchWindow())
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, int64(1), matches[0].Driver.TelegramID)
	assert.Equal(t, int64(2), matches[1].Driver.TelegramID)
	require.NotNil(t, matches[1].DistanceKm)
	assert.InDelta(t, 85, *matches[1].DistanceKm, 10)
}

func TestSelector_IsServiceGroup(t *testing.T) {
	ctrl := gomock.NewController(t)
	s := service.NewSelector(driverStoreWith(ctrl), []int64{-1001234567890}, testLogger())

	assert.True(t, s.IsServiceGroup(-1001234567890))
	assert.True(t, s.IsServiceGroup(1001234567890))
	assert.False(t, s.IsServiceGroup(555))
	assert.False(t, s.IsServiceGroup(0))
}
