package testutil

import (
	"fmt"
	"time"

	"github.com/olexh/taxiscout/internal/dal"
)

// DriverBuilder provides a fluent API for building test driver profiles
type DriverBuilder struct {
	d dal.Driver
}

// NewDriver creates a driver builder with an active, authorized profile
// located in Chelyabinsk with a 50 km radius and no price floor.
func NewDriver(telegramID int64) *DriverBuilder {
	lat, lon := 55.1644, 61.4368
	return &DriverBuilder{
		d: dal.Driver{
			TelegramID: telegramID,
			Latitude:   &lat,
			Longitude:  &lon,
			RadiusKm:   50,
			Active:     true,
			Authorized: true,
			Groups:     make(map[int64]struct{}),
			CreatedAt:  time.Now(),
		},
	}
}

func (b *DriverBuilder) WithName(username, firstName string) *DriverBuilder {
	b.d.Username = username
	b.d.FirstName = firstName
	return b
}

func (b *DriverBuilder) WithLocation(lat, lon float64) *DriverBuilder {
	b.d.Latitude = &lat
	b.d.Longitude = &lon
	return b
}

func (b *DriverBuilder) WithoutLocation() *DriverBuilder {
	b.d.Latitude = nil
	b.d.Longitude = nil
	return b
}

func (b *DriverBuilder) WithRadius(km float64) *DriverBuilder {
	b.d.RadiusKm = km
	return b
}

func (b *DriverBuilder) WithMinPrice(price int) *DriverBuilder {
	b.d.MinPrice = price
	return b
}

func (b *DriverBuilder) WithGroups(groupIDs ...int64) *DriverBuilder {
	for _, id := range groupIDs {
		b.d.Groups[id] = struct{}{}
	}
	return b
}

func (b *DriverBuilder) Inactive() *DriverBuilder {
	b.d.Active = false
	return b
}

func (b *DriverBuilder) Unauthorized() *DriverBuilder {
	b.d.Authorized = false
	return b
}

func (b *DriverBuilder) Admin() *DriverBuilder {
	b.d.IsAdmin = true
	return b
}

func (b *DriverBuilder) Busy() *DriverBuilder {
	b.d.Busy = true
	return b
}

func (b *DriverBuilder) WithQuietHours(from, to string) *DriverBuilder {
	b.d.QuietFrom = from
	b.d.QuietTo = to
	return b
}

func (b *DriverBuilder) WithBlacklistedAuthor(authorID int64) *DriverBuilder {
	if b.d.BlacklistedAuthors == nil {
		b.d.BlacklistedAuthors = make(map[int64]struct{})
	}
	b.d.BlacklistedAuthors[authorID] = struct{}{}
	return b
}

func (b *DriverBuilder) WithBlacklistedGroup(groupID int64) *DriverBuilder {
	if b.d.BlacklistedGroups == nil {
		b.d.BlacklistedGroups = make(map[int64]struct{})
	}
	b.d.BlacklistedGroups[groupID] = struct{}{}
	return b
}

func (b *DriverBuilder) WithFavoriteRoute(routeKey string) *DriverBuilder {
	if b.d.FavoriteRoutes == nil {
		b.d.FavoriteRoutes = make(map[string]struct{})
	}
	b.d.FavoriteRoutes[routeKey] = struct{}{}
	return b
}

func (b *DriverBuilder) Build() dal.Driver {
	return b.d
}

// MergeWindowBuilder provides a fluent API for building test merge windows
type MergeWindowBuilder struct {
	w dal.MergeWindow
}

func NewMergeWindow(routeKey string, start time.Time) *MergeWindowBuilder {
	return &MergeWindowBuilder{
		w: dal.MergeWindow{
			RouteKey:    routeKey,
			WindowStart: start,
			WindowEnd:   start.Add(dal.WindowDuration),
		},
	}
}

func (b *MergeWindowBuilder) WithRoute(pointA, pointB string) *MergeWindowBuilder {
	b.w.PointA = pointA
	b.w.PointB = pointB
	return b
}

func (b *MergeWindowBuilder) WithText(text string) *MergeWindowBuilder {
	b.w.OriginalText = text
	return b
}

func (b *MergeWindowBuilder) WithConfidence(confidence string) *MergeWindowBuilder {
	b.w.Confidence = confidence
	return b
}

func (b *MergeWindowBuilder) WithPrice(price int) *MergeWindowBuilder {
	b.w.Price = &price
	return b
}

func (b *MergeWindowBuilder) WithSeats(seats int) *MergeWindowBuilder {
	b.w.Seats = &seats
	return b
}

func (b *MergeWindowBuilder) WithAuthor(a dal.Author) *MergeWindowBuilder {
	b.w.Author = a
	return b
}

func (b *MergeWindowBuilder) WithLink(l dal.GroupLink) *MergeWindowBuilder {
	b.w.AttachLink(l)
	return b
}

func (b *MergeWindowBuilder) Build() dal.MergeWindow {
	return b.w
}

// NewGroupLink creates a group link with a derived t.me source link.
func NewGroupLink(groupID int64, messageID int) dal.GroupLink {
	return dal.GroupLink{
		GroupID:    groupID,
		GroupTitle: fmt.Sprintf("Группа %d", groupID),
		SourceLink: fmt.Sprintf("https://t.me/c/%d/%d", groupID, messageID),
		MessageID:  messageID,
		AddedAt:    time.Now(),
	}
}

// NotificationBuilder provides a fluent API for building test notifications
type NotificationBuilder struct {
	n dal.Notification
}

func NewNotification(driverID int64, routeKey string) *NotificationBuilder {
	return &NotificationBuilder{
		n: dal.Notification{
			RouteKey: routeKey,
			DriverID: driverID,
			State:    dal.DeliverySent,
		},
	}
}

func (b *NotificationBuilder) WithMessageID(id int) *NotificationBuilder {
	b.n.MessageID = id
	return b
}

func (b *NotificationBuilder) WithState(state dal.DeliveryState) *NotificationBuilder {
	b.n.State = state
	return b
}

func (b *NotificationBuilder) WithSentAt(t time.Time) *NotificationBuilder {
	b.n.SentAt = t
	return b
}

func (b *NotificationBuilder) WithEditedAt(t time.Time) *NotificationBuilder {
	b.n.EditedAt = t
	return b
}

func (b *NotificationBuilder) WithWindowStart(t time.Time) *NotificationBuilder {
	b.n.WindowStart = t
	return b
}

func (b *NotificationBuilder) Build() dal.Notification {
	return b.n
}
