package service

import (
	"time"

	"github.com/olexh/taxiscout/internal/dal"
	"github.com/olexh/taxiscout/internal/geo"
	"github.com/olexh/taxiscout/internal/ingest"
	"github.com/olexh/taxiscout/internal/parser"
)

// CandidateOrder is one observed posting of a ride order, already parsed
// into structure and joined with its group/message metadata. Immutable
// once constructed.
type CandidateOrder struct {
	PointA string
	PointB string
	Price  *int
	Seats  *int

	Confidence parser.Confidence

	GroupID    int64
	GroupTitle string
	SourceLink string
	MessageID  int

	Author dal.Author

	OriginalText string
	ObservedAt   time.Time
}

// NewCandidateOrder joins a parsed order with the posting event it came from.
func NewCandidateOrder(order parser.Order, e ingest.Event) CandidateOrder {
	return CandidateOrder{
		PointA:       order.PointA,
		PointB:       order.PointB,
		Price:        order.Price,
		Seats:        order.Seats,
		Confidence:   order.Confidence,
		GroupID:      e.GroupID,
		GroupTitle:   e.GroupTitle,
		SourceLink:   e.SourceLink(),
		MessageID:    e.MessageID,
		Author: dal.Author{
			ID:        e.AuthorID,
			Username:  e.AuthorUsername,
			FirstName: e.AuthorFirstName,
		},
		OriginalText: e.Text,
		ObservedAt:   e.ObservedAt,
	}
}

// GroupLink snapshots the posting for the merge window.
func (c CandidateOrder) GroupLink() dal.GroupLink {
	title := c.GroupTitle
	if title == "" {
		title = "Группа"
	}
	return dal.GroupLink{
		GroupID:    c.GroupID,
		GroupTitle: title,
		SourceLink: c.SourceLink,
		MessageID:  c.MessageID,
		Author:     c.Author,
		AddedAt:    c.ObservedAt,
	}
}

// RouteKey is the canonical, direction-sensitive identity of a route.
// Candidates whose normalized endpoints are equal always derive the same
// key; A→B and B→A never collide.
type RouteKey string

// DeriveRouteKey normalizes both endpoints and joins them. Endpoints that
// resolve to a registered city collapse to the canonical city name
// (aliases, declensions); unknown endpoints degrade to their normalized
// raw text, which keeps derivation total at the cost of weaker merging.
func DeriveRouteKey(pointA, pointB string) RouteKey {
	return RouteKey(normalizeEndpoint(pointA) + ":" + normalizeEndpoint(pointB))
}

func normalizeEndpoint(s string) string {
	if city, _, ok := geo.Resolve(s); ok {
		return city
	}
	return geo.Normalize(s)
}
