package geo

import (
	"strings"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// Distance returns the haversine distance between two points in kilometers.
func Distance(a, b Point) float64 {
	return orbgeo.DistanceHaversine(orb.Point{a.Lon, a.Lat}, orb.Point{b.Lon, b.Lat}) / 1000
}

// WithinRadius reports whether b lies within radiusKm of a.
func WithinRadius(a, b Point, radiusKm float64) bool {
	return Distance(a, b) <= radiusKm
}

// Normalize folds a free-text location into comparable form: lower case,
// trimmed, ё folded to е, punctuation replaced by spaces, runs of
// whitespace collapsed.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "ё", "е")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'а' && r <= 'я', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Resolve maps a raw location string to a canonical city name and its
// coordinates. Aliases and declensions collapse to the canonical form first.
// ok is false when the location is unknown to the registry; callers are
// expected to degrade gracefully rather than fail.
func Resolve(name string) (string, Point, bool) {
	n := Normalize(name)
	if n == "" {
		return "", Point{}, false
	}

	if canonical, ok := cityAliases[n]; ok {
		n = canonical
	}
	if canonical, ok := cityDeclensions[n]; ok {
		n = canonical
	}

	pt, ok := cityCoordinates[n]
	if !ok {
		return "", Point{}, false
	}
	return n, pt, true
}

// Known reports whether the location resolves to a registered city.
func Known(name string) bool {
	_, _, ok := Resolve(name)
	return ok
}
