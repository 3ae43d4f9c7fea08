package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/olexh/taxiscout/internal/geo"
)

// Confidence marks how the order was extracted. The dispatch path only
// forwards it for display; it never changes behavior.
type Confidence string

const (
	ConfidencePattern Confidence = "pattern"
	ConfidenceAI      Confidence = "ai"
)

// Order is the structured result of parsing a free-text ride-order posting.
type Order struct {
	PointA     string
	PointB     string
	Price      *int
	Seats      *int
	Confidence Confidence
}

//nolint:gochecknoglobals // static vocabulary
var orderKeywords = []string{
	"такси", "межгород", "междугород", "трансфер", "попутно",
	"нужна машина", "нужно такси", "кто повезет", "кто отвезет",
	"заказ", "свободн",
}

// closedMarkers reject postings about orders that are already taken.
//
//nolint:gochecknoglobals // static vocabulary
var closedMarkers = []string{
	"закрыт", "закрыто", "неактуально", "не актуально", "отбой",
	"нашли машину", "водитель найден",
}

// notCities are words the route patterns tend to capture that are never
// city names: units, weekdays, order vocabulary.
//
//nolint:gochecknoglobals // static vocabulary
var notCities = map[string]struct{}{
	"мин": {}, "час": {}, "чел": {}, "человек": {}, "человека": {},
	"пассажир": {}, "пассажира": {}, "пассажиров": {},
	"руб": {}, "рубль": {}, "рублей": {}, "тыс": {},
	"место": {}, "места": {}, "мест": {}, "багаж": {}, "багажа": {},
	"сегодня": {}, "завтра": {}, "вчера": {}, "утром": {}, "вечером": {},
	"срочно": {}, "свободно": {}, "занято": {},
	"такси": {}, "водитель": {}, "машина": {}, "авто": {}, "межгород": {},
	"цена": {}, "стоимость": {}, "торг": {}, "договорная": {},
	"заказ": {}, "заявка": {}, "бронь": {},
	"туда": {}, "обратно": {}, "попутно": {},
	"наличные": {}, "карта": {}, "перевод": {}, "оплата": {},
	"трансфер": {}, "вокзал": {}, "станция": {}, "остановка": {},
}

//nolint:gochecknoglobals // compiled once
var (
	dashRouteRe = regexp.MustCompile(`([А-ЯЁа-яё][А-ЯЁа-яё .\-]{1,30}?)\s*(?:[-–—→>]|->)+\s*([А-ЯЁа-яё][А-ЯЁа-яё .\-]{1,30})`)
	prepRouteRe = regexp.MustCompile(`(?:^|\s)(?:из|от)\s+([А-ЯЁа-яё][А-ЯЁа-яё.\-]{1,30})\s+(?:в|до|на)\s+([А-ЯЁа-яё][А-ЯЁа-яё.\-]{1,30})`)

	priceThousandsRe = regexp.MustCompile(`(\d{1,3})\s*(?:т\.?р|тыс)`)
	priceRubRe       = regexp.MustCompile(`(\d{3,6})\s*(?:₽|руб\S*|р(?:[.\s]|$))`)

	seatsRe = regexp.MustCompile(`(\d{1,2})\s*(?:чел|человек|пассажир|мест)`)
)

// Parse extracts a structured order from a posting. ok is false for texts
// that are not ride orders (no route, closed order, pure chatter).
func Parse(text string) (Order, bool) {
	if text == "" || isClosed(text) || !looksLikeOrder(text) {
		return Order{}, false
	}

	pointA, pointB := extractRoute(text)
	if pointA == "" || pointB == "" {
		return Order{}, false
	}

	return Order{
		PointA:     pointA,
		PointB:     pointB,
		Price:      extractPrice(text),
		Seats:      extractSeats(text),
		Confidence: ConfidencePattern,
	}, true
}

func isClosed(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range closedMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func looksLikeOrder(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range orderKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return dashRouteRe.MatchString(text) || prepRouteRe.MatchString(text)
}

func extractRoute(text string) (string, string) {
	for _, line := range strings.Split(text, "\n") {
		if m := dashRouteRe.FindStringSubmatch(line); m != nil {
			a, b := cleanEndpoint(m[1]), cleanEndpoint(m[2])
			if validEndpoint(a) && validEndpoint(b) {
				return a, b
			}
		}
	}

	if m := prepRouteRe.FindStringSubmatch(text); m != nil {
		a, b := cleanEndpoint(m[1]), cleanEndpoint(m[2])
		if validEndpoint(a) && validEndpoint(b) {
			return a, b
		}
	}

	return "", ""
}

// cleanEndpoint trims punctuation and sheds leading/trailing stop words so
// that "Такси Миасс" and "Златоуст срочно" capture just the city.
func cleanEndpoint(s string) string {
	fields := strings.Fields(strings.Trim(strings.TrimSpace(s), ".,-"))
	for len(fields) > 0 {
		if _, stop := notCities[geo.Normalize(fields[0])]; !stop {
			break
		}
		fields = fields[1:]
	}
	for len(fields) > 0 {
		if _, stop := notCities[geo.Normalize(fields[len(fields)-1])]; !stop {
			break
		}
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

func validEndpoint(s string) bool {
	n := geo.Normalize(s)
	if len([]rune(n)) < 3 {
		return false
	}
	if _, stop := notCities[n]; stop {
		return false
	}
	if n[0] >= '0' && n[0] <= '9' {
		return false
	}
	return true
}

func extractPrice(text string) *int {
	lower := strings.ToLower(text)

	if m := priceThousandsRe.FindStringSubmatch(lower); m != nil {
		v, err := strconv.Atoi(m[1])
		if err == nil && v > 0 {
			v *= 1000
			return &v
		}
	}

	if m := priceRubRe.FindStringSubmatch(lower); m != nil {
		v, err := strconv.Atoi(m[1])
		if err == nil && v > 0 {
			return &v
		}
	}

	return nil
}

func extractSeats(text string) *int {
	m := seatsRe.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return nil
	}
	v, err := strconv.Atoi(m[1])
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
