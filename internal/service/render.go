package service

import (
	"bytes"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"text/template"
	"time"

	"github.com/olexh/taxiscout/internal/dal"
	"github.com/olexh/taxiscout/internal/parser"
)

//nolint:gochecknoglobals // it's template
var orderTemplate = template.Must(template.New("order").Parse(`{{if .Admin}}[ADMIN] {{end}}{{if .Favorite}}⭐ {{end}}🔊 <b>{{.PointA}} → {{.PointB}}</b>

📍 Точка А: <b>{{.PointA}}</b>
📍 Точка Б: <b>{{.PointB}}</b>
{{if .Price}}💰 Цена: {{.Price}} ₽
{{end}}{{if .Seats}}👥 Мест: {{.Seats}}
{{end}}{{if .Distance}}📏 До точки А: {{.Distance}} км
{{end}}{{if .AI}}🤖 Текст распознан ИИ
{{end}}
{{.Text}}

• <a href="{{.MapLink}}">Маршрут до точки «А»</a>
──────────────────
Заказ выложен в группах:
{{range .Links}}➡️ <a href="{{.URL}}">{{.Title}}</a>{{if .Service}} ✅{{end}}
{{end}}{{if .HasService}}✅ = наша группа
{{end}}{{if .AuthorURL}}Заказ выложил:
<a href="{{.AuthorURL}}">{{.AuthorText}}</a>{{end}}`))

type (
	orderView struct {
		Admin    bool
		Favorite bool
		PointA   string
		PointB   string
		Price    string
		Seats    string
		Distance string
		AI       bool
		Text     string
		MapLink  string

		Links      []orderLinkView
		HasService bool

		AuthorURL  string
		AuthorText string
	}

	orderLinkView struct {
		URL     string
		Title   string
		Service bool
	}
)

// Renderer builds the HTML notification text for a merged order. The same
// window renders differently per driver: favorite badge, distance line and
// the admin prefix are all recipient-specific.
type Renderer struct {
	serviceGroups map[int64]struct{}
}

func NewRenderer(serviceGroupIDs []int64) *Renderer {
	groups := make(map[int64]struct{}, len(serviceGroupIDs))
	for _, id := range serviceGroupIDs {
		groups[normGroupID(id)] = struct{}{}
	}
	return &Renderer{serviceGroups: groups}
}

// Render produces the message for one recipient. distanceKm may be nil when
// the driver's distance to point A is unknown; admin adds the fan-out prefix.
func (r *Renderer) Render(w dal.MergeWindow, d dal.Driver, distanceKm *float64, admin bool) (string, error) {
	v := orderView{
		Admin:    admin,
		Favorite: d.FavoriteRoute(w.RouteKey),
		PointA:   html.EscapeString(w.PointA),
		PointB:   html.EscapeString(w.PointB),
		AI:       w.Confidence == string(parser.ConfidenceAI),
		Text:     html.EscapeString(w.OriginalText),
		MapLink:  "https://yandex.ru/maps/?text=" + url.QueryEscape(w.PointA),
	}

	if w.Price != nil {
		v.Price = strconv.Itoa(*w.Price)
	}
	if w.Seats != nil {
		v.Seats = strconv.Itoa(*w.Seats)
	}
	if distanceKm != nil {
		v.Distance = strconv.FormatFloat(*distanceKm, 'f', 1, 64)
	}

	for _, l := range w.Links {
		service := r.isServiceGroup(l.GroupID)
		v.Links = append(v.Links, orderLinkView{
			URL:     l.SourceLink,
			Title:   html.EscapeString(l.GroupTitle),
			Service: service,
		})
		if service {
			v.HasService = true
		}
	}

	v.AuthorURL, v.AuthorText = authorLink(w.Author)

	var buf bytes.Buffer
	if err := orderTemplate.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render order message: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) isServiceGroup(groupID int64) bool {
	if groupID == 0 {
		return false
	}
	_, ok := r.serviceGroups[normGroupID(groupID)]
	return ok
}

// NewestSourceLink returns the source link of the most recently attached
// posting; the inline button targets it.
func NewestSourceLink(w dal.MergeWindow) string {
	var link string
	var newest time.Time
	for _, l := range w.Links {
		if link == "" || l.AddedAt.After(newest) {
			link = l.SourceLink
			newest = l.AddedAt
		}
	}
	return link
}

func authorLink(a dal.Author) (href, text string) {
	if a.Empty() {
		return "", ""
	}
	if a.Username != "" {
		return "https://t.me/" + a.Username, "@" + html.EscapeString(a.Username)
	}
	text = a.FirstName
	if text == "" {
		text = "Автор"
	}
	return "tg://user?id=" + strconv.FormatInt(a.ID, 10), html.EscapeString(text)
}
