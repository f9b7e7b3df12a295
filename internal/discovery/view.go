package discovery

import (
	"campus-activity-service/internal/domain"
	"strings"
	"time"
)

// FilterPlaces keeps places whose name, vicinity or one of its types
// contains query, case-insensitively. An empty query keeps everything.
func FilterPlaces(places []domain.Place, query string) []domain.Place {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if q == "" || placeMatches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func placeMatches(p domain.Place, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Vicinity), q) {
		return true
	}
	for _, t := range p.Types {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// TimeWindow is a half-open [From, To) range.
type TimeWindow struct {
	From, To time.Time
}

// FilterEvents keeps events whose name, description or location label
// contains query and whose type equals category ("all" or empty matches
// any). A non-nil window additionally drops events not overlapping it.
func FilterEvents(events []domain.Event, query, category string, window *TimeWindow) []domain.Event {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if category != "" && category != string(domain.CategoryAll) && string(e.Type) != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(e.Name), q) &&
			!strings.Contains(strings.ToLower(e.Description), q) &&
			!strings.Contains(strings.ToLower(e.Location), q) {
			continue
		}
		if window != nil && !e.Overlaps(window.From, window.To) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// VisibleEvents applies the text, category and date criteria as of now.
func VisibleEvents(events []domain.Event, c domain.FilterCriteria, now time.Time) []domain.Event {
	var w *TimeWindow
	if c.Date != nil {
		from, to := c.Date.Window(now)
		w = &TimeWindow{From: from, To: to}
	}
	return FilterEvents(events, c.QueryText, c.Category, w)
}

func PlaceMarkers(places []domain.Place) []domain.MarkerSpec {
	out := make([]domain.MarkerSpec, 0, len(places))
	for _, p := range places {
		out = append(out, domain.MarkerSpec{Position: p.Location, Title: p.Name, Address: p.Vicinity})
	}
	return out
}

func EventMarkers(events []domain.Event) []domain.MarkerSpec {
	out := make([]domain.MarkerSpec, 0, len(events))
	for _, e := range events {
		out = append(out, domain.MarkerSpec{Position: e.Position(), Title: e.Name, Address: e.Location})
	}
	return out
}
