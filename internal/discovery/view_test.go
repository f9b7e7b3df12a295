package discovery

import (
	"campus-activity-service/internal/domain"
	"testing"
	"time"
)

func names(events []domain.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Name)
	}
	return out
}

func TestFilterEventsByCategoryAndText(t *testing.T) {
	events := []domain.Event{
		{Name: "Jazz Night", Type: domain.CategoryMusic},
		{Name: "5K Run", Type: domain.CategorySports},
	}

	got := names(FilterEvents(events, "", "music", nil))
	if len(got) != 1 || got[0] != "Jazz Night" {
		t.Fatalf("music filter = %v, want [Jazz Night]", got)
	}

	got = names(FilterEvents(events, "run", "all", nil))
	if len(got) != 1 || got[0] != "5K Run" {
		t.Fatalf("text filter = %v, want [5K Run]", got)
	}

	got = names(FilterEvents(events, "", "all", nil))
	if len(got) != 2 {
		t.Fatalf("no filter = %v, want both", got)
	}
}

func TestFilterEventsMatchesLocationLabel(t *testing.T) {
	events := []domain.Event{
		{Name: "Hack Night", Location: "Boyd Research Center", Type: domain.CategoryEducation},
		{Name: "Open Mic", Location: "Tate Student Center", Type: domain.CategoryMusic},
	}
	got := names(FilterEvents(events, "tate", "", nil))
	if len(got) != 1 || got[0] != "Open Mic" {
		t.Fatalf("location filter = %v, want [Open Mic]", got)
	}
}

func TestVisibleEventsDateWindow(t *testing.T) {
	now := time.Date(2026, 1, 14, 9, 0, 0, 0, time.UTC) // Wednesday
	events := []domain.Event{
		{Name: "Today", StartTime: now.Add(2 * time.Hour), EndTime: now.Add(3 * time.Hour)},
		{Name: "Tomorrow", StartTime: now.Add(26 * time.Hour), EndTime: now.Add(27 * time.Hour)},
	}

	c := domain.DefaultCriteria()
	c.Date = &domain.DateFilter{Preset: domain.DateTomorrow}

	got := names(VisibleEvents(events, c, now))
	if len(got) != 1 || got[0] != "Tomorrow" {
		t.Fatalf("tomorrow window = %v, want [Tomorrow]", got)
	}
}

func TestFilterPlaces(t *testing.T) {
	places := []domain.Place{
		{ID: "1", Name: "Jittery Joe's", Vicinity: "Broad St", Types: []string{"cafe"}},
		{ID: "2", Name: "Ramsey Center", Vicinity: "River Rd", Types: []string{"gym"}},
	}

	if got := FilterPlaces(places, "BROAD"); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("vicinity match = %v", got)
	}
	if got := FilterPlaces(places, "gym"); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("type match = %v", got)
	}
	if got := FilterPlaces(places, "  "); len(got) != 2 {
		t.Fatalf("blank query kept %d, want 2", len(got))
	}
}

func TestEventMarkersUsePlaceholderForUnlocated(t *testing.T) {
	at := domain.Coordinate{Lat: 1, Lng: 2}
	markers := EventMarkers([]domain.Event{
		{Name: "A", Location: "Somewhere", Geometry: &at},
		{Name: "B"},
	})
	if markers[0].Position != at || markers[0].Address != "Somewhere" {
		t.Fatalf("marker 0 = %+v", markers[0])
	}
	if !markers[1].Position.IsZero() {
		t.Fatalf("marker 1 position = %+v, want zero", markers[1].Position)
	}
}
