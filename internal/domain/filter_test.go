package domain

import (
	"testing"
	"time"
)

func TestDateFilterWindow(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC) }

	// Wednesday afternoon.
	wed := time.Date(2026, 1, 14, 15, 30, 0, 0, time.UTC)

	cases := []struct {
		name     string
		now      time.Time
		filter   DateFilter
		from, to time.Time
	}{
		{"today", wed, DateFilter{Preset: DateToday}, day(14), day(15)},
		{"tomorrow", wed, DateFilter{Preset: DateTomorrow}, day(15), day(16)},
		{"this week", wed, DateFilter{Preset: DateThisWeek}, day(14), day(19)},
		{"this weekend", wed, DateFilter{Preset: DateThisWeekend}, day(17), day(19)},
		{"weekend on saturday", day(17).Add(10 * time.Hour), DateFilter{Preset: DateThisWeekend}, day(17), day(19)},
		{"weekend on sunday", day(18).Add(10 * time.Hour), DateFilter{Preset: DateThisWeekend}, day(18), day(19)},
		{"next week", wed, DateFilter{Preset: DateNextWeek}, day(19), day(26)},
		{"next week from monday", day(12), DateFilter{Preset: DateNextWeek}, day(19), day(26)},
		{"custom", wed, DateFilter{Preset: DateCustom, Day: day(20).Add(13 * time.Hour)}, day(20), day(21)},
	}

	for _, tc := range cases {
		from, to := tc.filter.Window(tc.now)
		if !from.Equal(tc.from) || !to.Equal(tc.to) {
			t.Errorf("%s: window = [%v, %v), want [%v, %v)", tc.name, from, to, tc.from, tc.to)
		}
	}
}

func TestParseViewMode(t *testing.T) {
	if v, err := ParseViewMode(""); err != nil || v != ViewPlaces {
		t.Fatalf("empty view = %q, %v; want places", v, err)
	}
	if v, err := ParseViewMode("events"); err != nil || v != ViewEvents {
		t.Fatalf("events view = %q, %v", v, err)
	}
	if _, err := ParseViewMode("calendar"); err == nil {
		t.Fatal("expected error for unknown view mode")
	}
}

func TestEventOverlaps(t *testing.T) {
	start := time.Date(2026, 1, 14, 23, 0, 0, 0, time.UTC)
	e := Event{StartTime: start, EndTime: start.Add(2 * time.Hour)}

	if !e.Overlaps(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)) {
		t.Error("event running past midnight should overlap the next day")
	}
	if e.Overlaps(time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC)) {
		t.Error("event should not overlap a later day")
	}
}
