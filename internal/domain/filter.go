package domain

import (
	"fmt"
	"time"
)

// ViewMode selects which query and filter set is active.
type ViewMode string

const (
	ViewPlaces ViewMode = "places"
	ViewEvents ViewMode = "events"
)

func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case "", ViewPlaces:
		return ViewPlaces, nil
	case ViewEvents:
		return ViewEvents, nil
	default:
		return "", fmt.Errorf("unknown view mode %q", s)
	}
}

const DefaultRadiusMeters = 2000

// Radius choices offered to users, in meters.
var RadiusOptions = []int{1000, 2000, 5000, 10000}

// User-adjustable query parameters. Searches read the criteria value current
// at the moment they fire.
type FilterCriteria struct {
	QueryText    string
	Category     string
	RadiusMeters int
	Date         *DateFilter
	ViewMode     ViewMode
}

// DefaultCriteria returns the initial criteria: all categories, 2 km, places view.
func DefaultCriteria() FilterCriteria {
	return FilterCriteria{
		Category:     string(CategoryAll),
		RadiusMeters: DefaultRadiusMeters,
		ViewMode:     ViewPlaces,
	}
}

type DatePreset string

const (
	DateToday       DatePreset = "today"
	DateTomorrow    DatePreset = "tomorrow"
	DateThisWeek    DatePreset = "this_week"
	DateThisWeekend DatePreset = "this_weekend"
	DateNextWeek    DatePreset = "next_week"
	DateCustom      DatePreset = "custom"
)

// DateFilter restricts events to a calendar window. Day is only read for
// the custom preset.
type DateFilter struct {
	Preset DatePreset
	Day    time.Time
}

func ParseDatePreset(s string) (DatePreset, error) {
	switch p := DatePreset(s); p {
	case DateToday, DateTomorrow, DateThisWeek, DateThisWeekend, DateNextWeek, DateCustom:
		return p, nil
	default:
		return "", fmt.Errorf("unknown date filter %q", s)
	}
}

// Window resolves the filter to a half-open [from, to) range in now's
// location. Weeks start on Monday.
func (f DateFilter) Window(now time.Time) (from, to time.Time) {
	today := startOfDay(now)

	switch f.Preset {
	case DateTomorrow:
		from = today.AddDate(0, 0, 1)
		return from, from.AddDate(0, 0, 1)
	case DateThisWeek:
		return today, today.AddDate(0, 0, daysUntilMonday(today.Weekday()))
	case DateThisWeekend:
		switch today.Weekday() {
		case time.Saturday:
			return today, today.AddDate(0, 0, 2)
		case time.Sunday:
			return today, today.AddDate(0, 0, 1)
		}
		from = today.AddDate(0, 0, int(time.Saturday-today.Weekday()))
		return from, from.AddDate(0, 0, 2)
	case DateNextWeek:
		from = today.AddDate(0, 0, daysUntilMonday(today.Weekday()))
		return from, from.AddDate(0, 0, 7)
	case DateCustom:
		from = startOfDay(f.Day.In(now.Location()))
		return from, from.AddDate(0, 0, 1)
	default:
		return today, today.AddDate(0, 0, 1)
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func daysUntilMonday(wd time.Weekday) int {
	n := (8 - int(wd)) % 7
	if n == 0 {
		n = 7
	}
	return n
}
