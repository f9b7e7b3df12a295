package domain

import (
	"errors"
	"time"
)

var ErrEventNotFound = errors.New("event not found")

// Category of an event. CategoryAll is only meaningful as a filter value.
type Category string

const (
	CategoryMusic      Category = "music"
	CategorySports     Category = "sports"
	CategoryArt        Category = "art"
	CategoryFood       Category = "food"
	CategoryNetworking Category = "networking"
	CategoryEducation  Category = "education"
	CategoryCommunity  Category = "community"
	CategoryCustom     Category = "custom"
	CategoryAll        Category = "all"
)

// Concrete event categories, excluding the "all" filter value.
var EventCategories = []Category{
	CategoryMusic,
	CategorySports,
	CategoryArt,
	CategoryFood,
	CategoryNetworking,
	CategoryEducation,
	CategoryCommunity,
	CategoryCustom,
}

func (c Category) Valid() bool {
	if c == CategoryAll {
		return true
	}
	for _, v := range EventCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Provenance distinguishes stored events from placeholder events generated
// out of places text-search hits.
type Provenance string

const (
	SourcePersisted   Provenance = "persisted"
	SourceSynthesized Provenance = "synthesized"
)

// Represents a schedulable activity.
// Persisted events come from the event store; synthesized events are
// placeholders built from places search hits and are never stored.
type Event struct {
	ID          string
	Name        string
	Description string
	Location    string
	Type        Category
	Capacity    int
	StartTime   time.Time
	EndTime     time.Time
	Geometry    *Coordinate
	Attendees   *int
	Source      Provenance

	// Distance from the search origin, for display only.
	DistanceKm float64
}

// Position returns the event coordinate, or the {0,0} placeholder when the
// event has not been located.
func (e Event) Position() Coordinate {
	if e.Geometry == nil {
		return Coordinate{}
	}
	return *e.Geometry
}

// Overlaps reports whether the event's [StartTime, EndTime] span intersects
// the half-open window [from, to).
func (e Event) Overlaps(from, to time.Time) bool {
	end := e.EndTime
	if end.Before(e.StartTime) {
		end = e.StartTime
	}
	return e.StartTime.Before(to) && !end.Before(from)
}
