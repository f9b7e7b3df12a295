package dto

import (
	"campus-activity-service/internal/domain"
	"time"
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry mirrors the provider shape {location:{lat,lng}}.
type Geometry struct {
	Location LatLng `json:"location"`
}

type EventResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Type        string    `json:"type"`
	Capacity    int       `json:"capacity"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Geometry    *Geometry `json:"geometry,omitempty"`
	Attendees   *int      `json:"attendees,omitempty"`
	Source      string    `json:"source,omitempty"`
	DistanceKm  float64   `json:"distance_km,omitempty"`
}

type ListEventsResponse struct {
	Events []EventResponse `json:"events"`
}

type EventMessageResponse struct {
	Message string        `json:"message"`
	Event   EventResponse `json:"event"`
}

// EventRequest is the body of POST and PUT /api/events. Absent fields are
// left unchanged on update.
type EventRequest struct {
	ID          string     `json:"id"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Type        *string    `json:"type"`
	Capacity    *int       `json:"capacity"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Geometry    *Geometry  `json:"geometry"`
	Attendees   *int       `json:"attendees"`
}

func FromEvent(e domain.Event) EventResponse {
	res := EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Location:    e.Location,
		Type:        string(e.Type),
		Capacity:    e.Capacity,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Attendees:   e.Attendees,
		Source:      string(e.Source),
		DistanceKm:  e.DistanceKm,
	}
	if e.Geometry != nil {
		res.Geometry = &Geometry{Location: LatLng{Lat: e.Geometry.Lat, Lng: e.Geometry.Lng}}
	}
	return res
}

func FromEvents(events []domain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, FromEvent(e))
	}
	return out
}

// ToDomain converts a decoded response back into a domain event. Events
// without a source are treated as persisted.
func (r EventResponse) ToDomain() domain.Event {
	e := domain.Event{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		Type:        domain.Category(r.Type),
		Capacity:    r.Capacity,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Attendees:   r.Attendees,
		Source:      domain.Provenance(r.Source),
	}
	if e.Source == "" {
		e.Source = domain.SourcePersisted
	}
	if r.Geometry != nil {
		e.Geometry = &domain.Coordinate{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng}
	}
	return e
}
