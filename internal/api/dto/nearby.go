package dto

import "campus-activity-service/internal/domain"

type PlaceResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Vicinity    string   `json:"vicinity"`
	Types       []string `json:"types"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int     `json:"user_ratings_total,omitempty"`
	Location    LatLng   `json:"location"`
	PhotoRefs   []string `json:"photo_refs,omitempty"`
	DistanceKm  float64  `json:"distance_km"`
}

type MarkerResponse struct {
	Position LatLng `json:"position"`
	Title    string `json:"title"`
	Address  string `json:"address,omitempty"`
}

type SearchStateResponse struct {
	IsLoading bool    `json:"is_loading"`
	Error     *string `json:"error"`
}

type NearbyResponse struct {
	View    string              `json:"view"`
	State   SearchStateResponse `json:"state"`
	Places  []PlaceResponse     `json:"places,omitempty"`
	Events  []EventResponse     `json:"events,omitempty"`
	Markers []MarkerResponse    `json:"markers"`
}

func FromPlaces(places []domain.Place) []PlaceResponse {
	out := make([]PlaceResponse, 0, len(places))
	for _, p := range places {
		types := p.Types
		if types == nil {
			types = []string{}
		}
		out = append(out, PlaceResponse{
			ID:          p.ID,
			Name:        p.Name,
			Vicinity:    p.Vicinity,
			Types:       types,
			Rating:      p.Rating,
			RatingCount: p.RatingCount,
			Location:    LatLng{Lat: p.Location.Lat, Lng: p.Location.Lng},
			PhotoRefs:   p.PhotoRefs,
			DistanceKm:  p.DistanceKm,
		})
	}
	return out
}

func FromMarkers(markers []domain.MarkerSpec) []MarkerResponse {
	out := make([]MarkerResponse, 0, len(markers))
	for _, m := range markers {
		out = append(out, MarkerResponse{
			Position: LatLng{Lat: m.Position.Lat, Lng: m.Position.Lng},
			Title:    m.Title,
			Address:  m.Address,
		})
	}
	return out
}
