package ports

import (
	"campus-activity-service/internal/domain"
	"context"
)

type NearbyQuery struct {
	Location     domain.Coordinate
	RadiusMeters int
	// Provider place type; empty means no type restriction.
	Category string
}

type TextQuery struct {
	Query        string
	Location     domain.Coordinate
	RadiusMeters int
	Category     string
}

// A text-search hit. Location is nil when the provider returned no geometry.
type TextHit struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	Location         *domain.Coordinate
}

// Contract for the external map/places provider. Implementations normalize
// provider coordinate shapes before returning.
type PlacesProvider interface {
	NearbySearch(ctx context.Context, q NearbyQuery) ([]domain.Place, error)
	TextSearch(ctx context.Context, q TextQuery) ([]TextHit, error)
}
