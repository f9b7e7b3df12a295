// Package gmaps holds the shared Google Maps Platform client setup and the
// conversion from provider coordinate shapes into domain.Coordinate.
package gmaps

import (
	"campus-activity-service/internal/domain"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

var ErrMissingAPIKey = errors.New("google maps API key is not configured")

// Requests per second allowed against the Maps web services.
const defaultRateLimit = 10

func NewClient(apiKey string, opts ...maps.ClientOption) (*maps.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	all := append([]maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithRateLimit(defaultRateLimit),
	}, opts...)

	client, err := maps.NewClient(all...)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return client, nil
}

// Coordinate converts provider coordinate values into a domain.Coordinate.
// Plain-field LatLng values are handled here; accessor shapes and domain
// values fall through to domain.NormalizeCoordinate.
func Coordinate(v any) (domain.Coordinate, bool) {
	switch c := v.(type) {
	case maps.LatLng:
		return domain.Coordinate{Lat: c.Lat, Lng: c.Lng}, true
	case *maps.LatLng:
		if c == nil {
			return domain.Coordinate{}, false
		}
		return domain.Coordinate{Lat: c.Lat, Lng: c.Lng}, true
	default:
		return domain.NormalizeCoordinate(v)
	}
}

// LatLng converts a domain coordinate into the provider request shape.
func LatLng(c domain.Coordinate) *maps.LatLng {
	return &maps.LatLng{Lat: c.Lat, Lng: c.Lng}
}
