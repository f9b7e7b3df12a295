package geocoding

import (
	"campus-activity-service/internal/adapters/gmaps"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"
)

// GoogleGeocoder resolves addresses with the Google Geocoding web service.
type GoogleGeocoder struct {
	client *maps.Client
}

func NewGoogleGeocoder(client *maps.Client) (*GoogleGeocoder, error) {
	if client == nil {
		return nil, errors.New("google geocoder: maps client is nil")
	}
	return &GoogleGeocoder{client: client}, nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "google.Geocode")(&err)

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	if len(results) == 0 {
		return domain.Coordinate{}, fmt.Errorf("no geocode results for %q", address)
	}

	coord, ok := gmaps.Coordinate(results[0].Geometry.Location)
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	return coord, nil
}
