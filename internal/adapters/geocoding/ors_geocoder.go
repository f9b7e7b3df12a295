package geocoding

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ORSGeocoder implements Geocoder using OpenRouteService (/geocode/search).
// Transient failures are retried by search. The geocoder is safe for
// concurrent use.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
	country string
	backoff time.Duration
}

func NewORSGeocoder(apiKey string) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSGeocoder{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		country: "US",
		backoff: 200 * time.Millisecond,
	}, nil
}

func (o *ORSGeocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinate, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinate{}, errors.New("ors geocode: address must be non-empty")
	}

	res, err := o.search(ctx, norm)
	if err != nil {
		return domain.Coordinate{}, err
	}
	if len(res.Features) == 0 {
		return domain.Coordinate{}, fmt.Errorf("ors geocode %q: %w", address, ErrNoMatch)
	}

	// GeoJSON order is [lng, lat].
	coord, ok := domain.NormalizeCoordinate(res.Features[0].Geometry.Coordinates)
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("ors geocode %q: invalid coordinate format", address)
	}

	return coord, nil
}
