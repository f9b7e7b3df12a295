package places

import (
	"campus-activity-service/internal/adapters/gmaps"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/obs"
	"campus-activity-service/internal/ports"
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"
)

// GooglePlacesProvider implements PlacesProvider using the Google Places web service.
// Provider results are normalized into domain values before they are returned.
// The provider is safe for concurrent use.
type GooglePlacesProvider struct {
	client *maps.Client
}

func NewGooglePlacesProvider(client *maps.Client) (*GooglePlacesProvider, error) {
	if client == nil {
		return nil, errors.New("places provider: maps client is nil")
	}
	return &GooglePlacesProvider{client: client}, nil
}

func (g *GooglePlacesProvider) NearbySearch(
	ctx context.Context,
	q ports.NearbyQuery,
) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "places.NearbySearch")(&err)

	req := &maps.NearbySearchRequest{
		Location: gmaps.LatLng(q.Location),
		Radius:   uint(q.RadiusMeters),
	}
	if q.Category != "" {
		req.Type = maps.PlaceType(q.Category)
	}

	resp, err := g.client.NearbySearch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("nearby search: %w", err)
	}

	out := make([]domain.Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, NormalizeResult(r))
	}

	return out, nil
}

func (g *GooglePlacesProvider) TextSearch(
	ctx context.Context,
	q ports.TextQuery,
) (_ []ports.TextHit, err error) {
	defer obs.Time(ctx, "places.TextSearch")(&err)

	req := &maps.TextSearchRequest{
		Query:    q.Query,
		Location: gmaps.LatLng(q.Location),
		Radius:   uint(q.RadiusMeters),
	}
	if q.Category != "" {
		req.Type = maps.PlaceType(q.Category)
	}

	resp, err := g.client.TextSearch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	out := make([]ports.TextHit, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, NormalizeTextHit(r))
	}

	return out, nil
}
