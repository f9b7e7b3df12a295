package places

import (
	"campus-activity-service/internal/adapters/gmaps"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"

	"googlemaps.github.io/maps"
)

// NormalizeResult maps a provider search result into a domain.Place.
// The provider reports "no rating" as zero values; those become nil.
func NormalizeResult(r maps.PlacesSearchResult) domain.Place {
	p := domain.Place{
		ID:       r.PlaceID,
		Name:     r.Name,
		Vicinity: r.Vicinity,
		Types:    append([]string(nil), r.Types...),
	}

	if loc, ok := gmaps.Coordinate(r.Geometry.Location); ok {
		p.Location = loc
	}

	if r.Rating > 0 || r.UserRatingsTotal > 0 {
		rating := float64(r.Rating)
		count := r.UserRatingsTotal
		p.Rating = &rating
		p.RatingCount = &count
	}

	for _, ph := range r.Photos {
		if ph.PhotoReference != "" {
			p.PhotoRefs = append(p.PhotoRefs, ph.PhotoReference)
		}
	}

	return p
}

// NormalizeTextHit maps a provider text-search result. A zero geometry is
// treated as missing so callers can fall back to geocoding the address.
func NormalizeTextHit(r maps.PlacesSearchResult) ports.TextHit {
	hit := ports.TextHit{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
	}

	if loc, ok := gmaps.Coordinate(r.Geometry.Location); ok && !loc.IsZero() {
		hit.Location = &loc
	}

	return hit
}
