package discovery

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/obs"
	"campus-activity-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/umahmood/haversine"
	"golang.org/x/sync/errgroup"
)

const (
	PlacesErrorMessage = "Failed to fetch nearby places"
	EventsErrorMessage = "Failed to fetch events"

	// Text query and place type used to find venues that host events.
	eventVenueQuery = "events venues conferences"
	eventVenueType  = "establishment"
)

// SearchError is a failed nearby search. Message is the user-facing text.
type SearchError struct {
	View domain.ViewMode
	Err  error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("%s search: %v", e.View, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

func (e *SearchError) Message() string {
	if e.View == domain.ViewEvents {
		return EventsErrorMessage
	}
	return PlacesErrorMessage
}

// Result of one search. Only the slice matching View is populated.
type Result struct {
	View   domain.ViewMode
	Places []domain.Place
	Events []domain.Event
}

// batchGeocoder is implemented by geocoders that resolve many addresses at
// once, such as the cached geocoder.
type batchGeocoder interface {
	GeocodeMany(ctx context.Context, addresses []string) (map[string]domain.Coordinate, error)
}

// SearchClient issues the places and events queries behind a nearby search.
// It holds no per-search state and is safe for concurrent use.
type SearchClient struct {
	places   ports.PlacesProvider
	events   ports.EventLister
	geocoder ports.Geocoder
	synth    *Synthesizer
}

// NewSearchClient wires the search dependencies. events and geocoder may be
// nil: without a store the events view only has synthesized events, and
// without a geocoder unlocated events stay at the {0,0} placeholder.
func NewSearchClient(
	places ports.PlacesProvider,
	events ports.EventLister,
	geocoder ports.Geocoder,
	synth *Synthesizer,
) (*SearchClient, error) {
	if places == nil {
		return nil, errors.New("search client: places provider is nil")
	}
	if synth == nil {
		synth = NewSynthesizer(1, nil)
	}
	return &SearchClient{places: places, events: events, geocoder: geocoder, synth: synth}, nil
}

// Search runs the query for criteria.ViewMode around origin. Failures are
// returned as *SearchError.
func (c *SearchClient) Search(
	ctx context.Context,
	origin domain.Coordinate,
	criteria domain.FilterCriteria,
) (Result, error) {
	switch criteria.ViewMode {
	case domain.ViewEvents:
		events, err := c.SearchEvents(ctx, origin, criteria)
		if err != nil {
			return Result{View: domain.ViewEvents}, &SearchError{View: domain.ViewEvents, Err: err}
		}
		return Result{View: domain.ViewEvents, Events: events}, nil
	default:
		places, err := c.SearchPlaces(ctx, origin, criteria)
		if err != nil {
			return Result{View: domain.ViewPlaces}, &SearchError{View: domain.ViewPlaces, Err: err}
		}
		return Result{View: domain.ViewPlaces, Places: places}, nil
	}
}

// SearchPlaces runs a nearby query. The category is omitted when it is "all".
func (c *SearchClient) SearchPlaces(
	ctx context.Context,
	origin domain.Coordinate,
	criteria domain.FilterCriteria,
) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "discovery.SearchPlaces")(&err)

	q := ports.NearbyQuery{
		Location:     origin,
		RadiusMeters: radiusOrDefault(criteria.RadiusMeters),
	}
	if criteria.Category != "" && criteria.Category != string(domain.CategoryAll) {
		q.Category = criteria.Category
	}

	places, err := c.places.NearbySearch(ctx, q)
	if err != nil {
		return nil, err
	}
	for i := range places {
		places[i].DistanceKm = distanceKm(origin, places[i].Location)
	}
	return places, nil
}

// SearchEvents merges stored events with events synthesized from venue
// text-search hits. Stored events come first. Both sources run
// concurrently and either failing fails the search.
func (c *SearchClient) SearchEvents(
	ctx context.Context,
	origin domain.Coordinate,
	criteria domain.FilterCriteria,
) (_ []domain.Event, err error) {
	defer obs.Time(ctx, "discovery.SearchEvents")(&err)

	var persisted, synthesized []domain.Event

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if c.events == nil {
			return nil
		}
		evs, err := c.events.ListEvents(gctx)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		c.locateEvents(gctx, evs)
		persisted = evs
		return nil
	})
	g.Go(func() error {
		hits, err := c.places.TextSearch(gctx, ports.TextQuery{
			Query:        eventVenueQuery,
			Location:     origin,
			RadiusMeters: radiusOrDefault(criteria.RadiusMeters),
			Category:     eventVenueType,
		})
		if err != nil {
			return fmt.Errorf("venue search: %w", err)
		}
		synthesized = c.synthesize(gctx, hits)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.Event, 0, len(persisted)+len(synthesized))
	out = append(out, persisted...)
	out = append(out, synthesized...)
	for i := range out {
		if out[i].Geometry != nil {
			out[i].DistanceKm = distanceKm(origin, *out[i].Geometry)
		}
	}
	return out, nil
}

// locateEvents fills in missing geometry by geocoding the location label.
// Events that cannot be resolved get the {0,0} placeholder.
func (c *SearchClient) locateEvents(ctx context.Context, evs []domain.Event) {
	var labels []string
	for i := range evs {
		if evs[i].Source == "" {
			evs[i].Source = domain.SourcePersisted
		}
		if evs[i].Geometry == nil && evs[i].Location != "" {
			labels = append(labels, evs[i].Location)
		}
	}

	var found map[string]domain.Coordinate
	if len(labels) > 0 && c.geocoder != nil {
		found = c.geocodeAll(ctx, labels)
	}
	for i := range evs {
		if evs[i].Geometry != nil {
			continue
		}
		coord := found[evs[i].Location]
		evs[i].Geometry = &coord
	}
}

func (c *SearchClient) synthesize(ctx context.Context, hits []ports.TextHit) []domain.Event {
	var labels []string
	for _, h := range hits {
		if h.Location == nil && h.FormattedAddress != "" {
			labels = append(labels, h.FormattedAddress)
		}
	}

	var found map[string]domain.Coordinate
	if len(labels) > 0 && c.geocoder != nil {
		found = c.geocodeAll(ctx, labels)
	}

	out := make([]domain.Event, 0, len(hits))
	for _, h := range hits {
		var loc domain.Coordinate
		if h.Location != nil {
			loc = *h.Location
		} else if coord, ok := found[h.FormattedAddress]; ok {
			loc = coord
		}
		out = append(out, c.synth.Synthesize(h, loc))
	}
	return out
}

// geocodeAll resolves labels, keyed by the label as given. Failures are
// logged and left out.
func (c *SearchClient) geocodeAll(ctx context.Context, labels []string) map[string]domain.Coordinate {
	if bg, ok := c.geocoder.(batchGeocoder); ok {
		found, err := bg.GeocodeMany(ctx, labels)
		if err != nil {
			log.Printf("op=discovery.geocode labels=%d err=%v", len(labels), err)
		}
		// GeocodeMany keys by whitespace-collapsed address.
		out := make(map[string]domain.Coordinate, len(labels))
		for _, l := range labels {
			if coord, ok := found[strings.Join(strings.Fields(l), " ")]; ok {
				out[l] = coord
			}
		}
		return out
	}

	out := make(map[string]domain.Coordinate, len(labels))
	for _, l := range labels {
		if _, done := out[l]; done {
			continue
		}
		coord, err := c.geocoder.Geocode(ctx, l)
		if err != nil {
			log.Printf("op=discovery.geocode label=%q err=%v", l, err)
			continue
		}
		out[l] = coord
	}
	return out
}

func radiusOrDefault(r int) int {
	if r <= 0 {
		return domain.DefaultRadiusMeters
	}
	return r
}

func distanceKm(a, b domain.Coordinate) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lng},
		haversine.Coord{Lat: b.Lat, Lon: b.Lng},
	)
	return km
}
