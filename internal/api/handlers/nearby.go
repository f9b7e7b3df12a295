package handlers

import (
	"campus-activity-service/internal/adapters/maprender"
	"campus-activity-service/internal/api/dto"
	"campus-activity-service/internal/discovery"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"errors"
	"fmt"
	"image/png"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const maxRadiusMeters = 50000

// NearbyHandler runs one-shot discovery searches around a coordinate.
// Search is nil when no places provider is configured.
type NearbyHandler struct {
	Search   *discovery.SearchClient
	Renderer *maprender.Renderer
	Campus   domain.Coordinate
	Now      func() time.Time
}

type nearbyQuery struct {
	origin   domain.Coordinate
	criteria domain.FilterCriteria
	zoom     int
}

func (h *NearbyHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	q, ok := h.prepare(w, r)
	if !ok {
		return
	}

	res, err := h.Search.Search(r.Context(), q.origin, q.criteria)
	out := dto.NearbyResponse{View: string(q.criteria.ViewMode), Markers: []dto.MarkerResponse{}}
	if err != nil {
		log.Printf("nearby search failed: view=%s err=%v", q.criteria.ViewMode, err)
		msg := searchMessage(err)
		out.State.Error = &msg
		writeJSON(w, r, http.StatusBadGateway, out)
		return
	}

	markers := h.project(&out, res, q.criteria)
	out.Markers = dto.FromMarkers(markers)
	writeJSON(w, r, http.StatusOK, out)
}

// Map renders the filtered markers to a PNG.
func (h *NearbyHandler) Map(w http.ResponseWriter, r *http.Request) {
	q, ok := h.prepare(w, r)
	if !ok {
		return
	}
	if h.Renderer == nil {
		writeError(w, r, http.StatusServiceUnavailable, "map renderer is not configured")
		return
	}

	surface := h.Renderer.NewSurface()
	if err := surface.Load(r.Context()); err != nil {
		log.Printf("map load failed: %v", err)
		writeError(w, r, http.StatusServiceUnavailable, "map is unavailable")
		return
	}

	res, err := h.Search.Search(r.Context(), q.origin, q.criteria)
	if err != nil {
		log.Printf("map search failed: view=%s err=%v", q.criteria.ViewMode, err)
		writeError(w, r, http.StatusBadGateway, searchMessage(err))
		return
	}

	var scratch dto.NearbyResponse
	layer := discovery.NewMarkerLayer(surface)
	if err := layer.Replace(h.project(&scratch, res, q.criteria)); err != nil {
		log.Printf("map markers failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	origin := q.origin
	surface.SetView(ports.MapView{Center: origin, Zoom: q.zoom, ShowUserLocation: true, UserLocation: &origin})

	img, err := surface.Snapshot(r.Context())
	if err != nil {
		log.Printf("map snapshot failed: %v", err)
		if errors.Is(err, maprender.ErrNotLoaded) {
			writeError(w, r, http.StatusServiceUnavailable, "map is unavailable")
			return
		}
		writeError(w, r, http.StatusBadGateway, "map is unavailable")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if err := png.Encode(w, img); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func (h *NearbyHandler) prepare(w http.ResponseWriter, r *http.Request) (nearbyQuery, bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return nearbyQuery{}, false
	}
	if h.Search == nil {
		writeError(w, r, http.StatusServiceUnavailable, "places provider is not configured")
		return nearbyQuery{}, false
	}

	q, err := parseNearbyQuery(r.URL.Query(), h.Campus)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return nearbyQuery{}, false
	}
	return q, true
}

// project fills the list fields of out and returns the markers to draw.
func (h *NearbyHandler) project(out *dto.NearbyResponse, res discovery.Result, c domain.FilterCriteria) []domain.MarkerSpec {
	if c.ViewMode == domain.ViewEvents {
		now := time.Now
		if h.Now != nil {
			now = h.Now
		}
		events := discovery.VisibleEvents(res.Events, c, now())
		out.Events = dto.FromEvents(events)
		return discovery.EventMarkers(events)
	}

	places := discovery.FilterPlaces(res.Places, c.QueryText)
	out.Places = dto.FromPlaces(places)
	return discovery.PlaceMarkers(places)
}

func searchMessage(err error) string {
	var serr *discovery.SearchError
	if errors.As(err, &serr) {
		return serr.Message()
	}
	return discovery.PlacesErrorMessage
}

func parseNearbyQuery(v url.Values, campus domain.Coordinate) (nearbyQuery, error) {
	q := nearbyQuery{origin: campus, criteria: domain.DefaultCriteria(), zoom: discovery.DefaultZoom}

	lat, lng := v.Get("lat"), v.Get("lng")
	if lat != "" || lng != "" {
		la, err1 := strconv.ParseFloat(lat, 64)
		ln, err2 := strconv.ParseFloat(lng, 64)
		// ParseFloat accepts "NaN", which passes every range check.
		if err1 != nil || err2 != nil || math.IsNaN(la) || math.IsNaN(ln) ||
			la < -90 || la > 90 || ln < -180 || ln > 180 {
			return nearbyQuery{}, errors.New("lat and lng must be valid coordinates")
		}
		q.origin = domain.Coordinate{Lat: la, Lng: ln}
	}

	mode, err := domain.ParseViewMode(v.Get("view"))
	if err != nil {
		return nearbyQuery{}, err
	}
	q.criteria.ViewMode = mode

	if s := v.Get("radius"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxRadiusMeters {
			return nearbyQuery{}, fmt.Errorf("radius must be between 1 and %d meters", maxRadiusMeters)
		}
		q.criteria.RadiusMeters = n
	}

	if s := strings.ToLower(strings.TrimSpace(v.Get("category"))); s != "" {
		valid := domain.IsPlaceCategory(s)
		if mode == domain.ViewEvents {
			valid = domain.Category(s).Valid()
		}
		if !valid {
			return nearbyQuery{}, fmt.Errorf("unknown category %q for %s view", s, mode)
		}
		q.criteria.Category = s
	}

	q.criteria.QueryText = strings.TrimSpace(v.Get("q"))

	if s := v.Get("date"); s != "" {
		preset, err := domain.ParseDatePreset(s)
		if err != nil {
			return nearbyQuery{}, err
		}
		f := &domain.DateFilter{Preset: preset}
		if preset == domain.DateCustom {
			day, err := time.ParseInLocation(time.DateOnly, v.Get("day"), time.Local)
			if err != nil {
				return nearbyQuery{}, errors.New("day must be YYYY-MM-DD for a custom date filter")
			}
			f.Day = day
		}
		q.criteria.Date = f
	}

	if s := v.Get("zoom"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 21 {
			return nearbyQuery{}, errors.New("zoom must be between 1 and 21")
		}
		q.zoom = n
	}

	return q, nil
}
