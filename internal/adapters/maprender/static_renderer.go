package maprender

import (
	"campus-activity-service/internal/adapters/gmaps"
	"campus-activity-service/internal/discovery"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/obs"
	"campus-activity-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"googlemaps.github.io/maps"
)

var ErrNotLoaded = errors.New("map renderer is not loaded")

const (
	defaultSize = "640x480"
	markerColor = "0xBA0C2F"
)

// Renderer owns the Google Static Maps client. The client is created once
// by a ScriptLoader; without an API key every Load fails and snapshots
// report ErrNotLoaded. Surfaces created from one Renderer share the load.
type Renderer struct {
	apiKey string
	loader *discovery.ScriptLoader

	mu     sync.Mutex
	client *maps.Client
}

func NewRenderer(apiKey string) *Renderer {
	r := &Renderer{apiKey: apiKey}
	r.loader = discovery.NewScriptLoader(r.bootstrap)
	return r
}

func (r *Renderer) bootstrap(ctx context.Context) error {
	client, err := gmaps.NewClient(r.apiKey)
	if err != nil {
		return fmt.Errorf("map bootstrap: %w", err)
	}

	r.mu.Lock()
	r.client = client
	r.mu.Unlock()
	return nil
}

func (r *Renderer) Load(ctx context.Context) error {
	return r.loader.Load(ctx)
}

func (r *Renderer) State() discovery.LoadState {
	return r.loader.State()
}

func (r *Renderer) loaded() (*maps.Client, error) {
	r.mu.Lock()
	client := r.client
	r.mu.Unlock()

	if client != nil {
		return client, nil
	}
	if lerr := r.loader.Err(); lerr != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotLoaded, lerr)
	}
	return nil, ErrNotLoaded
}

// StaticRenderer is a MapSurface keeping markers in memory and rendering
// them through its Renderer.
type StaticRenderer struct {
	renderer *Renderer

	mu      sync.Mutex
	next    int
	order   []ports.MarkerHandle
	markers map[ports.MarkerHandle]domain.MarkerSpec
	view    ports.MapView
	size    string
}

// NewSurface returns an empty surface drawing through r.
func (r *Renderer) NewSurface() *StaticRenderer {
	return &StaticRenderer{
		renderer: r,
		markers:  map[ports.MarkerHandle]domain.MarkerSpec{},
		size:     defaultSize,
		view:     ports.MapView{Zoom: discovery.DefaultZoom},
	}
}

// NewStaticRenderer is shorthand for a surface on its own Renderer.
func NewStaticRenderer(apiKey string) *StaticRenderer {
	return NewRenderer(apiKey).NewSurface()
}

func (s *StaticRenderer) Load(ctx context.Context) error {
	return s.renderer.Load(ctx)
}

func (s *StaticRenderer) State() discovery.LoadState {
	return s.renderer.State()
}

func (s *StaticRenderer) AddMarker(m domain.MarkerSpec) (ports.MarkerHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	h := ports.MarkerHandle(fmt.Sprintf("marker-%d", s.next))
	s.markers[h] = m
	s.order = append(s.order, h)
	return h, nil
}

func (s *StaticRenderer) RemoveMarker(h ports.MarkerHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.markers[h]; !ok {
		return
	}
	delete(s.markers, h)
	for i, v := range s.order {
		if v == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *StaticRenderer) SetView(v ports.MapView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

// Markers returns the live markers in insertion order.
func (s *StaticRenderer) Markers() []domain.MarkerSpec {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.MarkerSpec, 0, len(s.order))
	for _, h := range s.order {
		out = append(out, s.markers[h])
	}
	return out
}

// Request builds the static map request for the current view and markers.
func (s *StaticRenderer) Request() *maps.StaticMapRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	req := &maps.StaticMapRequest{
		Size:    s.size,
		Format:  "png",
		MapType: "roadmap",
		Zoom:    s.view.Zoom,
	}
	if !s.view.Center.IsZero() {
		req.Center = fmt.Sprintf("%f,%f", s.view.Center.Lat, s.view.Center.Lng)
	}

	for i, h := range s.order {
		m := s.markers[h]
		marker := maps.Marker{
			Location: []maps.LatLng{*gmaps.LatLng(m.Position)},
			Color:    markerColor,
			Size:     "mid",
		}
		if i < 26 {
			marker.Label = string(rune('A' + i))
		}
		req.Markers = append(req.Markers, marker)
	}

	if s.view.ShowUserLocation && s.view.UserLocation != nil {
		req.Markers = append(req.Markers, maps.Marker{
			Location: []maps.LatLng{*gmaps.LatLng(*s.view.UserLocation)},
			Color:    "blue",
			Size:     "small",
		})
	}
	return req
}

// Snapshot renders the current map.
func (s *StaticRenderer) Snapshot(ctx context.Context) (_ image.Image, err error) {
	defer obs.Time(ctx, "maprender.Snapshot")(&err)

	client, err := s.renderer.loaded()
	if err != nil {
		return nil, err
	}

	img, err := client.StaticMap(ctx, s.Request())
	if err != nil {
		return nil, fmt.Errorf("static map: %w", err)
	}
	return img, nil
}
