package maprender

import (
	"campus-activity-service/internal/adapters/gmaps"
	"campus-activity-service/internal/discovery"
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"context"
	"errors"
	"testing"
)

func TestLoadWithoutKeyFails(t *testing.T) {
	r := NewStaticRenderer("")

	err := r.Load(context.Background())
	if !errors.Is(err, gmaps.ErrMissingAPIKey) {
		t.Fatalf("err = %v, want ErrMissingAPIKey", err)
	}
	if r.State() != discovery.Failed {
		t.Fatalf("state = %s, want failed", r.State())
	}

	_, err = r.Snapshot(context.Background())
	if !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("snapshot err = %v, want ErrNotLoaded", err)
	}
}

func TestLoadWithKey(t *testing.T) {
	r := NewStaticRenderer("test-key")
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r.State() != discovery.Loaded {
		t.Fatalf("state = %s, want loaded", r.State())
	}
}

func TestRequestReflectsMarkersAndView(t *testing.T) {
	r := NewStaticRenderer("")
	layer := discovery.NewMarkerLayer(r)

	user := domain.Coordinate{Lat: 33.948, Lng: -83.377}
	r.SetView(ports.MapView{Center: user, Zoom: 15, ShowUserLocation: true, UserLocation: &user})

	if err := layer.Replace([]domain.MarkerSpec{{Title: "A", Position: domain.Coordinate{Lat: 1, Lng: 2}}}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := layer.Replace([]domain.MarkerSpec{
		{Title: "B", Position: domain.Coordinate{Lat: 3, Lng: 4}},
		{Title: "C", Position: domain.Coordinate{Lat: 5, Lng: 6}},
	}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if got := r.Markers(); len(got) != 2 || got[0].Title != "B" {
		t.Fatalf("markers = %v", got)
	}

	req := r.Request()
	if req.Zoom != 15 || req.Center != "33.948000,-83.377000" {
		t.Fatalf("center/zoom = %q/%d", req.Center, req.Zoom)
	}
	// Two place markers plus the user location.
	if len(req.Markers) != 3 {
		t.Fatalf("request markers = %d, want 3", len(req.Markers))
	}
	if req.Markers[0].Label != "A" || req.Markers[0].Location[0].Lat != 3 {
		t.Fatalf("first marker = %+v", req.Markers[0])
	}
}

func TestSurfacesShareRenderer(t *testing.T) {
	r := NewRenderer("test-key")
	a, b := r.NewSurface(), r.NewSurface()

	if err := a.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b.State() != discovery.Loaded {
		t.Fatalf("second surface state = %s, want loaded", b.State())
	}

	if _, err := a.AddMarker(domain.MarkerSpec{Title: "only-a"}); err != nil {
		t.Fatalf("AddMarker: %v", err)
	}
	if len(b.Markers()) != 0 {
		t.Fatalf("markers leaked between surfaces")
	}
}
