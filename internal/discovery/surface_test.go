package discovery

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"context"
	"fmt"
	"sync"
)

type fakeSurface struct {
	mu      sync.Mutex
	loadErr error
	next    int
	markers map[ports.MarkerHandle]domain.MarkerSpec
	views   []ports.MapView
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{markers: map[ports.MarkerHandle]domain.MarkerSpec{}}
}

func (s *fakeSurface) Load(ctx context.Context) error { return s.loadErr }

func (s *fakeSurface) AddMarker(m domain.MarkerSpec) (ports.MarkerHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	h := ports.MarkerHandle(fmt.Sprintf("m%d", s.next))
	s.markers[h] = m
	return h, nil
}

func (s *fakeSurface) RemoveMarker(h ports.MarkerHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.markers, h)
}

func (s *fakeSurface) SetView(v ports.MapView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, v)
}

func (s *fakeSurface) Titles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.markers))
	for _, m := range s.markers {
		out = append(out, m.Title)
	}
	return out
}
