package discovery

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"fmt"
	"sync"
)

// MarkerLayer owns the markers drawn on a surface. Replace removes every
// live marker before drawing the new set, so at most one set is visible.
type MarkerLayer struct {
	mu      sync.Mutex
	surface ports.MapSurface
	live    []ports.MarkerHandle
}

func NewMarkerLayer(surface ports.MapSurface) *MarkerLayer {
	return &MarkerLayer{surface: surface}
}

func (l *MarkerLayer) Replace(markers []domain.MarkerSpec) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.clearLocked()
	for i, m := range markers {
		h, err := l.surface.AddMarker(m)
		if err != nil {
			return fmt.Errorf("add marker %d: %w", i, err)
		}
		l.live = append(l.live, h)
	}
	return nil
}

func (l *MarkerLayer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearLocked()
}

func (l *MarkerLayer) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

func (l *MarkerLayer) clearLocked() {
	for _, h := range l.live {
		l.surface.RemoveMarker(h)
	}
	l.live = l.live[:0]
}
