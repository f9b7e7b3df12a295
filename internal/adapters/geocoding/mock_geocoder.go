package geocoding

import (
	"campus-activity-service/internal/domain"
	"context"
	"fmt"
	"sync"
)

// MockGeocoder resolves addresses from a fixed table and counts lookups.
type MockGeocoder struct {
	mu    sync.Mutex
	m     map[string]domain.Coordinate
	calls int
}

func NewMockGeocoder(table map[string]domain.Coordinate) *MockGeocoder {
	return &MockGeocoder{m: table}
}

func (g *MockGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	c, ok := g.m[address]
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("missing address %q", address)
	}
	return c, nil
}

func (g *MockGeocoder) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
