package geocoding

import (
	"campus-activity-service/internal/domain"
	"context"
	"sync"
	"testing"
)

type memoryCache struct {
	mu sync.Mutex
	m  map[string]domain.Coordinate
}

func (c *memoryCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := map[string]domain.Coordinate{}
	for _, a := range addresses {
		if v, ok := c.m[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *memoryCache) PutMany(ctx context.Context, results map[string]domain.Coordinate) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

func TestCachedGeocoderUsesCache(t *testing.T) {
	athens := domain.Coordinate{Lat: 33.95, Lng: -83.36}
	provider := NewMockGeocoder(map[string]domain.Coordinate{"Athens, GA": athens})
	cache := &memoryCache{m: map[string]domain.Coordinate{}}

	g, err := NewCachedGeocoder(provider, cache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		got, err := g.Geocode(ctx, "  Athens,   GA ")
		if err != nil {
			t.Fatalf("geocode #%d: %v", i+1, err)
		}
		if got != athens {
			t.Fatalf("geocode #%d = %+v, want %+v", i+1, got, athens)
		}
	}

	if provider.Calls() != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.Calls())
	}
}

func TestCachedGeocoderPartialFailure(t *testing.T) {
	provider := NewMockGeocoder(map[string]domain.Coordinate{"Tate Center": {Lat: 33.9509, Lng: -83.3746}})
	g, _ := NewCachedGeocoder(provider, nil)

	out, err := g.GeocodeMany(context.Background(), []string{"Tate Center", "Nowhere", "Tate Center"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d results, want 1", len(out))
	}

	if _, err := g.Geocode(context.Background(), "Nowhere"); err == nil {
		t.Fatal("expected error when every lookup fails")
	}
}

func TestCachedGeocoderKeepsHitsWhenMissesFail(t *testing.T) {
	tate := domain.Coordinate{Lat: 33.9509, Lng: -83.3746}
	provider := NewMockGeocoder(nil)
	cache := &memoryCache{m: map[string]domain.Coordinate{"Tate Center": tate}}
	g, _ := NewCachedGeocoder(provider, cache)

	out, err := g.GeocodeMany(context.Background(), []string{"Tate Center", "Nowhere"})
	if err == nil {
		t.Fatal("expected error when every miss fails")
	}
	if out["Tate Center"] != tate {
		t.Fatalf("cached result = %+v, want %+v", out["Tate Center"], tate)
	}
	if provider.Calls() != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.Calls())
	}
}
