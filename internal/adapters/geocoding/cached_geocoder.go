package geocoding

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/obs"
	"campus-activity-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Upper bound on concurrent provider lookups for one GeocodeMany call.
const maxConcurrentLookups = 4

// CachedGeocoder puts a persistent GeocodeCache in front of a provider.
// Cache write failures are logged and do not fail the lookup.
type CachedGeocoder struct {
	next  ports.Geocoder
	cache ports.GeocodeCache
}

func NewCachedGeocoder(next ports.Geocoder, cache ports.GeocodeCache) (*CachedGeocoder, error) {
	if next == nil {
		return nil, errors.New("cached geocoder: provider is nil")
	}
	return &CachedGeocoder{next: next, cache: cache}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinate, error) {
	norm := normalize(address)
	if norm == "" {
		return domain.Coordinate{}, errors.New("geocode: address must be non-empty")
	}

	out, err := c.GeocodeMany(ctx, []string{norm})
	if err != nil {
		return domain.Coordinate{}, err
	}

	coord, ok := out[norm]
	if !ok {
		return domain.Coordinate{}, fmt.Errorf("no geocode result for %q", address)
	}
	return coord, nil
}

// GeocodeMany resolves many addresses, consulting the cache first and
// looking up misses concurrently. Addresses that fail to resolve are
// omitted from the result. The call fails on cache read errors, and when
// every miss fails; in that case the cache hits are returned with the
// error.
func (c *CachedGeocoder) GeocodeMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinate, err error) {
	defer obs.Time(ctx, "geocode.GeocodeMany")(&err)

	seen := make(map[string]struct{}, len(addresses))
	needed := make([]string, 0, len(addresses))
	for _, a := range addresses {
		n := normalize(a)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		needed = append(needed, n)
	}

	if len(needed) == 0 {
		return map[string]domain.Coordinate{}, nil
	}

	hits := make(map[string]domain.Coordinate)
	// Resolve coordinates via cache before calling the provider.
	if c.cache != nil {
		hits, err = c.cache.GetMany(ctx, needed)
		if err != nil {
			return nil, fmt.Errorf("geocode cache read: %w", err)
		}
	}

	misses := make([]string, 0, len(needed))
	for _, a := range needed {
		if _, ok := hits[a]; !ok {
			misses = append(misses, a)
		}
	}

	var (
		mu      sync.Mutex
		fresh   = make(map[string]domain.Coordinate, len(misses))
		lastErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for _, a := range misses {
		g.Go(func() error {
			coord, err := c.next.Geocode(gctx, a)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				lastErr = err
				log.Printf("geocode failed: address=%q err=%v", a, err)
				return nil
			}
			fresh[a] = coord
			return nil
		})
	}
	_ = g.Wait()

	if len(misses) > 0 && len(fresh) == 0 {
		// Cache hits are still usable by the caller.
		return hits, fmt.Errorf("geocode %d addresses: %w", len(misses), lastErr)
	}

	if c.cache != nil && len(fresh) > 0 {
		if err := c.cache.PutMany(ctx, fresh); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	out := make(map[string]domain.Coordinate, len(hits)+len(fresh))
	for k, v := range hits {
		out[k] = v
	}
	for k, v := range fresh {
		out[k] = v
	}

	return out, nil
}
