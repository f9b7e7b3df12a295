package places

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"context"
	"sync"
)

// MockPlacesProvider returns canned results and records the queries it saw.
// Batches are consumed in order; the last batch repeats once exhausted.
type MockPlacesProvider struct {
	mu sync.Mutex

	NearbyBatches [][]domain.Place
	NearbyErr     error
	TextHits      []ports.TextHit
	TextErr       error

	NearbyQueries []ports.NearbyQuery
	TextQueries   []ports.TextQuery
}

func NewMockPlacesProvider(batches ...[]domain.Place) *MockPlacesProvider {
	return &MockPlacesProvider{NearbyBatches: batches}
}

func (m *MockPlacesProvider) NearbySearch(ctx context.Context, q ports.NearbyQuery) ([]domain.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.NearbyQueries = append(m.NearbyQueries, q)
	if m.NearbyErr != nil {
		return nil, m.NearbyErr
	}
	if len(m.NearbyBatches) == 0 {
		return []domain.Place{}, nil
	}

	i := len(m.NearbyQueries) - 1
	if i >= len(m.NearbyBatches) {
		i = len(m.NearbyBatches) - 1
	}
	return append([]domain.Place(nil), m.NearbyBatches[i]...), nil
}

func (m *MockPlacesProvider) TextSearch(ctx context.Context, q ports.TextQuery) ([]ports.TextHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TextQueries = append(m.TextQueries, q)
	if m.TextErr != nil {
		return nil, m.TextErr
	}
	return append([]ports.TextHit(nil), m.TextHits...), nil
}

func (m *MockPlacesProvider) NearbyCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.NearbyQueries)
}

func (m *MockPlacesProvider) LastNearbyQuery() ports.NearbyQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.NearbyQueries) == 0 {
		return ports.NearbyQuery{}
	}
	return m.NearbyQueries[len(m.NearbyQueries)-1]
}
