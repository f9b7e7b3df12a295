package discovery

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Synthesizer turns places text-search hits into placeholder events. The
// capacity, attendance, category and schedule fields are generated, not
// real, and the results are tagged SourceSynthesized.
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSynthesizer seeds the generator so output is reproducible for a given
// seed and clock.
func NewSynthesizer(seed uint64, now func() time.Time) *Synthesizer {
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now: now,
	}
}

// Synthesize builds an event for hit placed at loc. The start falls within
// the next 24 hours and the end at least one hour later but no more than
// 48 hours from now.
func (s *Synthesizer) Synthesize(hit ports.TextHit, loc domain.Coordinate) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	start := now.Add(time.Duration(s.rng.Int64N(int64(24 * time.Hour))))
	span := now.Add(48*time.Hour).Sub(start) - time.Hour
	end := start.Add(time.Hour + time.Duration(s.rng.Int64N(int64(span))))

	capacity := 50 + s.rng.IntN(200)
	attendees := s.rng.IntN(capacity + 1)

	id := hit.PlaceID
	if id == "" {
		id = "event-" + uuid.NewString()
	}

	location := hit.FormattedAddress
	if location == "" {
		location = hit.Name
	}
	if location == "" {
		location = "Unknown Location"
	}

	geo := loc
	return domain.Event{
		ID:          id,
		Name:        "Event at " + hit.Name,
		Description: "Special event happening at " + hit.Name,
		Location:    location,
		Type:        domain.EventCategories[s.rng.IntN(len(domain.EventCategories))],
		Capacity:    capacity,
		StartTime:   start,
		EndTime:     end,
		Geometry:    &geo,
		Attendees:   &attendees,
		Source:      domain.SourceSynthesized,
	}
}
