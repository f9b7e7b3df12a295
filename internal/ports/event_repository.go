package ports

import (
	"campus-activity-service/internal/domain"
	"context"
)

// Read side of the event store, as consumed by nearby event searches.
type EventLister interface {
	// Return every stored event. The store has no geo filtering.
	ListEvents(ctx context.Context) ([]domain.Event, error)
}

// Port: a boundary for persisting Event entities.
type EventRepository interface {
	EventLister
	// Returns domain.ErrEventNotFound for unknown IDs.
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	// Store a new event and return it with its assigned ID.
	CreateEvent(ctx context.Context, e domain.Event) (domain.Event, error)
	// Replace the fields of an existing event. Returns domain.ErrEventNotFound for unknown IDs.
	UpdateEvent(ctx context.Context, e domain.Event) (domain.Event, error)
	// Remove an event and return what was removed. Returns domain.ErrEventNotFound for unknown IDs.
	DeleteEvent(ctx context.Context, id string) (domain.Event, error)
}
