package ports

import (
	"context"
	"time"

	"campus-activity-service/internal/domain"
)

type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	// Zero disables reuse of cached positions.
	MaximumAge time.Duration
}

// Platform location source. Failures should be *domain.LocationError so the
// acquirer can classify them; anything else is treated as unknown.
type LocationSensor interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (domain.Coordinate, error)
}
