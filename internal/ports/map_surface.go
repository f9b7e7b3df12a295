package ports

import (
	"campus-activity-service/internal/domain"
	"context"
)

// Opaque handle of a marker drawn on a MapSurface.
type MarkerHandle string

// Rendering surface behind the map renderer. The controller only reaches it
// through this load/marker/view surface.
type MapSurface interface {
	// Load prepares the surface (script/client bootstrap). Concurrent calls
	// share one in-flight attempt.
	Load(ctx context.Context) error
	AddMarker(m domain.MarkerSpec) (MarkerHandle, error)
	RemoveMarker(h MarkerHandle)
	SetView(v MapView)
}

// Inputs the renderer consumes from the controller.
type MapView struct {
	Center           domain.Coordinate
	Zoom             int
	ShowUserLocation bool
	UserLocation     *domain.Coordinate
}
