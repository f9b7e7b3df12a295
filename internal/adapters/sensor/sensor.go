// Package sensor provides LocationSensor implementations for runtimes
// without a platform geolocation API.
package sensor

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"context"
)

// Fixed always reports the same coordinate, e.g. from flags or config.
type Fixed struct {
	Coord domain.Coordinate
}

func (f Fixed) CurrentPosition(ctx context.Context, opts ports.PositionOptions) (domain.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return domain.Coordinate{}, err
	}
	return f.Coord, nil
}

// Denied fails every request with a permission error.
type Denied struct{}

func (Denied) CurrentPosition(ctx context.Context, opts ports.PositionOptions) (domain.Coordinate, error) {
	return domain.Coordinate{}, &domain.LocationError{Kind: domain.LocationPermissionDenied}
}

// FromFlags returns a Fixed sensor when both coordinates are set, and nil
// (no sensor available) otherwise.
func FromFlags(lat, lng *float64) ports.LocationSensor {
	if lat == nil || lng == nil {
		return nil
	}
	return Fixed{Coord: domain.Coordinate{Lat: *lat, Lng: *lng}}
}
