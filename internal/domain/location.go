package domain

import "fmt"

type LocationErrorKind string

const (
	LocationPermissionDenied    LocationErrorKind = "permission_denied"
	LocationPositionUnavailable LocationErrorKind = "position_unavailable"
	LocationTimeout             LocationErrorKind = "timeout"
	LocationUnsupported         LocationErrorKind = "unsupported"
	LocationUnknown             LocationErrorKind = "unknown"
)

// LocationError is a classified geolocation failure.
type LocationError struct {
	Kind LocationErrorKind
	Err  error
}

func (e *LocationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("location %s", e.Kind)
	}
	return fmt.Sprintf("location %s: %v", e.Kind, e.Err)
}

func (e *LocationError) Unwrap() error { return e.Err }

// Message returns the user-facing text for the failure kind.
func (e *LocationError) Message() string {
	switch e.Kind {
	case LocationPermissionDenied:
		return "Location access denied. Please enable location services."
	case LocationPositionUnavailable:
		return "Location information unavailable."
	case LocationTimeout:
		return "Location request timed out."
	case LocationUnsupported:
		return "Geolocation not supported"
	default:
		return "Unable to get your location."
	}
}

// Retryable reports whether an automatic retry may help.
func (e *LocationError) Retryable() bool {
	return e.Kind != LocationUnsupported
}
