package domain

// Immutable geographic coordinate (latitude, longitude).
type Coordinate struct {
	Lat float64
	Lng float64
}

// Return coordinates as [lng, lat] for GeoJSON-style external APIs.
func (c Coordinate) LngLat() []float64 { return []float64{c.Lng, c.Lat} }

// IsZero reports whether c is the {0,0} placeholder used for unresolved locations.
func (c Coordinate) IsZero() bool { return c.Lat == 0 && c.Lng == 0 }

// LatLngAccessor is the accessor-style coordinate shape exposed by some
// provider responses and location sensors.
type LatLngAccessor interface {
	Lat() float64
	Lng() float64
}

// NormalizeCoordinate converts any supported coordinate shape into a Coordinate.
// It is the only place where provider coordinate shapes are inspected;
// everything past the ingestion boundary works with Coordinate values.
func NormalizeCoordinate(v any) (Coordinate, bool) {
	switch c := v.(type) {
	case Coordinate:
		return c, true
	case *Coordinate:
		if c == nil {
			return Coordinate{}, false
		}
		return *c, true
	case LatLngAccessor:
		return Coordinate{Lat: c.Lat(), Lng: c.Lng()}, true
	case []float64:
		// [lng, lat] ordering, as returned by GeoJSON geocoders.
		if len(c) != 2 {
			return Coordinate{}, false
		}
		return Coordinate{Lat: c[1], Lng: c[0]}, true
	default:
		return Coordinate{}, false
	}
}
