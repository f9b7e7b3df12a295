package domain

// Represents a point of interest returned by a nearby places query.
// Places are transient: a search batch replaces the previous batch wholesale.
type Place struct {
	ID          string
	Name        string
	Vicinity    string
	Types       []string
	Rating      *float64
	RatingCount *int
	Location    Coordinate
	PhotoRefs   []string

	// Distance from the search origin, for display only.
	DistanceKm float64
}

// Place categories accepted by the places query. "all" omits the type filter.
var PlaceCategories = []string{"all", "restaurant", "cafe", "gym", "park", "museum", "library"}

// IsPlaceCategory reports whether c is one of PlaceCategories.
func IsPlaceCategory(c string) bool {
	for _, v := range PlaceCategories {
		if v == c {
			return true
		}
	}
	return false
}
