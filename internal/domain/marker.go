package domain

// Labeled point handed to the map renderer.
type MarkerSpec struct {
	Position Coordinate
	Title    string
	Address  string
}
