package domain

import "testing"

type accessorLatLng struct{ lat, lng float64 }

func (a accessorLatLng) Lat() float64 { return a.lat }
func (a accessorLatLng) Lng() float64 { return a.lng }

func TestNormalizeCoordinate(t *testing.T) {
	want := Coordinate{Lat: 33.95, Lng: -83.36}

	inputs := []any{
		want,
		&want,
		accessorLatLng{lat: 33.95, lng: -83.36},
		[]float64{-83.36, 33.95},
	}
	for i, in := range inputs {
		got, ok := NormalizeCoordinate(in)
		if !ok || got != want {
			t.Errorf("input #%d: got %+v ok=%v, want %+v", i, got, ok, want)
		}
	}

	var nilCoord *Coordinate
	for _, in := range []any{nil, nilCoord, "33.95,-83.36", []float64{1}} {
		if _, ok := NormalizeCoordinate(in); ok {
			t.Errorf("NormalizeCoordinate(%#v) should fail", in)
		}
	}
}
