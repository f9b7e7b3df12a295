package discovery

import (
	"campus-activity-service/internal/domain"
	"testing"
)

func TestFavoritesToggleIsIdempotent(t *testing.T) {
	f := NewFavorites()
	f.Index([]domain.Place{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}})

	if !f.Toggle("a", true) {
		t.Fatalf("first add reported no change")
	}
	if f.Toggle("a", true) {
		t.Fatalf("second add reported a change")
	}
	if got := f.List(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("favorites = %v, want [a]", got)
	}
}

func TestFavoritesRemoveUnknownIsNoop(t *testing.T) {
	f := NewFavorites()
	f.Index([]domain.Place{{ID: "a"}})
	f.Toggle("a", true)

	if f.Toggle("zzz", false) {
		t.Fatalf("removing unknown id reported a change")
	}
	if got := len(f.List()); got != 1 {
		t.Fatalf("favorites = %d, want 1", got)
	}
}

func TestFavoritesSurviveNewBatch(t *testing.T) {
	f := NewFavorites()
	f.Index([]domain.Place{{ID: "a"}})
	f.Toggle("a", true)

	f.Index([]domain.Place{{ID: "b"}})
	if !f.IsFavorite("a") {
		t.Fatalf("favorite dropped after new batch")
	}
	if f.Toggle("a", true) {
		t.Fatalf("re-adding existing favorite reported a change")
	}
	if f.Toggle("c", true) {
		t.Fatalf("unresolvable id was added")
	}
	if !f.Toggle("a", false) || f.IsFavorite("a") {
		t.Fatalf("remove failed")
	}
}
