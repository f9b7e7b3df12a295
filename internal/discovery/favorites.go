package discovery

import (
	"campus-activity-service/internal/domain"
	"sync"
)

// Favorites is the set of favorited places. Ids are resolved through a
// lookup table holding the most recent search batch, so a place can be
// favorited while visible and stays favorited after it scrolls out.
type Favorites struct {
	mu     sync.Mutex
	lookup map[string]domain.Place
	order  []string
	set    map[string]domain.Place
}

func NewFavorites() *Favorites {
	return &Favorites{
		lookup: map[string]domain.Place{},
		set:    map[string]domain.Place{},
	}
}

// Index replaces the lookup table with the given batch.
func (f *Favorites) Index(places []domain.Place) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lookup = make(map[string]domain.Place, len(places))
	for _, p := range places {
		f.lookup[p.ID] = p
	}
}

// Toggle adds or removes id. Adding an existing favorite or removing a
// missing one is a no-op. It reports whether the set changed.
func (f *Favorites) Toggle(id string, favorite bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, has := f.set[id]
	if !favorite {
		if !has {
			return false
		}
		delete(f.set, id)
		for i, v := range f.order {
			if v == id {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
		return true
	}

	if has {
		return false
	}
	p, ok := f.lookup[id]
	if !ok {
		return false
	}
	f.set[id] = p
	f.order = append(f.order, id)
	return true
}

func (f *Favorites) IsFavorite(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.set[id]
	return ok
}

// List returns favorites in the order they were added.
func (f *Favorites) List() []domain.Place {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Place, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.set[id])
	}
	return out
}
