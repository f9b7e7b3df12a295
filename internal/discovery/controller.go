package discovery

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/platform/obs"
	"campus-activity-service/internal/ports"
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

const DefaultZoom = 14

// View is a snapshot of everything a subscriber renders.
type View struct {
	Criteria           domain.FilterCriteria
	Location           *domain.Coordinate
	LocationError      string
	RequestingLocation bool
	LocationRetries    int

	Search domain.SearchState
	// Filtered lists for the active view mode.
	Places  []domain.Place
	Events  []domain.Event
	Markers []domain.MarkerSpec

	Favorites []domain.Place

	MapLoaded  bool
	MapError   string
	Generation uint64
}

type Options struct {
	Search *SearchClient
	// Nil means the runtime has no location sensor.
	Sensor ports.LocationSensor
	// Optional rendering surface. Markers and view changes are pushed to
	// it once it has loaded.
	Surface ports.MapSurface

	Scheduler       Scheduler
	Debounce        time.Duration
	LocationTimeout time.Duration
	RetryDelay      time.Duration
	MaxRetries      int
	Zoom            int
	Now             func() time.Time

	// Starting criteria; DefaultCriteria when nil.
	Criteria *domain.FilterCriteria
	// Called after every state change, outside the controller lock.
	OnChange func(View)
}

// Controller owns the discovery state for one viewer: criteria, location,
// search results, favorites and the map. Criteria and location changes
// funnel into one debounced search; a search whose generation is no longer
// current when it completes is discarded.
type Controller struct {
	ctx    context.Context
	cancel context.CancelFunc

	search   *SearchClient
	locator  *Locator
	debounce *Debouncer
	favs     *Favorites
	now      func() time.Time
	zoom     int
	onChange func(View)

	mu         sync.Mutex
	criteria   domain.FilterCriteria
	location   *domain.Coordinate
	state      domain.SearchState
	events     []domain.Event
	generation uint64
	surface    ports.MapSurface
	layer      *MarkerLayer
	mapLoaded  bool
	mapErr     string
	closed     bool
}

func NewController(ctx context.Context, opts Options) (*Controller, error) {
	if opts.Search == nil {
		return nil, errors.New("controller: search client is nil")
	}

	cctx, cancel := context.WithCancel(ctx)
	c := &Controller{
		ctx:      cctx,
		cancel:   cancel,
		search:   opts.Search,
		favs:     NewFavorites(),
		now:      opts.Now,
		zoom:     opts.Zoom,
		onChange: opts.OnChange,
		criteria: domain.DefaultCriteria(),
		surface:  opts.Surface,
		state:    domain.SearchState{Results: []domain.Place{}},
	}
	if opts.Criteria != nil {
		c.criteria = *opts.Criteria
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.zoom <= 0 {
		c.zoom = DefaultZoom
	}
	if c.surface != nil {
		c.layer = NewMarkerLayer(c.surface)
	}

	delay := opts.Debounce
	if delay <= 0 {
		delay = DefaultDebounce
	}
	c.debounce = NewDebouncer(delay, opts.Scheduler, func() { c.runSearch(c.ctx) })

	c.locator = NewLocator(LocatorOptions{
		Sensor:     opts.Sensor,
		Scheduler:  opts.Scheduler,
		Timeout:    opts.LocationTimeout,
		RetryDelay: opts.RetryDelay,
		MaxRetries: opts.MaxRetries,
		OnChange:   c.notify,
		OnLocated:  c.located,
	})

	return c, nil
}

// Start requests the location in the background.
func (c *Controller) Start() {
	go func() { _, _ = c.locator.Acquire(c.ctx) }()
}

// RetryLocation is the manual retry affordance. It blocks until the attempt
// settles.
func (c *Controller) RetryLocation() error {
	_, err := c.locator.Acquire(c.ctx)
	return err
}

func (c *Controller) located(coord domain.Coordinate) {
	c.mu.Lock()
	c.location = &coord
	if c.mapLoaded {
		c.surface.SetView(c.mapViewLocked())
	}
	c.mu.Unlock()

	c.debounce.Trigger()
}

func (c *Controller) SetQuery(q string) {
	c.updateCriteria(func(cr *domain.FilterCriteria) { cr.QueryText = q })
}

func (c *Controller) SetCategory(category string) {
	c.updateCriteria(func(cr *domain.FilterCriteria) { cr.Category = category })
}

func (c *Controller) SetRadius(meters int) {
	c.updateCriteria(func(cr *domain.FilterCriteria) { cr.RadiusMeters = meters })
}

// SetDateFilter sets or, with nil, clears the event date window.
func (c *Controller) SetDateFilter(f *domain.DateFilter) {
	c.updateCriteria(func(cr *domain.FilterCriteria) { cr.Date = f })
}

// SetViewMode switches between places and events. Switching clears the
// results of the previous mode and resets a category the new mode does not
// know.
func (c *Controller) SetViewMode(mode domain.ViewMode) {
	c.mu.Lock()
	if c.criteria.ViewMode == mode {
		c.mu.Unlock()
		return
	}
	c.criteria.ViewMode = mode
	if !categoryValidFor(mode, c.criteria.Category) {
		c.criteria.Category = string(domain.CategoryAll)
	}
	c.state = domain.SearchState{Results: []domain.Place{}, IsLoading: c.location != nil}
	c.events = nil
	c.favs.Index(nil)
	c.redrawLocked()
	c.mu.Unlock()

	c.notify()
	c.debounce.Trigger()
}

func (c *Controller) updateCriteria(fn func(*domain.FilterCriteria)) {
	c.mu.Lock()
	before := c.criteria
	fn(&c.criteria)
	changed := c.criteria != before
	if changed {
		// Text and category filtering is local; redraw right away.
		c.redrawLocked()
	}
	c.mu.Unlock()

	if changed {
		c.notify()
		c.debounce.Trigger()
	}
}

// SearchNow bypasses the debounce window.
func (c *Controller) SearchNow() {
	c.debounce.Cancel()
	c.runSearch(c.ctx)
}

func (c *Controller) runSearch(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.location == nil {
		c.mu.Unlock()
		return
	}
	c.generation++
	gen := c.generation
	origin := *c.location
	criteria := c.criteria
	c.state.IsLoading = true
	c.state.Error = ""
	c.mu.Unlock()
	c.notify()

	res, err := c.search.Search(ctx, origin, criteria)

	c.mu.Lock()
	if gen != c.generation || c.closed {
		c.mu.Unlock()
		obs.SearchesTotal.WithLabelValues(string(criteria.ViewMode), "stale").Inc()
		log.Printf("op=discovery.search gen=%d stale=true", gen)
		return
	}

	c.state.IsLoading = false
	if err != nil {
		c.state.Error = searchMessage(criteria.ViewMode, err)
		c.state.Results = []domain.Place{}
		c.events = nil
		// Only places from the current results can become favorites.
		c.favs.Index(nil)
		obs.SearchesTotal.WithLabelValues(string(criteria.ViewMode), "error").Inc()
		log.Printf("op=discovery.search gen=%d view=%s err=%v", gen, criteria.ViewMode, err)
	} else {
		switch res.View {
		case domain.ViewEvents:
			c.events = res.Events
		default:
			c.state.Results = res.Places
			c.favs.Index(res.Places)
		}
		obs.SearchesTotal.WithLabelValues(string(criteria.ViewMode), "ok").Inc()
	}
	c.redrawLocked()
	c.mu.Unlock()

	c.notify()
}

func searchMessage(mode domain.ViewMode, err error) string {
	var serr *SearchError
	if errors.As(err, &serr) {
		return serr.Message()
	}
	if mode == domain.ViewEvents {
		return EventsErrorMessage
	}
	return PlacesErrorMessage
}

// ToggleFavorite reports whether the favorite set changed. Unchanged
// toggles do not notify subscribers.
func (c *Controller) ToggleFavorite(placeID string, favorite bool) bool {
	if !c.favs.Toggle(placeID, favorite) {
		return false
	}
	c.notify()
	return true
}

// MountMap loads the surface and reports the outcome through OnMapLoad or
// OnMapError.
func (c *Controller) MountMap(ctx context.Context) error {
	c.mu.Lock()
	surface := c.surface
	c.mu.Unlock()
	if surface == nil {
		return errors.New("controller: no map surface")
	}

	if err := surface.Load(ctx); err != nil {
		c.OnMapError(err)
		return err
	}
	c.OnMapLoad(surface)
	return nil
}

// OnMapLoad attaches a loaded surface, centers it and draws the current
// markers.
func (c *Controller) OnMapLoad(surface ports.MapSurface) {
	c.mu.Lock()
	if surface != c.surface {
		if c.layer != nil {
			c.layer.Clear()
		}
		c.surface = surface
		c.layer = NewMarkerLayer(surface)
	}
	c.mapLoaded = true
	c.mapErr = ""
	c.surface.SetView(c.mapViewLocked())
	c.redrawLocked()
	c.mu.Unlock()

	c.notify()
}

func (c *Controller) OnMapError(err error) {
	c.mu.Lock()
	c.mapLoaded = false
	c.mapErr = err.Error()
	c.mu.Unlock()

	log.Printf("op=discovery.map err=%v", err)
	c.notify()
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// Close stops pending timers and cancels in-flight work.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.debounce.Cancel()
	c.locator.Close()
	c.cancel()
}

func (c *Controller) viewLocked() View {
	loc := c.locator.Status()
	v := View{
		Criteria:           c.criteria,
		Location:           loc.Location,
		LocationError:      loc.Error,
		RequestingLocation: loc.Requesting,
		LocationRetries:    loc.Retries,
		Search: domain.SearchState{
			IsLoading: c.state.IsLoading,
			Error:     c.state.Error,
			Results:   append([]domain.Place(nil), c.state.Results...),
		},
		Favorites:  c.favs.List(),
		MapLoaded:  c.mapLoaded,
		MapError:   c.mapErr,
		Generation: c.generation,
	}

	switch c.criteria.ViewMode {
	case domain.ViewEvents:
		v.Events = VisibleEvents(c.events, c.criteria, c.now())
		v.Markers = EventMarkers(v.Events)
	default:
		v.Places = FilterPlaces(c.state.Results, c.criteria.QueryText)
		v.Markers = PlaceMarkers(v.Places)
	}
	return v
}

// redrawLocked replaces the drawn markers with the current filtered set.
// Drawing happens under the controller lock so redraws cannot interleave.
func (c *Controller) redrawLocked() {
	if !c.mapLoaded || c.layer == nil {
		return
	}
	if err := c.layer.Replace(c.viewLocked().Markers); err != nil {
		log.Printf("op=discovery.redraw err=%v", err)
	}
}

func (c *Controller) mapViewLocked() ports.MapView {
	v := ports.MapView{Zoom: c.zoom}
	if c.location != nil {
		loc := *c.location
		v.Center = loc
		v.ShowUserLocation = true
		v.UserLocation = &loc
	}
	return v
}

func (c *Controller) notify() {
	if c.onChange == nil {
		return
	}
	c.onChange(c.View())
}

func categoryValidFor(mode domain.ViewMode, category string) bool {
	if mode == domain.ViewEvents {
		return domain.Category(category).Valid()
	}
	return domain.IsPlaceCategory(category)
}
