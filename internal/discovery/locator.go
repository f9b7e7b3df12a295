package discovery

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

const (
	DefaultLocationTimeout = 10 * time.Second
	DefaultRetryDelay      = time.Second
	DefaultMaxRetries      = 3
)

// LocationStatus is a snapshot of the acquirer state.
type LocationStatus struct {
	Location   *domain.Coordinate
	Error      string
	Requesting bool
	Retries    int
}

// Locator acquires the user's position from a LocationSensor with a timeout
// and a bounded automatic retry policy. After maxRetries failed retries the
// error stays surfaced until Acquire is called again by hand.
type Locator struct {
	sensor     ports.LocationSensor
	sched      Scheduler
	timeout    time.Duration
	retryDelay time.Duration
	maxRetries int

	onChange  func()
	onLocated func(domain.Coordinate)

	mu         sync.Mutex
	location   *domain.Coordinate
	errMsg     string
	requesting bool
	retries    int
	retryTimer Timer
	closed     bool
}

type LocatorOptions struct {
	Sensor     ports.LocationSensor
	Scheduler  Scheduler
	Timeout    time.Duration
	RetryDelay time.Duration
	MaxRetries int
	// OnChange fires after every status transition.
	OnChange func()
	// OnLocated fires after a successful acquisition.
	OnLocated func(domain.Coordinate)
}

func NewLocator(opts LocatorOptions) *Locator {
	l := &Locator{
		sensor:     opts.Sensor,
		sched:      opts.Scheduler,
		timeout:    opts.Timeout,
		retryDelay: opts.RetryDelay,
		maxRetries: opts.MaxRetries,
		onChange:   opts.OnChange,
		onLocated:  opts.OnLocated,
	}
	if l.sched == nil {
		l.sched = RealScheduler
	}
	if l.timeout <= 0 {
		l.timeout = DefaultLocationTimeout
	}
	if l.retryDelay <= 0 {
		l.retryDelay = DefaultRetryDelay
	}
	if l.maxRetries < 0 {
		l.maxRetries = 0
	} else if opts.MaxRetries == 0 {
		l.maxRetries = DefaultMaxRetries
	}
	return l
}

// Acquire requests the current position. On failure the error is recorded
// and, while retries remain, another attempt is scheduled after the retry
// delay.
func (l *Locator) Acquire(ctx context.Context) (domain.Coordinate, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return domain.Coordinate{}, context.Canceled
	}
	if l.retryTimer != nil {
		l.retryTimer.Stop()
		l.retryTimer = nil
	}

	if l.sensor == nil {
		lerr := &domain.LocationError{Kind: domain.LocationUnsupported}
		l.errMsg = lerr.Message()
		l.mu.Unlock()
		l.changed()
		return domain.Coordinate{}, lerr
	}

	l.requesting = true
	l.errMsg = ""
	l.mu.Unlock()
	l.changed()

	actx, cancel := context.WithTimeout(ctx, l.timeout)
	coord, err := l.sensor.CurrentPosition(actx, ports.PositionOptions{
		HighAccuracy: true,
		Timeout:      l.timeout,
		MaximumAge:   0,
	})
	cancel()

	if err == nil {
		l.mu.Lock()
		l.location = &coord
		l.retries = 0
		l.errMsg = ""
		l.requesting = false
		l.mu.Unlock()

		l.changed()
		if l.onLocated != nil {
			l.onLocated(coord)
		}
		return coord, nil
	}

	lerr := classifyLocationError(err)

	l.mu.Lock()
	l.errMsg = lerr.Message()
	l.requesting = false
	if lerr.Retryable() && l.retries < l.maxRetries && !l.closed && ctx.Err() == nil {
		l.retries++
		attempt := l.retries
		l.retryTimer = l.sched.AfterFunc(l.retryDelay, func() {
			_, _ = l.Acquire(ctx)
		})
		log.Printf("op=locator.Acquire kind=%s retry=%d/%d", lerr.Kind, attempt, l.maxRetries)
	} else {
		log.Printf("op=locator.Acquire kind=%s retries exhausted", lerr.Kind)
	}
	l.mu.Unlock()

	l.changed()
	return domain.Coordinate{}, lerr
}

func (l *Locator) Status() LocationStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := LocationStatus{
		Error:      l.errMsg,
		Requesting: l.requesting,
		Retries:    l.retries,
	}
	if l.location != nil {
		loc := *l.location
		s.Location = &loc
	}
	return s
}

// Close cancels any scheduled retry. Acquire fails after Close.
func (l *Locator) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	if l.retryTimer != nil {
		l.retryTimer.Stop()
		l.retryTimer = nil
	}
}

func (l *Locator) changed() {
	if l.onChange != nil {
		l.onChange()
	}
}

func classifyLocationError(err error) *domain.LocationError {
	var lerr *domain.LocationError
	if errors.As(err, &lerr) {
		return lerr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.LocationError{Kind: domain.LocationTimeout, Err: err}
	}
	return &domain.LocationError{Kind: domain.LocationUnknown, Err: err}
}
