package discovery

import (
	"campus-activity-service/internal/domain"
	"campus-activity-service/internal/ports"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// scriptedSensor returns errs in order, then coord.
type scriptedSensor struct {
	mu    sync.Mutex
	errs  []error
	coord domain.Coordinate
	calls int
	opts  []ports.PositionOptions
}

func (s *scriptedSensor) CurrentPosition(ctx context.Context, opts ports.PositionOptions) (domain.Coordinate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opts = append(s.opts, opts)
	s.calls++
	if s.calls <= len(s.errs) {
		return domain.Coordinate{}, s.errs[s.calls-1]
	}
	return s.coord, nil
}

func (s *scriptedSensor) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func timeouts(n int) []error {
	out := make([]error, n)
	for i := range out {
		out[i] = &domain.LocationError{Kind: domain.LocationTimeout}
	}
	return out
}

func TestLocatorRetriesThreeTimesThenStops(t *testing.T) {
	sched := &manualScheduler{}
	sensor := &scriptedSensor{errs: timeouts(10)}
	l := NewLocator(LocatorOptions{Sensor: sensor, Scheduler: sched})

	_, err := l.Acquire(context.Background())
	var lerr *domain.LocationError
	if !errors.As(err, &lerr) || lerr.Kind != domain.LocationTimeout {
		t.Fatalf("err = %v, want timeout", err)
	}

	for i := 0; i < 5; i++ {
		sched.Advance(time.Second)
	}

	if sensor.Calls() != 4 {
		t.Fatalf("sensor calls = %d, want 4", sensor.Calls())
	}
	delays := sched.Delays()
	if len(delays) != 3 {
		t.Fatalf("scheduled retries = %d, want 3", len(delays))
	}
	for i, d := range delays {
		if d != time.Second {
			t.Fatalf("retry %d delay = %v, want 1s", i, d)
		}
	}
	if sched.Pending() != 0 {
		t.Fatalf("pending retries = %d, want 0", sched.Pending())
	}

	st := l.Status()
	if st.Error != "Location request timed out." {
		t.Fatalf("error = %q", st.Error)
	}
	if st.Retries != 3 {
		t.Fatalf("retries = %d, want 3", st.Retries)
	}

	opts := sensor.opts[0]
	if !opts.HighAccuracy || opts.MaximumAge != 0 || opts.Timeout != DefaultLocationTimeout {
		t.Fatalf("unexpected position options %+v", opts)
	}
}

func TestLocatorSuccessResetsRetries(t *testing.T) {
	sched := &manualScheduler{}
	want := domain.Coordinate{Lat: 33.95, Lng: -83.37}
	sensor := &scriptedSensor{
		errs:  []error{&domain.LocationError{Kind: domain.LocationPositionUnavailable}},
		coord: want,
	}

	var located []domain.Coordinate
	l := NewLocator(LocatorOptions{
		Sensor:    sensor,
		Scheduler: sched,
		OnLocated: func(c domain.Coordinate) { located = append(located, c) },
	})

	if _, err := l.Acquire(context.Background()); err == nil {
		t.Fatalf("expected first attempt to fail")
	}
	if got := l.Status().Error; got != "Location information unavailable." {
		t.Fatalf("error = %q", got)
	}

	sched.Advance(time.Second)

	st := l.Status()
	if st.Location == nil || *st.Location != want {
		t.Fatalf("location = %v, want %v", st.Location, want)
	}
	if st.Retries != 0 || st.Error != "" {
		t.Fatalf("status after success = %+v", st)
	}
	if len(located) != 1 {
		t.Fatalf("onLocated calls = %d, want 1", len(located))
	}
}

func TestLocatorUnsupported(t *testing.T) {
	sched := &manualScheduler{}
	l := NewLocator(LocatorOptions{Scheduler: sched})

	_, err := l.Acquire(context.Background())
	var lerr *domain.LocationError
	if !errors.As(err, &lerr) || lerr.Kind != domain.LocationUnsupported {
		t.Fatalf("err = %v, want unsupported", err)
	}
	if sched.Pending() != 0 {
		t.Fatalf("unsupported sensor scheduled a retry")
	}
	if got := l.Status().Error; got != "Geolocation not supported" {
		t.Fatalf("error = %q", got)
	}
}

func TestClassifyLocationError(t *testing.T) {
	if k := classifyLocationError(context.DeadlineExceeded).Kind; k != domain.LocationTimeout {
		t.Fatalf("deadline kind = %s", k)
	}
	if k := classifyLocationError(errors.New("boom")).Kind; k != domain.LocationUnknown {
		t.Fatalf("plain error kind = %s", k)
	}
	denied := &domain.LocationError{Kind: domain.LocationPermissionDenied}
	if got := classifyLocationError(denied).Message(); got != "Location access denied. Please enable location services." {
		t.Fatalf("message = %q", got)
	}
}
