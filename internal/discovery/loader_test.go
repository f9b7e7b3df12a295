package discovery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestScriptLoaderSingleFlight(t *testing.T) {
	release := make(chan struct{})
	var runs atomic.Int32
	l := NewScriptLoader(func(ctx context.Context) error {
		runs.Add(1)
		<-release
		return nil
	})

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- l.Load(context.Background())
		}()
	}

	deadline := time.Now().Add(2 * time.Second)
	for l.State() != Loading && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	if runs.Load() != 1 {
		t.Fatalf("load runs = %d, want 1", runs.Load())
	}
	if l.State() != Loaded {
		t.Fatalf("state = %s, want loaded", l.State())
	}

	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load after success: %v", err)
	}
	if l.Attempts() != 1 {
		t.Fatalf("attempts = %d, want 1", l.Attempts())
	}
}

func TestScriptLoaderRetriesAfterFailure(t *testing.T) {
	fail := true
	l := NewScriptLoader(func(ctx context.Context) error {
		if fail {
			return errors.New("script blocked")
		}
		return nil
	})

	if err := l.Load(context.Background()); err == nil {
		t.Fatalf("expected failure")
	}
	if l.State() != Failed {
		t.Fatalf("state = %s, want failed", l.State())
	}

	fail = false
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if l.Attempts() != 2 {
		t.Fatalf("attempts = %d, want 2", l.Attempts())
	}
}

func TestScriptLoaderWaiterTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	l := NewScriptLoader(func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Load(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if l.State() != Loading {
		t.Fatalf("state = %s, want loading", l.State())
	}
}
