package discovery

import (
	"context"
	"errors"
	"sync"
)

type LoadState int

const (
	Unloaded LoadState = iota
	Loading
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unloaded"
	}
}

type loadAttempt struct {
	done chan struct{}
	err  error
}

// ScriptLoader runs a one-time bootstrap. Concurrent callers share the
// in-flight attempt, a successful load is remembered, and a failed one is
// retried by the next Load call.
type ScriptLoader struct {
	load func(ctx context.Context) error

	mu       sync.Mutex
	state    LoadState
	err      error
	current  *loadAttempt
	attempts int
}

func NewScriptLoader(load func(ctx context.Context) error) *ScriptLoader {
	return &ScriptLoader{load: load}
}

// Load waits for the bootstrap to finish. A caller giving up via ctx does
// not cancel the attempt other callers are waiting on.
func (l *ScriptLoader) Load(ctx context.Context) error {
	l.mu.Lock()
	switch l.state {
	case Loaded:
		l.mu.Unlock()
		return nil
	case Loading:
	default:
		if l.load == nil {
			l.mu.Unlock()
			return errors.New("script loader: no load function")
		}
		l.state = Loading
		l.err = nil
		l.attempts++
		l.current = &loadAttempt{done: make(chan struct{})}
		go l.run(context.WithoutCancel(ctx), l.current)
	}
	a := l.current
	l.mu.Unlock()

	select {
	case <-a.done:
		return a.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *ScriptLoader) run(ctx context.Context, a *loadAttempt) {
	err := l.load(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	a.err = err
	l.err = err
	if err != nil {
		l.state = Failed
	} else {
		l.state = Loaded
	}
	close(a.done)
}

func (l *ScriptLoader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err returns the error of the last failed attempt.
func (l *ScriptLoader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Attempts counts bootstrap runs started so far.
func (l *ScriptLoader) Attempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempts
}
