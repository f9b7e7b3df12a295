package discovery

import (
	"sync"
	"time"
)

const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs fn once a burst of Trigger calls has been quiet for delay.
// Each Trigger cancels the pending call and reschedules it, so fn observes
// whatever state is current when the window closes.
type Debouncer struct {
	delay time.Duration
	sched Scheduler
	fn    func()

	mu      sync.Mutex
	pending Timer
	seq     uint64
}

func NewDebouncer(delay time.Duration, sched Scheduler, fn func()) *Debouncer {
	if sched == nil {
		sched = RealScheduler
	}
	return &Debouncer{delay: delay, sched: sched, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}

	d.seq++
	seq := d.seq
	d.pending = d.sched.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A timer that fired while being replaced must not run.
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()

		d.fn()
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.seq++
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
