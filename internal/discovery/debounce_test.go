package discovery

import (
	"testing"
	"time"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	sched := &manualScheduler{}
	value := 0
	var seen []int
	d := NewDebouncer(300*time.Millisecond, sched, func() { seen = append(seen, value) })

	for i := 1; i <= 5; i++ {
		value = i
		d.Trigger()
		sched.Advance(100 * time.Millisecond)
	}
	if len(seen) != 0 {
		t.Fatalf("calls during burst = %d, want 0", len(seen))
	}

	sched.Advance(199 * time.Millisecond)
	if len(seen) != 0 {
		t.Fatalf("calls before window closed = %d, want 0", len(seen))
	}

	sched.Advance(time.Millisecond)
	if len(seen) != 1 {
		t.Fatalf("calls = %d, want 1", len(seen))
	}
	if seen[0] != 5 {
		t.Fatalf("value at fire = %d, want 5", seen[0])
	}

	sched.Advance(time.Second)
	if len(seen) != 1 {
		t.Fatalf("calls after idle = %d, want 1", len(seen))
	}
}

func TestDebouncerCancel(t *testing.T) {
	sched := &manualScheduler{}
	calls := 0
	d := NewDebouncer(300*time.Millisecond, sched, func() { calls++ })

	d.Trigger()
	if !d.Pending() {
		t.Fatalf("expected pending call")
	}
	d.Cancel()
	sched.Advance(time.Second)

	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
}
