package debounce

import (
	"sync"
	"time"
)

// Debouncer delays a callback until calls to Trigger have paused for a fixed interval.
// At most one callback is pending at a time; each Trigger replaces the previous one.
type Debouncer struct {
	scheduler Scheduler
	delay     time.Duration

	lock       sync.Mutex
	pending    Handle
	generation uint64
}

// NewDebouncer creates a debouncer that waits for delay after the last Trigger.
func NewDebouncer(scheduler Scheduler, delay time.Duration) *Debouncer {
	return &Debouncer{
		scheduler: scheduler,
		delay:     delay,
	}
}

// Trigger cancels any pending callback and schedules fn in its place.
func (d *Debouncer) Trigger(fn func()) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.pending != nil {
		d.pending.Cancel()
	}

	d.generation++
	gen := d.generation

	// A timer that has already fired can't be stopped, so the generation check
	// keeps a superseded callback from running anyway.
	d.pending = d.scheduler.Schedule(d.delay, func() {
		d.lock.Lock()
		if gen != d.generation {
			d.lock.Unlock()
			return
		}
		d.pending = nil
		d.lock.Unlock()

		fn()
	})
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.pending != nil {
		d.pending.Cancel()
		d.pending = nil
	}
	d.generation++
}

// Pending returns true if a callback is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.pending != nil
}
