package debounce

import (
	"sort"
	"sync"
	"time"
)

// ManualScheduler is a Scheduler driven by an explicit clock.
// Callbacks only run when Advance moves the clock past their deadline.
type ManualScheduler struct {
	lock    sync.Mutex
	now     time.Duration
	entries []*manualEntry
}

type manualEntry struct {
	at        time.Duration
	fn        func()
	cancelled bool
	scheduler *ManualScheduler
}

func (me *manualEntry) Cancel() {
	me.scheduler.lock.Lock()
	me.cancelled = true
	me.scheduler.lock.Unlock()
}

// NewManualScheduler creates a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule registers fn to run once the clock has advanced by delay.
func (ms *ManualScheduler) Schedule(delay time.Duration, fn func()) Handle {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	entry := &manualEntry{
		at:        ms.now + delay,
		fn:        fn,
		scheduler: ms,
	}
	ms.entries = append(ms.entries, entry)
	return entry
}

// Advance moves the clock forward and runs every callback that became due, in deadline order.
// Callbacks run on the calling goroutine.
func (ms *ManualScheduler) Advance(d time.Duration) {
	ms.lock.Lock()
	ms.now += d

	var due []*manualEntry
	var remaining []*manualEntry
	for _, entry := range ms.entries {
		if entry.cancelled {
			continue
		}
		if entry.at <= ms.now {
			due = append(due, entry)
		} else {
			remaining = append(remaining, entry)
		}
	}
	ms.entries = remaining
	ms.lock.Unlock()

	sort.SliceStable(due, func(i, j int) bool {
		return due[i].at < due[j].at
	})
	for _, entry := range due {
		entry.fn()
	}
}

// PendingCount returns the number of callbacks that are scheduled and not cancelled.
func (ms *ManualScheduler) PendingCount() int {
	ms.lock.Lock()
	defer ms.lock.Unlock()

	count := 0
	for _, entry := range ms.entries {
		if !entry.cancelled {
			count++
		}
	}
	return count
}
