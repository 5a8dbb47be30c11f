package debounce

import (
	"sync"
	"time"
)

// Handle refers to a single scheduled callback.
// Cancel may be called any number of times; only the first call has an effect.
type Handle interface {
	Cancel()
}

// Scheduler runs a callback once after the supplied delay has elapsed.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) Handle
}

// TimerScheduler is a Scheduler backed by the runtime timer.
type TimerScheduler struct{}

// NewTimerScheduler creates a scheduler which fires callbacks on their own goroutine.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// Schedule arms a single-shot timer.
func (ts *TimerScheduler) Schedule(delay time.Duration, fn func()) Handle {
	return &timerHandle{
		timer: time.AfterFunc(delay, fn),
	}
}

type timerHandle struct {
	once  sync.Once
	timer *time.Timer
}

func (th *timerHandle) Cancel() {
	th.once.Do(func() {
		th.timer.Stop()
	})
}
