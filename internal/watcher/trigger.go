package watcher

import (
	"sync"
	"time"
)

// runTrigger coalesces bursts of file activity into a single delayed run.
// Every bump resets the timer; the run fires only after activity has been
// quiet for the full delay. Runs never overlap: a run triggered while a
// previous one is still executing waits for it to finish, so there is
// always at most one mutator.
type runTrigger struct {
	delay   time.Duration
	runFunc RunFunc

	mu    sync.Mutex
	timer *time.Timer

	// held for the whole duration of a run
	runMu sync.Mutex
}

func newRunTrigger(delay time.Duration, runFunc RunFunc) *runTrigger {
	return &runTrigger{delay: delay, runFunc: runFunc}
}

// bump schedules a run after the delay, resetting any pending one.
func (t *runTrigger) bump() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		t.timer = nil
		t.mu.Unlock()

		// serialize with any run still in flight; the timer lock stays
		// free so a run can bump again without deadlock
		t.runMu.Lock()
		defer t.runMu.Unlock()
		if t.runFunc != nil {
			t.runFunc()
		}
	})
}

// cancel stops a pending run, if any.
func (t *runTrigger) cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// pending reports whether a run is currently scheduled.
func (t *runTrigger) pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}
