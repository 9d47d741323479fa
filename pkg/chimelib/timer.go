package chimelib

import (
	"sync"
	"time"
)

// DelayTimer is a one-shot future task with cancel. Re-arming cancels any
// pending fire, so at most one fire is outstanding at a time.
type DelayTimer struct {
	mu     sync.Mutex
	timer  *time.Timer
	active bool
	gen    uint64
}

// Start arms the timer to run fn after d, superseding any pending fire.
func (t *DelayTimer) Start(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.active = true
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.gen != gen {
			// Superseded by a later Start or Cancel.
			t.mu.Unlock()
			return
		}
		t.active = false
		t.mu.Unlock()
		fn()
	})
}

// Cancel stops the pending fire, if any.
func (t *DelayTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
	}
	t.active = false
}

// IsActive reports whether a fire is pending.
func (t *DelayTimer) IsActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}
