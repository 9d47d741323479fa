package chimelib

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDelayTimerFires(t *testing.T) {
	var tm DelayTimer
	var fired atomic.Int32
	tm.Start(20*time.Millisecond, func() { fired.Add(1) })

	if !tm.IsActive() {
		t.Fatal("expected timer active after Start")
	}
	waitFor(t, "timer fire", func() bool { return fired.Load() == 1 })
	if tm.IsActive() {
		t.Fatal("expected timer inactive after fire")
	}
}

func TestDelayTimerCancel(t *testing.T) {
	var tm DelayTimer
	var fired atomic.Int32
	tm.Start(30*time.Millisecond, func() { fired.Add(1) })
	tm.Cancel()

	time.Sleep(80 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatal("cancelled timer must not fire")
	}
	if tm.IsActive() {
		t.Fatal("expected timer inactive after cancel")
	}
}

func TestDelayTimerRearmSupersedes(t *testing.T) {
	var tm DelayTimer
	var first, second atomic.Int32
	tm.Start(30*time.Millisecond, func() { first.Add(1) })
	tm.Start(30*time.Millisecond, func() { second.Add(1) })

	waitFor(t, "second fire", func() bool { return second.Load() == 1 })
	time.Sleep(50 * time.Millisecond)
	if first.Load() != 0 {
		t.Fatal("superseded fire must not run")
	}
}

func TestDelayTimerRearmIdempotent(t *testing.T) {
	var tm DelayTimer
	var fired atomic.Int32
	for i := 0; i < 5; i++ {
		tm.Start(20*time.Millisecond, func() { fired.Add(1) })
	}

	waitFor(t, "single fire", func() bool { return fired.Load() >= 1 })
	time.Sleep(60 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("expected exactly one fire after repeated re-arm, got %d", got)
	}
}
