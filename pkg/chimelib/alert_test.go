package chimelib

import (
	"testing"
	"time"
)

func TestNewAlertValidation(t *testing.T) {
	if _, err := NewAlert("", "alarm", "2030-01-01T00:00:00Z"); err != ErrEmptyToken {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
	if _, err := NewAlert("tok", "alarm", "not-a-time"); err != ErrInvalidScheduledTime {
		t.Fatalf("expected ErrInvalidScheduledTime, got %v", err)
	}
	a, err := NewAlert("tok", "alarm", "2030-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("NewAlert: %v", err)
	}
	if a.State() != AlertStateIdle {
		t.Fatalf("expected IDLE, got %s", a.State())
	}
	want := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	if a.ScheduledTimeUnix() != want {
		t.Fatalf("expected unix %d, got %d", want, a.ScheduledTimeUnix())
	}
}

func TestIsPastDue(t *testing.T) {
	a := mustAlert(t, "tok", "alarm", time.Unix(1000, 0))
	tests := []struct {
		now       int64
		tolerance time.Duration
		want      bool
	}{
		{999, 0, false},
		{1000, 0, false},
		{1001, 0, true},
		{1030, 30 * time.Second, false},
		{1031, 30 * time.Second, true},
	}
	for _, tc := range tests {
		if got := a.IsPastDue(tc.now, tc.tolerance); got != tc.want {
			t.Errorf("IsPastDue(%d, %s) = %v, want %v", tc.now, tc.tolerance, got, tc.want)
		}
	}
}

func TestUpdateScheduledTimeRejectsGarbage(t *testing.T) {
	a := mustAlert(t, "tok", "alarm", time.Unix(1000, 0))
	if a.UpdateScheduledTime("tomorrow-ish") {
		t.Fatal("expected update with bad time to fail")
	}
	if a.ScheduledTimeUnix() != 1000 {
		t.Fatal("expected scheduled time unchanged after failed update")
	}
}

func TestActivateWithoutRendererReportsError(t *testing.T) {
	a := mustAlert(t, "tok", "alarm", time.Unix(1000, 0))
	obs := &recObserver{}
	a.SetObserver(obs)

	a.Activate()

	if n := obs.count("tok", StateError); n != 1 {
		t.Fatalf("expected one ERROR report, got %d", n)
	}
}

func TestActivateIsIdempotentWhileActivating(t *testing.T) {
	a := mustAlert(t, "tok", "alarm", time.Unix(1000, 0))
	r := &fakeRenderer{}
	a.SetRenderer(r)

	a.Activate()
	a.Activate()

	if got := len(r.activations()); got != 1 {
		t.Fatalf("expected one renderer activation, got %d", got)
	}
	if a.State() != AlertStateActivating {
		t.Fatalf("expected ACTIVATING, got %s", a.State())
	}
}

func TestSnoozeReportsSnoozedOnStop(t *testing.T) {
	a := mustAlert(t, "tok", "alarm", time.Unix(1000, 0))
	r := &fakeRenderer{autoStop: true}
	obs := &recObserver{}
	a.SetRenderer(r)
	a.SetObserver(obs)
	a.Activate()

	if !a.Snooze(time.Unix(2000, 0).UTC().Format(time.RFC3339)) {
		t.Fatal("snooze failed")
	}

	if n := obs.count("tok", StateSnoozed); n != 1 {
		t.Fatalf("expected one SNOOZED report, got %d", n)
	}
	if a.ScheduledTimeUnix() != 2000 {
		t.Fatalf("expected snoozed time 2000, got %d", a.ScheduledTimeUnix())
	}
	if a.State() != AlertStateIdle {
		t.Fatalf("expected IDLE after snooze stop, got %s", a.State())
	}
}

func TestDeactivateReportsStoppedWithReason(t *testing.T) {
	a := mustAlert(t, "tok", "alarm", time.Unix(1000, 0))
	r := &fakeRenderer{autoStop: true}
	obs := &recObserver{}
	a.SetRenderer(r)
	a.SetObserver(obs)
	a.Activate()

	a.Deactivate(StopReasonShutdown)

	evs := obs.all()
	var found bool
	for _, e := range evs {
		if e.state == StateStopped && e.reason == "SHUTDOWN" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected STOPPED with SHUTDOWN reason, got %+v", evs)
	}
}

func TestRenderCompleted(t *testing.T) {
	a := mustAlert(t, "tok", "timer", time.Unix(1000, 0))
	obs := &recObserver{}
	a.SetObserver(obs)
	a.SetRenderer(&fakeRenderer{})
	a.Activate()

	a.RenderCompleted()

	if a.State() != AlertStateCompleted {
		t.Fatalf("expected COMPLETED, got %s", a.State())
	}
	if obs.count("tok", StateCompleted) != 1 {
		t.Fatal("expected COMPLETED report")
	}
}

func TestResetClearsState(t *testing.T) {
	at := time.Unix(1000, 0)
	a := NewAlertFromStorage("tok", "alarm", at.UTC().Format(time.RFC3339), at.Unix(), AlertStateActive)
	a.Reset()
	if a.State() != AlertStateIdle {
		t.Fatalf("expected IDLE after reset, got %s", a.State())
	}
}
