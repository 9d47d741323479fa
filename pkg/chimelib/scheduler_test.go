package chimelib

import (
	"testing"
	"time"
)

func newTestScheduler(t *testing.T, st *fakeStorage, r *fakeRenderer, c *fakeClock, tol time.Duration) (*Scheduler, *recObserver) {
	t.Helper()
	s := NewScheduler(st, r, c, tol, nil)
	obs := &recObserver{}
	if !s.Initialize(obs) {
		t.Fatal("Initialize returned false")
	}
	t.Cleanup(s.Shutdown)
	return s, obs
}

func TestInitializeNilObserver(t *testing.T) {
	s := NewScheduler(newFakeStorage(), &fakeRenderer{}, &fakeClock{}, 30*time.Second, nil)
	defer s.Shutdown()
	if s.Initialize(nil) {
		t.Fatal("expected Initialize to fail with nil observer")
	}
}

func TestInitializeClockUnavailable(t *testing.T) {
	c := &fakeClock{fail: true}
	s := NewScheduler(newFakeStorage(), &fakeRenderer{}, c, 30*time.Second, nil)
	defer s.Shutdown()
	if s.Initialize(&recObserver{}) {
		t.Fatal("expected Initialize to fail when the clock is unavailable")
	}
}

func TestInitializeCreateDatabaseFails(t *testing.T) {
	st := newFakeStorage()
	st.failOpen = true
	st.failCreate = true
	s := NewScheduler(st, &fakeRenderer{}, &fakeClock{}, 30*time.Second, nil)
	defer s.Shutdown()
	if s.Initialize(&recObserver{}) {
		t.Fatal("expected Initialize to fail when open and create both fail")
	}
}

func TestInitializePastDueAlertDropped(t *testing.T) {
	st := newFakeStorage()
	a := mustAlert(t, "A", "alarm", time.Unix(100, 0))
	st.loadSet = []*Alert{a}
	c := &fakeClock{now: 200}

	_, obs := newTestScheduler(t, st, &fakeRenderer{}, c, 30*time.Second)

	waitFor(t, "PAST_DUE notification", func() bool {
		return obs.count("A", StatePastDue) == 1
	})
	waitFor(t, "DELETED notification", func() bool {
		return obs.count("A", StateDeleted) == 1
	})
	if st.has("A") {
		t.Fatal("expected past-due alert to be erased from storage")
	}
}

func TestInitializeRecoversActiveAlert(t *testing.T) {
	st := newFakeStorage()
	at := time.Now().Add(time.Hour)
	b := NewAlertFromStorage("B", "timer", at.UTC().Format(time.RFC3339), at.Unix(), AlertStateActive)
	st.loadSet = []*Alert{b}
	c := &fakeClock{now: time.Now().Unix()}

	s, obs := newTestScheduler(t, st, &fakeRenderer{}, c, 30*time.Second)

	if got := b.State(); got != AlertStateIdle {
		t.Fatalf("expected recovered alert state IDLE, got %s", got)
	}
	if st.modified() == 0 {
		t.Fatal("expected the reset state to be persisted")
	}
	alerts := s.GetAllAlerts()
	if len(alerts) != 1 || alerts[0].Token() != "B" {
		t.Fatalf("expected B in the scheduled set, got %d alerts", len(alerts))
	}
	if s.HasActiveAlert() {
		t.Fatal("recovered alert must not be auto-activated")
	}
	// Not yet ready, so no READY emission.
	time.Sleep(50 * time.Millisecond)
	if obs.count("B", StateReady) != 0 {
		t.Fatal("did not expect READY for a future alert")
	}
}

func TestScheduleRejectsPastDue(t *testing.T) {
	c := &fakeClock{now: 1000}
	s, _ := newTestScheduler(t, newFakeStorage(), &fakeRenderer{}, c, 30*time.Second)

	a := mustAlert(t, "A", "alarm", time.Unix(900, 0))
	if s.ScheduleAlert(a) {
		t.Fatal("expected past-due schedule to be rejected")
	}
	if len(s.GetAllAlerts()) != 0 {
		t.Fatal("expected no state change after rejected schedule")
	}
}

func TestScheduleWithinToleranceAccepted(t *testing.T) {
	c := &fakeClock{now: 1000}
	s, _ := newTestScheduler(t, newFakeStorage(), &fakeRenderer{}, c, 30*time.Second)

	// 20s late but inside the 30s tolerance.
	a := mustAlert(t, "A", "alarm", time.Unix(980, 0))
	if !s.ScheduleAlert(a) {
		t.Fatal("expected schedule inside tolerance to succeed")
	}
}

func TestScheduleStorageFailureLeavesStateUnchanged(t *testing.T) {
	st := newFakeStorage()
	st.failStore = true
	c := &fakeClock{now: 1000}
	s, _ := newTestScheduler(t, st, &fakeRenderer{}, c, 30*time.Second)

	a := mustAlert(t, "A", "alarm", time.Unix(2000, 0))
	if s.ScheduleAlert(a) {
		t.Fatal("expected schedule to fail on storage error")
	}
	if len(s.GetAllAlerts()) != 0 {
		t.Fatal("expected no in-memory insert after storage failure")
	}
}

func TestScheduleSameTokenUpdatesTime(t *testing.T) {
	c := &fakeClock{now: 1000}
	s, _ := newTestScheduler(t, newFakeStorage(), &fakeRenderer{}, c, 30*time.Second)

	a := mustAlert(t, "A", "alarm", time.Unix(2000, 0))
	if !s.ScheduleAlert(a) {
		t.Fatal("first schedule failed")
	}
	a2 := mustAlert(t, "A", "alarm", time.Unix(3000, 0))
	if !s.ScheduleAlert(a2) {
		t.Fatal("update schedule failed")
	}

	alerts := s.GetAllAlerts()
	if len(alerts) != 1 {
		t.Fatalf("expected one alert after update, got %d", len(alerts))
	}
	if got := alerts[0].ScheduledTimeUnix(); got != 3000 {
		t.Fatalf("expected updated time 3000, got %d", got)
	}
}

func TestUpdateStorageFailureRestoresOldTime(t *testing.T) {
	st := newFakeStorage()
	c := &fakeClock{now: 1000}
	s, _ := newTestScheduler(t, st, &fakeRenderer{}, c, 30*time.Second)

	a := mustAlert(t, "I", "alarm", time.Unix(2000, 0))
	if !s.ScheduleAlert(a) {
		t.Fatal("first schedule failed")
	}

	st.failModify = true
	a2 := mustAlert(t, "I", "alarm", time.Unix(3000, 0))
	if s.ScheduleAlert(a2) {
		t.Fatal("expected update to fail on storage error")
	}

	alerts := s.GetAllAlerts()
	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts))
	}
	if got := alerts[0].ScheduledTimeUnix(); got != 2000 {
		t.Fatalf("expected original time 2000 restored, got %d", got)
	}
}

func TestScheduledSetOrdering(t *testing.T) {
	c := &fakeClock{now: 1000}
	s, _ := newTestScheduler(t, newFakeStorage(), &fakeRenderer{}, c, 30*time.Second)

	for _, tc := range []struct {
		token string
		at    int64
	}{
		{"C", 4000},
		{"A", 2000},
		{"B", 2000},
		{"D", 3000},
	} {
		if !s.ScheduleAlert(mustAlert(t, tc.token, "alarm", time.Unix(tc.at, 0))) {
			t.Fatalf("schedule %s failed", tc.token)
		}
	}

	var got []string
	for _, a := range s.GetAllAlerts() {
		got = append(got, a.Token())
	}
	want := []string{"A", "B", "D", "C"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %v, want %v", i, got, want)
		}
	}
}

func TestFocusDrivenActivation(t *testing.T) {
	st := newFakeStorage()
	r := &fakeRenderer{autoStart: true}
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, obs := newTestScheduler(t, st, r, c, 30*time.Second)

	alert := mustAlert(t, "C", "alarm", time.Unix(now, 0))
	if !s.ScheduleAlert(alert) {
		t.Fatal("schedule failed")
	}

	// The scheduled time has arrived, so READY is emitted without a timer.
	waitFor(t, "READY notification", func() bool {
		return obs.count("C", StateReady) >= 1
	})

	s.UpdateFocus(FocusForeground)

	waitFor(t, "STARTED notification", func() bool {
		return obs.count("C", StateStarted) == 1
	})
	if acts := r.activations(); len(acts) != 1 || acts[0] != "C" {
		t.Fatalf("expected renderer activation for C, got %v", acts)
	}
	waitFor(t, "active state persisted", func() bool {
		return st.modified() >= 1
	})
	if !s.IsAlertActive(alert) {
		t.Fatal("expected C to be active")
	}
	if alert.FocusState() != FocusForeground {
		t.Fatal("expected foreground focus propagated to the alert")
	}
}

func TestFocusChangeWhileActiveNotifiesObserver(t *testing.T) {
	r := &fakeRenderer{autoStart: true}
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, obs := newTestScheduler(t, newFakeStorage(), r, c, 30*time.Second)

	if !s.ScheduleAlert(mustAlert(t, "C", "alarm", time.Unix(now, 0))) {
		t.Fatal("schedule failed")
	}
	s.UpdateFocus(FocusForeground)
	waitFor(t, "STARTED", func() bool { return obs.count("C", StateStarted) == 1 })

	s.UpdateFocus(FocusBackground)
	waitFor(t, "FOCUS_ENTERED_BACKGROUND", func() bool {
		return obs.count("C", StateFocusEnteredBackground) == 1
	})

	// Equal focus transitions are filtered.
	s.UpdateFocus(FocusBackground)
	time.Sleep(50 * time.Millisecond)
	if obs.count("C", StateFocusEnteredBackground) != 1 {
		t.Fatal("expected equal focus transition to be filtered")
	}
}

func TestSnoozeRoundTrip(t *testing.T) {
	st := newFakeStorage()
	r := &fakeRenderer{autoStart: true, autoStop: true}
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, obs := newTestScheduler(t, st, r, c, 30*time.Second)

	if !s.ScheduleAlert(mustAlert(t, "D", "alarm", time.Unix(now, 0))) {
		t.Fatal("schedule failed")
	}
	s.UpdateFocus(FocusForeground)
	waitFor(t, "STARTED", func() bool { return obs.count("D", StateStarted) == 1 })

	later := time.Unix(now+300, 0).UTC().Format(time.RFC3339)
	if !s.SnoozeAlert("D", later) {
		t.Fatal("snooze failed")
	}

	waitFor(t, "SNOOZED", func() bool { return obs.count("D", StateSnoozed) == 1 })
	waitFor(t, "active slot cleared", func() bool { return !s.HasActiveAlert() })

	alerts := s.GetAllAlerts()
	if len(alerts) != 1 || alerts[0].Token() != "D" {
		t.Fatalf("expected D back in the scheduled set, got %d alerts", len(alerts))
	}
	if got := alerts[0].ScheduledTimeUnix(); got != now+300 {
		t.Fatalf("expected snoozed time %d, got %d", now+300, got)
	}
}

func TestSnoozeInactiveAlertFails(t *testing.T) {
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, _ := newTestScheduler(t, newFakeStorage(), &fakeRenderer{}, c, 30*time.Second)

	if !s.ScheduleAlert(mustAlert(t, "D", "alarm", time.Unix(now+600, 0))) {
		t.Fatal("schedule failed")
	}
	if s.SnoozeAlert("D", time.Unix(now+900, 0).UTC().Format(time.RFC3339)) {
		t.Fatal("expected snooze of a non-active alert to fail")
	}
}

func TestDeleteAlertIdempotent(t *testing.T) {
	st := newFakeStorage()
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, obs := newTestScheduler(t, st, &fakeRenderer{}, c, 30*time.Second)

	if !s.ScheduleAlert(mustAlert(t, "T", "reminder", time.Unix(now+600, 0))) {
		t.Fatal("schedule failed")
	}

	if !s.DeleteAlert("T") {
		t.Fatal("first delete failed")
	}
	if !s.DeleteAlert("T") {
		t.Fatal("second delete should succeed (idempotent)")
	}

	waitFor(t, "DELETED notification", func() bool { return obs.count("T", StateDeleted) >= 1 })
	time.Sleep(50 * time.Millisecond)
	if n := obs.count("T", StateDeleted); n != 1 {
		t.Fatalf("expected exactly one DELETED, got %d", n)
	}
	if st.has("T") {
		t.Fatal("expected T erased from storage")
	}
}

func TestDeleteActiveAlertDeactivatesAsync(t *testing.T) {
	st := newFakeStorage()
	r := &fakeRenderer{autoStart: true, autoStop: true}
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, obs := newTestScheduler(t, st, r, c, 30*time.Second)

	if !s.ScheduleAlert(mustAlert(t, "E", "alarm", time.Unix(now, 0))) {
		t.Fatal("schedule failed")
	}
	s.UpdateFocus(FocusForeground)
	waitFor(t, "STARTED", func() bool { return obs.count("E", StateStarted) == 1 })

	if !s.DeleteAlert("E") {
		t.Fatal("delete of active alert failed")
	}
	if reason, ok := r.lastReason(); !ok || reason != StopReasonRequest {
		t.Fatalf("expected deactivation with REQUEST reason, got %v", reason)
	}

	// Removal happens when the renderer confirms the stop.
	waitFor(t, "STOPPED", func() bool { return obs.count("E", StateStopped) == 1 })
	waitFor(t, "active slot cleared", func() bool { return !s.HasActiveAlert() })
	if st.has("E") {
		t.Fatal("expected E erased after STOPPED")
	}
}

func TestBulkDeleteIncludingActive(t *testing.T) {
	st := newFakeStorage()
	r := &fakeRenderer{autoStart: true, autoStop: true}
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, obs := newTestScheduler(t, st, r, c, 30*time.Second)

	if !s.ScheduleAlert(mustAlert(t, "E", "alarm", time.Unix(now, 0))) {
		t.Fatal("schedule E failed")
	}
	s.UpdateFocus(FocusForeground)
	waitFor(t, "STARTED", func() bool { return obs.count("E", StateStarted) == 1 })

	if !s.ScheduleAlert(mustAlert(t, "F", "timer", time.Unix(now+600, 0))) {
		t.Fatal("schedule F failed")
	}
	if !s.ScheduleAlert(mustAlert(t, "G", "timer", time.Unix(now+900, 0))) {
		t.Fatal("schedule G failed")
	}

	if !s.DeleteAlerts([]string{"E", "F", "H"}) {
		t.Fatal("bulk delete failed")
	}

	waitFor(t, "DELETED for E", func() bool { return obs.count("E", StateDeleted) == 1 })
	waitFor(t, "DELETED for F", func() bool { return obs.count("F", StateDeleted) == 1 })
	if obs.count("H", StateDeleted) != 0 {
		t.Fatal("did not expect DELETED for missing token H")
	}
	if s.HasActiveAlert() {
		t.Fatal("expected active slot cleared immediately on bulk delete")
	}
	if st.has("E") || st.has("F") {
		t.Fatal("expected E and F erased from storage")
	}

	alerts := s.GetAllAlerts()
	if len(alerts) != 1 || alerts[0].Token() != "G" {
		t.Fatalf("expected only G to remain, got %d alerts", len(alerts))
	}
}

func TestBulkDeleteStorageFailureChangesNothing(t *testing.T) {
	st := newFakeStorage()
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, obs := newTestScheduler(t, st, &fakeRenderer{}, c, 30*time.Second)

	if !s.ScheduleAlert(mustAlert(t, "F", "timer", time.Unix(now+600, 0))) {
		t.Fatal("schedule failed")
	}

	st.failBulk = true
	if s.DeleteAlerts([]string{"F"}) {
		t.Fatal("expected bulk delete to fail")
	}
	if len(s.GetAllAlerts()) != 1 {
		t.Fatal("expected scheduled set unchanged after failed bulk delete")
	}
	time.Sleep(50 * time.Millisecond)
	if obs.count("F", StateDeleted) != 0 {
		t.Fatal("did not expect DELETED after failed bulk delete")
	}
}

func TestTimerFiresReady(t *testing.T) {
	st := newFakeStorage()
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, obs := newTestScheduler(t, st, &fakeRenderer{}, c, 30*time.Second)

	// One second out: armed on a real timer, then fires READY.
	if !s.ScheduleAlert(mustAlert(t, "W", "timer", time.Unix(now+1, 0))) {
		t.Fatal("schedule failed")
	}
	time.Sleep(50 * time.Millisecond)
	if obs.count("W", StateReady) != 0 {
		t.Fatal("READY fired before the scheduled time")
	}
	waitFor(t, "READY after timer fire", func() bool {
		return obs.count("W", StateReady) == 1
	})
}

func TestRendererErrorErasesAlert(t *testing.T) {
	st := newFakeStorage()
	r := &fakeRenderer{}
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, obs := newTestScheduler(t, st, r, c, 30*time.Second)

	alert := mustAlert(t, "X", "alarm", time.Unix(now, 0))
	if !s.ScheduleAlert(alert) {
		t.Fatal("schedule failed")
	}
	s.UpdateFocus(FocusForeground)
	waitFor(t, "renderer activation", func() bool { return len(r.activations()) == 1 })

	alert.RenderError("device lost")

	waitFor(t, "ERROR notification", func() bool { return obs.count("X", StateError) == 1 })
	waitFor(t, "alert erased", func() bool { return !st.has("X") })
	waitFor(t, "active slot cleared", func() bool { return !s.HasActiveAlert() })
}

func TestClearData(t *testing.T) {
	st := newFakeStorage()
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, obs := newTestScheduler(t, st, &fakeRenderer{}, c, 30*time.Second)

	for _, token := range []string{"P", "Q"} {
		if !s.ScheduleAlert(mustAlert(t, token, "reminder", time.Unix(now+600, 0))) {
			t.Fatalf("schedule %s failed", token)
		}
	}

	s.ClearData(StopReasonLocal)

	waitFor(t, "DELETED for P", func() bool { return obs.count("P", StateDeleted) == 1 })
	waitFor(t, "DELETED for Q", func() bool { return obs.count("Q", StateDeleted) == 1 })
	if len(s.GetAllAlerts()) != 0 {
		t.Fatal("expected empty scheduled set after ClearData")
	}
	if st.has("P") || st.has("Q") {
		t.Fatal("expected storage cleared")
	}
}

func TestContextInfoListsActiveTwice(t *testing.T) {
	r := &fakeRenderer{autoStart: true}
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, obs := newTestScheduler(t, newFakeStorage(), r, c, 30*time.Second)

	if !s.ScheduleAlert(mustAlert(t, "A", "alarm", time.Unix(now, 0))) {
		t.Fatal("schedule A failed")
	}
	if !s.ScheduleAlert(mustAlert(t, "B", "alarm", time.Unix(now+600, 0))) {
		t.Fatal("schedule B failed")
	}
	s.UpdateFocus(FocusForeground)
	waitFor(t, "STARTED", func() bool { return obs.count("A", StateStarted) == 1 })

	ctx := s.GetContextInfo()
	if len(ctx.ActiveAlerts) != 1 || ctx.ActiveAlerts[0].Token != "A" {
		t.Fatalf("expected A active, got %+v", ctx.ActiveAlerts)
	}
	// The active alert appears in the scheduled list too.
	if len(ctx.ScheduledAlerts) != 2 {
		t.Fatalf("expected 2 scheduled contexts, got %d", len(ctx.ScheduledAlerts))
	}
}

func TestShutdownStopsCallbacks(t *testing.T) {
	st := newFakeStorage()
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s := NewScheduler(st, &fakeRenderer{}, c, 30*time.Second, nil)
	obs := &recObserver{}
	if !s.Initialize(obs) {
		t.Fatal("Initialize failed")
	}
	if !s.ScheduleAlert(mustAlert(t, "Z", "timer", time.Unix(now+1, 0))) {
		t.Fatal("schedule failed")
	}

	s.Shutdown()
	seen := len(obs.all())

	// The armed timer was cancelled; nothing fires after shutdown.
	time.Sleep(1200 * time.Millisecond)
	if got := len(obs.all()); got != seen {
		t.Fatalf("observer notified after shutdown: %d -> %d events", seen, got)
	}
}

func TestOnLocalStopStopsActive(t *testing.T) {
	st := newFakeStorage()
	r := &fakeRenderer{autoStart: true, autoStop: true}
	now := time.Now().Unix()
	c := &fakeClock{now: now}
	s, obs := newTestScheduler(t, st, r, c, 30*time.Second)

	if !s.ScheduleAlert(mustAlert(t, "L", "alarm", time.Unix(now, 0))) {
		t.Fatal("schedule failed")
	}
	s.UpdateFocus(FocusForeground)
	waitFor(t, "STARTED", func() bool { return obs.count("L", StateStarted) == 1 })

	s.OnLocalStop()

	if reason, ok := r.lastReason(); !ok || reason != StopReasonLocal {
		t.Fatalf("expected LOCAL stop reason, got %v", reason)
	}
	waitFor(t, "STOPPED", func() bool { return obs.count("L", StateStopped) == 1 })
	waitFor(t, "active cleared", func() bool { return !s.HasActiveAlert() })
}
