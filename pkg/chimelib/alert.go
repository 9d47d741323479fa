package chimelib

import (
	"sync"
	"time"
)

// Alert is a user-scheduled event (alarm, timer, reminder) with a wall-clock
// trigger time. The scheduler owns at most one active Alert at a time; all
// others wait in the scheduled set.
//
// An Alert carries its scheduled time both as the original RFC 3339 string
// and as Unix epoch seconds so it can be reported upstream unchanged and
// ordered cheaply.
type Alert struct {
	mu sync.Mutex

	token    string
	typeName string

	scheduledISO  string
	scheduledUnix int64

	state      AlertState
	focus      FocusState
	stopReason StopReason

	renderer Renderer
	observer AlertObserver
}

// AlertContext is the snapshot of an alert reported upstream in context
// queries.
type AlertContext struct {
	Token            string `json:"token"`
	Type             string `json:"type"`
	ScheduledTimeISO string `json:"scheduledTime"`
}

// NewAlert creates an idle alert from a token, a type label and an RFC 3339
// scheduled time.
func NewAlert(token, typeName, scheduledISO string) (*Alert, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}
	unix, err := parseISO8601(scheduledISO)
	if err != nil {
		return nil, ErrInvalidScheduledTime
	}
	return &Alert{
		token:         token,
		typeName:      typeName,
		scheduledISO:  scheduledISO,
		scheduledUnix: unix,
		state:         AlertStateIdle,
	}, nil
}

// NewAlertFromStorage rebuilds an alert from its persisted fields. The
// persisted state is restored as-is; the scheduler resets stale active
// states during initialization.
func NewAlertFromStorage(token, typeName, scheduledISO string, scheduledUnix int64, state AlertState) *Alert {
	return &Alert{
		token:         token,
		typeName:      typeName,
		scheduledISO:  scheduledISO,
		scheduledUnix: scheduledUnix,
		state:         state,
	}
}

func parseISO8601(s string) (int64, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// Token returns the alert's unique identifier.
func (a *Alert) Token() string {
	return a.token
}

// TypeName returns the alert's category label ("alarm", "timer", ...). The
// scheduler treats it as opaque.
func (a *Alert) TypeName() string {
	return a.typeName
}

// ScheduledTimeISO returns the scheduled time as the RFC 3339 string the
// alert was created with.
func (a *Alert) ScheduledTimeISO() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scheduledISO
}

// ScheduledTimeUnix returns the scheduled time as Unix epoch seconds.
func (a *Alert) ScheduledTimeUnix() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scheduledUnix
}

// State returns the alert's current lifecycle state.
func (a *Alert) State() AlertState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// StopReason returns the reason recorded by the last Deactivate call.
func (a *Alert) StopReason() StopReason {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopReason
}

// SetRenderer attaches the renderer used to make the alert audible.
func (a *Alert) SetRenderer(r Renderer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.renderer = r
}

// SetObserver attaches the sink for the alert's state-change reports. The
// scheduler registers itself here.
func (a *Alert) SetObserver(o AlertObserver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observer = o
}

// SetFocusState propagates the current focus permission into the alert.
func (a *Alert) SetFocusState(f FocusState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.focus = f
}

// FocusState returns the focus permission last propagated into the alert.
func (a *Alert) FocusState() FocusState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.focus
}

// IsPastDue reports whether the alert's scheduled time is more than
// tolerance before now.
func (a *Alert) IsPastDue(now int64, tolerance time.Duration) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return now > a.scheduledUnix+int64(tolerance.Seconds())
}

// UpdateScheduledTime replaces the alert's scheduled time. Returns false
// and leaves the alert unchanged if the new time does not parse.
func (a *Alert) UpdateScheduledTime(scheduledISO string) bool {
	unix, err := parseISO8601(scheduledISO)
	if err != nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scheduledISO = scheduledISO
	a.scheduledUnix = unix
	return true
}

// Reset returns the alert to a clean scheduled state. Used at load time to
// recover alerts that were active when the process last stopped.
func (a *Alert) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = AlertStateIdle
	a.stopReason = StopReasonRequest
}

// Activate asks the renderer to begin rendering. Confirmation arrives
// asynchronously through RenderStarted. Repeated activation of an already
// activating or active alert is a no-op.
func (a *Alert) Activate() {
	a.mu.Lock()
	if a.state == AlertStateActivating || a.state == AlertStateActive {
		a.mu.Unlock()
		return
	}
	a.state = AlertStateActivating
	r := a.renderer
	a.mu.Unlock()

	if r == nil {
		a.report(StateError, "no renderer attached")
		return
	}
	r.Activate(a)
}

// Deactivate asks the renderer to stop rendering for the given reason. The
// stop is acknowledged through RenderStopped.
func (a *Alert) Deactivate(reason StopReason) {
	a.mu.Lock()
	a.stopReason = reason
	if a.state != AlertStateSnoozing {
		a.state = AlertStateStopping
	}
	r := a.renderer
	a.mu.Unlock()

	if r != nil {
		r.Deactivate(a, reason)
	} else {
		// Nothing is rendering; acknowledge immediately.
		a.RenderStopped()
	}
}

// Snooze moves the alert's scheduled time and stops rendering. The
// reschedule is reported as SNOOZED once the renderer confirms the stop.
// Returns false and changes nothing if the new time does not parse.
func (a *Alert) Snooze(scheduledISO string) bool {
	if !a.UpdateScheduledTime(scheduledISO) {
		return false
	}
	a.mu.Lock()
	a.state = AlertStateSnoozing
	r := a.renderer
	a.mu.Unlock()

	if r != nil {
		r.Deactivate(a, StopReasonLocal)
	} else {
		a.RenderStopped()
	}
	return true
}

// SetStateActive marks the alert active. The scheduler calls this when the
// renderer confirms rendering started.
func (a *Alert) SetStateActive() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = AlertStateActive
}

// RenderStarted is the renderer's confirmation that rendering began.
func (a *Alert) RenderStarted() {
	a.report(StateStarted, "")
}

// RenderCompleted is the renderer's report that rendering finished on its
// own, without a stop request.
func (a *Alert) RenderCompleted() {
	a.mu.Lock()
	a.state = AlertStateCompleted
	a.mu.Unlock()
	a.report(StateCompleted, "")
}

// RenderStopped is the renderer's confirmation of a requested stop. A stop
// that was part of a snooze is reported as SNOOZED, any other as STOPPED.
func (a *Alert) RenderStopped() {
	a.mu.Lock()
	snoozed := a.state == AlertStateSnoozing
	reason := a.stopReason
	if snoozed {
		a.state = AlertStateIdle
	} else {
		a.state = AlertStateStopping
	}
	a.mu.Unlock()

	if snoozed {
		a.report(StateSnoozed, "")
		return
	}
	a.report(StateStopped, reason.String())
}

// RenderError is the renderer's report that it could not render the alert.
func (a *Alert) RenderError(reason string) {
	a.report(StateError, reason)
}

// ContextInfo returns the snapshot reported upstream for this alert.
func (a *Alert) ContextInfo() AlertContext {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AlertContext{
		Token:            a.token,
		Type:             a.typeName,
		ScheduledTimeISO: a.scheduledISO,
	}
}

func (a *Alert) report(state State, reason string) {
	a.mu.Lock()
	o := a.observer
	a.mu.Unlock()
	if o == nil {
		return
	}
	o.OnAlertStateChange(a.token, a.typeName, state, reason)
}
