package chimelib

import (
	"log"
	"sync"
	"time"
)

// Scheduler is a persistent, single-active-alert scheduling engine. It owns
// the scheduled set, the active slot, the focus state and the pending delay
// timer, persists every mutation through Storage, and coordinates
// activation with an external audio-focus authority via UpdateFocus.
//
// One mutex guards all scheduler state. Callbacks from alerts, the renderer
// and the delay timer are funneled through a single-worker executor so they
// run serialized and off the caller's goroutine. Observer notifications are
// dispatched on the executor as well, so the observer never runs under the
// scheduler mutex.
type Scheduler struct {
	mu sync.Mutex

	storage  Storage
	renderer Renderer
	clock    Clock

	pastDueLimit time.Duration

	observer AlertObserver
	executor *Executor
	timer    DelayTimer

	scheduled alertSet
	active    *Alert
	focus     FocusState

	log *log.Logger
}

// AlertsContext is the snapshot returned by GetContextInfo. The active
// alert appears in both lists: it is still scheduled conceptually, plus
// distinctly active.
type AlertsContext struct {
	ScheduledAlerts []AlertContext `json:"scheduledAlerts"`
	ActiveAlerts    []AlertContext `json:"activeAlerts"`
}

// NewScheduler creates a scheduler. pastDueLimit is the tolerance for
// classifying a just-missed alert as past-due rather than firing it late.
func NewScheduler(storage Storage, renderer Renderer, clock Clock, pastDueLimit time.Duration, l *log.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if l == nil {
		l = log.Default()
	}
	return &Scheduler{
		storage:      storage,
		renderer:     renderer,
		clock:        clock,
		pastDueLimit: pastDueLimit,
		executor:     NewExecutor(),
		focus:        FocusNone,
		log:          l,
	}
}

// Initialize registers the observer, opens storage (creating it if absent)
// and restores persisted alerts. Alerts discovered past-due are reported as
// PAST_DUE and erased; alerts persisted as active are reset to a clean
// scheduled state. Finally the delay timer is armed for the earliest alert.
func (s *Scheduler) Initialize(observer AlertObserver) bool {
	if observer == nil {
		s.log.Printf("chimelib: initialize failed: observer was nil")
		return false
	}
	if s.storage == nil {
		s.log.Printf("chimelib: initialize failed: storage was nil")
		return false
	}

	s.observer = observer

	if !s.storage.Open() {
		s.log.Printf("chimelib: couldn't open database, creating")
		if !s.storage.CreateDatabase() {
			s.log.Printf("chimelib: initialize failed: could not create database")
			return false
		}
	}

	now, err := s.clock.Now()
	if err != nil {
		s.log.Printf("chimelib: initialize failed: could not get current unix time: %v", err)
		return false
	}

	alerts, ok := s.storage.Load()
	if !ok {
		s.log.Printf("chimelib: initialize: could not load persisted alerts")
	}

	s.mu.Lock()
	for _, alert := range alerts {
		if alert.IsPastDue(now, s.pastDueLimit) {
			s.notifyObserver(alert.Token(), alert.TypeName(), StatePastDue, "")
			s.eraseAlertLocked(alert)
			continue
		}
		// If it was active when the process last stopped, re-init to a
		// clean scheduled state.
		if alert.State() == AlertStateActive {
			alert.Reset()
			s.storage.Modify(alert)
		}
		alert.SetRenderer(s.renderer)
		alert.SetObserver(s)
		s.scheduled.insert(alert)
	}
	s.mu.Unlock()

	s.setTimerForNextAlert()
	return true
}

// ScheduleAlert adds a new alert to the scheduled set, or updates the
// scheduled time of an existing alert with the same token. Past-due alerts
// are rejected. On storage failure the in-memory state is unchanged.
func (s *Scheduler) ScheduleAlert(alert *Alert) bool {
	if alert == nil {
		return false
	}
	now, err := s.clock.Now()
	if err != nil {
		s.log.Printf("chimelib: schedule failed: could not get current unix time: %v", err)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if alert.IsPastDue(now, s.pastDueLimit) {
		s.log.Printf("chimelib: schedule failed: alert %s is past-due, ignoring", alert.Token())
		return false
	}

	if old := s.scheduled.get(alert.Token()); old != nil {
		return s.updateAlertLocked(old, alert.ScheduledTimeISO())
	}

	if !s.storage.Store(alert) {
		s.log.Printf("chimelib: schedule failed: could not store alert %s", alert.Token())
		return false
	}
	alert.SetRenderer(s.renderer)
	alert.SetObserver(s)
	s.scheduled.insert(alert)

	if s.active == nil {
		s.setTimerForNextAlertLocked()
	}
	return true
}

// updateAlertLocked atomically updates an alert's scheduled time. The alert
// is removed from the set so re-insertion re-sorts it, and re-insertion
// plus timer re-arm are guaranteed on every exit path, including failures.
func (s *Scheduler) updateAlertLocked(alert *Alert, newScheduledISO string) (ok bool) {
	s.scheduled.remove(alert.Token())

	defer func() {
		s.scheduled.insert(alert)
		if s.active == nil {
			s.setTimerForNextAlertLocked()
		}
	}()

	oldScheduledISO := alert.ScheduledTimeISO()
	if !alert.UpdateScheduledTime(newScheduledISO) {
		s.log.Printf("chimelib: update failed: bad scheduled time %q for alert %s", newScheduledISO, alert.Token())
		return false
	}
	if !s.storage.Modify(alert) {
		s.log.Printf("chimelib: update failed: could not modify alert %s in database", alert.Token())
		alert.UpdateScheduledTime(oldScheduledISO)
		return false
	}
	return true
}

// SnoozeAlert reschedules the active alert to a later time. It succeeds
// only when token matches the active alert; the alert reports SNOOZED
// through the state-change callback once the renderer confirms the stop,
// which re-inserts it into the scheduled set.
func (s *Scheduler) SnoozeAlert(token, scheduledISO string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil || s.active.Token() != token {
		s.log.Printf("chimelib: snooze failed: alert %s is not active", token)
		return false
	}
	return s.active.Snooze(scheduledISO)
}

// DeleteAlert removes an alert. Deleting the active alert deactivates it;
// the actual removal happens when the renderer reports STOPPED. Deleting an
// unknown token succeeds.
func (s *Scheduler) DeleteAlert(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil && s.active.Token() == token {
		s.deactivateActiveAlertLocked(StopReasonRequest)
		return true
	}

	alert := s.scheduled.get(token)
	if alert == nil {
		s.log.Printf("chimelib: delete: alert %s does not exist", token)
		return true
	}

	s.eraseAlertLocked(alert)
	s.scheduled.remove(token)
	s.setTimerForNextAlertLocked()
	return true
}

// DeleteAlerts removes all given tokens with a single bulk erase. Unknown
// tokens are warned about and skipped. On storage failure nothing changes
// in memory.
func (s *Scheduler) DeleteAlerts(tokens []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		deleteActive bool
		doomed       []*Alert
	)
	for _, token := range tokens {
		if s.active != nil && s.active.Token() == token {
			deleteActive = true
			doomed = append(doomed, s.active)
			continue
		}
		alert := s.scheduled.get(token)
		if alert == nil {
			s.log.Printf("chimelib: bulk delete: alert %s is missing", token)
			continue
		}
		doomed = append(doomed, alert)
	}

	if !s.storage.BulkErase(doomed) {
		s.log.Printf("chimelib: bulk delete failed: could not erase alerts from database")
		return false
	}

	if deleteActive {
		s.deactivateActiveAlertLocked(StopReasonRequest)
		s.active = nil
	}

	for _, alert := range doomed {
		s.scheduled.remove(alert.Token())
		s.notifyObserver(alert.Token(), alert.TypeName(), StateDeleted, "")
	}

	s.setTimerForNextAlertLocked()
	return true
}

// UpdateFocus applies a focus decision from the external audio-focus
// authority. Gaining focus activates the earliest scheduled alert if none
// is active; losing focus stops the active alert.
func (s *Scheduler) UpdateFocus(focus FocusState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.focus == focus {
		return
	}
	s.focus = focus

	switch focus {
	case FocusForeground, FocusBackground:
		if s.active != nil {
			s.active.SetFocusState(focus)
			state := StateFocusEnteredForeground
			if focus == FocusBackground {
				state = StateFocusEnteredBackground
			}
			s.notifyObserver(s.active.Token(), s.active.TypeName(), state, "")
			return
		}
		s.activateNextAlertLocked()

	case FocusNone:
		s.deactivateActiveAlertLocked(StopReasonLocal)
	}
}

// GetFocusState returns the scheduler's current focus state.
func (s *Scheduler) GetFocusState() FocusState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// OnLocalStop stops the active alert on local user action. The timer is
// re-armed when the renderer confirms the stop.
func (s *Scheduler) OnLocalStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deactivateActiveAlertLocked(StopReasonLocal)
}

// ClearData deactivates the active alert, reports DELETED for every
// scheduled alert, drops the scheduled set and clears storage.
func (s *Scheduler) ClearData(reason StopReason) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deactivateActiveAlertLocked(reason)
	s.timer.Cancel()

	for _, alert := range s.scheduled.all() {
		s.notifyObserver(alert.Token(), alert.TypeName(), StateDeleted, "")
	}
	s.scheduled.clear()
	s.storage.ClearDatabase()
}

// GetContextInfo returns the context snapshot reported upstream.
func (s *Scheduler) GetContextInfo() AlertsContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ctx AlertsContext
	for _, alert := range s.scheduled.all() {
		ctx.ScheduledAlerts = append(ctx.ScheduledAlerts, alert.ContextInfo())
	}
	if s.active != nil {
		ctx.ScheduledAlerts = append(ctx.ScheduledAlerts, s.active.ContextInfo())
		ctx.ActiveAlerts = append(ctx.ActiveAlerts, s.active.ContextInfo())
	}
	return ctx
}

// IsAlertActive reports whether the given alert is the active alert and is
// activating or active.
func (s *Scheduler) IsAlertActive(alert *Alert) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isAlertActiveLocked(alert)
}

// HasActiveAlert reports whether the active slot is occupied.
func (s *Scheduler) HasActiveAlert() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

// GetAllAlerts returns a snapshot of scheduled plus active alerts.
func (s *Scheduler) GetAllAlerts() []*Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	alerts := s.scheduled.all()
	if s.active != nil {
		alerts = append(alerts, s.active)
	}
	return alerts
}

// Shutdown drains the executor, cancels the timer and drops all owned
// resources. No callbacks fire after Shutdown returns.
func (s *Scheduler) Shutdown() {
	// The executor is drained outside the mutex: queued tasks take the
	// mutex themselves.
	s.executor.Shutdown()
	s.timer.Cancel()

	s.observer = nil

	s.mu.Lock()
	defer s.mu.Unlock()
	s.storage = nil
	s.renderer = nil
	s.active = nil
	s.scheduled.clear()
}

// OnAlertStateChange receives state-change reports from alerts and their
// renderer. Handling is dispatched onto the executor so it runs serialized
// with other scheduler work.
func (s *Scheduler) OnAlertStateChange(token, alertType string, state State, reason string) {
	s.executor.Submit(func() {
		s.executeOnAlertStateChange(token, alertType, state, reason)
	})
}

func (s *Scheduler) executeOnAlertStateChange(token, alertType string, state State, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch state {
	case StateReady:
		s.notifyObserver(token, alertType, state, reason)

	case StateStarted:
		if s.active != nil && s.active.State() == AlertStateActivating {
			s.active.SetStateActive()
			s.storage.Modify(s.active)
			s.notifyObserver(token, alertType, state, reason)
		}

	case StateStopped, StateCompleted:
		s.notifyObserver(token, alertType, state, reason)
		s.eraseAlertLocked(s.active)
		s.active = nil
		s.setTimerForNextAlertLocked()

	case StateSnoozed:
		if s.active != nil {
			s.storage.Modify(s.active)
			s.scheduled.insert(s.active)
			s.active = nil
		}
		s.notifyObserver(token, alertType, state, reason)
		s.setTimerForNextAlertLocked()

	case StateError:
		// Clear out the alert that had the error, to avoid degenerate
		// repeated alert behavior.
		if s.active != nil && s.active.Token() == token {
			s.eraseAlertLocked(s.active)
			s.active = nil
			s.setTimerForNextAlertLocked()
		} else if alert := s.scheduled.get(token); alert != nil {
			s.eraseAlertLocked(alert)
			s.scheduled.remove(token)
			s.setTimerForNextAlertLocked()
		}
		s.notifyObserver(token, alertType, state, reason)

	case StatePastDue, StateFocusEnteredForeground, StateFocusEnteredBackground, StateDeleted:
		// Scheduler-generated states; an alert never sends these.
	}
}

// notifyObserver forwards a lifecycle event upstream via the executor.
func (s *Scheduler) notifyObserver(token, alertType string, state State, reason string) {
	s.executor.Submit(func() {
		s.executeNotifyObserver(token, alertType, state, reason)
	})
}

func (s *Scheduler) executeNotifyObserver(token, alertType string, state State, reason string) {
	if s.observer == nil {
		return
	}
	s.observer.OnAlertStateChange(token, alertType, state, reason)
}

func (s *Scheduler) deactivateActiveAlertLocked(reason StopReason) {
	if s.active != nil {
		s.active.Deactivate(reason)
	}
}

func (s *Scheduler) setTimerForNextAlert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setTimerForNextAlertLocked()
}

// setTimerForNextAlertLocked re-arms the delay timer for the earliest
// scheduled alert. Any pending fire is cancelled first; no timer runs while
// an alert is active. A zero delay emits READY immediately.
func (s *Scheduler) setTimerForNextAlertLocked() {
	s.timer.Cancel()

	if s.active != nil {
		return
	}
	alert := s.scheduled.front()
	if alert == nil {
		return
	}

	now, err := s.clock.Now()
	if err != nil {
		s.log.Printf("chimelib: arm timer failed: could not get current unix time: %v", err)
		return
	}

	wait := time.Duration(alert.ScheduledTimeUnix()-now) * time.Second
	if wait <= 0 {
		s.notifyObserver(alert.Token(), alert.TypeName(), StateReady, "")
		return
	}

	token, alertType := alert.Token(), alert.TypeName()
	s.timer.Start(wait, func() {
		s.onAlertReady(token, alertType)
	})
}

func (s *Scheduler) onAlertReady(token, alertType string) {
	s.notifyObserver(token, alertType, StateReady, "")
}

// activateNextAlertLocked promotes the earliest scheduled alert into the
// active slot, propagates the current focus to it and asks it to activate.
func (s *Scheduler) activateNextAlertLocked() {
	if s.active != nil {
		s.log.Printf("chimelib: activate failed: an alert is already active")
		return
	}
	alert := s.scheduled.popFront()
	if alert == nil {
		return
	}

	s.active = alert
	s.active.SetFocusState(s.focus)
	s.active.Activate()
}

func (s *Scheduler) isAlertActiveLocked(alert *Alert) bool {
	if s.active == nil || alert == nil {
		return false
	}
	if s.active.Token() != alert.Token() {
		return false
	}
	state := s.active.State()
	return state == AlertStateActivating || state == AlertStateActive
}

// eraseAlertLocked persists the deletion and, on success, reports DELETED.
func (s *Scheduler) eraseAlertLocked(alert *Alert) {
	if alert == nil {
		s.log.Printf("chimelib: erase failed: alert was nil")
		return
	}
	if !s.storage.Erase(alert) {
		s.log.Printf("chimelib: could not erase alert %s from database", alert.Token())
		return
	}
	s.notifyObserver(alert.Token(), alert.TypeName(), StateDeleted, "")
}
