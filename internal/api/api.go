// Package api wires the IPC and JSON-RPC transports onto the alert
// scheduler. It implements the engine surface the transports call into,
// observes the scheduler's lifecycle events, fans those events out to
// attached clients, and drives the built-in audio-focus policy.
package api

import (
	"errors"
	"log"
	"time"

	"github.com/chimed/chimed/common"
	"github.com/chimed/chimed/internal/recur"
	"github.com/chimed/chimed/internal/server"
	"github.com/chimed/chimed/pkg/chimelib"
)

var (
	ErrSchedulerInit    = errors.New("could not initialize the alert scheduler")
	ErrScheduleRejected = errors.New("alert was rejected (past-due time or storage failure)")
	ErrSnoozeRejected   = errors.New("alert is not ringing")
	ErrDeleteRejected   = errors.New("could not delete alerts")
	ErrInvalidFocus     = errors.New("focus state must be NONE, BACKGROUND or FOREGROUND")
)

type Api struct {
	log   *log.Logger
	sched *chimelib.Scheduler
	rules *recur.Rules

	pool     *server.Pool
	notifier *server.RPCNotifier
}

// NewApi creates the API layer and initializes the scheduler with it as the
// lifecycle observer. Persisted alerts are restored and recurring rules are
// re-expanded into their next instances.
func NewApi(l *log.Logger, sched *chimelib.Scheduler, rules *recur.Rules) (*Api, error) {
	a := &Api{
		log:   l,
		sched: sched,
		rules: rules,
	}
	if !sched.Initialize(a) {
		return nil, ErrSchedulerInit
	}
	a.restoreRecurrences()
	return a, nil
}

// RegisterHandlers attaches the IPC method handlers and hooks the event
// fan-out into the server's pool and websocket notifier.
func (a *Api) RegisterHandlers(serv *server.Server) {
	a.pool = serv.Pool()
	a.notifier = serv.Notifier()

	serv.RegisterHandler(common.UPDATE_SCHEDULE, a.scheduleHandler)
	serv.RegisterHandler(common.UPDATE_SNOOZE, a.snoozeHandler)
	serv.RegisterHandler(common.UPDATE_DELETE, a.deleteHandler)
	serv.RegisterHandler(common.UPDATE_LIST, a.listHandler)
	serv.RegisterHandler(common.UPDATE_STOP, a.stopHandler)
	serv.RegisterHandler(common.UPDATE_CLEAR, a.clearHandler)
	serv.RegisterHandler(common.UPDATE_ATTACH, a.attachHandler)
	serv.RegisterHandler(common.UPDATE_FOCUS, a.focusHandler)
}

// Close shuts the scheduler down.
func (a *Api) Close() error {
	a.sched.Shutdown()
	return nil
}

// restoreRecurrences re-expands every persisted rule whose current instance
// did not survive the restart (completed, past-due or otherwise dropped).
func (a *Api) restoreRecurrences() {
	alive := make(map[string]bool)
	for _, alert := range a.sched.GetAllAlerts() {
		alive[alert.Token()] = true
	}

	now := time.Now()
	for token, rule := range a.rules.All() {
		if alive[token] {
			continue
		}
		next, err := recur.Next(rule.Expr, now)
		if err != nil {
			a.log.Printf("dropping recurrence rule for %s: %v", token, err)
			_ = a.rules.Remove(token)
			continue
		}
		alert, err := chimelib.NewAlert(token, rule.Type, next.UTC().Format(time.RFC3339))
		if err != nil {
			a.log.Printf("dropping recurrence rule for %s: %v", token, err)
			_ = a.rules.Remove(token)
			continue
		}
		if !a.sched.ScheduleAlert(alert) {
			a.log.Printf("could not restore recurring alert %s", token)
		}
	}
}

// OnAlertStateChange receives every lifecycle event from the scheduler. It
// fans the event out to attached IPC clients and websocket subscribers,
// applies the built-in focus policy, and keeps recurring alerts going.
func (a *Api) OnAlertStateChange(token, alertType string, state chimelib.State, reason string) {
	ev := &common.AlertEvent{
		Token:  token,
		Type:   alertType,
		State:  state.String(),
		Reason: reason,
	}
	if a.pool != nil {
		a.pool.Broadcast(ev)
	}
	if a.notifier != nil {
		a.notifier.BroadcastEvent(ev)
	}

	switch state {
	case chimelib.StateReady:
		// Grant focus so the ready alert starts rendering. A dedicated
		// focus authority can take over through the focus method.
		a.sched.UpdateFocus(chimelib.FocusForeground)

	case chimelib.StateStopped, chimelib.StateCompleted, chimelib.StateSnoozed, chimelib.StateError:
		// Release focus once nothing renders; the next READY re-acquires
		// it. Without the release the next grant would be filtered as an
		// equal transition.
		if !a.sched.HasActiveAlert() {
			a.sched.UpdateFocus(chimelib.FocusNone)
		}
		a.continueRecurrence(token, state)

	case chimelib.StatePastDue:
		a.continueRecurrence(token, state)
	}
}

// continueRecurrence schedules the next instance of a recurring alert after
// its current instance finished. Explicit deletes remove the rule before
// the instance stops, so a finished one-shot simply finds no rule here.
func (a *Api) continueRecurrence(token string, state chimelib.State) {
	rule, ok := a.rules.Get(token)
	if !ok {
		return
	}
	if state == chimelib.StateError {
		a.log.Printf("dropping recurrence rule for %s after renderer error", token)
		_ = a.rules.Remove(token)
		return
	}
	if state == chimelib.StateSnoozed {
		// The snoozed instance is still alive; nothing to expand.
		return
	}
	next, err := recur.Next(rule.Expr, time.Now())
	if err != nil {
		a.log.Printf("dropping recurrence rule for %s: %v", token, err)
		_ = a.rules.Remove(token)
		return
	}
	alert, err := chimelib.NewAlert(token, rule.Type, next.UTC().Format(time.RFC3339))
	if err != nil {
		a.log.Printf("dropping recurrence rule for %s: %v", token, err)
		_ = a.rules.Remove(token)
		return
	}
	if !a.sched.ScheduleAlert(alert) {
		a.log.Printf("could not schedule next instance of recurring alert %s", token)
	}
}

var _ server.AlertEngine = (*Api)(nil)
var _ chimelib.AlertObserver = (*Api)(nil)
