package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/chimed/chimed/common"
	"github.com/chimed/chimed/internal/recur"
	"github.com/chimed/chimed/pkg/chimelib"
)

// defaultAlertType is used when a schedule request does not name one.
const defaultAlertType = "alarm"

// Schedule creates a new alert or moves an existing one (same token) to a
// new time. A request carrying a recurrence expression records the rule and
// schedules its next instance.
func (a *Api) Schedule(p *common.ScheduleParams) (*common.ScheduleResponse, error) {
	token := p.Token
	if token == "" {
		token = uuid.NewString()
	}
	alertType := p.Type
	if alertType == "" {
		alertType = defaultAlertType
	}

	scheduledTime := p.ScheduledTime
	if p.Recurrence != "" {
		if err := recur.Validate(p.Recurrence); err != nil {
			return nil, err
		}
		if scheduledTime == "" {
			next, err := recur.Next(p.Recurrence, time.Now())
			if err != nil {
				return nil, err
			}
			scheduledTime = next.UTC().Format(time.RFC3339)
		}
	}

	alert, err := chimelib.NewAlert(token, alertType, scheduledTime)
	if err != nil {
		return nil, err
	}
	if !a.sched.ScheduleAlert(alert) {
		return nil, ErrScheduleRejected
	}

	if p.Recurrence != "" {
		if err := a.rules.Set(token, recur.Rule{Expr: p.Recurrence, Type: alertType}); err != nil {
			a.log.Printf("could not persist recurrence rule for %s: %v", token, err)
		}
	}

	return &common.ScheduleResponse{
		Token:         token,
		Type:          alertType,
		ScheduledTime: scheduledTime,
	}, nil
}

// Snooze reschedules the ringing alert.
func (a *Api) Snooze(p *common.SnoozeParams) (*common.SnoozeResponse, error) {
	if !a.sched.SnoozeAlert(p.Token, p.ScheduledTime) {
		return nil, ErrSnoozeRejected
	}
	return &common.SnoozeResponse{Token: p.Token}, nil
}

// Delete removes the given tokens. Deleting unknown tokens succeeds; the
// response lists the tokens that actually existed.
func (a *Api) Delete(p *common.DeleteParams) (*common.DeleteResponse, error) {
	existing := make(map[string]bool)
	for _, alert := range a.sched.GetAllAlerts() {
		existing[alert.Token()] = true
	}

	var deleted []string
	for _, token := range p.Tokens {
		// Forget the rule first so the stop path doesn't re-expand it.
		_ = a.rules.Remove(token)
		if existing[token] {
			deleted = append(deleted, token)
		}
	}

	if !a.sched.DeleteAlerts(p.Tokens) {
		return nil, ErrDeleteRejected
	}
	return &common.DeleteResponse{Tokens: deleted}, nil
}

// List returns a snapshot of all alerts, optionally filtered by type.
func (a *Api) List(p *common.ListParams) (*common.ListResponse, error) {
	if p == nil {
		p = &common.ListParams{}
	}
	res := &common.ListResponse{Alerts: []common.AlertInfo{}}
	for _, alert := range a.sched.GetAllAlerts() {
		if p.Type != "" && alert.TypeName() != p.Type {
			continue
		}
		res.Alerts = append(res.Alerts, common.AlertInfo{
			Token:         alert.Token(),
			Type:          alert.TypeName(),
			ScheduledTime: alert.ScheduledTimeISO(),
			State:         alert.State().String(),
			Active:        a.sched.IsAlertActive(alert),
		})
	}
	return res, nil
}

// StopActive stops the ringing alert, if any.
func (a *Api) StopActive() (*common.StopResponse, error) {
	had := a.sched.HasActiveAlert()
	a.sched.OnLocalStop()
	return &common.StopResponse{Stopped: had}, nil
}

// Clear wipes every alert, every recurrence rule and the backing database.
func (a *Api) Clear() (*common.ClearResponse, error) {
	if err := a.rules.Clear(); err != nil {
		a.log.Printf("could not clear recurrence rules: %v", err)
	}
	a.sched.ClearData(chimelib.StopReasonLocal)
	return &common.ClearResponse{Cleared: true}, nil
}

// UpdateFocus applies an external focus decision. Exposed for embedders
// that arbitrate audio focus themselves.
func (a *Api) UpdateFocus(state string) (*common.FocusResponse, error) {
	focus, ok := chimelib.ParseFocusState(state)
	if !ok {
		return nil, ErrInvalidFocus
	}
	a.sched.UpdateFocus(focus)
	return &common.FocusResponse{State: a.sched.GetFocusState().String()}, nil
}
