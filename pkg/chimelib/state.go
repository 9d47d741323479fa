package chimelib

// FocusState is the externally arbitrated permission to render audio.
type FocusState int

const (
	// FocusNone means no permission to render.
	FocusNone FocusState = iota
	// FocusBackground allows attenuated rendering.
	FocusBackground
	// FocusForeground allows full rendering.
	FocusForeground
)

func (f FocusState) String() string {
	switch f {
	case FocusNone:
		return "NONE"
	case FocusBackground:
		return "BACKGROUND"
	case FocusForeground:
		return "FOREGROUND"
	}
	return "UNKNOWN"
}

// ParseFocusState converts a wire string into a FocusState.
func ParseFocusState(s string) (FocusState, bool) {
	switch s {
	case "NONE":
		return FocusNone, true
	case "BACKGROUND":
		return FocusBackground, true
	case "FOREGROUND":
		return FocusForeground, true
	}
	return FocusNone, false
}

// StopReason describes why an active alert was asked to stop rendering.
type StopReason int

const (
	// StopReasonRequest is a stop requested by an upstream delete.
	StopReasonRequest StopReason = iota
	// StopReasonLocal is a stop triggered by local user action or focus loss.
	StopReasonLocal
	// StopReasonShutdown is a stop issued while the engine shuts down.
	StopReasonShutdown
)

func (r StopReason) String() string {
	switch r {
	case StopReasonRequest:
		return "REQUEST"
	case StopReasonLocal:
		return "LOCAL"
	case StopReasonShutdown:
		return "SHUTDOWN"
	}
	return "UNKNOWN"
}

// AlertState is the internal lifecycle state of an Alert entity.
type AlertState int

const (
	// AlertStateIdle means the alert is waiting for its scheduled time.
	AlertStateIdle AlertState = iota
	// AlertStateReady means the alert's time has arrived and it awaits focus.
	AlertStateReady
	// AlertStateActivating means the renderer has been asked to start.
	AlertStateActivating
	// AlertStateActive means the renderer confirmed rendering started.
	AlertStateActive
	// AlertStateSnoozing means the alert is stopping so it can be rescheduled.
	AlertStateSnoozing
	// AlertStateStopping means the alert is stopping for good.
	AlertStateStopping
	// AlertStateCompleted means rendering finished naturally.
	AlertStateCompleted
)

func (s AlertState) String() string {
	switch s {
	case AlertStateIdle:
		return "IDLE"
	case AlertStateReady:
		return "READY"
	case AlertStateActivating:
		return "ACTIVATING"
	case AlertStateActive:
		return "ACTIVE"
	case AlertStateSnoozing:
		return "SNOOZING"
	case AlertStateStopping:
		return "STOPPING"
	case AlertStateCompleted:
		return "COMPLETED"
	}
	return "UNKNOWN"
}

// State is the lifecycle state carried by state-change notifications, both
// from alerts toward the scheduler and from the scheduler toward its
// observer.
type State int

const (
	// StateReady means an alert's scheduled time has arrived and it awaits
	// focus before activation.
	StateReady State = iota
	// StateStarted means the renderer confirmed that rendering began.
	StateStarted
	// StateStopped means rendering was stopped on request.
	StateStopped
	// StateCompleted means rendering finished on its own.
	StateCompleted
	// StateSnoozed means the alert was rescheduled to a later time.
	StateSnoozed
	// StatePastDue means an alert was discovered too far past its scheduled
	// time and has been dropped. Generated by the scheduler only.
	StatePastDue
	// StateFocusEnteredForeground reports a foreground focus transition of
	// the active alert. Generated by the scheduler only.
	StateFocusEnteredForeground
	// StateFocusEnteredBackground reports a background focus transition of
	// the active alert. Generated by the scheduler only.
	StateFocusEnteredBackground
	// StateDeleted means the alert was removed. Generated by the scheduler
	// only.
	StateDeleted
	// StateError means the renderer reported a failure for the alert.
	StateError
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	case StateStarted:
		return "STARTED"
	case StateStopped:
		return "STOPPED"
	case StateCompleted:
		return "COMPLETED"
	case StateSnoozed:
		return "SNOOZED"
	case StatePastDue:
		return "PAST_DUE"
	case StateFocusEnteredForeground:
		return "FOCUS_ENTERED_FOREGROUND"
	case StateFocusEnteredBackground:
		return "FOCUS_ENTERED_BACKGROUND"
	case StateDeleted:
		return "DELETED"
	case StateError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// AlertObserver receives lifecycle notifications for alerts. The scheduler
// implements it to receive events from alerts, and upstream consumers
// implement it to receive events from the scheduler.
type AlertObserver interface {
	OnAlertStateChange(token, alertType string, state State, reason string)
}
