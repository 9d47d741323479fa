package common

// ScheduleParams asks the daemon to schedule a new alert, or to move an
// existing alert (same token) to a new time.
type ScheduleParams struct {
	Token         string `json:"token,omitempty"`
	Type          string `json:"type"`
	ScheduledTime string `json:"scheduled_time"`
	// Recurrence is an optional 5-field cron expression. The daemon expands
	// it into discrete alert instances; the engine itself never sees it.
	Recurrence string `json:"recurrence,omitempty"`
}

// ScheduleResponse reports the token of the scheduled alert.
type ScheduleResponse struct {
	Token         string `json:"token"`
	Type          string `json:"type"`
	ScheduledTime string `json:"scheduled_time"`
}

// SnoozeParams reschedules the currently ringing alert.
type SnoozeParams struct {
	Token         string `json:"token"`
	ScheduledTime string `json:"scheduled_time"`
}

// SnoozeResponse acknowledges a snooze request.
type SnoozeResponse struct {
	Token string `json:"token"`
}

// DeleteParams removes one or more alerts by token.
type DeleteParams struct {
	Tokens []string `json:"tokens"`
}

// DeleteResponse acknowledges a delete request.
type DeleteResponse struct {
	Tokens []string `json:"tokens"`
}

// ListParams filters the alert listing.
type ListParams struct {
	Type string `json:"type,omitempty"`
}

// AlertInfo is one alert in a listing.
type AlertInfo struct {
	Token         string `json:"token"`
	Type          string `json:"type"`
	ScheduledTime string `json:"scheduled_time"`
	State         string `json:"state"`
	Active        bool   `json:"active"`
}

// ListResponse is the daemon's alert listing.
type ListResponse struct {
	Alerts []AlertInfo `json:"alerts"`
}

// StopParams stops the currently ringing alert (local stop).
type StopParams struct{}

// StopResponse acknowledges a local stop.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}

// ClearParams wipes every alert and the backing database.
type ClearParams struct{}

// ClearResponse acknowledges a clear request.
type ClearResponse struct {
	Cleared bool `json:"cleared"`
}

// FocusParams applies an audio-focus decision. Intended for focus
// authorities embedding the daemon; the built-in policy drives focus
// automatically.
type FocusParams struct {
	State string `json:"state"`
}

// FocusResponse reports the focus state after the update.
type FocusResponse struct {
	State string `json:"state"`
}

// AttachParams subscribes the connection to the alert event feed.
type AttachParams struct{}

// AttachResponse acknowledges an event-feed subscription.
type AttachResponse struct {
	Attached bool `json:"attached"`
}

// AlertEvent is one lifecycle notification pushed to attached clients.
type AlertEvent struct {
	Token  string `json:"token"`
	Type   string `json:"type"`
	State  string `json:"state"`
	Reason string `json:"reason,omitempty"`
}
