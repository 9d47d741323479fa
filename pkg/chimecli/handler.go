package chimecli

import (
	"encoding/json"

	"github.com/chimed/chimed/common"
)

// Handler defines the interface for processing daemon updates.
// Implementations receive raw JSON messages and are responsible for
// unmarshaling and processing them appropriately.
type Handler interface {
	Handle(json.RawMessage) error
}

// NewEventHandler creates a handler for alert lifecycle events pushed by
// the daemon. The state parameter filters events to those matching the
// given lifecycle state; pass an empty string to receive all events.
func NewEventHandler(state string, callback func(*common.AlertEvent) error) *EventHandler {
	return &EventHandler{
		State:    state,
		Callback: callback,
	}
}

// EventHandler processes alert lifecycle events from the daemon.
type EventHandler struct {
	State    string
	Callback func(*common.AlertEvent) error
}

// Handle processes a raw JSON alert event. It unmarshals the message,
// checks the state filter, and invokes the callback if applicable.
func (h *EventHandler) Handle(m json.RawMessage) error {
	var v common.AlertEvent
	err := json.Unmarshal(m, &v)
	if err != nil {
		return err
	}
	if h.State != "" && v.State != h.State {
		return nil
	}
	return h.Callback(&v)
}
