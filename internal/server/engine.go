package server

import "github.com/chimed/chimed/common"

// AlertEngine is the surface the transports (IPC handlers, JSON-RPC bridge,
// websocket methods) call into. The daemon's API layer implements it on top
// of the alert scheduler.
type AlertEngine interface {
	// Schedule creates a new alert, or moves an existing alert with the
	// same token to a new time. An empty token is minted by the engine.
	Schedule(p *common.ScheduleParams) (*common.ScheduleResponse, error)
	// Snooze reschedules the currently ringing alert.
	Snooze(p *common.SnoozeParams) (*common.SnoozeResponse, error)
	// Delete removes the given tokens and returns the ones that existed.
	Delete(p *common.DeleteParams) (*common.DeleteResponse, error)
	// List returns a snapshot of all alerts.
	List(p *common.ListParams) (*common.ListResponse, error)
	// StopActive stops the currently ringing alert.
	StopActive() (*common.StopResponse, error)
	// Clear wipes every alert and the backing database.
	Clear() (*common.ClearResponse, error)
}
