// Package common provides shared types and constants used across the chimed
// client-server communication layer.
package common

type UpdateType string

const (
	UPDATE_SCHEDULE UpdateType = "schedule"
	UPDATE_SNOOZE   UpdateType = "snooze"
	UPDATE_DELETE   UpdateType = "delete"
	UPDATE_LIST     UpdateType = "list"
	UPDATE_STOP     UpdateType = "stop"
	UPDATE_CLEAR    UpdateType = "clear"
	UPDATE_ATTACH   UpdateType = "attach"
	UPDATE_FOCUS    UpdateType = "focus"
	UPDATE_EVENT    UpdateType = "alert_event"
)

// TCPHost is the host the TCP fallback listener binds to.
const TCPHost = "127.0.0.1"

// DefaultTCPPort is the fallback TCP port used when the unix socket (or
// named pipe) transport is unavailable.
const DefaultTCPPort = 4380

// MaxMessageSize bounds a single IPC frame. Alert payloads are tiny; the
// cap guards against corrupt length headers.
const MaxMessageSize = 1 << 20
