package common

// Environment variable names for configuration.
const (
	// SocketPathEnv is the environment variable for a custom socket path.
	SocketPathEnv = "CHIMED_SOCKET_PATH"

	// TCPPortEnv is the environment variable for a custom TCP port.
	TCPPortEnv = "CHIMED_TCP_PORT"

	// ForceTCPEnv is the environment variable to force TCP connections.
	ForceTCPEnv = "CHIMED_FORCE_TCP"

	// PipeNameEnv is the environment variable for a custom Windows pipe name.
	PipeNameEnv = "CHIMED_PIPE_NAME"

	// DebugEnv is the environment variable to enable debug logging.
	DebugEnv = "CHIMED_DEBUG"
)
