package server

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/chimed/chimed/common"
)

func socketPath() string {
	if path := os.Getenv(common.SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "chimed.sock")
}

func forceTCP() bool {
	return os.Getenv(common.ForceTCPEnv) != ""
}

func tcpPort(fallback int) int {
	if v := os.Getenv(common.TCPPortEnv); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			return port
		}
	}
	return fallback
}
