//go:build !windows

package chimecli

import (
	"os"
	"path/filepath"

	"github.com/chimed/chimed/common"
)

func socketPath() string {
	if path := os.Getenv(common.SocketPathEnv); path != "" {
		return path
	}
	return filepath.Join(os.TempDir(), "chimed.sock")
}
