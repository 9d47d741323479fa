//go:build windows

package server

import (
	"github.com/chimed/chimed/common"
)

// pipePath returns the Windows named pipe path.
func pipePath() string {
	return common.PipePath()
}
