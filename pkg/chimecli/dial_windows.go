//go:build windows

package chimecli

import (
	"fmt"
	"net"
	"time"

	"github.com/Microsoft/go-winio"

	"github.com/chimed/chimed/common"
)

// dial establishes a connection to the daemon using the named pipe with TCP
// fallback. Transport priority: Named pipe > TCP.
func dial() (net.Conn, error) {
	if forceTCP() {
		debugLog("Force TCP mode enabled")
		return dialFunc("tcp", tcpAddress())
	}
	timeout := 2 * time.Second
	debugLog("Attempting connection via named pipe at %s", common.PipePath())
	conn, pipeErr := winio.DialPipe(common.PipePath(), &timeout)
	if pipeErr != nil {
		debugLog("Named pipe connection failed: %v, falling back to TCP", pipeErr)
		conn, err := dialFunc("tcp", tcpAddress())
		if err != nil {
			return nil, fmt.Errorf("failed to connect: named pipe error: %v; tcp error: %w", pipeErr, err)
		}
		return conn, nil
	}
	return conn, nil
}
