package chimecli

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"

	"github.com/chimed/chimed/common"
)

// dialFunc is swappable for tests.
var dialFunc = net.Dial

func tcpAddress() string {
	port := common.DefaultTCPPort
	if v := os.Getenv(common.TCPPortEnv); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			port = p
		}
	}
	return fmt.Sprintf("%s:%d", common.TCPHost, port)
}

func forceTCP() bool {
	return os.Getenv(common.ForceTCPEnv) != ""
}

func debugLog(format string, args ...any) {
	if os.Getenv(common.DebugEnv) == "" {
		return
	}
	log.Printf("chimecli: "+format, args...)
}
