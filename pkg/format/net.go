// Package format renders addresses and payloads for log lines.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// WildcardHost is the IPv4 address meaning every local interface.
const WildcardHost = "0.0.0.0"

// Addr joins host and port, bracketing IPv6 hosts.
func Addr(host string, port int) string {
	if strings.Contains(host, ":") {
		return fmt.Sprintf("[%s]:%d", host, port)
	}
	return host + ":" + strconv.Itoa(port)
}

// Wildcard is the address of a listener bound to all interfaces on port.
func Wildcard(port int) string {
	return Addr(WildcardHost, port)
}

// Payload quotes b for a log line, shortening it to limit bytes.
func Payload(b []byte, limit int) string {
	if limit >= 0 && len(b) > limit {
		return fmt.Sprintf("%q... (%d bytes)", b[:limit], len(b))
	}
	return fmt.Sprintf("%q (%d bytes)", b, len(b))
}
