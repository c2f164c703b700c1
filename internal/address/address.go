package address

import (
	"strings"
)

const DefaultHost = "0.0.0.0"

// Normalize fills the default host in, if only the port is given. So ":4221" becomes
// "0.0.0.0:4221", and everything else is left as is.
func Normalize(addr string) string {
	if len(stripPort(addr)) == 0 && strings.HasPrefix(addr, ":") {
		return DefaultHost + addr
	}

	return addr
}

func stripPort(addr string) string {
	if colon := strings.LastIndexByte(addr, ':'); colon != -1 {
		return addr[:colon]
	}

	return addr
}
