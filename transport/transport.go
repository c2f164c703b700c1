package transport

import (
	"net"

	"github.com/hearth-web/hearth/config"
)

// Transport accepts connections and hands them over to submit. Listen blocks until
// Stop is called, or until submit fails, in which case the error is returned.
type Transport interface {
	Bind(addr string) error
	Listen(cfg config.NET, submit func(conn net.Conn) error) error
	Stop()
	Close() error
}
