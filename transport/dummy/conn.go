package dummy

import (
	"io"
	"net"
	"time"
)

var _ net.Conn = new(Conn)

// Conn is a net.Conn returning the predefined pieces of data on reads, one piece per
// call, and io.EOF afterwards. Everything written into it is journaled, unless it's
// set to Nop.
type Conn struct {
	Data    []byte
	pieces  [][]byte
	err     error
	nop     bool
	closed  bool
	lastDDL time.Time
}

func NewConn(pieces ...[]byte) *Conn {
	return &Conn{pieces: pieces}
}

// Err sets an error returned instead of io.EOF once all the pieces are read.
func (c *Conn) Err(err error) *Conn {
	c.err = err
	return c
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if c.closed {
		return 0, net.ErrClosed
	}

	for len(c.pieces) > 0 && len(c.pieces[0]) == 0 {
		c.pieces = c.pieces[1:]
	}

	if len(c.pieces) == 0 {
		if c.err != nil {
			return 0, c.err
		}

		return 0, io.EOF
	}

	n = copy(b, c.pieces[0])
	c.pieces[0] = c.pieces[0][n:]

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	if !c.nop {
		c.Data = append(c.Data, b...)
	}

	return len(b), nil
}

func (c *Conn) Close() error {
	c.closed = true
	return nil
}

// Closed reports whether Close was called.
func (c *Conn) Closed() bool {
	return c.closed
}

// ReadDeadline returns the last read deadline set.
func (c *Conn) ReadDeadline() time.Time {
	return c.lastDDL
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return nil
}

func (c *Conn) SetDeadline(t time.Time) error {
	c.lastDDL = t
	return nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.lastDDL = t
	return nil
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}

func (c *Conn) Nop() *Conn {
	c.nop = true
	return c
}
