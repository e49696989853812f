package transport

import (
	"net"
	"time"

	"github.com/WhileEndless/gurl/pkg/errors"
)

// idleConn re-arms the socket deadline before every read and write, so the
// timeouts bound idle time per operation rather than the whole request cycle.
// A peer that keeps sending, however slowly, never trips the read timeout.
type idleConn struct {
	net.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func newIdleConn(conn net.Conn, config Config) *idleConn {
	return &idleConn{
		Conn:         conn,
		readTimeout:  readTimeout(config),
		writeTimeout: writeTimeout(config),
	}
}

func (c *idleConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
		return 0, errors.NewTimeoutSetupError("read", err)
	}
	return c.Conn.Read(p)
}

func (c *idleConn) Write(p []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return 0, errors.NewTimeoutSetupError("write", err)
	}
	return c.Conn.Write(p)
}
