package tcp

import (
	"net"
	"sync/atomic"
)

// MockTCPConn is a mock implementation of net.TCPConn.
type MockTCPConn struct {
	net.Conn
	localAddr  *net.TCPAddr
	remoteAddr *net.TCPAddr
}

// LocalAddr returns the local network address.
func (c *MockTCPConn) LocalAddr() net.Addr {
	if c.localAddr != nil {
		return c.localAddr
	}
	return c.Conn.LocalAddr()
}

// RemoteAddr returns the remote network address.
func (c *MockTCPConn) RemoteAddr() net.Addr {
	if c.remoteAddr != nil {
		return c.remoteAddr
	}
	return c.Conn.RemoteAddr()
}

var _ net.Conn = (*MockTCPConn)(nil)

// FaultyConn wraps a conn and overrides Write. If WriteErr is set every
// write fails with it; if ShortBy is positive writes report that many bytes
// fewer than requested. Closes are counted.
type FaultyConn struct {
	net.Conn
	WriteErr error
	ShortBy  int

	closes atomic.Int32
}

// Write implements net.Conn.
func (c *FaultyConn) Write(b []byte) (int, error) {
	if c.WriteErr != nil {
		return 0, c.WriteErr
	}
	if c.ShortBy > 0 {
		n := len(b) - c.ShortBy
		if n < 0 {
			n = 0
		}
		return n, nil
	}
	return c.Conn.Write(b)
}

// Close implements net.Conn.
func (c *FaultyConn) Close() error {
	c.closes.Add(1)
	return c.Conn.Close()
}

// Closes returns how often Close was called.
func (c *FaultyConn) Closes() int {
	return int(c.closes.Load())
}
