// Package tcp provides mock TCP primitives for testing the serve loop
// without real network connections.
package tcp

import (
	"fmt"
	"net"
	"sync"
	"time"
)

// MockTCPListener is an in-memory net.Listener. Connections are created with
// Dial and handed to Accept through a channel. Accept failures can be queued
// with FailNextAccept.
type MockTCPListener struct {
	addr       *net.TCPAddr
	connCh     chan net.Conn
	acceptedCh chan net.Conn
	closeCh    chan struct{}
	closed     bool

	failures []error
	mu       sync.Mutex
}

// NewMockTCPListener creates a mock listener reporting addr as its address.
func NewMockTCPListener(addr *net.TCPAddr) *MockTCPListener {
	return &MockTCPListener{
		addr:       addr,
		connCh:     make(chan net.Conn, 10),
		acceptedCh: make(chan net.Conn, 16),
		closeCh:    make(chan struct{}),
	}
}

// Accept returns a queued failure if there is one, otherwise waits for the
// next connection.
func (l *MockTCPListener) Accept() (net.Conn, error) {
	l.mu.Lock()
	if len(l.failures) > 0 {
		err := l.failures[0]
		l.failures = l.failures[1:]
		l.mu.Unlock()
		return nil, err
	}
	l.mu.Unlock()

	select {
	case conn := <-l.connCh:
		// Non-blocking so Accept doesn't depend on anybody waiting.
		select {
		case l.acceptedCh <- conn:
		default:
		}

		return conn, nil
	case <-l.closeCh:
		return nil, net.ErrClosed
	}
}

// FailNextAccept makes the next call to Accept return err. Calls queue up.
func (l *MockTCPListener) FailNextAccept(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures = append(l.failures, err)
}

// Dial creates a connected pair of in-memory conns and queues the server
// side for Accept. The client side is returned.
func (l *MockTCPListener) Dial() (net.Conn, error) {
	return l.Enqueue(nil)
}

// Enqueue is like Dial but lets the caller wrap the server side before it
// is handed to Accept.
func (l *MockTCPListener) Enqueue(wrap func(net.Conn) net.Conn) (net.Conn, error) {
	clientConn, serverConn := net.Pipe()

	laddr := &net.TCPAddr{
		IP:   net.IPv4(127, 0, 0, 1),
		Port: 50000 + (int(time.Now().UnixNano()) % 10000), // mock ephemeral port
	}
	client := &MockTCPConn{Conn: clientConn, localAddr: laddr, remoteAddr: l.addr}
	var server net.Conn = &MockTCPConn{Conn: serverConn, localAddr: l.addr, remoteAddr: laddr}
	if wrap != nil {
		server = wrap(server)
	}

	select {
	case l.connCh <- server:
		return client, nil
	case <-l.closeCh:
		clientConn.Close()
		serverConn.Close()
		return nil, fmt.Errorf("connection refused: listener closed")
	case <-time.After(1 * time.Second):
		clientConn.Close()
		serverConn.Close()
		return nil, fmt.Errorf("connection timeout")
	}
}

// Close closes the listener.
func (l *MockTCPListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	close(l.closeCh)

	return nil
}

// Addr returns the listener's network address.
func (l *MockTCPListener) Addr() net.Addr {
	return l.addr
}

var _ net.Listener = (*MockTCPListener)(nil)

// WaitForNewConnection waits until Accept has returned a connection, the
// listener is closed, or the timeout (in milliseconds) elapses.
func (l *MockTCPListener) WaitForNewConnection(timeoutMs int) (net.Conn, error) {
	timeout := time.Duration(timeoutMs) * time.Millisecond

	select {
	case conn := <-l.acceptedCh:
		return conn, nil
	case <-l.closeCh:
		return nil, fmt.Errorf("listener closed")
	case <-time.After(timeout):
		return nil, fmt.Errorf("timeout waiting for new connection on %s", l.addr.String())
	}
}
