package tcp

import (
	"net"
	"sync"
)

// RecordingListener wraps a net.Listener and records, in order, every
// successful accept and every close of an accepted connection.
type RecordingListener struct {
	net.Listener

	mu     sync.Mutex
	events []string
}

// NewRecordingListener wraps l.
func NewRecordingListener(l net.Listener) *RecordingListener {
	return &RecordingListener{Listener: l}
}

// Accept implements net.Listener.
func (r *RecordingListener) Accept() (net.Conn, error) {
	conn, err := r.Listener.Accept()
	if err != nil {
		return nil, err
	}
	r.add("accept")
	return &recordingConn{Conn: conn, r: r}, nil
}

// Events returns a copy of the recorded events.
func (r *RecordingListener) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *RecordingListener) add(ev string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

type recordingConn struct {
	net.Conn
	r    *RecordingListener
	once sync.Once
}

func (c *recordingConn) Close() error {
	c.once.Do(func() { c.r.add("close") })
	return c.Conn.Close()
}
