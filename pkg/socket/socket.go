// Package socket sets up the listening TCP endpoint step by step:
// create, configure, bind, listen. Each step has its own SetupError so the
// caller can tell exactly which one failed.
package socket

import (
	"fmt"
	"net"
	"sync"

	"okresponder/pkg/config"
	"okresponder/pkg/result"
)

// SetupError identifies the setup step that failed.
type SetupError int

const (
	// FailSocket means the socket could not be created.
	FailSocket SetupError = iota + 1
	// FailSockopt means SO_REUSEPORT could not be set.
	FailSockopt
	// FailBind means the socket could not be bound to the port.
	FailBind
	// FailListen means the socket could not be put into listening mode.
	FailListen
)

func (e SetupError) String() string {
	switch e {
	case FailSocket:
		return "socket creation"
	case FailSockopt:
		return "option configuration"
	case FailBind:
		return "bind"
	case FailListen:
		return "listen"
	default:
		return fmt.Sprintf("SetupError(%d)", int(e))
	}
}

// Result is the outcome of Setup.
type Result = result.Result[*Listener, SetupError]

// Listener is a bound, listening TCP socket. It implements net.Listener.
type Listener struct {
	nl      net.Listener
	port    int
	backlog int

	closeOnce sync.Once
	closeErr  error
}

// Accept waits for and returns the next connection.
func (l *Listener) Accept() (net.Conn, error) {
	return l.nl.Accept()
}

// Close closes the listening socket. It is safe to call more than once.
func (l *Listener) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.nl.Close()
	})
	return l.closeErr
}

// Addr returns the local address of the listener.
func (l *Listener) Addr() net.Addr {
	return l.nl.Addr()
}

// Port returns the port the listener is bound to. If the configured port
// was 0 this is the port picked by the kernel.
func (l *Listener) Port() int {
	if addr, ok := l.nl.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return l.port
}

// Backlog returns the backlog the socket was put into listening mode with.
func (l *Listener) Backlog() int {
	return l.backlog
}

var _ net.Listener = (*Listener)(nil)

// Setup runs the setup steps in order and stops at the first failure.
// A descriptor created before a failing step is closed before returning.
// The OS error behind a failure is only written to the verbose log.
func Setup(cfg *config.Config) Result {
	ops := config.GetSocketOps(cfg.Deps, defaultOps())
	logger := cfg.Logger

	fd, err := ops.Socket()
	if err != nil {
		logger.VerboseMsg("socket(AF_INET, SOCK_STREAM): %s", err)
		return result.Failure[*Listener](FailSocket)
	}
	logger.VerboseMsg("Created socket fd=%d", fd)

	fail := func(kind SetupError, op string, err error) Result {
		logger.VerboseMsg("%s: %s", op, err)
		if cerr := ops.Close(fd); cerr != nil {
			logger.VerboseMsg("close(%d): %s", fd, cerr)
		}
		return result.Failure[*Listener](kind)
	}

	if err := ops.SetReusePort(fd); err != nil {
		return fail(FailSockopt, "setsockopt(SO_REUSEPORT)", err)
	}

	if err := ops.Bind(fd, cfg.Port); err != nil {
		return fail(FailBind, fmt.Sprintf("bind(0.0.0.0:%d)", cfg.Port), err)
	}

	if err := ops.Listen(fd, cfg.Backlog); err != nil {
		return fail(FailListen, fmt.Sprintf("listen(%d)", cfg.Backlog), err)
	}

	// FileListener owns fd from here on, whatever the outcome
	nl, err := ops.FileListener(fd)
	if err != nil {
		logger.VerboseMsg("wrapping listening socket: %s", err)
		return result.Failure[*Listener](FailListen)
	}

	l := &Listener{
		nl:      nl,
		port:    cfg.Port,
		backlog: cfg.Backlog,
	}
	logger.VerboseMsg("Listening on %s (backlog %d)", nl.Addr(), cfg.Backlog)

	return result.Success[*Listener, SetupError](l)
}
