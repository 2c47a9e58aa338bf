// Package server runs the accept loop. Connections are handled strictly one
// at a time: each is answered and closed before the next is accepted.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"okresponder/pkg/config"
	"okresponder/pkg/log"

	"github.com/google/uuid"
)

const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = 1 * time.Second
)

// Handler processes one accepted connection. The server closes the
// connection after the handler returns.
type Handler func(net.Conn) error

// StaticResponse returns a Handler that writes payload in a single Write.
// A failed or short write is reported as an error.
func StaticResponse(payload []byte) Handler {
	return func(conn net.Conn) error {
		n, err := conn.Write(payload)
		if err != nil {
			return fmt.Errorf("Write(): %w", err)
		}
		if n < len(payload) {
			return fmt.Errorf("Write(): %d of %d bytes: %w", n, len(payload), io.ErrShortWrite)
		}
		return nil
	}
}

// Stats counts what happened to connections since the server started.
type Stats struct {
	Accepted       int64
	Served         int64
	SendFailures   int64
	AcceptFailures int64
}

// Server ...
type Server struct {
	ln     net.Listener
	handle Handler
	logger *log.Logger

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error

	accepted       atomic.Int64
	served         atomic.Int64
	sendFailures   atomic.Int64
	acceptFailures atomic.Int64
}

// New creates a server answering every connection on ln with cfg.Response.
// The server takes ownership of ln.
func New(cfg *config.Config, ln net.Listener) *Server {
	return &Server{
		ln:     ln,
		handle: StaticResponse(cfg.Response),
		logger: cfg.Logger,
	}
}

// Serve accepts connections until ctx is cancelled or Close is called, in
// which case it returns nil. Failed accepts are logged and skipped.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = s.Close() })
	defer stop()

	var backoff time.Duration
	for {
		s.logger.InfoMsg("Waiting for a client to connect...\n")

		conn, err := s.ln.Accept()
		if err != nil {
			if s.closed.Load() || errors.Is(err, net.ErrClosed) {
				s.logger.VerboseMsg("Listener closed, leaving accept loop")
				return nil
			}

			s.acceptFailures.Add(1)
			backoff = nextBackoff(backoff)
			s.logger.VerboseMsg("Accept(): %s (next attempt in %s)", err, backoff)
			wait(ctx, backoff)
			continue
		}
		backoff = 0

		s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	id := uuid.NewString()
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.VerboseMsg("Connection %s: Close(): %s", id, err)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			s.sendFailures.Add(1)
			s.logger.ErrorMsg("Handler panic: %v\n", r)
		}
	}()

	s.accepted.Add(1)
	s.logger.InfoMsg("Client connected\n")
	s.logger.VerboseMsg("Connection %s from %s", id, conn.RemoteAddr())

	if err := s.handle(conn); err != nil {
		s.sendFailures.Add(1)
		s.logger.ErrorMsg("Ouch, couldn't send\n")
		s.logger.VerboseMsg("Connection %s: %s", id, err)
		return
	}

	s.served.Add(1)
}

// Close closes the listener, which makes Serve return. Safe to call more than once.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeErr = s.ln.Close()
	})
	return s.closeErr
}

// Stats returns a snapshot of the connection counters.
func (s *Server) Stats() Stats {
	return Stats{
		Accepted:       s.accepted.Load(),
		Served:         s.served.Load(),
		SendFailures:   s.sendFailures.Load(),
		AcceptFailures: s.acceptFailures.Load(),
	}
}

func nextBackoff(d time.Duration) time.Duration {
	if d == 0 {
		return minAcceptBackoff
	}
	d *= 2
	if d > maxAcceptBackoff {
		return maxAcceptBackoff
	}
	return d
}

func wait(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
