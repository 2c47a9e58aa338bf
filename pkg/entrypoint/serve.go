// Package entrypoint connects listener setup, diagnostics and the serve loop.
package entrypoint

import (
	"context"
	"fmt"

	"okresponder/pkg/config"
	"okresponder/pkg/format"
	"okresponder/pkg/server"
	"okresponder/pkg/socket"
)

// SetupFailedError is returned by Serve if the listener could not be set up.
// Its message is the user-facing diagnostic for the failed step.
type SetupFailedError struct {
	Kind socket.SetupError
	Port int
}

func (e *SetupFailedError) Error() string {
	switch e.Kind {
	case socket.FailSocket:
		return "Failed to create server socket"
	case socket.FailSockopt:
		return "setsockopt failed"
	case socket.FailBind:
		return fmt.Sprintf("Failed to bind to port %d", e.Port)
	case socket.FailListen:
		return "listen failed"
	default:
		return fmt.Sprintf("setup failed: %s", e.Kind)
	}
}

// Serve sets up the listener and answers connections until ctx is cancelled.
// The listener is closed on every return path.
func Serve(ctx context.Context, cfg *config.Config) error {
	res := socket.Setup(cfg)
	if res.IsFailure() {
		return &SetupFailedError{Kind: res.Err(), Port: cfg.Port}
	}

	ln := res.Value()
	cfg.Logger.VerboseMsg("Listener ready on %s, responding with %s", format.Wildcard(ln.Port()), format.Payload(cfg.Response, 64))

	srv := server.New(cfg, ln)
	defer srv.Close()

	err := srv.Serve(ctx)

	st := srv.Stats()
	cfg.Logger.VerboseMsg("Stopped: %d accepted, %d served, %d send failures, %d accept failures",
		st.Accepted, st.Served, st.SendFailures, st.AcceptFailures)

	if err != nil {
		return fmt.Errorf("serving on port %d: %w", ln.Port(), err)
	}
	return nil
}
