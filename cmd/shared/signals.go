package shared

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

// SetupSignalHandling cancels the context on the first interrupt or
// termination signal so the listener gets closed. A second signal, or a
// cleanup taking longer than five seconds, ends the process.
func SetupSignalHandling(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 2)

	// always handle Interrupt (portable)
	sigs := []os.Signal{os.Interrupt}

	// add Unix-only signals
	if runtime.GOOS != "windows" {
		sigs = append(sigs, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
		// a client resetting mid-write must not kill the process
		signal.Ignore(syscall.SIGPIPE)
	}

	signal.Notify(sigCh, sigs...)

	go func() {
		s := <-sigCh
		cancel()

		select {
		case <-sigCh:
			if ss, ok := s.(syscall.Signal); ok {
				os.Exit(128 + int(ss))
			}
			os.Exit(1)
		case <-time.After(5 * time.Second):
			os.Exit(0)
		}
	}()
}
