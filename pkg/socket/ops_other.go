//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package socket

import (
	"errors"
	"fmt"
	"net"
	"runtime"

	"okresponder/pkg/config"
)

// SO_REUSEPORT is not available here, so every step reports unsupported.
func defaultOps() config.SocketOps {
	unsupported := fmt.Errorf("raw sockets on %s: %w", runtime.GOOS, errors.ErrUnsupported)

	return config.SocketOps{
		Socket:       func() (int, error) { return -1, unsupported },
		SetReusePort: func(int) error { return unsupported },
		Bind:         func(int, int) error { return unsupported },
		Listen:       func(int, int) error { return unsupported },
		Close:        func(int) error { return nil },
		FileListener: func(int) (net.Listener, error) { return nil, unsupported },
	}
}
