//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package socket

import (
	"fmt"
	"net"
	"os"

	"okresponder/pkg/config"

	"golang.org/x/sys/unix"
)

func defaultOps() config.SocketOps {
	return config.SocketOps{
		Socket:       createSocket,
		SetReusePort: setReusePort,
		Bind:         bindWildcard,
		Listen:       unix.Listen,
		Close:        unix.Close,
		FileListener: fileListener,
	}
}

func createSocket() (int, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, err
	}
	unix.CloseOnExec(fd)
	return fd, nil
}

func setReusePort(fd int) error {
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
}

// bindWildcard binds fd to 0.0.0.0:port.
func bindWildcard(fd int, port int) error {
	return unix.Bind(fd, &unix.SockaddrInet4{Port: port})
}

func fileListener(fd int) (net.Listener, error) {
	f := os.NewFile(uintptr(fd), fmt.Sprintf("tcp-listener-%d", fd))
	defer f.Close() // net.FileListener works on a dup

	nl, err := net.FileListener(f)
	if err != nil {
		return nil, fmt.Errorf("net.FileListener(): %w", err)
	}
	return nl, nil
}
