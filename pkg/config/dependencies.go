package config

import "net"

// Dependencies contains injectable dependencies for testing and customization.
// All fields are optional and will use default implementations if nil.
type Dependencies struct {
	Sockets *SocketOps
}

// SocketOps are the raw socket calls used to set up the listener, one per
// setup step. A nil field falls back to the platform default.
type SocketOps struct {
	// Socket creates an IPv4 stream socket and returns its descriptor.
	Socket SocketFunc
	// SetReusePort enables SO_REUSEPORT on fd.
	SetReusePort SockoptFunc
	// Bind binds fd to the wildcard address on port.
	Bind BindFunc
	// Listen marks fd as listening with the given backlog.
	Listen ListenFunc
	// Close releases fd.
	Close CloseFunc
	// FileListener turns a listening fd into a net.Listener. It takes
	// ownership of fd: fd is closed whether or not it succeeds, and the
	// returned listener owns its own copy of the descriptor.
	FileListener FileListenerFunc
}

// SocketFunc creates a stream socket.
type SocketFunc func() (int, error)

// SockoptFunc sets an option on a socket.
type SockoptFunc func(fd int) error

// BindFunc binds a socket to the wildcard address on the given port.
type BindFunc func(fd int, port int) error

// ListenFunc puts a socket into listening mode.
type ListenFunc func(fd int, backlog int) error

// CloseFunc closes a socket.
type CloseFunc func(fd int) error

// FileListenerFunc wraps a listening socket as a net.Listener.
type FileListenerFunc func(fd int) (net.Listener, error)

// GetSocketOps returns the socket ops from deps with every nil field
// replaced by the matching field of defaults.
func GetSocketOps(deps *Dependencies, defaults SocketOps) SocketOps {
	if deps == nil || deps.Sockets == nil {
		return defaults
	}

	ops := *deps.Sockets
	if ops.Socket == nil {
		ops.Socket = defaults.Socket
	}
	if ops.SetReusePort == nil {
		ops.SetReusePort = defaults.SetReusePort
	}
	if ops.Bind == nil {
		ops.Bind = defaults.Bind
	}
	if ops.Listen == nil {
		ops.Listen = defaults.Listen
	}
	if ops.Close == nil {
		ops.Close = defaults.Close
	}
	if ops.FileListener == nil {
		ops.FileListener = defaults.FileListener
	}
	return ops
}
