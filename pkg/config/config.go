// Package config holds the fixed settings of the responder and the
// injectable dependencies used to reach the operating system.
package config

import (
	"fmt"

	"okresponder/pkg/log"
)

// DefaultPort is the TCP port the responder listens on.
const DefaultPort = 4221

// DefaultBacklog is the capacity of the pending connection queue.
const DefaultBacklog = 5

// DefaultResponse is written to every accepted connection.
var DefaultResponse = []byte("HTTP/1.1 200 OK\r\n\r\n")

// Config is the startup configuration. It is set once and not changed
// while the server runs.
type Config struct {
	Port     int
	Backlog  int
	Response []byte
	Verbose  bool

	Logger *log.Logger
	Deps   *Dependencies
}

// New returns a Config with the fixed defaults.
func New(verbose bool) *Config {
	resp := make([]byte, len(DefaultResponse))
	copy(resp, DefaultResponse)

	return &Config{
		Port:     DefaultPort,
		Backlog:  DefaultBacklog,
		Response: resp,
		Verbose:  verbose,
		Logger:   log.NewLogger(verbose),
	}
}

// Validate checks the values of c.
// Port 0 is allowed and lets the kernel pick an ephemeral port.
func (c *Config) Validate() []error {
	var errors []error

	if err := validatePort(c.Port); err != nil {
		errors = append(errors, fmt.Errorf("port: %s", err))
	}

	if c.Backlog < 1 {
		errors = append(errors, fmt.Errorf("backlog: %d must be at least 1", c.Backlog))
	}

	if len(c.Response) == 0 {
		errors = append(errors, fmt.Errorf("response: must not be empty"))
	}

	return errors
}
