package socket

import (
	"errors"
	"io"
	"net"
	"sync"
	"testing"

	"okresponder/pkg/config"
	"okresponder/pkg/log"
)

// fakeOps records which setup steps ran and fails the one named in failAt.
type fakeOps struct {
	mu      sync.Mutex
	calls   []string
	closed  []int
	failAt  string
	backlog int
	port    int
}

const fakeFD = 42

var errFake = errors.New("injected failure")

func (f *fakeOps) record(step string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, step)
	if step == f.failAt {
		return errFake
	}
	return nil
}

func (f *fakeOps) ops() *config.SocketOps {
	return &config.SocketOps{
		Socket: func() (int, error) {
			if err := f.record("socket"); err != nil {
				return -1, err
			}
			return fakeFD, nil
		},
		SetReusePort: func(fd int) error { return f.record("sockopt") },
		Bind: func(fd, port int) error {
			f.port = port
			return f.record("bind")
		},
		Listen: func(fd, backlog int) error {
			f.backlog = backlog
			return f.record("listen")
		},
		Close: func(fd int) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.closed = append(f.closed, fd)
			return nil
		},
		FileListener: func(fd int) (net.Listener, error) {
			if err := f.record("wrap"); err != nil {
				return nil, err
			}
			return &stubListener{}, nil
		},
	}
}

type stubListener struct {
	closes int
}

func (s *stubListener) Accept() (net.Conn, error) { return nil, errors.New("stub") }
func (s *stubListener) Close() error              { s.closes++; return nil }
func (s *stubListener) Addr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4zero, Port: 4221}
}

func testConfig(ops *config.SocketOps) *config.Config {
	cfg := config.New(false)
	cfg.Logger = log.NewLoggerTo(io.Discard, true)
	cfg.Deps = &config.Dependencies{Sockets: ops}
	return cfg
}

func TestSetup_StepFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		failAt    string
		want      SetupError
		wantCalls []string
		wantClose bool
	}{
		{"socket", FailSocket, []string{"socket"}, false},
		{"sockopt", FailSockopt, []string{"socket", "sockopt"}, true},
		{"bind", FailBind, []string{"socket", "sockopt", "bind"}, true},
		{"listen", FailListen, []string{"socket", "sockopt", "bind", "listen"}, true},
		// the wrapper owns and closes fd itself
		{"wrap", FailListen, []string{"socket", "sockopt", "bind", "listen", "wrap"}, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.failAt, func(t *testing.T) {
			t.Parallel()

			f := &fakeOps{failAt: tc.failAt}
			res := Setup(testConfig(f.ops()))

			if !res.IsFailure() {
				t.Fatalf("Setup() = %s; want failure", res)
			}
			if got := res.Err(); got != tc.want {
				t.Errorf("Setup() error = %s; want %s", got, tc.want)
			}

			if len(f.calls) != len(tc.wantCalls) {
				t.Fatalf("steps run = %v; want %v", f.calls, tc.wantCalls)
			}
			for i := range tc.wantCalls {
				if f.calls[i] != tc.wantCalls[i] {
					t.Errorf("step %d = %s; want %s", i, f.calls[i], tc.wantCalls[i])
				}
			}

			if tc.wantClose {
				if len(f.closed) != 1 || f.closed[0] != fakeFD {
					t.Errorf("closed fds = %v; want [%d]", f.closed, fakeFD)
				}
			} else if len(f.closed) != 0 {
				t.Errorf("closed fds = %v; want none", f.closed)
			}
		})
	}
}

func TestSetup_Success(t *testing.T) {
	t.Parallel()

	f := &fakeOps{}
	res := Setup(testConfig(f.ops()))

	if !res.IsSuccess() {
		t.Fatalf("Setup() = %s; want success", res)
	}

	l := res.Value()
	if l.Backlog() != 5 || f.backlog != 5 {
		t.Errorf("backlog = %d (listen got %d); want 5", l.Backlog(), f.backlog)
	}
	if f.port != 4221 {
		t.Errorf("bind port = %d; want 4221", f.port)
	}
	if l.Port() != 4221 {
		t.Errorf("Port() = %d; want 4221", l.Port())
	}
	if len(f.closed) != 0 {
		t.Errorf("closed fds = %v; want none on success", f.closed)
	}
}

func TestListener_CloseIdempotent(t *testing.T) {
	t.Parallel()

	stub := &stubListener{}
	l := &Listener{nl: stub}

	if err := l.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close() = %v", err)
	}
	if stub.closes != 1 {
		t.Errorf("underlying Close called %d times; want 1", stub.closes)
	}
}

func TestSetupError_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  SetupError
		want string
	}{
		{FailSocket, "socket creation"},
		{FailSockopt, "option configuration"},
		{FailBind, "bind"},
		{FailListen, "listen"},
		{SetupError(99), "SetupError(99)"},
	}

	for _, tt := range tests {
		if got := tt.err.String(); got != tt.want {
			t.Errorf("SetupError(%d).String() = %q; want %q", int(tt.err), got, tt.want)
		}
	}
}
