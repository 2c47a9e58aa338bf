package config

import (
	"errors"
	"net"
	"testing"
)

func TestGetSocketOps(t *testing.T) {
	t.Parallel()

	errDefault := errors.New("default")
	errCustom := errors.New("custom")

	defaults := SocketOps{
		Socket:       func() (int, error) { return 0, errDefault },
		SetReusePort: func(int) error { return errDefault },
		Bind:         func(int, int) error { return errDefault },
		Listen:       func(int, int) error { return errDefault },
		Close:        func(int) error { return errDefault },
		FileListener: func(int) (net.Listener, error) { return nil, errDefault },
	}

	t.Run("nil deps", func(t *testing.T) {
		t.Parallel()
		ops := GetSocketOps(nil, defaults)
		if _, err := ops.Socket(); err != errDefault {
			t.Errorf("Socket() err = %v; want default", err)
		}
	})

	t.Run("nil sockets", func(t *testing.T) {
		t.Parallel()
		ops := GetSocketOps(&Dependencies{}, defaults)
		if err := ops.Bind(3, 80); err != errDefault {
			t.Errorf("Bind() err = %v; want default", err)
		}
	})

	t.Run("partial override", func(t *testing.T) {
		t.Parallel()
		deps := &Dependencies{Sockets: &SocketOps{
			Bind: func(int, int) error { return errCustom },
		}}
		ops := GetSocketOps(deps, defaults)

		if err := ops.Bind(3, 80); err != errCustom {
			t.Errorf("Bind() err = %v; want custom", err)
		}
		if err := ops.Listen(3, 5); err != errDefault {
			t.Errorf("Listen() err = %v; want default", err)
		}
		if err := ops.SetReusePort(3); err != errDefault {
			t.Errorf("SetReusePort() err = %v; want default", err)
		}
		if err := ops.Close(3); err != errDefault {
			t.Errorf("Close() err = %v; want default", err)
		}
		if _, err := ops.FileListener(3); err != errDefault {
			t.Errorf("FileListener() err = %v; want default", err)
		}
	})
}
